package mongodb

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const CollectionMemorials = "memorials"

// Connect abre el cliente y asegura los índices de la colección de memoriales.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *mongo.Database, error) {
	c, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, errors.Wrap(err, "error connecting to mongo")
	}
	if err := c.Ping(ctx, nil); err != nil {
		_ = c.Disconnect(ctx)
		return nil, nil, errors.Wrap(err, "error pinging mongo")
	}

	db := c.Database(dbName)
	_, err = db.Collection(CollectionMemorials).Indexes().CreateMany(
		ctx,
		[]mongo.IndexModel{
			{Keys: bson.D{{Key: "is_public", Value: 1}, {Key: "created_at", Value: -1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
		},
	)
	if err != nil {
		_ = c.Disconnect(ctx)
		return nil, nil, errors.Wrapf(err, "error creating indexes on %s", CollectionMemorials)
	}
	return c, db, nil
}
