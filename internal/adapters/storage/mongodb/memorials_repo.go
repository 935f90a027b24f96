package mongodb

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"huellitas/internal/apperr"
	"huellitas/internal/domain/memorials"
)

// toggleRetries acota los reintentos cuando otro request cambia likedBy entre los dos filtros.
const toggleRetries = 3

type postDoc struct {
	ID       string `bson:"_id"`
	UserID   string `bson:"user_id"`
	UserName string `bson:"user_name"`

	PetID      string `bson:"pet_id"`
	PetName    string `bson:"pet_name"`
	PetSpecies string `bson:"pet_species"`
	PetBreed   string `bson:"pet_breed"`
	ImageURL   string `bson:"image_url"`

	Message  string `bson:"message"`
	IsPublic bool   `bson:"is_public"`

	Likes    int          `bson:"likes"`
	LikedBy  []string     `bson:"liked_by"`
	Comments []commentDoc `bson:"comments"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type commentDoc struct {
	ID        string    `bson:"id"`
	UserID    string    `bson:"user_id"`
	UserName  string    `bson:"user_name"`
	Text      string    `bson:"text"`
	CreatedAt time.Time `bson:"created_at"`
}

// collection es la parte de *mongo.Collection que usa el repo.
type collection interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
	FindOne(ctx context.Context, filter interface{}, opts ...*options.FindOneOptions) *mongo.SingleResult
	Find(ctx context.Context, filter interface{}, opts ...*options.FindOptions) (*mongo.Cursor, error)
	FindOneAndUpdate(ctx context.Context, filter interface{}, update interface{}, opts ...*options.FindOneAndUpdateOptions) *mongo.SingleResult
	CountDocuments(ctx context.Context, filter interface{}, opts ...*options.CountOptions) (int64, error)
	DeleteOne(ctx context.Context, filter interface{}, opts ...*options.DeleteOptions) (*mongo.DeleteResult, error)
}

type MemorialsRepo struct {
	coll collection
}

func NewMemorialsRepo(db *mongo.Database) *MemorialsRepo {
	return &MemorialsRepo{coll: db.Collection(CollectionMemorials)}
}

func (r *MemorialsRepo) Create(ctx context.Context, p memorials.Post) error {
	if _, err := r.coll.InsertOne(ctx, fromPost(p)); err != nil {
		return errors.Wrapf(err, "error inserting memorial post: %s", p.ID)
	}
	return nil
}

func (r *MemorialsRepo) GetByID(ctx context.Context, id string) (memorials.Post, error) {
	var d postDoc
	err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return memorials.Post{}, errPostNotFound()
		}
		return memorials.Post{}, errors.Wrapf(err, "error finding memorial post: %s", id)
	}
	return d.toPost(), nil
}

func (r *MemorialsRepo) ListPublic(ctx context.Context, limit int) ([]memorials.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return r.find(ctx, bson.M{"is_public": true}, opts)
}

func (r *MemorialsRepo) ListByUser(ctx context.Context, userID string) ([]memorials.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	return r.find(ctx, bson.M{"user_id": userID}, opts)
}

// ToggleLike usa dos updates condicionados sobre liked_by: cada uno es atómico en el
// documento, así que likes y liked_by nunca divergen.
func (r *MemorialsRepo) ToggleLike(ctx context.Context, postID, userID string, at time.Time) (memorials.Post, bool, error) {
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)

	for i := 0; i < toggleRetries; i++ {
		var d postDoc
		err := r.coll.FindOneAndUpdate(ctx,
			bson.M{"_id": postID, "liked_by": userID},
			bson.M{
				"$pull": bson.M{"liked_by": userID},
				"$inc":  bson.M{"likes": -1},
				"$set":  bson.M{"updated_at": at},
			},
			after,
		).Decode(&d)
		if err == nil {
			return d.toPost(), false, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return memorials.Post{}, false, errors.Wrapf(err, "error removing like, post: %s, user: %s", postID, userID)
		}

		err = r.coll.FindOneAndUpdate(ctx,
			bson.M{"_id": postID, "liked_by": bson.M{"$ne": userID}},
			bson.M{
				"$addToSet": bson.M{"liked_by": userID},
				"$inc":      bson.M{"likes": 1},
				"$set":      bson.M{"updated_at": at},
			},
			after,
		).Decode(&d)
		if err == nil {
			return d.toPost(), true, nil
		}
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return memorials.Post{}, false, errors.Wrapf(err, "error adding like, post: %s, user: %s", postID, userID)
		}

		// ninguno aplicó: o no existe el post o hubo carrera con otro toggle
		n, err := r.coll.CountDocuments(ctx, bson.M{"_id": postID})
		if err != nil {
			return memorials.Post{}, false, errors.Wrapf(err, "error counting memorial post: %s", postID)
		}
		if n == 0 {
			return memorials.Post{}, false, errPostNotFound()
		}
	}
	return memorials.Post{}, false, apperr.Newf(apperr.KindPersistence, "like toggle contended on post %s", postID)
}

func (r *MemorialsRepo) AppendComment(ctx context.Context, postID string, c memorials.Comment, at time.Time) (memorials.Post, error) {
	var d postDoc
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": postID},
		bson.M{
			"$push": bson.M{"comments": fromComment(c)},
			"$set":  bson.M{"updated_at": at},
		},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&d)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return memorials.Post{}, errPostNotFound()
		}
		return memorials.Post{}, errors.Wrapf(err, "error appending comment to post: %s", postID)
	}
	return d.toPost(), nil
}

func (r *MemorialsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return errors.Wrapf(err, "error deleting memorial post: %s", id)
	}
	if res.DeletedCount == 0 {
		return errPostNotFound()
	}
	return nil
}

func (r *MemorialsRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]memorials.Post, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrapf(err, "error getting cursor to find memorial posts, filter: %v", filter)
	}
	var docs []postDoc
	if err = cur.All(ctx, &docs); err != nil {
		return nil, errors.Wrapf(err, "error getting memorial posts from cursor, filter: %v", filter)
	}
	out := make([]memorials.Post, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.toPost())
	}
	return out, nil
}

func errPostNotFound() error {
	return apperr.New(apperr.KindNotFound, "post not found")
}

func fromPost(p memorials.Post) postDoc {
	d := postDoc{
		ID:         p.ID,
		UserID:     p.UserID,
		UserName:   p.UserName,
		PetID:      p.PetID,
		PetName:    p.PetName,
		PetSpecies: p.PetSpecies,
		PetBreed:   p.PetBreed,
		ImageURL:   p.ImageURL,
		Message:    p.Message,
		IsPublic:   p.IsPublic,
		Likes:      p.Likes,
		LikedBy:    append([]string{}, p.LikedBy...),
		Comments:   make([]commentDoc, 0, len(p.Comments)),
		CreatedAt:  p.CreatedAt,
		UpdatedAt:  p.UpdatedAt,
	}
	for _, c := range p.Comments {
		d.Comments = append(d.Comments, fromComment(c))
	}
	return d
}

func fromComment(c memorials.Comment) commentDoc {
	return commentDoc{
		ID:        c.ID,
		UserID:    c.UserID,
		UserName:  c.UserName,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
	}
}

func (d postDoc) toPost() memorials.Post {
	p := memorials.Post{
		ID:         d.ID,
		UserID:     d.UserID,
		UserName:   d.UserName,
		PetID:      d.PetID,
		PetName:    d.PetName,
		PetSpecies: d.PetSpecies,
		PetBreed:   d.PetBreed,
		ImageURL:   d.ImageURL,
		Message:    d.Message,
		IsPublic:   d.IsPublic,
		Likes:      d.Likes,
		LikedBy:    append([]string{}, d.LikedBy...),
		Comments:   make([]memorials.Comment, 0, len(d.Comments)),
		CreatedAt:  d.CreatedAt,
		UpdatedAt:  d.UpdatedAt,
	}
	for _, c := range d.Comments {
		p.Comments = append(p.Comments, memorials.Comment{
			ID:        c.ID,
			UserID:    c.UserID,
			UserName:  c.UserName,
			Text:      c.Text,
			CreatedAt: c.CreatedAt,
		})
	}
	return p
}
