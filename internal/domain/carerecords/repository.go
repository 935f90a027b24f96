package carerecords

import "context"

type Repository interface {
	Create(ctx context.Context, r Record) error
	Update(ctx context.Context, r Record) error
	GetByID(ctx context.Context, id string) (Record, error)
	Delete(ctx context.Context, id string) error
	ListByPet(ctx context.Context, petID string, category Category) ([]Record, error)
}
