package clinical

import (
	"context"
)

type Repository interface {
	List(ctx context.Context) ([]*MedicalRecord, error)
	GetByID(ctx context.Context, id string) (*MedicalRecord, error)
}

type Store interface {
	Repository
	Upsert(ctx context.Context, r *MedicalRecord) error
}
