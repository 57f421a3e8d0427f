package repository

import (
	"context"

	"github.com/guardline/backend/internal/domain/entity"
)

// ReportStore persists incident report documents.
type ReportStore interface {
	Insert(ctx context.Context, r *entity.Report) error
	GetByID(ctx context.Context, id string) (*entity.Report, error)
	List(ctx context.Context, limit int) ([]*entity.Report, error)
	UpdateStatus(ctx context.Context, id, status string) error
}
