package repository

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/farmstand/backend/internal/product/domain"
)

var tracer = otel.Tracer("product-repository")

// GormProductRepositoryWithTracing wraps GormProductRepository with tracing
type GormProductRepositoryWithTracing struct {
	*GormProductRepository
}

// NewGormProductRepositoryWithTracing creates a new repository with tracing
func NewGormProductRepositoryWithTracing(db *gorm.DB) *GormProductRepositoryWithTracing {
	return &GormProductRepositoryWithTracing{
		GormProductRepository: NewGormProductRepository(db),
	}
}

// FindByIDWithContext traces a single-row product lookup.
func (r *GormProductRepositoryWithTracing) FindByIDWithContext(ctx context.Context, id string) (*domain.ProductRow, error) {
	_, span := tracer.Start(ctx, "repository.FindByID",
		trace.WithAttributes(attribute.String("product.id", id)),
	)
	defer span.End()

	row, err := r.GormProductRepository.FindByID(id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.String("product.name", row.Name))
	return row, nil
}

// FindAllWithContext traces a paged product listing.
func (r *GormProductRepositoryWithTracing) FindAllWithContext(ctx context.Context, limit, offset int) ([]domain.ProductRow, error) {
	_, span := tracer.Start(ctx, "repository.FindAll",
		trace.WithAttributes(
			attribute.Int("query.limit", limit),
			attribute.Int("query.offset", offset),
		),
	)
	defer span.End()

	rows, err := r.GormProductRepository.FindAll(limit, offset)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("result.count", len(rows)))
	return rows, nil
}

// InsertWithContext traces a product insert.
func (r *GormProductRepositoryWithTracing) InsertWithContext(ctx context.Context, row map[string]any) error {
	_, span := tracer.Start(ctx, "repository.Insert")
	defer span.End()

	if err := r.GormProductRepository.Insert(row); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}

// UpdateColumnsWithContext traces a partial product update.
func (r *GormProductRepositoryWithTracing) UpdateColumnsWithContext(ctx context.Context, id string, cols map[string]any) error {
	_, span := tracer.Start(ctx, "repository.UpdateColumns",
		trace.WithAttributes(
			attribute.String("product.id", id),
			attribute.Int("update.columns", len(cols)),
		),
	)
	defer span.End()

	if err := r.GormProductRepository.UpdateColumns(id, cols); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	return nil
}
