package command

import (
	"context"

	"github.com/farmstand/backend/internal/inventory/domain"
	"github.com/farmstand/backend/pkg/schema"
)

// BatchUpdateHandler applies a batch of stock updates. Each update is
// its own atomic operation: one failure does not roll back the others,
// and every entry reports its own result.
type BatchUpdateHandler struct {
	record *RecordMovementHandler
}

// NewBatchUpdateHandler creates a new batch update handler
func NewBatchUpdateHandler(record *RecordMovementHandler) *BatchUpdateHandler {
	return &BatchUpdateHandler{record: record}
}

// Handle validates the batch and applies the updates in order.
func (h *BatchUpdateHandler) Handle(ctx context.Context, req domain.BulkStockUpdateRequest, performedBy string) ([]domain.StockUpdateResult, error) {
	if err := schema.Validate(&req, schema.Strict); err != nil {
		return nil, err
	}

	results := make([]domain.StockUpdateResult, 0, len(req.Updates))
	for _, update := range req.Updates {
		result, err := h.record.Handle(ctx, update, performedBy)
		if err != nil {
			results = append(results, domain.StockUpdateResult{
				ItemID:  update.ItemID,
				Success: false,
				Message: err.Error(),
			})
			continue
		}
		results = append(results, *result)
	}
	return results, nil
}
