package command

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmstand/backend/internal/inventory/domain"
	"github.com/farmstand/backend/kafka"
)

type fakeInventoryRepo struct {
	items      map[string]*domain.InventoryItemRow
	updateErr  error
	alert      *domain.InventoryAlertRow
	lastUpdate *domain.StockUpdateRequest
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{items: make(map[string]*domain.InventoryItemRow)}
}

func (f *fakeInventoryRepo) CreateItem(row *domain.InventoryItemRow) error {
	f.items[row.ID] = row
	return nil
}

func (f *fakeInventoryRepo) FindItemByID(id string) (*domain.InventoryItemRow, error) {
	item, ok := f.items[id]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}

func (f *fakeInventoryRepo) FindItemByProductID(productID string) (*domain.InventoryItemRow, error) {
	for _, item := range f.items {
		if item.ProductID == productID {
			return item, nil
		}
	}
	return nil, domain.ErrItemNotFound
}

func (f *fakeInventoryRepo) FindAllItems(limit, offset int) ([]domain.InventoryItemRow, error) {
	var rows []domain.InventoryItemRow
	for _, item := range f.items {
		rows = append(rows, *item)
	}
	return rows, nil
}

func (f *fakeInventoryRepo) UpdateStockAtomic(req domain.StockUpdateRequest, performedBy string) (*domain.StockUpdateResult, *domain.InventoryAlertRow, error) {
	f.lastUpdate = &req
	if f.updateErr != nil {
		return nil, nil, f.updateErr
	}
	item, ok := f.items[req.ItemID]
	if !ok {
		return nil, nil, domain.ErrItemNotFound
	}

	newStock := item.CurrentStock
	switch req.Operation {
	case domain.OperationAdd:
		newStock += req.Quantity
	case domain.OperationSubtract:
		newStock -= req.Quantity
	case domain.OperationSet:
		newStock = req.Quantity
	}
	if newStock < 0 {
		return nil, nil, domain.ErrInsufficientStock
	}
	item.CurrentStock = newStock

	return &domain.StockUpdateResult{
		ItemID:   req.ItemID,
		Success:  true,
		NewStock: newStock,
		Message:  "Stock updated",
	}, f.alert, nil
}

func (f *fakeInventoryRepo) ListMovements(itemID string, limit, offset int) ([]domain.StockMovementRow, error) {
	return nil, nil
}

func (f *fakeInventoryRepo) ListActiveAlerts(limit, offset int) ([]domain.InventoryAlertRow, error) {
	return nil, nil
}

type fakeAlertPublisher struct {
	events []kafka.LowStockAlertEvent
}

func (f *fakeAlertPublisher) PublishLowStockAlert(ctx context.Context, event kafka.LowStockAlertEvent) error {
	f.events = append(f.events, event)
	return nil
}

func seedItem(repo *fakeInventoryRepo, stock int) *domain.InventoryItemRow {
	item := &domain.InventoryItemRow{
		ID:           uuid.NewString(),
		ProductID:    uuid.NewString(),
		CurrentStock: stock,
		MinimumStock: 5,
		ReorderPoint: 20,
	}
	repo.items[item.ID] = item
	return item
}

func validUpdate(itemID string) domain.StockUpdateRequest {
	return domain.StockUpdateRequest{
		ItemID:       itemID,
		Operation:    domain.OperationSubtract,
		Quantity:     10,
		MovementType: domain.MovementSale,
	}
}

func TestRecordMovementSuccess(t *testing.T) {
	repo := newFakeInventoryRepo()
	item := seedItem(repo, 50)
	handler := NewRecordMovementHandler(repo, nil)

	result, err := handler.Handle(context.Background(), validUpdate(item.ID), "staff-1")
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 40, result.NewStock)
}

func TestRecordMovementInsufficientStockIsResultNotError(t *testing.T) {
	repo := newFakeInventoryRepo()
	item := seedItem(repo, 5)
	handler := NewRecordMovementHandler(repo, nil)

	req := validUpdate(item.ID)
	req.Quantity = 10

	result, err := handler.Handle(context.Background(), req, "staff-1")
	require.NoError(t, err, "a business rejection is a result, not an error")
	assert.False(t, result.Success)
	assert.Equal(t, "Insufficient stock", result.Message)
	assert.Equal(t, item.ID, result.ItemID)
}

func TestRecordMovementRowLockedIsResultNotError(t *testing.T) {
	repo := newFakeInventoryRepo()
	item := seedItem(repo, 50)
	repo.updateErr = domain.ErrRowLocked
	handler := NewRecordMovementHandler(repo, nil)

	result, err := handler.Handle(context.Background(), validUpdate(item.ID), "staff-1")
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.Equal(t, domain.ErrRowLocked.Error(), result.Message)
}

func TestRecordMovementRejectsInvalidRequest(t *testing.T) {
	repo := newFakeInventoryRepo()
	handler := NewRecordMovementHandler(repo, nil)

	req := validUpdate(uuid.NewString())
	req.Operation = "increment"

	_, err := handler.Handle(context.Background(), req, "staff-1")
	assert.Error(t, err)
	assert.Nil(t, repo.lastUpdate, "invalid requests never reach the repository")
}

func TestRecordMovementPublishesAlert(t *testing.T) {
	repo := newFakeInventoryRepo()
	item := seedItem(repo, 50)
	repo.alert = &domain.InventoryAlertRow{
		ID:              uuid.NewString(),
		InventoryItemID: item.ID,
		AlertType:       domain.AlertLow,
		Message:         "Low stock",
	}
	publisher := &fakeAlertPublisher{}
	handler := NewRecordMovementHandler(repo, publisher)

	_, err := handler.Handle(context.Background(), validUpdate(item.ID), "staff-1")
	require.NoError(t, err)

	require.Len(t, publisher.events, 1)
	assert.Equal(t, item.ID, publisher.events[0].InventoryItemID)
	assert.Equal(t, domain.AlertLow, publisher.events[0].AlertType)
	assert.Equal(t, item.ProductID, publisher.events[0].ProductID)
}

func TestBatchUpdateReportsPerItemResults(t *testing.T) {
	repo := newFakeInventoryRepo()
	healthy := seedItem(repo, 50)
	starved := seedItem(repo, 2)
	handler := NewBatchUpdateHandler(NewRecordMovementHandler(repo, nil))

	req := domain.BulkStockUpdateRequest{Updates: []domain.StockUpdateRequest{
		validUpdate(healthy.ID),
		validUpdate(starved.ID),
	}}

	results, err := handler.Handle(context.Background(), req, "staff-1")
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.True(t, results[0].Success)
	assert.Equal(t, 40, results[0].NewStock)

	assert.False(t, results[1].Success)
	assert.Equal(t, "Insufficient stock", results[1].Message)
}
