package command

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmstand/backend/internal/order/domain"
	productdomain "github.com/farmstand/backend/internal/product/domain"
	"github.com/farmstand/backend/kafka"
)

type fakeProductRepo struct {
	rows map[string]productdomain.ProductRow
}

func newFakeProductRepo(rows ...productdomain.ProductRow) *fakeProductRepo {
	repo := &fakeProductRepo{rows: make(map[string]productdomain.ProductRow)}
	for _, row := range rows {
		repo.rows[row.ID] = row
	}
	return repo
}

func (f *fakeProductRepo) Insert(row map[string]any) error                    { return nil }
func (f *fakeProductRepo) UpdateColumns(id string, cols map[string]any) error { return nil }

func (f *fakeProductRepo) FindByID(id string) (*productdomain.ProductRow, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, productdomain.ErrProductNotFound
	}
	return &row, nil
}

func (f *fakeProductRepo) FindByIDs(ids []string) ([]productdomain.ProductRow, error) {
	var rows []productdomain.ProductRow
	for _, id := range ids {
		if row, ok := f.rows[id]; ok {
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (f *fakeProductRepo) FindAll(limit, offset int) ([]productdomain.ProductRow, error) {
	return nil, nil
}

func (f *fakeProductRepo) FindByCategory(categoryID string, limit, offset int) ([]productdomain.ProductRow, error) {
	return nil, nil
}

func (f *fakeProductRepo) Delete(id string) error { return nil }
func (f *fakeProductRepo) Count() (int64, error)  { return int64(len(f.rows)), nil }

func (f *fakeProductRepo) InsertCategory(row map[string]any) error                    { return nil }
func (f *fakeProductRepo) UpdateCategoryColumns(id string, cols map[string]any) error { return nil }
func (f *fakeProductRepo) FindCategoryByID(id string) (*productdomain.CategoryRow, error) {
	return nil, productdomain.ErrProductNotFound
}
func (f *fakeProductRepo) FindAllCategories() ([]productdomain.CategoryRow, error) { return nil, nil }

type fakeOrderRepo struct {
	submitted *domain.OrderRow
	conflicts []domain.InventoryConflict
}

func (f *fakeOrderRepo) Submit(order *domain.OrderRow) ([]domain.InventoryConflict, error) {
	if len(f.conflicts) > 0 {
		return f.conflicts, nil
	}
	f.submitted = order
	return nil, nil
}

func (f *fakeOrderRepo) FindByID(id string) (*domain.OrderRow, error) {
	if f.submitted != nil && f.submitted.ID == id {
		return f.submitted, nil
	}
	return nil, domain.ErrOrderNotFound
}

func (f *fakeOrderRepo) FindByUser(userID string, limit, offset int) ([]domain.OrderRow, error) {
	return nil, nil
}
func (f *fakeOrderRepo) FindAll(limit, offset int) ([]domain.OrderRow, error) { return nil, nil }
func (f *fakeOrderRepo) UpdateStatus(id, status string, now time.Time) error  { return nil }
func (f *fakeOrderRepo) Count() (int64, error)                                { return 0, nil }

type fakeOrderPublisher struct {
	events []kafka.OrderPlacedEvent
}

func (f *fakeOrderPublisher) PublishOrderPlaced(ctx context.Context, event kafka.OrderPlacedEvent) error {
	f.events = append(f.events, event)
	return nil
}

func productRow(price float64) productdomain.ProductRow {
	available := true
	return productdomain.ProductRow{
		ID:          uuid.NewString(),
		Name:        "Heirloom Tomatoes",
		Price:       price,
		IsAvailable: &available,
	}
}

func orderRequest(items ...domain.CreateOrderItemRequest) domain.CreateOrderRequest {
	return domain.CreateOrderRequest{
		CustomerName:    "Dana Miller",
		CustomerEmail:   "dana@example.com",
		FulfillmentType: domain.FulfillmentPickup,
		Items:           items,
	}
}

func TestSubmitOrderPricesLinesServerSide(t *testing.T) {
	tomato := productRow(4.50)
	products := newFakeProductRepo(tomato)
	orders := &fakeOrderRepo{}
	publisher := &fakeOrderPublisher{}
	handler := NewSubmitOrderHandler(orders, products, publisher, 0.0825)

	order, conflicts, err := handler.Handle(context.Background(), "user-1",
		orderRequest(domain.CreateOrderItemRequest{ProductID: tomato.ID, Quantity: 3}))

	require.NoError(t, err)
	assert.Empty(t, conflicts)
	require.NotNil(t, order)

	assert.Equal(t, domain.StatusPending, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 4.50, order.Items[0].UnitPrice)
	assert.Equal(t, 13.50, order.Items[0].TotalPrice)
	assert.Equal(t, 13.50, order.Subtotal)
	assert.Equal(t, 1.11, order.TaxAmount)
	assert.Equal(t, 14.61, order.TotalAmount)

	require.NotNil(t, orders.submitted, "the order reached the repository")
	require.Len(t, publisher.events, 1)
	assert.Equal(t, order.ID, publisher.events[0].OrderID)
	assert.Equal(t, 14.61, publisher.events[0].TotalAmount)
}

func TestSubmitOrderUnknownProductIsConflict(t *testing.T) {
	products := newFakeProductRepo()
	orders := &fakeOrderRepo{}
	handler := NewSubmitOrderHandler(orders, products, nil, 0.0825)

	missing := uuid.NewString()
	_, conflicts, err := handler.Handle(context.Background(), "user-1",
		orderRequest(domain.CreateOrderItemRequest{ProductID: missing, Quantity: 2}))

	assert.ErrorIs(t, err, domain.ErrInventoryConflict)
	require.Len(t, conflicts, 1)
	assert.Equal(t, missing, conflicts[0].ProductID)
	assert.Equal(t, 2, conflicts[0].Requested)
	assert.Equal(t, 0, conflicts[0].Available)
	assert.Nil(t, orders.submitted, "nothing persisted on conflict")
}

func TestSubmitOrderUnavailableProductIsConflict(t *testing.T) {
	row := productRow(4.50)
	unavailable := false
	row.IsAvailable = &unavailable
	products := newFakeProductRepo(row)
	handler := NewSubmitOrderHandler(&fakeOrderRepo{}, products, nil, 0.0825)

	_, conflicts, err := handler.Handle(context.Background(), "user-1",
		orderRequest(domain.CreateOrderItemRequest{ProductID: row.ID, Quantity: 1}))

	assert.ErrorIs(t, err, domain.ErrInventoryConflict)
	require.Len(t, conflicts, 1)
	assert.Equal(t, row.Name, conflicts[0].ProductName)
}

func TestSubmitOrderRepositoryConflictsPropagate(t *testing.T) {
	row := productRow(4.50)
	products := newFakeProductRepo(row)
	orders := &fakeOrderRepo{conflicts: []domain.InventoryConflict{
		{ProductID: row.ID, ProductName: row.Name, Requested: 3, Available: 1},
	}}
	handler := NewSubmitOrderHandler(orders, products, nil, 0.0825)

	_, conflicts, err := handler.Handle(context.Background(), "user-1",
		orderRequest(domain.CreateOrderItemRequest{ProductID: row.ID, Quantity: 3}))

	assert.ErrorIs(t, err, domain.ErrInventoryConflict)
	require.Len(t, conflicts, 1)
	assert.Equal(t, 1, conflicts[0].Available)
}

func TestSubmitOrderRejectsDeliveryWithoutAddress(t *testing.T) {
	row := productRow(4.50)
	handler := NewSubmitOrderHandler(&fakeOrderRepo{}, newFakeProductRepo(row), nil, 0.0825)

	req := orderRequest(domain.CreateOrderItemRequest{ProductID: row.ID, Quantity: 1})
	req.FulfillmentType = domain.FulfillmentDelivery

	_, _, err := handler.Handle(context.Background(), "user-1", req)
	assert.Error(t, err)
}
