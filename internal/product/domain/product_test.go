package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/farmstand/backend/pkg/schema"
)

func intPtr(v int) *int          { return &v }
func strPtr(v string) *string    { return &v }
func boolPtr(v bool) *bool       { return &v }
func floatPtr(v float64) *float64 { return &v }

func validRow() ProductRow {
	now := time.Now()
	return ProductRow{
		ID:        uuid.NewString(),
		Name:      "Heirloom Tomatoes",
		Price:     4.50,
		CreatedAt: &now,
		UpdatedAt: &now,
	}
}

func TestProductRowValidation(t *testing.T) {
	t.Run("valid row passes", func(t *testing.T) {
		row := validRow()
		assert.NoError(t, schema.Validate(&row, schema.Strict))
	})

	t.Run("negative price fails", func(t *testing.T) {
		row := validRow()
		row.Price = -1
		err := schema.Validate(&row, schema.Strict)
		require.Error(t, err)

		issues := schema.IssuesOf(err)
		require.Len(t, issues, 1)
		assert.Equal(t, "price", issues[0].Field)
	})

	t.Run("negative stock fails but null stock passes", func(t *testing.T) {
		row := validRow()
		row.StockQuantity = intPtr(-3)
		assert.Error(t, schema.Validate(&row, schema.Strict))

		row.StockQuantity = nil
		assert.NoError(t, schema.Validate(&row, schema.Strict))
	})
}

func TestToProductDefaults(t *testing.T) {
	row := validRow()

	product := row.ToProduct(nil)

	assert.Equal(t, row.ID, product.ID)
	assert.Equal(t, "", product.Description)
	assert.True(t, product.IsAvailable, "null is_available defaults to true")
	assert.False(t, product.IsPreOrder, "null is_pre_order defaults to false")
	assert.Nil(t, product.StockQuantity, "null stock stays null, never zero")
	assert.False(t, product.Category.IsPresent())
}

func TestToProductCategoryJoin(t *testing.T) {
	row := validRow()
	category := CategoryRow{ID: uuid.NewString(), Name: "Vegetables"}

	product := row.ToProduct(&category)

	joined, ok := product.Category.Get()
	require.True(t, ok)
	assert.Equal(t, "Vegetables", joined.Name)
}

func TestToProductAbsentCategoryMarshalsNull(t *testing.T) {
	row := validRow()
	raw, err := json.Marshal(row.ToProduct(nil))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	val, present := decoded["category"]
	assert.True(t, present)
	assert.Nil(t, val)
}

func TestToProductIdempotent(t *testing.T) {
	row := validRow()
	row.StockQuantity = intPtr(7)
	row.Description = strPtr("from the back field")

	first := row.ToProduct(nil)
	second := row.ToProduct(nil)
	assert.Equal(t, first, second)
}

func TestCanAddToCart(t *testing.T) {
	t.Run("unavailable product rejected", func(t *testing.T) {
		p := Product{IsAvailable: false, StockQuantity: intPtr(10)}
		assert.ErrorIs(t, p.CanAddToCart(1), ErrProductUnavailable)
	})

	t.Run("quantity above stock rejected", func(t *testing.T) {
		p := Product{IsAvailable: true, StockQuantity: intPtr(5)}
		assert.ErrorIs(t, p.CanAddToCart(6), ErrExceedsStock)
	})

	t.Run("quantity at stock allowed", func(t *testing.T) {
		p := Product{IsAvailable: true, StockQuantity: intPtr(5)}
		assert.NoError(t, p.CanAddToCart(5))
	})

	t.Run("zero stock rejects any quantity", func(t *testing.T) {
		p := Product{IsAvailable: true, StockQuantity: intPtr(0)}
		assert.ErrorIs(t, p.CanAddToCart(1), ErrExceedsStock)
	})

	t.Run("null stock means no ceiling", func(t *testing.T) {
		p := Product{IsAvailable: true}
		assert.NoError(t, p.CanAddToCart(10000))
	})
}

func TestPreOrderRefinement(t *testing.T) {
	base := AdminCreateProductRequest{
		Name:  "CSA Box",
		Price: 30,
	}

	t.Run("non pre-order needs no bounds", func(t *testing.T) {
		req := base
		assert.NoError(t, schema.Validate(&req, schema.Strict))
	})

	t.Run("pre-order without bounds reports both fields", func(t *testing.T) {
		req := base
		req.IsPreOrder = true
		err := schema.Validate(&req, schema.Strict)
		require.Error(t, err)

		fields := make(map[string]string)
		for _, issue := range schema.IssuesOf(err) {
			fields[issue.Field] = issue.Rule
		}
		assert.Equal(t, "required_with_pre_order", fields["minPreOrderQuantity"])
		assert.Equal(t, "required_with_pre_order", fields["maxPreOrderQuantity"])
	})

	t.Run("min above max rejected", func(t *testing.T) {
		req := base
		req.IsPreOrder = true
		req.MinPreOrderQuantity = intPtr(10)
		req.MaxPreOrderQuantity = intPtr(5)
		err := schema.Validate(&req, schema.Strict)
		require.Error(t, err)

		issues := schema.IssuesOf(err)
		require.Len(t, issues, 1)
		assert.Equal(t, "pre_order_min_lte_max", issues[0].Rule)
	})

	t.Run("valid pre-order bounds pass", func(t *testing.T) {
		req := base
		req.IsPreOrder = true
		req.MinPreOrderQuantity = intPtr(2)
		req.MaxPreOrderQuantity = intPtr(10)
		assert.NoError(t, schema.Validate(&req, schema.Strict))
	})

	t.Run("update refinement only fires when pre-order set true", func(t *testing.T) {
		req := AdminUpdateProductRequest{Price: floatPtr(5)}
		assert.NoError(t, schema.Validate(&req, schema.Strict))

		req.IsPreOrder = boolPtr(true)
		assert.Error(t, schema.Validate(&req, schema.Strict))
	})
}

func TestPrepareProductForInsert(t *testing.T) {
	now := time.Now()

	t.Run("defaults applied", func(t *testing.T) {
		row := PrepareProductForInsert(AdminCreateProductRequest{Name: "Eggs", Price: 6}, now)

		assert.NotEmpty(t, row["id"])
		assert.Equal(t, "Eggs", row["name"])
		assert.Equal(t, true, row["is_available"])
		assert.Equal(t, false, row["is_pre_order"])
		assert.Equal(t, now, row["created_at"])
		assert.Equal(t, now, row["updated_at"])
		assert.NotContains(t, row, "stock_quantity")
		assert.NotContains(t, row, "description")
	})

	t.Run("explicit availability wins over default", func(t *testing.T) {
		row := PrepareProductForInsert(AdminCreateProductRequest{
			Name:        "Eggs",
			Price:       6,
			IsAvailable: boolPtr(false),
		}, now)
		assert.Equal(t, false, row["is_available"])
	})
}

func TestPrepareProductForUpdate(t *testing.T) {
	now := time.Now()

	t.Run("only provided keys plus updated_at", func(t *testing.T) {
		row := PrepareProductForUpdate(AdminUpdateProductRequest{
			Price:         floatPtr(7.25),
			StockQuantity: intPtr(12),
		}, now)

		assert.Len(t, row, 3)
		assert.Equal(t, 7.25, row["price"])
		assert.Equal(t, 12, row["stock_quantity"])
		assert.Equal(t, now, row["updated_at"])
	})

	t.Run("empty update still stamps updated_at", func(t *testing.T) {
		row := PrepareProductForUpdate(AdminUpdateProductRequest{}, now)
		assert.Len(t, row, 1)
		assert.Equal(t, now, row["updated_at"])
	})
}

func TestPrepareCategory(t *testing.T) {
	now := time.Now()

	insert := PrepareCategoryForInsert(AdminCreateCategoryRequest{Name: "Dairy"}, now)
	assert.Equal(t, "Dairy", insert["name"])
	assert.Equal(t, true, insert["is_available"])
	assert.Equal(t, 0, insert["sort_order"])

	update := PrepareCategoryForUpdate(AdminUpdateCategoryRequest{SortOrder: intPtr(3)}, now)
	assert.Len(t, update, 2)
	assert.Equal(t, 3, update["sort_order"])
}
