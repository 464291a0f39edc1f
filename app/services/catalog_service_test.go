package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velocart/velocart/app/models"
	"github.com/velocart/velocart/app/services"
	"github.com/velocart/velocart/pkg/orm"
)

func newCatalogService(t *testing.T) (*services.CatalogService, *orm.Query) {
	t.Helper()
	q := newQuery(t)
	return services.NewCatalogService(q), q
}

func TestCatalogCreateAndGet(t *testing.T) {
	svc, _ := newCatalogService(t)

	created, err := svc.CreateProduct(services.ProductInput{
		Name:        "Classic Tee",
		Description: "Heavyweight cotton tee.",
		Price:       1999,
	})
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	got, err := svc.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Classic Tee", got.Name)
	assert.Equal(t, int64(1999), got.Price)
	require.NotNil(t, got.Variants)
	assert.Empty(t, got.Variants)
}

func TestCatalogGetUnknownProduct(t *testing.T) {
	svc, _ := newCatalogService(t)

	_, err := svc.Get(4242)
	wantStatus(t, err, 404)
}

func TestCatalogListGroupsVariants(t *testing.T) {
	svc, q := newCatalogService(t)
	tee := seedProduct(t, q, "Classic Tee", 1999)
	tote := seedProduct(t, q, "Canvas Tote", 1499)
	seedVariant(t, q, tee.ID, "Classic Tee / M", 1999)
	seedVariant(t, q, tee.ID, "Classic Tee / L", 2099)

	products, err := svc.List()
	require.NoError(t, err)
	require.Len(t, products, 2)

	byID := map[uint]models.Product{}
	for _, p := range products {
		byID[p.ID] = p
	}
	assert.Len(t, byID[tee.ID].Variants, 2)
	assert.Empty(t, byID[tote.ID].Variants)
}

func TestCatalogUpdateProduct(t *testing.T) {
	svc, q := newCatalogService(t)
	product := seedProduct(t, q, "Classic Tee", 1999)

	updated, err := svc.UpdateProduct(product.ID, services.ProductInput{
		Name:  "Premium Tee",
		Price: 2499,
	})
	require.NoError(t, err)
	assert.Equal(t, "Premium Tee", updated.Name)
	assert.Equal(t, int64(2499), updated.Price)

	_, err = svc.UpdateProduct(4242, services.ProductInput{Name: "Ghost", Price: 1})
	wantStatus(t, err, 404)
}

func TestCatalogDeleteProductCascadesVariants(t *testing.T) {
	svc, q := newCatalogService(t)
	product := seedProduct(t, q, "Classic Tee", 1999)
	seedVariant(t, q, product.ID, "Classic Tee / M", 1999)
	seedVariant(t, q, product.ID, "Classic Tee / L", 2099)

	require.NoError(t, svc.DeleteProduct(product.ID))

	_, err := svc.Get(product.ID)
	wantStatus(t, err, 404)

	var variants int64
	require.NoError(t, q.Model(&models.ProductVariant{}).Where("product_id = ?", product.ID).Count(&variants))
	assert.Zero(t, variants)
}

func TestDeleteProductWorksWithoutStorageDisk(t *testing.T) {
	// No storage disk is registered in service tests; image cleanup must
	// fail soft instead of taking the delete down with it.
	svc, q := newCatalogService(t)
	product := seedProduct(t, q, "Classic Tee", 1999)

	require.NotPanics(t, func() {
		assert.NoError(t, svc.DeleteProduct(product.ID))
	})

	_, err := svc.Get(product.ID)
	wantStatus(t, err, 404)
}

func TestCatalogVariantLifecycle(t *testing.T) {
	svc, q := newCatalogService(t)
	product := seedProduct(t, q, "Classic Tee", 1999)

	variant, err := svc.AddVariant(product.ID, services.VariantInput{
		Name:  "Classic Tee / Black / M",
		Color: "Black",
		Size:  "M",
		Price: 1999,
		Stock: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, product.ID, variant.ProductID)

	updated, err := svc.UpdateVariant(variant.ID, services.VariantInput{
		Name:  "Classic Tee / Black / L",
		Color: "Black",
		Size:  "L",
		Price: 2099,
		Stock: 5,
	})
	require.NoError(t, err)
	assert.Equal(t, "L", updated.Size)
	assert.Equal(t, int64(2099), updated.Price)

	_, err = svc.AddVariant(4242, services.VariantInput{Name: "Ghost", Price: 1})
	wantStatus(t, err, 404)

	require.NoError(t, svc.DeleteVariant(variant.ID))
	err = svc.DeleteVariant(variant.ID)
	wantStatus(t, err, 404)
}

func TestDeleteVariantDetachesOrderItems(t *testing.T) {
	svc, q := newCatalogService(t)
	product := seedProduct(t, q, "Classic Tee", 1999)
	variant := seedVariant(t, q, product.ID, "Classic Tee / M", 2099)

	order := models.Order{UserID: 1, Total: 2099, Status: models.StatusPaid}
	require.NoError(t, q.Create(&order))
	item := models.OrderItem{OrderID: order.ID, ProductID: product.ID, VariantID: &variant.ID, Quantity: 1, Price: 2099}
	require.NoError(t, q.Create(&item))

	require.NoError(t, svc.DeleteVariant(variant.ID))

	var stored models.OrderItem
	require.NoError(t, q.Model(&models.OrderItem{}).Where("id = ?", item.ID).First(&stored))
	assert.Nil(t, stored.VariantID)
	assert.Equal(t, int64(2099), stored.Price)
}
