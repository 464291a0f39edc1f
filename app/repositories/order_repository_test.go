package repositories_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/velocart/velocart/app/models"
	"github.com/velocart/velocart/app/repositories"
	"github.com/velocart/velocart/pkg/orm"
	"github.com/velocart/velocart/pkg/testkit"
)

func newRepoQuery(t *testing.T) *orm.Query {
	t.Helper()
	db := testkit.OpenDB(t,
		&models.User{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Order{},
		&models.OrderItem{},
		&models.Rider{},
		&models.OrderRider{},
	)
	return orm.New(db)
}

func TestReplaceAssignmentKeepsSingleRow(t *testing.T) {
	q := newRepoQuery(t)
	repo := repositories.NewOrderRepository(q)

	order := models.Order{UserID: 1, Total: 100, Status: models.StatusShipped}
	require.NoError(t, q.Create(&order))
	first := models.Rider{Name: "Riya", Email: "riya@example.com"}
	second := models.Rider{Name: "Dev", Email: "dev@example.com"}
	require.NoError(t, q.Create(&first))
	require.NoError(t, q.Create(&second))

	require.NoError(t, repo.ReplaceAssignment(order.ID, first.ID))
	require.NoError(t, repo.ReplaceAssignment(order.ID, second.ID))

	var rows int64
	require.NoError(t, q.Model(&models.OrderRider{}).Where("order_id = ?", order.ID).Count(&rows))
	assert.Equal(t, int64(1), rows)

	assignment, err := repo.Assignment(order.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, assignment.RiderID)
}

func TestClearAssignment(t *testing.T) {
	q := newRepoQuery(t)
	repo := repositories.NewOrderRepository(q)

	order := models.Order{UserID: 1, Total: 100, Status: models.StatusShipped}
	require.NoError(t, q.Create(&order))
	rider := models.Rider{Name: "Riya", Email: "riya@example.com"}
	require.NoError(t, q.Create(&rider))

	require.NoError(t, repo.ReplaceAssignment(order.ID, rider.ID))
	require.NoError(t, repo.ClearAssignment(order.ID))

	_, err := repo.Assignment(order.ID)
	require.Error(t, err)
}

func TestListByUserNewestFirst(t *testing.T) {
	q := newRepoQuery(t)
	repo := repositories.NewOrderRepository(q)

	for _, total := range []int64{100, 200, 300} {
		order := models.Order{UserID: 7, Total: total, Status: models.StatusPaid}
		require.NoError(t, q.Create(&order))
	}
	other := models.Order{UserID: 8, Total: 50, Status: models.StatusPaid}
	require.NoError(t, q.Create(&other))

	orders, err := repo.ListByUser(7)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, int64(300), orders[0].Total)
	for _, o := range orders {
		assert.Equal(t, uint(7), o.UserID)
	}
}
