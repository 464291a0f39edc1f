package services_test

import (
	"errors"
	"testing"

	"github.com/velocart/velocart/app/models"
	"github.com/velocart/velocart/app/services"
	"github.com/velocart/velocart/pkg/orm"
	"github.com/velocart/velocart/pkg/testkit"
)

func newQuery(t *testing.T) *orm.Query {
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

func seedUser(t *testing.T, q *orm.Query, email, role string) models.User {
	t.Helper()
	user := models.User{Email: email, Password: "x", Role: role, Approved: true}
	if err := q.Create(&user); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedProduct(t *testing.T, q *orm.Query, name string, price int64) models.Product {
	t.Helper()
	product := models.Product{Name: name, Price: price}
	if err := q.Create(&product); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return product
}

func seedVariant(t *testing.T, q *orm.Query, productID uint, name string, price int64) models.ProductVariant {
	t.Helper()
	variant := models.ProductVariant{ProductID: productID, Name: name, Price: price, Stock: 10}
	if err := q.Create(&variant); err != nil {
		t.Fatalf("seed variant: %v", err)
	}
	return variant
}

func seedRider(t *testing.T, q *orm.Query, name, email string) models.Rider {
	t.Helper()
	rider := models.Rider{Name: name, Email: email}
	if err := q.Create(&rider); err != nil {
		t.Fatalf("seed rider: %v", err)
	}
	return rider
}

// wantStatus asserts err is a domain error carrying the given HTTP status.
func wantStatus(t *testing.T, err error, status int) {
	t.Helper()
	var svcErr *services.Error
	if !errors.As(err, &svcErr) {
		t.Fatalf("expected domain error with status %d, got %v", status, err)
	}
	if svcErr.Status != status {
		t.Fatalf("expected status %d, got %d (%s)", status, svcErr.Status, svcErr.Message)
	}
}
