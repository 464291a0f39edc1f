package migrations

import (
	"gorm.io/gorm"

	"github.com/velocart/velocart/app/models"
	"github.com/velocart/velocart/pkg/migration"
	"github.com/velocart/velocart/pkg/queue"
)

func init() {
	migration.Register("20260301000000_create_users_table", &CreateUsersTable{})
	migration.Register("20260301000001_create_products_table", &CreateProductsTable{})
	migration.Register("20260301000002_create_product_variants_table", &CreateProductVariantsTable{})
	migration.Register("20260301000003_create_orders_table", &CreateOrdersTable{})
	migration.Register("20260301000004_create_order_items_table", &CreateOrderItemsTable{})
	migration.Register("20260301000005_create_riders_table", &CreateRidersTable{})
	migration.Register("20260301000006_create_order_riders_table", &CreateOrderRidersTable{})
	migration.Register("20260301000007_create_failed_jobs_table", &CreateFailedJobsTable{})
}

// -------- 0001: users --------

type CreateUsersTable struct{}

func (m *CreateUsersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{})
}

func (m *CreateUsersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("users")
}

// -------- 0002: products --------

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Product{})
}

func (m *CreateProductsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("products")
}

// -------- 0003: product variants --------

type CreateProductVariantsTable struct{}

func (m *CreateProductVariantsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.ProductVariant{})
}

func (m *CreateProductVariantsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("product_variants")
}

// -------- 0004: orders --------

type CreateOrdersTable struct{}

func (m *CreateOrdersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Order{})
}

func (m *CreateOrdersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("orders")
}

// -------- 0005: order items --------

type CreateOrderItemsTable struct{}

func (m *CreateOrderItemsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.OrderItem{})
}

func (m *CreateOrderItemsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("order_items")
}

// -------- 0006: riders --------

type CreateRidersTable struct{}

func (m *CreateRidersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.Rider{})
}

func (m *CreateRidersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("riders")
}

// -------- 0007: order riders --------

type CreateOrderRidersTable struct{}

func (m *CreateOrderRidersTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&models.OrderRider{})
}

func (m *CreateOrderRidersTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("order_riders")
}

// -------- 0008: failed jobs --------

type CreateFailedJobsTable struct{}

func (m *CreateFailedJobsTable) Up(db *gorm.DB) error {
	return db.AutoMigrate(&queue.FailedJobRecord{})
}

func (m *CreateFailedJobsTable) Down(db *gorm.DB) error {
	return db.Migrator().DropTable("failed_jobs")
}
