package repositories

import (
	"time"

	"github.com/velocart/velocart/app/models"
	"github.com/velocart/velocart/pkg/collection"
	"github.com/velocart/velocart/pkg/orm"
)

// OrderRepository handles database operations for Order, OrderItem and
// OrderRider.
type OrderRepository struct {
	q *orm.Query
}

func NewOrderRepository(q *orm.Query) *OrderRepository {
	return &OrderRepository{q: q}
}

// WithTx returns a repository bound to the given transaction.
func (r *OrderRepository) WithTx(tx *orm.Query) *OrderRepository {
	return &OrderRepository{q: tx}
}

// Find returns one order by primary key.
func (r *OrderRepository) Find(id uint) (models.Order, error) {
	var order models.Order
	err := r.q.Model(&models.Order{}).Where("id = ?", id).First(&order)
	return order, err
}

// FindWithItems returns one order with its items preloaded.
func (r *OrderRepository) FindWithItems(id uint) (models.Order, error) {
	var order models.Order
	err := r.q.Model(&models.Order{}).Preload("Items").Where("id = ?", id).First(&order)
	return order, err
}

// Create persists an order together with its items. GORM inserts the Items
// association in the same statement batch; callers wrap this in a
// transaction when more work follows.
func (r *OrderRepository) Create(order *models.Order) error {
	return r.q.Create(order)
}

// Save persists changes to an existing order.
func (r *OrderRepository) Save(order *models.Order) error {
	return r.q.Save(order)
}

// ListByUser returns a customer's own orders, newest first, with items.
func (r *OrderRepository) ListByUser(userID uint) ([]models.Order, error) {
	var orders []models.Order
	err := r.q.Model(&models.Order{}).
		Preload("Items").
		Where("user_id = ?", userID).
		Order("id desc").
		Find(&orders)
	return orders, err
}

// OrderItemDetail is an order line enriched with catalogue names for the
// admin board.
type OrderItemDetail struct {
	models.OrderItem
	ProductName string `json:"product_name"`
	VariantName string `json:"variant_name,omitempty"`
}

// OrderDetail is the admin view of one order: line items with product
// names, the buyer's email, and the assigned rider if any.
type OrderDetail struct {
	ID        uint              `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	UserID    uint              `json:"user_id"`
	UserEmail string            `json:"user_email"`
	Total     int64             `json:"total"`
	Status    string            `json:"status"`
	Items     []OrderItemDetail `json:"items"`
	Rider     *models.Rider     `json:"rider,omitempty"`
}

// ListAllDetailed builds the admin order board. Every related table is
// fetched in one batch and joined in memory by key, so the query count
// stays constant regardless of order volume.
func (r *OrderRepository) ListAllDetailed() ([]OrderDetail, error) {
	var orders []models.Order
	if err := r.q.Model(&models.Order{}).Order("id desc").Find(&orders); err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return []OrderDetail{}, nil
	}

	orderIDs := collection.Map(orders, func(o models.Order) uint { return o.ID })
	userIDs := collection.Unique(collection.Map(orders, func(o models.Order) uint { return o.UserID }))

	var items []models.OrderItem
	if err := r.q.Model(&models.OrderItem{}).Where("order_id IN ?", orderIDs).Find(&items); err != nil {
		return nil, err
	}

	var users []models.User
	if err := r.q.Model(&models.User{}).Where("id IN ?", userIDs).Find(&users); err != nil {
		return nil, err
	}

	productIDs := collection.Unique(collection.Map(items, func(i models.OrderItem) uint { return i.ProductID }))
	var products []models.Product
	if len(productIDs) > 0 {
		if err := r.q.Model(&models.Product{}).Where("id IN ?", productIDs).Find(&products); err != nil {
			return nil, err
		}
	}

	var variantIDs []uint
	for _, i := range items {
		if i.VariantID != nil {
			variantIDs = append(variantIDs, *i.VariantID)
		}
	}
	var variants []models.ProductVariant
	if len(variantIDs) > 0 {
		if err := r.q.Model(&models.ProductVariant{}).Where("id IN ?", collection.Unique(variantIDs)).Find(&variants); err != nil {
			return nil, err
		}
	}

	var assignments []models.OrderRider
	if err := r.q.Model(&models.OrderRider{}).Where("order_id IN ?", orderIDs).Find(&assignments); err != nil {
		return nil, err
	}

	var riders []models.Rider
	riderIDs := collection.Unique(collection.Map(assignments, func(a models.OrderRider) uint { return a.RiderID }))
	if len(riderIDs) > 0 {
		if err := r.q.Model(&models.Rider{}).Where("id IN ?", riderIDs).Find(&riders); err != nil {
			return nil, err
		}
	}

	userByID := collection.KeyBy(users, func(u models.User) uint { return u.ID })
	productByID := collection.KeyBy(products, func(p models.Product) uint { return p.ID })
	variantByID := collection.KeyBy(variants, func(v models.ProductVariant) uint { return v.ID })
	riderByID := collection.KeyBy(riders, func(rd models.Rider) uint { return rd.ID })
	assignmentByOrder := collection.KeyBy(assignments, func(a models.OrderRider) uint { return a.OrderID })
	itemsByOrder := collection.GroupByKey(items, func(i models.OrderItem) uint { return i.OrderID })

	out := make([]OrderDetail, 0, len(orders))
	for _, o := range orders {
		detail := OrderDetail{
			ID:        o.ID,
			CreatedAt: o.CreatedAt,
			UserID:    o.UserID,
			UserEmail: userByID[o.UserID].Email,
			Total:     o.Total,
			Status:    o.Status,
			Items:     []OrderItemDetail{},
		}

		for _, item := range itemsByOrder[o.ID] {
			d := OrderItemDetail{OrderItem: item, ProductName: productByID[item.ProductID].Name}
			if item.VariantID != nil {
				d.VariantName = variantByID[*item.VariantID].Name
			}
			detail.Items = append(detail.Items, d)
		}

		if a, ok := assignmentByOrder[o.ID]; ok {
			if rd, ok := riderByID[a.RiderID]; ok {
				detail.Rider = &rd
			}
		}

		out = append(out, detail)
	}

	return out, nil
}

// Assignment returns the rider assignment for an order, if any.
func (r *OrderRepository) Assignment(orderID uint) (models.OrderRider, error) {
	var assignment models.OrderRider
	err := r.q.Model(&models.OrderRider{}).Where("order_id = ?", orderID).First(&assignment)
	return assignment, err
}

// ReplaceAssignment assigns a rider to an order, replacing any previous
// assignment. Delete-then-insert keeps the one-rider-per-order unique
// index satisfied.
func (r *OrderRepository) ReplaceAssignment(orderID, riderID uint) error {
	if err := r.q.Where("order_id = ?", orderID).Delete(&models.OrderRider{}); err != nil {
		return err
	}
	return r.q.Create(&models.OrderRider{OrderID: orderID, RiderID: riderID})
}

// ClearAssignment removes the rider assignment for an order.
func (r *OrderRepository) ClearAssignment(orderID uint) error {
	return r.q.Where("order_id = ?", orderID).Delete(&models.OrderRider{})
}

// ListByRider returns orders assigned to a rider, newest first, with items.
func (r *OrderRepository) ListByRider(riderID uint) ([]models.Order, error) {
	var assignments []models.OrderRider
	if err := r.q.Model(&models.OrderRider{}).Where("rider_id = ?", riderID).Find(&assignments); err != nil {
		return nil, err
	}
	if len(assignments) == 0 {
		return []models.Order{}, nil
	}

	orderIDs := collection.Map(assignments, func(a models.OrderRider) uint { return a.OrderID })

	var orders []models.Order
	err := r.q.Model(&models.Order{}).
		Preload("Items").
		Where("id IN ?", orderIDs).
		Order("id desc").
		Find(&orders)
	return orders, err
}

// Transaction runs fn in a database transaction.
func (r *OrderRepository) Transaction(fn func(tx *orm.Query) error) error {
	return r.q.Transaction(fn)
}
