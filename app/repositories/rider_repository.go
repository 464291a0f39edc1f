package repositories

import (
	"github.com/velocart/velocart/app/models"
	"github.com/velocart/velocart/pkg/orm"
)

// RiderRepository handles database operations for Rider.
type RiderRepository struct {
	q *orm.Query
}

func NewRiderRepository(q *orm.Query) *RiderRepository {
	return &RiderRepository{q: q}
}

// RiderWithLoad is a rider plus the number of orders currently assigned to
// them, as shown on the admin rider board.
type RiderWithLoad struct {
	models.Rider
	AssignedOrders int64 `json:"assigned_orders"`
}

// All returns every rider with their current assignment count.
func (r *RiderRepository) All() ([]RiderWithLoad, error) {
	var riders []models.Rider
	if err := r.q.Model(&models.Rider{}).Order("id asc").Find(&riders); err != nil {
		return nil, err
	}

	type countRow struct {
		RiderID uint
		N       int64
	}
	var counts []countRow
	err := r.q.Gorm().Model(&models.OrderRider{}).
		Select("rider_id, count(*) as n").
		Group("rider_id").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}

	byRider := make(map[uint]int64, len(counts))
	for _, c := range counts {
		byRider[c.RiderID] = c.N
	}

	out := make([]RiderWithLoad, len(riders))
	for i, rd := range riders {
		out[i] = RiderWithLoad{Rider: rd, AssignedOrders: byRider[rd.ID]}
	}
	return out, nil
}

// Find returns one rider by primary key.
func (r *RiderRepository) Find(id uint) (models.Rider, error) {
	var rider models.Rider
	err := r.q.Model(&models.Rider{}).Where("id = ?", id).First(&rider)
	return rider, err
}

// FindByEmail returns the rider whose email matches. Rider clients are
// identified by the email on their verified token.
func (r *RiderRepository) FindByEmail(email string) (models.Rider, error) {
	var rider models.Rider
	err := r.q.Model(&models.Rider{}).Where("email = ?", email).First(&rider)
	return rider, err
}

// Create persists a new rider.
func (r *RiderRepository) Create(rider *models.Rider) error {
	return r.q.Create(rider)
}

// Delete removes a rider.
func (r *RiderRepository) Delete(id uint) error {
	return r.q.Where("id = ?", id).Delete(&models.Rider{})
}

// CountAssignments counts orders assigned to the rider. The delete guard
// refuses to remove a rider with any assignment.
func (r *RiderRepository) CountAssignments(riderID uint) (int64, error) {
	var n int64
	err := r.q.Model(&models.OrderRider{}).Where("rider_id = ?", riderID).Count(&n)
	return n, err
}
