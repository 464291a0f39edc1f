package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/velocart/velocart/app/models"
	"github.com/velocart/velocart/app/repositories"
	"github.com/velocart/velocart/pkg/orm"
)

// RiderService owns the rider roster.
type RiderService struct {
	riders *repositories.RiderRepository
}

func NewRiderService(q *orm.Query) *RiderService {
	return &RiderService{riders: repositories.NewRiderRepository(q)}
}

// List returns every rider with their current assignment count.
func (s *RiderService) List() ([]repositories.RiderWithLoad, error) {
	return s.riders.All()
}

// FindByEmail resolves the rider record matching an authenticated email.
func (s *RiderService) FindByEmail(email string) (models.Rider, error) {
	rider, err := s.riders.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Rider{}, notFound("Rider not found")
		}
		return models.Rider{}, err
	}
	return rider, nil
}

// RiderInput is the admin create payload.
type RiderInput struct {
	Name  string `json:"name" validate:"required,min=2,max=255"`
	Email string `json:"email" validate:"required,email"`
}

// Create registers a new rider. Emails are unique across riders.
func (s *RiderService) Create(in RiderInput) (models.Rider, error) {
	if _, err := s.riders.FindByEmail(in.Email); err == nil {
		return models.Rider{}, conflict("A rider with this email already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Rider{}, err
	}

	rider := models.Rider{Name: in.Name, Email: in.Email}
	if err := s.riders.Create(&rider); err != nil {
		return models.Rider{}, err
	}
	return rider, nil
}

// Delete removes a rider. A rider with any order assignment cannot be
// deleted.
func (s *RiderService) Delete(id uint) error {
	if _, err := s.riders.Find(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("Rider not found")
		}
		return err
	}

	n, err := s.riders.CountAssignments(id)
	if err != nil {
		return err
	}
	if n > 0 {
		return conflict("Cannot delete a rider with assigned orders")
	}

	return s.riders.Delete(id)
}
