package repositories

import (
	"errors"

	"gorm.io/gorm"

	"github.com/velocart/velocart/app/models"
	"github.com/velocart/velocart/pkg/auth"
	"github.com/velocart/velocart/pkg/orm"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	q *orm.Query
}

func NewUserRepository(q *orm.Query) *UserRepository {
	return &UserRepository{q: q}
}

// FindByEmail looks up a user by their email address.
func (r *UserRepository) FindByEmail(email string) (models.User, error) {
	var user models.User
	err := r.q.Model(&models.User{}).Where("email = ?", email).First(&user)
	return user, err
}

// FindApprovedIdentity resolves a verified email claim to an Identity.
// Unknown accounts map to auth.ErrUserNotFound and unapproved accounts to
// auth.ErrUserNotApproved, which the authentication gate turns into 403s.
func (r *UserRepository) FindApprovedIdentity(email string) (auth.Identity, error) {
	user, err := r.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return auth.Identity{}, auth.ErrUserNotFound
		}
		return auth.Identity{}, err
	}

	if !user.Approved {
		return auth.Identity{}, auth.ErrUserNotApproved
	}

	return auth.Identity{ID: user.ID, Email: user.Email, Role: user.Role}, nil
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(id uint) (models.User, error) {
	var user models.User
	err := r.q.Model(&models.User{}).Where("id = ?", id).First(&user)
	return user, err
}

// Create persists a new user record.
func (r *UserRepository) Create(user *models.User) error {
	return r.q.Create(user)
}

// Update persists changes to an existing user.
func (r *UserRepository) Update(user *models.User) error {
	return r.q.Save(user)
}

// All returns users with pagination.
func (r *UserRepository) All(page, limit int) ([]models.User, orm.Pagination, error) {
	var users []models.User
	pagination, err := r.q.Model(&models.User{}).GetWithPagination(&users, page, limit)
	return users, pagination, err
}
