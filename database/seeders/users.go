package seeders

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/velocart/velocart/app/models"
	"github.com/velocart/velocart/pkg/auth"
)

func init() {
	Register("users", SeedUsers)
}

// SeedUsers inserts one account per role for local development. Existing
// emails are left untouched so the seeder can run repeatedly.
func SeedUsers(db *gorm.DB) error {
	accounts := []struct {
		name     string
		email    string
		password string
		role     string
	}{
		{"Admin", "admin@velocart.io", "admin-secret", models.RoleAdmin},
		{"Casey Customer", "customer@velocart.io", "customer-secret", models.RoleCustomer},
		{"Riya Rider", "rider@velocart.io", "rider-secret", models.RoleRider},
	}

	for _, a := range accounts {
		hash, err := auth.HashPassword(a.password)
		if err != nil {
			return err
		}

		user := models.User{
			Email:    a.email,
			Password: hash,
			Role:     a.role,
			Approved: true,
		}
		err = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).Create(&user).Error
		if err != nil {
			return err
		}
	}
	return nil
}
