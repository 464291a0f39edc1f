package seeders

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/velocart/velocart/app/models"
)

func init() {
	Register("riders", SeedRiders)
}

// SeedRiders inserts the demo rider roster. The rider seed account from
// SeedUsers matches the first entry by email.
func SeedRiders(db *gorm.DB) error {
	riders := []models.Rider{
		{Name: "Riya Rider", Email: "rider@velocart.io"},
		{Name: "Dev Kumar", Email: "dev.kumar@velocart.io"},
	}

	for i := range riders {
		err := db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoNothing: true,
		}).Create(&riders[i]).Error
		if err != nil {
			return err
		}
	}
	return nil
}
