package seeders

import (
	"gorm.io/gorm"

	"github.com/velocart/velocart/app/models"
)

func init() {
	Register("catalog", SeedCatalog)
}

// SeedCatalog inserts a small demo catalogue. Skipped entirely when any
// product already exists. Prices are in minor currency units.
func SeedCatalog(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Product{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	products := []models.Product{
		{
			Name:        "Classic Tee",
			Description: "Heavyweight cotton tee.",
			Price:       1999,
			Variants: []models.ProductVariant{
				{Name: "Classic Tee / Black / M", Color: "Black", Size: "M", Price: 1999, Stock: 40},
				{Name: "Classic Tee / Black / L", Color: "Black", Size: "L", Price: 1999, Stock: 25},
				{Name: "Classic Tee / White / M", Color: "White", Size: "M", Price: 2099, Stock: 30},
			},
		},
		{
			Name:        "Canvas Tote",
			Description: "Everyday carry tote.",
			Price:       1499,
		},
		{
			Name:        "Trail Bottle",
			Description: "750ml insulated bottle.",
			Price:       2899,
			Variants: []models.ProductVariant{
				{Name: "Trail Bottle / Steel", Color: "Steel", Price: 2899, Stock: 60},
				{Name: "Trail Bottle / Forest", Color: "Forest", Price: 2999, Stock: 15},
			},
		},
	}

	return db.Create(&products).Error
}
