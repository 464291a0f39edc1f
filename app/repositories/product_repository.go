package repositories

import (
	"github.com/velocart/velocart/app/models"
	"github.com/velocart/velocart/pkg/collection"
	"github.com/velocart/velocart/pkg/orm"
)

// ProductRepository handles database operations for Product and
// ProductVariant.
type ProductRepository struct {
	q *orm.Query
}

func NewProductRepository(q *orm.Query) *ProductRepository {
	return &ProductRepository{q: q}
}

// WithTx returns a repository bound to the given transaction.
func (r *ProductRepository) WithTx(tx *orm.Query) *ProductRepository {
	return &ProductRepository{q: tx}
}

// AllWithVariants returns the full catalogue. Variants are fetched in one
// batch and grouped under their products in memory, avoiding a per-product
// query.
func (r *ProductRepository) AllWithVariants() ([]models.Product, error) {
	var products []models.Product
	if err := r.q.Model(&models.Product{}).Order("id asc").Find(&products); err != nil {
		return nil, err
	}
	if len(products) == 0 {
		return products, nil
	}

	ids := collection.Map(products, func(p models.Product) uint { return p.ID })

	var variants []models.ProductVariant
	if err := r.q.Model(&models.ProductVariant{}).Where("product_id IN ?", ids).Find(&variants); err != nil {
		return nil, err
	}

	byProduct := collection.GroupByKey(variants, func(v models.ProductVariant) uint { return v.ProductID })
	for i := range products {
		products[i].Variants = byProduct[products[i].ID]
	}

	return products, nil
}

// FindWithVariants returns one product with its variants preloaded.
func (r *ProductRepository) FindWithVariants(id uint) (models.Product, error) {
	var product models.Product
	err := r.q.Model(&models.Product{}).Preload("Variants").Where("id = ?", id).First(&product)
	return product, err
}

// FindByIDs batch-fetches products by primary key.
func (r *ProductRepository) FindByIDs(ids []uint) ([]models.Product, error) {
	var products []models.Product
	if len(ids) == 0 {
		return products, nil
	}
	err := r.q.Model(&models.Product{}).Where("id IN ?", ids).Find(&products)
	return products, err
}

// FindVariantsByIDs batch-fetches variants by primary key.
func (r *ProductRepository) FindVariantsByIDs(ids []uint) ([]models.ProductVariant, error) {
	var variants []models.ProductVariant
	if len(ids) == 0 {
		return variants, nil
	}
	err := r.q.Model(&models.ProductVariant{}).Where("id IN ?", ids).Find(&variants)
	return variants, err
}

// Find returns one product without variants.
func (r *ProductRepository) Find(id uint) (models.Product, error) {
	var product models.Product
	err := r.q.Model(&models.Product{}).Where("id = ?", id).First(&product)
	return product, err
}

// Create persists a new product, including any inline variants.
func (r *ProductRepository) Create(product *models.Product) error {
	return r.q.Create(product)
}

// Update persists changes to an existing product.
func (r *ProductRepository) Update(product *models.Product) error {
	return r.q.Save(product)
}

// Delete removes a product and its variants in one transaction.
func (r *ProductRepository) Delete(id uint) error {
	return r.q.Transaction(func(tx *orm.Query) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductVariant{}); err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.Product{})
	})
}

// FindVariant returns one variant by primary key.
func (r *ProductRepository) FindVariant(id uint) (models.ProductVariant, error) {
	var variant models.ProductVariant
	err := r.q.Model(&models.ProductVariant{}).Where("id = ?", id).First(&variant)
	return variant, err
}

// CreateVariant persists a new variant under an existing product.
func (r *ProductRepository) CreateVariant(variant *models.ProductVariant) error {
	return r.q.Create(variant)
}

// UpdateVariant persists changes to an existing variant.
func (r *ProductRepository) UpdateVariant(variant *models.ProductVariant) error {
	return r.q.Save(variant)
}

// DeleteVariant removes a variant. Order items that reference it keep their
// captured price but lose the reference (variant_id set to NULL) in the
// same transaction.
func (r *ProductRepository) DeleteVariant(id uint) error {
	return r.q.Transaction(func(tx *orm.Query) error {
		err := tx.Gorm().Model(&models.OrderItem{}).
			Where("variant_id = ?", id).
			Update("variant_id", nil).Error
		if err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&models.ProductVariant{})
	})
}
