package services

import (
	"errors"
	"fmt"
	"io"
	"path"
	"time"

	"gorm.io/gorm"

	"github.com/velocart/velocart/app/models"
	"github.com/velocart/velocart/app/repositories"
	"github.com/velocart/velocart/pkg/cache"
	"github.com/velocart/velocart/pkg/logger"
	"github.com/velocart/velocart/pkg/orm"
	"github.com/velocart/velocart/pkg/storage"
)

const (
	catalogCacheKey = "velocart:catalog:products"
	catalogCacheTTL = 5 * time.Minute
)

// CatalogService owns products and variants: catalogue reads (cached),
// admin CRUD, and product image storage.
type CatalogService struct {
	products *repositories.ProductRepository
}

func NewCatalogService(q *orm.Query) *CatalogService {
	return &CatalogService{products: repositories.NewProductRepository(q)}
}

// List returns the full catalogue with variants. The grouped result is
// cached in redis; any catalogue write invalidates it.
func (s *CatalogService) List() ([]models.Product, error) {
	var products []models.Product
	if cache.Get(catalogCacheKey, &products) {
		return products, nil
	}

	products, err := s.products.AllWithVariants()
	if err != nil {
		return nil, err
	}

	cache.Set(catalogCacheKey, products, catalogCacheTTL) //nolint:errcheck
	return products, nil
}

// Get returns one product with its variants.
func (s *CatalogService) Get(id uint) (models.Product, error) {
	product, err := s.products.FindWithVariants(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, notFound("Product not found")
		}
		return models.Product{}, err
	}
	if product.Variants == nil {
		product.Variants = []models.ProductVariant{}
	}
	return product, nil
}

// ProductInput is the admin create/update payload.
type ProductInput struct {
	Name        string `json:"name" validate:"required,min=2,max=255"`
	Description string `json:"description" validate:"nullable,max=5000"`
	Price       int64  `json:"price" validate:"required,gt=0"`
	Image       string `json:"image" validate:"nullable,url"`
}

// CreateProduct persists a new product.
func (s *CatalogService) CreateProduct(in ProductInput) (models.Product, error) {
	product := models.Product{
		Name:        in.Name,
		Description: in.Description,
		Price:       in.Price,
		Image:       in.Image,
		Variants:    []models.ProductVariant{},
	}
	if err := s.products.Create(&product); err != nil {
		return models.Product{}, err
	}
	s.invalidate()
	return product, nil
}

// UpdateProduct applies the input to an existing product.
func (s *CatalogService) UpdateProduct(id uint, in ProductInput) (models.Product, error) {
	product, err := s.products.Find(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, notFound("Product not found")
		}
		return models.Product{}, err
	}

	product.Name = in.Name
	product.Description = in.Description
	product.Price = in.Price
	if in.Image != "" {
		product.Image = in.Image
	}

	if err := s.products.Update(&product); err != nil {
		return models.Product{}, err
	}
	s.invalidate()
	return product, nil
}

// DeleteProduct removes a product and its variants, then cleans up any
// stored images.
func (s *CatalogService) DeleteProduct(id uint) error {
	if _, err := s.products.Find(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("Product not found")
		}
		return err
	}

	if err := s.products.Delete(id); err != nil {
		return err
	}

	if err := storage.DeleteDirectory(fmt.Sprintf("products/%d", id)); err != nil {
		logger.Warn("catalog: image cleanup failed", "product_id", id, "error", err)
	}

	s.invalidate()
	return nil
}

// VariantInput is the admin variant create/update payload.
type VariantInput struct {
	Name  string `json:"name" validate:"required,min=1,max=255"`
	Color string `json:"color" validate:"nullable,max=100"`
	Size  string `json:"size" validate:"nullable,max=100"`
	Price int64  `json:"price" validate:"required,gt=0"`
	Stock int    `json:"stock" validate:"nullable,gte=0"`
}

// AddVariant creates a variant under an existing product.
func (s *CatalogService) AddVariant(productID uint, in VariantInput) (models.ProductVariant, error) {
	if _, err := s.products.Find(productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ProductVariant{}, notFound("Product not found")
		}
		return models.ProductVariant{}, err
	}

	variant := models.ProductVariant{
		ProductID: productID,
		Name:      in.Name,
		Color:     in.Color,
		Size:      in.Size,
		Price:     in.Price,
		Stock:     in.Stock,
	}
	if err := s.products.CreateVariant(&variant); err != nil {
		return models.ProductVariant{}, err
	}
	s.invalidate()
	return variant, nil
}

// UpdateVariant applies the input to an existing variant.
func (s *CatalogService) UpdateVariant(id uint, in VariantInput) (models.ProductVariant, error) {
	variant, err := s.products.FindVariant(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ProductVariant{}, notFound("Variant not found")
		}
		return models.ProductVariant{}, err
	}

	variant.Name = in.Name
	variant.Color = in.Color
	variant.Size = in.Size
	variant.Price = in.Price
	variant.Stock = in.Stock

	if err := s.products.UpdateVariant(&variant); err != nil {
		return models.ProductVariant{}, err
	}
	s.invalidate()
	return variant, nil
}

// DeleteVariant removes a variant. Order items referencing it keep their
// row with the variant reference nulled.
func (s *CatalogService) DeleteVariant(id uint) error {
	if _, err := s.products.FindVariant(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return notFound("Variant not found")
		}
		return err
	}

	if err := s.products.DeleteVariant(id); err != nil {
		return err
	}
	s.invalidate()
	return nil
}

// AttachImage stores an uploaded product image and records its public URL
// on the product.
func (s *CatalogService) AttachImage(productID uint, filename string, r io.Reader) (models.Product, error) {
	product, err := s.products.Find(productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, notFound("Product not found")
		}
		return models.Product{}, err
	}

	ext := path.Ext(filename)
	if ext == "" {
		ext = ".bin"
	}
	key := fmt.Sprintf("products/%d/image%s", productID, ext)

	if err := storage.PutStream(key, r); err != nil {
		return models.Product{}, err
	}

	product.Image = storage.URL(key)
	if err := s.products.Update(&product); err != nil {
		return models.Product{}, err
	}

	s.invalidate()
	return product, nil
}

func (s *CatalogService) invalidate() {
	cache.Del(catalogCacheKey) //nolint:errcheck
}
