package controllers

import (
	"net/http"

	"github.com/velocart/velocart/app/services"
	"github.com/velocart/velocart/pkg/response"
)

// ProductController serves the public catalogue.
type ProductController struct {
	catalog *services.CatalogService
}

func NewProductController(catalog *services.CatalogService) *ProductController {
	return &ProductController{catalog: catalog}
}

// Index returns every product with its variants.
func (c *ProductController) Index(w http.ResponseWriter, r *http.Request) {
	products, err := c.catalog.List()
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, products)
}

// Show returns one product with its variants.
func (c *ProductController) Show(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	product, err := c.catalog.Get(id)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, product)
}
