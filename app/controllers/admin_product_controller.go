package controllers

import (
	"net/http"

	"github.com/velocart/velocart/app/services"
	"github.com/velocart/velocart/pkg/bind"
	"github.com/velocart/velocart/pkg/response"
)

// uploads are buffered to memory up to this size before spilling to disk
const maxUploadMemory = 8 << 20

// AdminProductController serves catalogue management.
type AdminProductController struct {
	catalog *services.CatalogService
}

func NewAdminProductController(catalog *services.CatalogService) *AdminProductController {
	return &AdminProductController{catalog: catalog}
}

// Index returns the full catalogue, same shape as the public listing.
func (c *AdminProductController) Index(w http.ResponseWriter, r *http.Request) {
	products, err := c.catalog.List()
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, products)
}

// Show returns one product with its variants.
func (c *AdminProductController) Show(w http.ResponseWriter, r *http.Request) {
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

// Store creates a product.
func (c *AdminProductController) Store(w http.ResponseWriter, r *http.Request) {
	var in services.ProductInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.catalog.CreateProduct(in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, product)
}

// Update replaces a product's editable fields.
func (c *AdminProductController) Update(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var in services.ProductInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	product, err := c.catalog.UpdateProduct(id, in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, product)
}

// Destroy deletes a product and its variants.
func (c *AdminProductController) Destroy(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := c.catalog.DeleteProduct(id); err != nil {
		fail(w, r, err)
		return
	}
	response.NoContent(w)
}

// StoreVariant adds a variant to a product.
func (c *AdminProductController) StoreVariant(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var in services.VariantInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	variant, err := c.catalog.AddVariant(id, in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Created(w, variant)
}

// UpdateVariant replaces a variant's editable fields.
func (c *AdminProductController) UpdateVariant(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "variantId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid variant ID")
		return
	}

	var in services.VariantInput
	if errs, err := bind.JSON(r, &in); err != nil {
		response.Error(w, http.StatusBadRequest, err.Error())
		return
	} else if errs != nil {
		response.ValidationError(w, errs)
		return
	}

	variant, err := c.catalog.UpdateVariant(id, in)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, variant)
}

// DestroyVariant deletes a variant.
func (c *AdminProductController) DestroyVariant(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "variantId")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid variant ID")
		return
	}

	if err := c.catalog.DeleteVariant(id); err != nil {
		fail(w, r, err)
		return
	}
	response.NoContent(w)
}

// UploadImage accepts a multipart "image" file and attaches it to the
// product.
func (c *AdminProductController) UploadImage(w http.ResponseWriter, r *http.Request) {
	id, err := paramID(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "An image file is required")
		return
	}
	defer file.Close()

	product, err := c.catalog.AttachImage(id, header.Filename, file)
	if err != nil {
		fail(w, r, err)
		return
	}
	response.Success(w, product)
}
