package handlers

import (
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"restaurant_pos_backend/internal/models"
	"restaurant_pos_backend/internal/services"
	"restaurant_pos_backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ProductImagesPath is where stored product images are served from.
const ProductImagesPath = "/uploads/products"

// ProductHandler serves menu products. Create and update accept either a JSON
// body or a multipart form with an optional "image" file.
type ProductHandler struct {
	productService services.ProductService
}

func NewProductHandler(productService services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// GetProducts lists products, optionally filtered by ?categoryId= and ?available=.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var filters models.ProductFilters
	categoryID, err := utils.ParseOptionalInt64(c.Query("categoryId"))
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid categoryId format")
		return
	}
	available, err := utils.ParseOptionalBool(c.Query("available"))
	if err != nil {
		utils.RespondValidationFailed(c, "Invalid available format")
		return
	}
	filters.CategoryID = categoryID
	filters.Available = available

	products, err := h.productService.List(c.Request.Context(), filters)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch products")
		return
	}
	for i := range products {
		withImageURL(c, &products[i])
	}
	utils.RespondWithData(c, http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	product, err := h.productService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err, "Failed to fetch product")
		return
	}
	withImageURL(c, product)
	utils.RespondWithData(c, http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	req, image, ok := bindProductRequest(c)
	if !ok {
		return
	}
	if image != nil {
		defer image.Close()
	}

	product, err := h.productService.Create(c.Request.Context(), req, readerOrNil(image))
	if err != nil {
		respondServiceError(c, err, "Failed to create product")
		return
	}
	withImageURL(c, product)
	utils.RespondWithData(c, http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	req, image, ok := bindProductRequest(c)
	if !ok {
		return
	}
	if image != nil {
		defer image.Close()
	}

	product, err := h.productService.Update(c.Request.Context(), id, req, readerOrNil(image))
	if err != nil {
		respondServiceError(c, err, "Failed to update product")
		return
	}
	withImageURL(c, product)
	utils.RespondWithData(c, http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete product")
		return
	}
	utils.RespondWithMessage(c, http.StatusOK, "Product deleted successfully")
}

// bindProductRequest reads the request body. The returned file is nil when no
// image was uploaded; the caller closes it.
func bindProductRequest(c *gin.Context) (services.ProductRequest, io.ReadCloser, bool) {
	var req services.ProductRequest
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		return req, nil, bindJSON(c, &req)
	}

	if v, ok := c.GetPostForm("name"); ok {
		req.Name = &v
	}
	if v, ok := c.GetPostForm("description"); ok {
		req.Description = &v
	}
	if v, ok := c.GetPostForm("price"); ok {
		price, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			utils.RespondValidationFailed(c, "Invalid price format")
			return req, nil, false
		}
		req.Price = &price
	}
	if v, ok := c.GetPostForm("available"); ok {
		available, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			utils.RespondValidationFailed(c, "Invalid available format")
			return req, nil, false
		}
		req.Available = &available
	}
	if v, ok := c.GetPostForm("categoryId"); ok {
		categoryID, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		if err != nil {
			utils.RespondValidationFailed(c, "Invalid categoryId format")
			return req, nil, false
		}
		req.CategoryID = &categoryID
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return req, nil, true
		}
		utils.RespondValidationFailed(c, "Invalid image upload")
		return req, nil, false
	}
	file, err := fileHeader.Open()
	if err != nil {
		utils.LogError(err, "Failed to open uploaded image")
		utils.RespondInternalError(c, "Failed to read uploaded image")
		return req, nil, false
	}
	return req, file, true
}

// readerOrNil avoids handing the service a typed-nil io.Reader.
func readerOrNil(rc io.ReadCloser) io.Reader {
	if rc == nil {
		return nil
	}
	return rc
}

// withImageURL fills the absolute URL of the product image for this request's host.
func withImageURL(c *gin.Context, product *models.Product) {
	if product == nil || product.Image == nil || *product.Image == "" {
		return
	}
	u := requestScheme(c) + "://" + c.Request.Host + ProductImagesPath + "/" + url.PathEscape(*product.Image)
	product.ImageURL = &u
}

func requestScheme(c *gin.Context) string {
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return strings.TrimSpace(strings.Split(proto, ",")[0])
	}
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}
