package handler

import (
	"net/http"
	"strconv"

	"glowpos/internal/apierror"
	"glowpos/internal/dto"
	"glowpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type ProductsHandler struct{ svc service.ProductService }

func NewProductsHandler(svc service.ProductService) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// CreateProduct godoc
// @Summary      Create a product
// @Description  Creates a catalog product. Accepts multipart form with an optional "image" file, resized server-side.
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Success      201 {object} dto.ProductResponse
// @Failure      400 {object} apierror.APIError
// @Router       /v1/products [post]
func (h *ProductsHandler) CreateProduct(c *gin.Context) {
	var req dto.CreateProductRequest
	if !bindFormAndValidate(c, &req) {
		return
	}
	// Optional image — absent on JSON-only clients
	image, _ := c.FormFile("image")

	resp, err := h.svc.Create(c.Request.Context(), req, image)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetProduct godoc
// @Summary      Get one product with its tones
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product UUID"
// @Success      200 {object} dto.ProductResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/products/{id} [get]
func (h *ProductsHandler) GetProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListProducts godoc
// @Summary      List products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        code        query string false "Exact SKU"
// @Param        name        query string false "Name substring"
// @Param        category_id query string false "Category UUID"
// @Param        supplier_id query string false "Supplier UUID"
// @Param        active      query string false "'' = active | false | all"
// @Param        page        query int    false "Page (default 1)"
// @Param        limit       query int    false "Rows per page (default 50)"
// @Success      200 {object} dto.ProductListResponse
// @Router       /v1/products [get]
func (h *ProductsHandler) ListProducts(c *gin.Context) {
	var filter dto.ProductFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, apierror.New(err.Error()))
		return
	}
	resp, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateProduct godoc
// @Summary      Update a product
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product UUID"
// @Success      200 {object} dto.ProductResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/products/{id} [put]
func (h *ProductsHandler) UpdateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	var req dto.UpdateProductRequest
	if !bindFormAndValidate(c, &req) {
		return
	}
	image, _ := c.FormFile("image")

	resp, err := h.svc.Update(c.Request.Context(), id, req, image)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteProduct godoc
// @Summary      Deactivate a product (soft delete)
// @Tags         products
// @Security     BearerAuth
// @Param        id path string true "Product UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/products/{id} [delete]
func (h *ProductsHandler) DeleteProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ReactivateProduct godoc
// @Summary      Reactivate a soft-deleted product
// @Tags         products
// @Security     BearerAuth
// @Param        id path string true "Product UUID"
// @Success      204
// @Router       /v1/products/{id}/reactivate [post]
func (h *ProductsHandler) ReactivateProduct(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	if err := h.svc.Reactivate(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// PriceByCode godoc
// @Summary      Cashier price lookup by SKU
// @Description  Returns name and sale price for an active product. Served from the redis cache on hits.
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        code path string true "Product SKU"
// @Success      200 {object} dto.PriceResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/price/{code} [get]
func (h *ProductsHandler) PriceByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, apierror.New("Code is required"))
		return
	}
	resp, err := h.svc.PriceByCode(c.Request.Context(), code)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddTone godoc
// @Summary      Add a tone (shade variant) to a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string              true "Product UUID"
// @Param        body body dto.CreateToneRequest true "Tone"
// @Success      201 {object} dto.ToneResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/products/{id}/tones [post]
func (h *ProductsHandler) AddTone(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	var req dto.CreateToneRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddTone(c.Request.Context(), productID, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListTones godoc
// @Summary      List a product's tones
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product UUID"
// @Success      200 {array} dto.ToneResponse
// @Router       /v1/products/{id}/tones [get]
func (h *ProductsHandler) ListTones(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	resp, err := h.svc.ListTones(c.Request.Context(), productID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// RemoveTone godoc
// @Summary      Remove a tone from a product
// @Tags         products
// @Security     BearerAuth
// @Param        id      path string true "Product UUID"
// @Param        tone_id path string true "Tone UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/products/{id}/tones/{tone_id} [delete]
func (h *ProductsHandler) RemoveTone(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	toneID, err := uuid.Parse(c.Param("tone_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid tone_id"))
		return
	}
	if err := h.svc.RemoveTone(c.Request.Context(), productID, toneID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ListMovements godoc
// @Summary      Stock movement audit trail for a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id    path  string true  "Product UUID"
// @Param        limit query int    false "Max rows (default 100)"
// @Success      200 {array} dto.StockMovementResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/products/{id}/movements [get]
func (h *ProductsHandler) ListMovements(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	resp, err := h.svc.ListMovements(c.Request.Context(), productID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
