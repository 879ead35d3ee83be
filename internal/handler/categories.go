package handler

import (
	"net/http"

	"glowpos/internal/apierror"
	"glowpos/internal/dto"
	"glowpos/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type CategoriesHandler struct{ svc service.CategoryService }

func NewCategoriesHandler(svc service.CategoryService) *CategoriesHandler {
	return &CategoriesHandler{svc: svc}
}

// CreateCategory godoc
// @Summary      Create a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CategoryRequest true "Category"
// @Success      201 {object} dto.CategoryResponse
// @Router       /v1/categories [post]
func (h *CategoriesHandler) CreateCategory(c *gin.Context) {
	var req dto.CategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListCategories godoc
// @Summary      List categories
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} dto.CategoryResponse
// @Router       /v1/categories [get]
func (h *CategoriesHandler) ListCategories(c *gin.Context) {
	resp, err := h.svc.List(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// UpdateCategory godoc
// @Summary      Update a category
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string              true "Category UUID"
// @Param        body body dto.CategoryRequest true "Category"
// @Success      200 {object} dto.CategoryResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/categories/{id} [put]
func (h *CategoriesHandler) UpdateCategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	var req dto.CategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteCategory godoc
// @Summary      Delete a category
// @Tags         categories
// @Security     BearerAuth
// @Param        id path string true "Category UUID"
// @Success      204
// @Failure      404 {object} apierror.APIError
// @Router       /v1/categories/{id} [delete]
func (h *CategoriesHandler) DeleteCategory(c *gin.Context) {
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

// CreateSubcategory godoc
// @Summary      Create a subcategory
// @Tags         categories
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.SubcategoryRequest true "Subcategory"
// @Success      201 {object} dto.SubcategoryResponse
// @Failure      404 {object} apierror.APIError
// @Router       /v1/subcategories [post]
func (h *CategoriesHandler) CreateSubcategory(c *gin.Context) {
	var req dto.SubcategoryRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateSubcategory(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListSubcategories godoc
// @Summary      List subcategories, optionally by category
// @Tags         categories
// @Produce      json
// @Security     BearerAuth
// @Param        category_id query string false "Category UUID"
// @Success      200 {array} dto.SubcategoryResponse
// @Router       /v1/subcategories [get]
func (h *CategoriesHandler) ListSubcategories(c *gin.Context) {
	categoryID := uuid.Nil
	if raw := c.Query("category_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, apierror.New("Invalid category_id"))
			return
		}
		categoryID = id
	}
	resp, err := h.svc.ListSubcategories(c.Request.Context(), categoryID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteSubcategory godoc
// @Summary      Delete a subcategory
// @Tags         categories
// @Security     BearerAuth
// @Param        id path string true "Subcategory UUID"
// @Success      204
// @Router       /v1/subcategories/{id} [delete]
func (h *CategoriesHandler) DeleteSubcategory(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("Invalid id"))
		return
	}
	if err := h.svc.DeleteSubcategory(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
