package controllers

import (
	"errors"
	"net/http"

	"github.com/elibrary/backend/db"
	"github.com/elibrary/backend/models"
	"github.com/elibrary/backend/pagination"
	"github.com/elibrary/backend/search"

	"github.com/gin-gonic/gin"
)

type CategoryInput struct {
	Category string `form:"category" json:"category" validate:"required"`
}

// GET /api/v1/categories?page=&per-page=&search=
func (s *Srv) ListCategories(c *gin.Context) {
	params := pageParams(c)
	cats, total, err := s.Repo.ListCategories(c.Request.Context(), params)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	cats = search.Filter(cats, c.Query("search"), func(cat models.Category) []string {
		return []string{cat.Category}
	})
	respondList(c, "categories fetched successfully", pagination.NewPage(cats, params, total))
}

// GET /api/v1/category/:id
func (s *Srv) GetCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	cat, err := s.Repo.FindCategoryByID(c.Request.Context(), id)
	if err != nil {
		notFoundOr500(c, err, "category")
		return
	}
	respond(c, http.StatusOK, "category fetched successfully", cat)
}

// POST /api/v1/category (admin)
func (s *Srv) CreateCategory(c *gin.Context) {
	var in CategoryInput
	if err := c.ShouldBind(&in); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !s.checkInput(c, &in) {
		return
	}
	cat := &models.Category{Category: in.Category}
	if err := s.Repo.CreateCategory(c.Request.Context(), cat); err != nil {
		respondError(c, http.StatusBadRequest, "category already exists")
		return
	}
	respond(c, http.StatusCreated, "category created successfully", cat)
}

// PATCH /api/v1/category/:id (admin)
func (s *Srv) UpdateCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in CategoryInput
	if err := c.ShouldBind(&in); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !s.checkInput(c, &in) {
		return
	}
	cat, err := s.Repo.UpdateCategory(c.Request.Context(), id, in.Category)
	if err != nil {
		notFoundOr500(c, err, "category")
		return
	}
	respond(c, http.StatusOK, "category updated successfully", cat)
}

// DELETE /api/v1/category/:id (admin)
func (s *Srv) DeleteCategory(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := s.Repo.DeleteCategory(c.Request.Context(), id); err != nil {
		if errors.Is(err, db.ErrCategoryInUse) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		notFoundOr500(c, err, "category")
		return
	}
	respond(c, http.StatusOK, "category deleted successfully", gin.H{"id": id})
}
