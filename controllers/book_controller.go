package controllers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/elibrary/backend/models"
	"github.com/elibrary/backend/pagination"
	"github.com/elibrary/backend/search"

	"github.com/gin-gonic/gin"
)

type BookInput struct {
	Title           string `form:"title" validate:"required"`
	PublicationDate string `form:"publicationDate" validate:"required"`
	ISBN            string `form:"isbn" validate:"required"`
	Pages           int    `form:"pages" validate:"required"`
	Author          string `form:"author" validate:"required"`
	Description     string `form:"description"`
	Qty             int    `form:"qty" validate:"required"`
	CategoryID      string `form:"categoryId"` // JSON array of category ids
}

// GET /api/v1/books?page=&per-page=&search=
// The optional search term filters the fetched page only; it never reaches
// across pages.
func (s *Srv) ListBooks(c *gin.Context) {
	params := pageParams(c)
	books, total, err := s.Repo.ListBooks(c.Request.Context(), params)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	books = search.Filter(books, c.Query("search"), bookFields)
	respondList(c, "books fetched successfully", pagination.NewPage(books, params, total))
}

func bookFields(b models.Book) []string {
	return []string{
		b.Title, b.Author, b.ISBN, b.PublicationDate,
		strconv.Itoa(b.Pages), strconv.Itoa(b.Qty),
	}
}

// GET /api/v1/book/:id
func (s *Srv) GetBook(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	book, err := s.Repo.FindBookByID(c.Request.Context(), id)
	if err != nil {
		notFoundOr500(c, err, "book")
		return
	}
	respond(c, http.StatusOK, "book fetched successfully", book)
}

// POST /api/v1/book (admin, multipart)
func (s *Srv) CreateBook(c *gin.Context) {
	var in BookInput
	if err := c.ShouldBind(&in); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !s.checkInput(c, &in) {
		return
	}
	categoryIDs, err := parseCategoryIDs(in.CategoryID)
	if err != nil {
		respondError(c, http.StatusBadRequest, "categoryId must be a JSON array of ids")
		return
	}

	book := &models.Book{
		Title:           in.Title,
		PublicationDate: in.PublicationDate,
		ISBN:            in.ISBN,
		Pages:           in.Pages,
		Author:          in.Author,
		Description:     in.Description,
		Qty:             in.Qty,
	}
	if fh, err := c.FormFile("image"); err == nil {
		url, err := s.saveUpload(c, fh)
		if err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
		book.Image = url
	}
	if fh, err := c.FormFile("file"); err == nil {
		url, err := s.saveUpload(c, fh)
		if err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
		book.File = url
	}

	if err := s.Repo.CreateBook(c.Request.Context(), book, categoryIDs); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respond(c, http.StatusCreated, "book created successfully", book)
}

// PATCH /api/v1/book/:id (admin, multipart)
func (s *Srv) UpdateBook(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}

	fields := map[string]any{}
	setIf := func(key, form string) {
		if v, ok := c.GetPostForm(form); ok {
			fields[key] = v
		}
	}
	setIf("title", "title")
	setIf("publication_date", "publicationDate")
	setIf("isbn", "isbn")
	setIf("author", "author")
	setIf("description", "description")
	if v, ok := c.GetPostForm("pages"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			fields["pages"] = n
		}
	}
	if v, ok := c.GetPostForm("qty"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			fields["qty"] = n
		}
	}
	if fh, err := c.FormFile("image"); err == nil {
		url, err := s.saveUpload(c, fh)
		if err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
		fields["image"] = url
	}
	if fh, err := c.FormFile("file"); err == nil {
		url, err := s.saveUpload(c, fh)
		if err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
		fields["file"] = url
	}

	var categoryIDs []uint
	if v, ok := c.GetPostForm("categoryId"); ok {
		ids, err := parseCategoryIDs(v)
		if err != nil {
			respondError(c, http.StatusBadRequest, "categoryId must be a JSON array of ids")
			return
		}
		categoryIDs = ids
	}

	book, err := s.Repo.UpdateBook(c.Request.Context(), id, fields, categoryIDs)
	if err != nil {
		notFoundOr500(c, err, "book")
		return
	}
	respond(c, http.StatusOK, "book updated successfully", book)
}

// DELETE /api/v1/book/:id (admin)
func (s *Srv) DeleteBook(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := s.Repo.DeleteBook(c.Request.Context(), id); err != nil {
		notFoundOr500(c, err, "book")
		return
	}
	respond(c, http.StatusOK, "book deleted successfully", gin.H{"id": id})
}

// DELETE /api/v1/book/:id/image and /api/v1/book/:id/file (admin)
func (s *Srv) DeleteBookImage(c *gin.Context) { s.deleteBookUpload(c, "image") }
func (s *Srv) DeleteBookFile(c *gin.Context)  { s.deleteBookUpload(c, "file") }

func (s *Srv) deleteBookUpload(c *gin.Context, column string) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	book, err := s.Repo.ClearBookUpload(c.Request.Context(), id, column)
	if err != nil {
		notFoundOr500(c, err, "book")
		return
	}
	respond(c, http.StatusOK, "book "+column+" deleted successfully", book)
}

func parseCategoryIDs(raw string) ([]uint, error) {
	if raw == "" {
		return nil, nil
	}
	var ids []uint
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, err
	}
	return ids, nil
}
