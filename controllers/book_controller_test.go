package controllers

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/elibrary/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) doForm(t *testing.T, method, path, token string, fields map[string]string, files map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	for field, name := range files {
		part, err := w.CreateFormFile(field, name)
		require.NoError(t, err)
		_, err = part.Write([]byte("content"))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func TestCreateBook(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedUser(t, "admin", models.RoleAdmin)
	ctx := context.Background()

	cat := &models.Category{Category: "Fantasy"}
	require.NoError(t, env.srv.Repo.CreateCategory(ctx, cat))

	bookForm := func() map[string]string {
		return map[string]string{
			"title":           "The Hobbit",
			"publicationDate": "1937-09-21",
			"isbn":            "isbn-bc1",
			"pages":           "310",
			"author":          "J.R.R. Tolkien",
			"qty":             "3",
			"categoryId":      fmt.Sprintf("[%d]", cat.ID),
		}
	}

	t.Run("multipart create with uploads", func(t *testing.T) {
		w := env.doForm(t, http.MethodPost, "/api/v1/book", adminToken, bookForm(),
			map[string]string{"image": "cover.png", "file": "book.pdf"})
		require.Equal(t, http.StatusCreated, w.Code)

		body := decodeBody(t, w)
		data := body["data"].(map[string]any)
		assert.True(t, strings.HasPrefix(data["image"].(string), "/uploads/"))
		assert.True(t, strings.HasSuffix(data["image"].(string), ".png"))
		assert.True(t, strings.HasSuffix(data["file"].(string), ".pdf"))

		cats := data["categories"].([]any)
		require.Len(t, cats, 1)
	})

	t.Run("missing title named in the error", func(t *testing.T) {
		form := bookForm()
		form["isbn"] = "isbn-bc2"
		delete(form, "title")
		w := env.doForm(t, http.MethodPost, "/api/v1/book", adminToken, form, nil)
		require.Equal(t, http.StatusBadRequest, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "Title is required", body["message"])
	})

	t.Run("malformed categoryId", func(t *testing.T) {
		form := bookForm()
		form["isbn"] = "isbn-bc3"
		form["categoryId"] = "not-json"
		w := env.doForm(t, http.MethodPost, "/api/v1/book", adminToken, form, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestUpdateBook(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedUser(t, "admin", models.RoleAdmin)
	book := env.seedBook(t, "Dune", "isbn-bu1", 2)

	t.Run("partial form update", func(t *testing.T) {
		w := env.doForm(t, http.MethodPatch, fmt.Sprintf("/api/v1/book/%d", book.ID), adminToken,
			map[string]string{"author": "Frank Herbert", "qty": "5"}, nil)
		require.Equal(t, http.StatusOK, w.Code)

		body := decodeBody(t, w)
		data := body["data"].(map[string]any)
		assert.Equal(t, "Frank Herbert", data["author"])
		assert.Equal(t, float64(5), data["qty"])
		assert.Equal(t, "Dune", data["title"])
	})

	t.Run("missing book", func(t *testing.T) {
		w := env.doForm(t, http.MethodPatch, "/api/v1/book/9999", adminToken,
			map[string]string{"author": "x"}, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteBookUpload(t *testing.T) {
	env := newTestEnv(t)
	_, adminToken := env.seedUser(t, "admin", models.RoleAdmin)
	ctx := context.Background()

	book := &models.Book{Title: "Emma", ISBN: "isbn-bd1", Qty: 1, Image: "/uploads/x.png", File: "/uploads/x.pdf"}
	require.NoError(t, env.srv.Repo.CreateBook(ctx, book, nil))

	w := env.do(t, http.MethodDelete, fmt.Sprintf("/api/v1/book/%d/image", book.ID), adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	got, err := env.srv.Repo.FindBookByID(ctx, book.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Image)
	assert.Equal(t, "/uploads/x.pdf", got.File)
}

func TestListBooks(t *testing.T) {
	env := newTestEnv(t)
	env.seedBook(t, "The Hobbit", "isbn-bl1", 3)
	env.seedBook(t, "Dune", "isbn-bl2", 310)

	t.Run("public, no token needed", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/books", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, float64(2), body["totalData"])
	})

	t.Run("search matches numeric fields as text", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/books?search=310", "", nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		require.Len(t, body["data"], 1)
		first := body["data"].([]any)[0].(map[string]any)
		assert.Equal(t, "Dune", first["title"])
	})
}
