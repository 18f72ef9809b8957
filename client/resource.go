package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/elibrary/backend/models"
	"github.com/elibrary/backend/pagination"
)

// Resource is a typed handle on one API entity. The list and item paths
// differ per entity (plural list route, singular item route), so both are
// carried explicitly.
type Resource[T any] struct {
	c        *Client
	listPath string
	itemPath string
}

func NewResource[T any](c *Client, listPath, itemPath string) *Resource[T] {
	return &Resource[T]{c: c, listPath: listPath, itemPath: itemPath}
}

// List fetches one page. Page and perPage fall back to the server defaults
// when zero.
func (r *Resource[T]) List(ctx context.Context, page, perPage int) (*pagination.Page[T], error) {
	path := r.listPath
	if page > 0 || perPage > 0 {
		path = fmt.Sprintf("%s?page=%d&per-page=%d", r.listPath, page, perPage)
	}
	var out pagination.Page[T]
	if err := r.c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *Resource[T]) Get(ctx context.Context, id uint) (*T, error) {
	var out struct {
		Data T `json:"data"`
	}
	if err := r.c.do(ctx, http.MethodGet, fmt.Sprintf("%s/%d", r.itemPath, id), nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (r *Resource[T]) Create(ctx context.Context, in any) (*T, error) {
	var out struct {
		Data T `json:"data"`
	}
	if err := r.c.do(ctx, http.MethodPost, r.itemPath, in, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (r *Resource[T]) Update(ctx context.Context, id uint, in any) (*T, error) {
	var out struct {
		Data T `json:"data"`
	}
	if err := r.c.do(ctx, http.MethodPatch, fmt.Sprintf("%s/%d", r.itemPath, id), in, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (r *Resource[T]) Delete(ctx context.Context, id uint) error {
	return r.c.do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", r.itemPath, id), nil, nil)
}

// FormResource covers the entities whose create/update endpoints read
// multipart forms, not JSON: books and users. Sending JSON at those
// endpoints would be acknowledged with 200 and change nothing, so their
// mutations only exist in form shape here.
type FormResource[T any] struct {
	*Resource[T]
}

func (r *FormResource[T]) Create(ctx context.Context, fields map[string]string, files ...FormFile) (*T, error) {
	var out struct {
		Data T `json:"data"`
	}
	if err := r.c.doForm(ctx, http.MethodPost, r.itemPath, fields, files, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func (r *FormResource[T]) Update(ctx context.Context, id uint, fields map[string]string, files ...FormFile) (*T, error) {
	var out struct {
		Data T `json:"data"`
	}
	path := fmt.Sprintf("%s/%d", r.itemPath, id)
	if err := r.c.doForm(ctx, http.MethodPatch, path, fields, files, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}

func Books(c *Client) *FormResource[models.Book] {
	return &FormResource[models.Book]{NewResource[models.Book](c, "/books", "/book")}
}

func Categories(c *Client) *Resource[models.Category] {
	return NewResource[models.Category](c, "/categories", "/category")
}

func Users(c *Client) *FormResource[models.User] {
	return &FormResource[models.User]{NewResource[models.User](c, "/users", "/user")}
}

// Transactions lists through the admin route; item operations go through
// /transaction/:id for both roles.
func Transactions(c *Client) *Resource[models.Transaction] {
	return NewResource[models.Transaction](c, "/transactions-by-admin", "/transaction")
}

func BorrowsByUser(c *Client) *Resource[models.Transaction] {
	return NewResource[models.Transaction](c, "/transactions-borrow-by-user", "/transaction")
}

func ReturnsByUser(c *Client) *Resource[models.Transaction] {
	return NewResource[models.Transaction](c, "/transactions-return-by-user", "/transaction")
}

func Fines(c *Client) *Resource[models.Fine] {
	return NewResource[models.Fine](c, "/fines-by-admin", "/fine")
}

func FinesByUser(c *Client) *Resource[models.Fine] {
	return NewResource[models.Fine](c, "/fines-by-user", "/fine")
}
