package controllers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/elibrary/backend/db"
	"github.com/elibrary/backend/models"
	"github.com/elibrary/backend/pagination"
	"github.com/elibrary/backend/search"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type TransactionInput struct {
	IDBook          uint   `form:"idBook" json:"idBook" validate:"required"`
	TotalBook       int    `form:"totalBook" json:"totalBook"`
	TransactionType string `form:"transactionType" json:"transactionType" validate:"required"`
}

// POST /api/v1/transaction
// A Borrow opens a checkout for the caller; qty is decremented atomically
// and never goes below zero.
func (s *Srv) CreateTransaction(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	var in TransactionInput
	if err := c.ShouldBind(&in); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !s.checkInput(c, &in) {
		return
	}
	if in.TransactionType != models.TransactionBorrow {
		respondError(c, http.StatusBadRequest, "transactionType must be Borrow")
		return
	}

	trx, err := s.Repo.BorrowBook(c.Request.Context(), uid, in.IDBook, in.TotalBook, s.Cfg.LoanPeriod)
	if err != nil {
		switch {
		case errors.Is(err, db.ErrOutOfStock), errors.Is(err, db.ErrAlreadyBorrowed):
			respondError(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, db.ErrNotFound):
			respondError(c, http.StatusNotFound, "book not found")
		default:
			respondError(c, http.StatusInternalServerError, err.Error())
		}
		return
	}
	respond(c, http.StatusCreated, "borrow book successfully", trx)
}

// GET /api/v1/transaction/:id
func (s *Srv) GetTransaction(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	trx, err := s.Repo.FindTransactionByID(c.Request.Context(), id)
	if err != nil {
		notFoundOr500(c, err, "transaction")
		return
	}
	respond(c, http.StatusOK, "transaction fetched successfully", trx)
}

// GET /api/v1/transactions-by-admin?page=&per-page=&search= (admin)
func (s *Srv) ListTransactionsByAdmin(c *gin.Context) {
	params := pageParams(c)
	trxs, total, err := s.Repo.ListTransactionsByAdmin(c.Request.Context(), params)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	trxs = search.Filter(trxs, c.Query("search"), transactionFields)
	respondList(c, "transactions fetched successfully", pagination.NewPage(trxs, params, total))
}

// GET /api/v1/transactions-borrow-by-user?page=&per-page=
func (s *Srv) ListBorrowsByUser(c *gin.Context) {
	s.listUserTransactions(c, s.Repo.ListBorrowsByUser)
}

// GET /api/v1/transactions-return-by-user?page=&per-page=
func (s *Srv) ListReturnsByUser(c *gin.Context) {
	s.listUserTransactions(c, s.Repo.ListReturnsByUser)
}

func (s *Srv) listUserTransactions(
	c *gin.Context,
	fetch func(ctx context.Context, userID uint, params pagination.Params) ([]models.Transaction, int64, error),
) {
	uid, ok := userID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	params := pageParams(c)
	trxs, total, err := fetch(c.Request.Context(), uid, params)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	trxs = search.Filter(trxs, c.Query("search"), transactionFields)
	respondList(c, "transactions fetched successfully", pagination.NewPage(trxs, params, total))
}

func transactionFields(t models.Transaction) []string {
	status := "Returned"
	if t.IsStatus {
		status = "Borrowed"
	}
	fields := []string{
		t.TransactionType, status,
		strconv.Itoa(t.TotalBook),
		t.LoanDate.Format("02 January 2006"),
		t.LoanMaximum.Format("02 January 2006"),
		t.User.Username, t.Book.Title,
	}
	if t.ReturnDate != nil {
		fields = append(fields, t.ReturnDate.Format("02 January 2006"))
	}
	return fields
}

// PATCH /api/v1/transaction/:id (admin)
// Processing a return is idempotent: a second Return request leaves the
// transaction as it is and still answers 200.
func (s *Srv) UpdateTransaction(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	trxType := c.PostForm("transactionType")
	if trxType == "" {
		trxType = models.TransactionReturn
	}
	if trxType != models.TransactionReturn {
		respondError(c, http.StatusBadRequest, "transactionType must be Return")
		return
	}

	trx, err := s.Repo.ReturnTransaction(c.Request.Context(), id)
	if err != nil {
		notFoundOr500(c, err, "transaction")
		return
	}

	// Late return: raise the fine right away instead of waiting for the
	// overdue sweep.
	if trx.ReturnDate != nil && trx.ReturnDate.After(trx.LoanMaximum) {
		days := overdueDays(trx.LoanMaximum, *trx.ReturnDate)
		fine := models.NewOverdueFine(trx, days, s.Cfg.FinePerDay)
		if _, err := s.Repo.UpsertOverdueFine(c.Request.Context(), fine); err != nil {
			s.Log.Warn("fine upsert failed", zap.Error(err))
		}
	}

	respond(c, http.StatusOK, "return book successfully", trx)
}

// DELETE /api/v1/transaction/:id (admin)
func (s *Srv) DeleteTransaction(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := s.Repo.DeleteTransaction(c.Request.Context(), id); err != nil {
		notFoundOr500(c, err, "transaction")
		return
	}
	respond(c, http.StatusOK, "transaction deleted successfully", gin.H{"id": id})
}

func overdueDays(deadline, at time.Time) int {
	days := int(at.Sub(deadline).Hours() / 24)
	if days < 1 {
		days = 1
	}
	return days
}
