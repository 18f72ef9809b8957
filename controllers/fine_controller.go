package controllers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/elibrary/backend/db"
	"github.com/elibrary/backend/models"
	"github.com/elibrary/backend/pagination"
	"github.com/elibrary/backend/payment"
	"github.com/elibrary/backend/search"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SnapGateway is what the fine flow needs from the payment adapter.
type SnapGateway interface {
	CreateTransaction(ctx context.Context, req payment.CreateTransactionRequest) (*payment.Token, error)
	VerifyNotification(n *payment.Notification) error
}

// GET /api/v1/fines-by-user?page=&per-page=&search=
func (s *Srv) ListFinesByUser(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	params := pageParams(c)
	fines, total, err := s.Repo.ListFinesByUser(c.Request.Context(), uid, params)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	fines = search.Filter(fines, c.Query("search"), fineFields)
	respondList(c, "fines fetched successfully", pagination.NewPage(fines, params, total))
}

// GET /api/v1/fines-by-admin?page=&per-page=&search= (admin)
func (s *Srv) ListFinesByAdmin(c *gin.Context) {
	params := pageParams(c)
	fines, total, err := s.Repo.ListFinesByAdmin(c.Request.Context(), params)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	fines = search.Filter(fines, c.Query("search"), fineFields)
	respondList(c, "fines fetched successfully", pagination.NewPage(fines, params, total))
}

// fineFields are the string-coerced searchable columns; numeric totals
// match as substrings of their decimal rendering.
func fineFields(f models.Fine) []string {
	return []string{
		f.Status,
		strconv.Itoa(f.TotalDay),
		f.TotalFine.String(),
		f.User.Username,
		f.Book.Title,
	}
}

// GET /api/v1/fine/:id
func (s *Srv) GetFine(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	fine, err := s.Repo.FindFineByID(c.Request.Context(), id)
	if err != nil {
		notFoundOr500(c, err, "fine")
		return
	}
	respond(c, http.StatusOK, "fine fetched successfully", fine)
}

type FineInput struct {
	IDUser        uint `form:"idUser" json:"idUser" validate:"required"`
	IDBook        uint `form:"idBook" json:"idBook" validate:"required"`
	IDTransaction uint `form:"idTransaction" json:"idTransaction" validate:"required"`
	TotalDay      int  `form:"totalDay" json:"totalDay" validate:"required"`
}

// POST /api/v1/fine (admin)
func (s *Srv) CreateFine(c *gin.Context) {
	var in FineInput
	if err := c.ShouldBind(&in); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !s.checkInput(c, &in) {
		return
	}
	fine := models.NewOverdueFine(&models.Transaction{
		ID:     in.IDTransaction,
		IDUser: in.IDUser,
		IDBook: in.IDBook,
	}, in.TotalDay, s.Cfg.FinePerDay)
	if err := s.Repo.CreateFine(c.Request.Context(), fine); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	respond(c, http.StatusCreated, "fine created successfully", fine)
}

// PATCH /api/v1/fine/:id
// Settling a fine: opens a gateway transaction and hands back the widget
// token under data.payment.token. The status stays pending until the
// gateway's notification confirms the payment.
func (s *Srv) PayFine(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	uid, _ := userID(c)

	fine, err := s.Repo.FindFineByID(c.Request.Context(), id)
	if err != nil {
		notFoundOr500(c, err, "fine")
		return
	}
	if fine.IDUser != uid {
		respondError(c, http.StatusForbidden, "forbidden")
		return
	}
	if fine.Paid() {
		respondError(c, http.StatusBadRequest, db.ErrFineAlreadyPaid.Error())
		return
	}

	orderID := fmt.Sprintf("fine-%d-%s", fine.ID, uuid.NewString()[:8])
	token, err := s.Snap.CreateTransaction(c.Request.Context(), payment.CreateTransactionRequest{
		OrderID:       orderID,
		GrossAmount:   fine.TotalFine,
		CustomerName:  fine.User.Username,
		CustomerEmail: fine.User.Email,
		ItemName:      "Late return fine: " + fine.Book.Title,
	})
	if err != nil {
		s.Log.Error("snap transaction failed", zap.Error(err), zap.Uint("fine_id", fine.ID))
		respondError(c, http.StatusBadGateway, "payment gateway unavailable")
		return
	}
	if err := s.Repo.SetFinePayment(c.Request.Context(), fine.ID, orderID, token.Token); err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	respond(c, http.StatusOK, "pay fine successfully", gin.H{
		"fine":    fine,
		"payment": gin.H{"token": token.Token, "redirect_url": token.RedirectURL},
	})
}

type FineStatusInput struct {
	Status string `form:"status" json:"status" validate:"required,oneof=pending failed success"`
}

// PATCH /api/v1/fine-status-by-admin/:id (admin)
// Status only ever moves pending/failed -> success; changing a paid fine
// is rejected.
func (s *Srv) UpdateFineStatusByAdmin(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	var in FineStatusInput
	if err := c.ShouldBind(&in); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !s.checkInput(c, &in) {
		return
	}
	fine, err := s.Repo.UpdateFineStatus(c.Request.Context(), id, in.Status)
	if err != nil {
		if errors.Is(err, db.ErrFineAlreadyPaid) {
			respondError(c, http.StatusBadRequest, err.Error())
			return
		}
		notFoundOr500(c, err, "fine")
		return
	}
	respond(c, http.StatusOK, "fine status updated successfully", fine)
}

// DELETE /api/v1/fine/:id (admin)
func (s *Srv) DeleteFine(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	if err := s.Repo.DeleteFine(c.Request.Context(), id); err != nil {
		notFoundOr500(c, err, "fine")
		return
	}
	respond(c, http.StatusOK, "fine deleted successfully", gin.H{"id": id})
}

// POST /api/v1/payment/notification
// Gateway webhook: verify the signature, then fold the transaction status
// onto the fine. Success is terminal; later callbacks cannot undo it.
func (s *Srv) PaymentNotification(c *gin.Context) {
	var n payment.Notification
	if err := c.ShouldBindJSON(&n); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.Snap.VerifyNotification(&n); err != nil {
		respondError(c, http.StatusUnauthorized, err.Error())
		return
	}

	fine, err := s.Repo.FindFineByOrderID(c.Request.Context(), n.OrderID)
	if err != nil {
		notFoundOr500(c, err, "fine")
		return
	}
	status := payment.MapStatus(&n)
	if _, err := s.Repo.UpdateFineStatus(c.Request.Context(), fine.ID, status); err != nil {
		if errors.Is(err, db.ErrFineAlreadyPaid) {
			// Already settled; acknowledge and drop the stale callback.
			respond(c, http.StatusOK, "fine already settled", nil)
			return
		}
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	s.Log.Info("payment notification processed",
		zap.String("order_id", n.OrderID),
		zap.String("status", status))
	respond(c, http.StatusOK, "notification processed", nil)
}
