package controllers

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/elibrary/backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) seedFine(t *testing.T, u *models.User, days int) *models.Fine {
	t.Helper()
	ctx := context.Background()
	b := e.seedBook(t, "Overdue Reading", fmt.Sprintf("isbn-fine-%d", u.ID), 1)
	trx, err := e.srv.Repo.BorrowBook(ctx, u.ID, b.ID, 1, time.Hour)
	require.NoError(t, err)
	fine, err := e.srv.Repo.UpsertOverdueFine(ctx, models.NewOverdueFine(trx, days, e.srv.Cfg.FinePerDay))
	require.NoError(t, err)
	return fine
}

func TestPayFine(t *testing.T) {
	env := newTestEnv(t)
	owner, ownerToken := env.seedUser(t, "owner", models.RoleUser)
	_, otherToken := env.seedUser(t, "other", models.RoleUser)
	fine := env.seedFine(t, owner, 3)

	t.Run("returns the widget token in data.payment.token", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/fine/%d", fine.ID), ownerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)

		body := decodeBody(t, w)
		data := body["data"].(map[string]any)
		pay := data["payment"].(map[string]any)
		assert.Equal(t, "snap-token", pay["token"])
		assert.Equal(t, "https://pay.example/x", pay["redirect_url"])

		// The gateway saw the fine's amount and order id.
		assert.Equal(t, "15000", env.gw.lastReq.GrossAmount.String())
		assert.Contains(t, env.gw.lastReq.OrderID, fmt.Sprintf("fine-%d-", fine.ID))

		got, err := env.srv.Repo.FindFineByID(context.Background(), fine.ID)
		require.NoError(t, err)
		assert.Equal(t, "snap-token", got.PaymentToken)
		assert.Equal(t, models.FineStatusPending, got.Status)
	})

	t.Run("someone else's fine is forbidden", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/fine/%d", fine.ID), otherToken, nil)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("paid fine cannot reopen payment", func(t *testing.T) {
		_, err := env.srv.Repo.UpdateFineStatus(context.Background(), fine.ID, models.FineStatusSuccess)
		require.NoError(t, err)

		w := env.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/fine/%d", fine.ID), ownerToken, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing fine is a 404", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, "/api/v1/fine/9999", ownerToken, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestListFinesByUserSearch(t *testing.T) {
	env := newTestEnv(t)
	owner, ownerToken := env.seedUser(t, "owner", models.RoleUser)
	fine := env.seedFine(t, owner, 3)
	require.Equal(t, "15000", fine.TotalFine.String())

	t.Run("amount matches as a numeric string", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/fines-by-user?search=15000", ownerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		require.Len(t, body["data"], 1)
		first := body["data"].([]any)[0].(map[string]any)
		assert.Equal(t, float64(fine.ID), first["id"])
	})

	t.Run("status matches too", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/fines-by-user?search=pending", ownerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Len(t, body["data"], 1)
	})

	t.Run("foreign amount filters the page empty", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/api/v1/fines-by-user?search=99999", ownerToken, nil)
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Empty(t, body["data"])
	})
}

func TestUpdateFineStatusByAdmin(t *testing.T) {
	env := newTestEnv(t)
	owner, _ := env.seedUser(t, "owner", models.RoleUser)
	_, adminToken := env.seedUser(t, "admin", models.RoleAdmin)
	fine := env.seedFine(t, owner, 2)
	path := fmt.Sprintf("/api/v1/fine-status-by-admin/%d", fine.ID)

	t.Run("unknown status rejected", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, path, adminToken, map[string]string{"status": "refunded"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("moves to success", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, path, adminToken, map[string]string{"status": "success"})
		require.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		data := body["data"].(map[string]any)
		assert.Equal(t, "success", data["status"])
	})

	t.Run("success is terminal", func(t *testing.T) {
		w := env.do(t, http.MethodPatch, path, adminToken, map[string]string{"status": "pending"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPaymentNotification(t *testing.T) {
	env := newTestEnv(t)
	owner, ownerToken := env.seedUser(t, "owner", models.RoleUser)
	fine := env.seedFine(t, owner, 3)

	// Open a payment so the fine has an order id.
	w := env.do(t, http.MethodPatch, fmt.Sprintf("/api/v1/fine/%d", fine.ID), ownerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	orderID := env.gw.lastReq.OrderID

	notify := func(status, fraud, signature string) *map[string]any {
		return &map[string]any{
			"order_id":           orderID,
			"status_code":        "200",
			"gross_amount":       "15000.00",
			"transaction_status": status,
			"fraud_status":       fraud,
			"signature_key":      signature,
		}
	}

	t.Run("bad signature rejected", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/payment/notification", "", notify("settlement", "", "forged"))
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		got, err := env.srv.Repo.FindFineByID(context.Background(), fine.ID)
		require.NoError(t, err)
		assert.Equal(t, models.FineStatusPending, got.Status)
	})

	t.Run("settlement marks the fine paid", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/payment/notification", "", notify("settlement", "", "good-signature"))
		assert.Equal(t, http.StatusOK, w.Code)

		got, err := env.srv.Repo.FindFineByID(context.Background(), fine.ID)
		require.NoError(t, err)
		assert.True(t, got.Paid())
	})

	t.Run("stale callback cannot undo success", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/payment/notification", "", notify("expire", "", "good-signature"))
		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "fine already settled", body["message"])

		got, err := env.srv.Repo.FindFineByID(context.Background(), fine.ID)
		require.NoError(t, err)
		assert.True(t, got.Paid())
	})

	t.Run("repeated success callback stays a 200", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/api/v1/payment/notification", "", notify("settlement", "", "good-signature"))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown order is a 404", func(t *testing.T) {
		body := map[string]any{
			"order_id":           "fine-0-unknown",
			"status_code":        "200",
			"gross_amount":       "1.00",
			"transaction_status": "settlement",
			"signature_key":      "good-signature",
		}
		w := env.do(t, http.MethodPost, "/api/v1/payment/notification", "", &body)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
