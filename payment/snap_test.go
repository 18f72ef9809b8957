package payment

import (
	"context"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapConfig(t *testing.T) {
	t.Run("validation", func(t *testing.T) {
		assert.ErrorIs(t, (&SnapConfig{}).Validate(), ErrSnapMissingServerKey)
		assert.ErrorIs(t, (&SnapConfig{ServerKey: "sk"}).Validate(), ErrSnapMissingClientKey)
		assert.NoError(t, (&SnapConfig{ServerKey: "sk", ClientKey: "ck"}).Validate())
	})

	t.Run("endpoint per environment", func(t *testing.T) {
		assert.Equal(t, snapSandboxURL, (&SnapConfig{IsSandbox: true}).endpoint())
		assert.Equal(t, snapProductionURL, (&SnapConfig{}).endpoint())
	})
}

func newTestClient(t *testing.T, handler http.HandlerFunc) (*SnapClient, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewSnapClient(&SnapConfig{ServerKey: "sk-test", ClientKey: "ck-test", IsSandbox: true})
	require.NoError(t, err)
	c.endpoint = srv.URL
	c.httpClient = srv.Client()
	return c, srv
}

func TestCreateTransaction(t *testing.T) {
	t.Run("sends authenticated request and returns the token", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			wantAuth := "Basic " + base64.StdEncoding.EncodeToString([]byte("sk-test:"))
			assert.Equal(t, wantAuth, r.Header.Get("Authorization"))

			var body snapRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "fine-7-abc", body.TransactionDetails.OrderID)
			assert.Equal(t, int64(15000), body.TransactionDetails.GrossAmount)
			require.NotNil(t, body.CustomerDetails)
			assert.Equal(t, "rina", body.CustomerDetails.FirstName)

			w.WriteHeader(http.StatusCreated)
			_ = json.NewEncoder(w).Encode(Token{Token: "snap-token", RedirectURL: "https://pay.example/x"})
		})

		tok, err := c.CreateTransaction(context.Background(), CreateTransactionRequest{
			OrderID:       "fine-7-abc",
			GrossAmount:   decimal.NewFromInt(15000),
			CustomerName:  "rina",
			CustomerEmail: "rina@example.com",
			ItemName:      "Overdue fine",
		})
		require.NoError(t, err)
		assert.Equal(t, "snap-token", tok.Token)
		assert.Equal(t, "https://pay.example/x", tok.RedirectURL)
	})

	t.Run("gateway error surfaces the message", func(t *testing.T) {
		c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_ = json.NewEncoder(w).Encode(snapErrorResponse{ErrorMessages: []string{"Access denied"}})
		})

		_, err := c.CreateTransaction(context.Background(), CreateTransactionRequest{
			OrderID:     "fine-1-x",
			GrossAmount: decimal.NewFromInt(5000),
		})
		require.ErrorIs(t, err, ErrSnapRequestFailed)
		assert.Contains(t, err.Error(), "Access denied")
	})
}

func signNotification(n *Notification, serverKey string) {
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + serverKey))
	n.SignatureKey = hex.EncodeToString(sum[:])
}

func TestVerifyNotification(t *testing.T) {
	c, err := NewSnapClient(&SnapConfig{ServerKey: "sk-test", ClientKey: "ck-test", IsSandbox: true})
	require.NoError(t, err)

	t.Run("accepts a correctly signed callback", func(t *testing.T) {
		n := &Notification{OrderID: "fine-3-x", StatusCode: "200", GrossAmount: "15000.00"}
		signNotification(n, "sk-test")
		assert.NoError(t, c.VerifyNotification(n))
	})

	t.Run("rejects a tampered callback", func(t *testing.T) {
		n := &Notification{OrderID: "fine-3-x", StatusCode: "200", GrossAmount: "15000.00"}
		signNotification(n, "sk-test")
		n.GrossAmount = "1.00"
		assert.ErrorIs(t, c.VerifyNotification(n), ErrInvalidSignature)
	})

	t.Run("rejects a foreign server key", func(t *testing.T) {
		n := &Notification{OrderID: "fine-3-x", StatusCode: "200", GrossAmount: "15000.00"}
		signNotification(n, "someone-elses-key")
		assert.ErrorIs(t, c.VerifyNotification(n), ErrInvalidSignature)
	})
}

func TestMapStatus(t *testing.T) {
	cases := []struct {
		trxStatus   string
		fraudStatus string
		want        string
	}{
		{"settlement", "", StatusSuccess},
		{"capture", "accept", StatusSuccess},
		{"capture", "challenge", StatusPending},
		{"deny", "", StatusFailed},
		{"cancel", "", StatusFailed},
		{"expire", "", StatusFailed},
		{"failure", "", StatusFailed},
		{"pending", "", StatusPending},
		{"authorize", "", StatusPending},
	}
	for _, tc := range cases {
		t.Run(tc.trxStatus, func(t *testing.T) {
			n := &Notification{TransactionStatus: tc.trxStatus, FraudStatus: tc.fraudStatus}
			assert.Equal(t, tc.want, MapStatus(n))
		})
	}
}
