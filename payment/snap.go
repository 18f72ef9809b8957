// Package payment adapts the Snap payment gateway: fine settlement opens a
// Snap transaction whose token the browser widget consumes, and the gateway
// reports the outcome through a signed webhook notification.
package payment

import (
	"bytes"
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var (
	ErrSnapRequestFailed = errors.New("snap: transaction request failed")
	ErrInvalidSignature  = errors.New("snap: invalid notification signature")
)

// Statuses a notification maps to on the fine.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
	StatusPending = "pending"
)

type SnapClient struct {
	config     *SnapConfig
	httpClient *http.Client
	endpoint   string
}

func NewSnapClient(config *SnapConfig) (*SnapClient, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &SnapClient{
		config:     config,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		endpoint:   config.endpoint(),
	}, nil
}

// CreateTransaction opens a Snap payment and returns the widget token.
func (c *SnapClient) CreateTransaction(ctx context.Context, req CreateTransactionRequest) (*Token, error) {
	amount := req.GrossAmount.IntPart()
	body := snapRequest{
		TransactionDetails: snapTransactionDetails{
			OrderID:     req.OrderID,
			GrossAmount: amount,
		},
	}
	if req.CustomerName != "" || req.CustomerEmail != "" {
		body.CustomerDetails = &snapCustomerDetails{
			FirstName: req.CustomerName,
			Email:     req.CustomerEmail,
		}
	}
	if req.ItemName != "" {
		body.ItemDetails = []snapItemDetail{{
			ID:       req.OrderID,
			Price:    amount,
			Quantity: 1,
			Name:     req.ItemName,
		}}
	}

	b, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Basic "+basicAuth(c.config.ServerKey))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		var snapErr snapErrorResponse
		_ = json.NewDecoder(resp.Body).Decode(&snapErr)
		if len(snapErr.ErrorMessages) > 0 {
			return nil, fmt.Errorf("%w: %s", ErrSnapRequestFailed, snapErr.ErrorMessages[0])
		}
		return nil, fmt.Errorf("%w: status %d", ErrSnapRequestFailed, resp.StatusCode)
	}

	var token Token
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return nil, err
	}
	return &token, nil
}

// VerifyNotification checks the SHA512 signature the gateway puts on every
// status callback: sha512(order_id + status_code + gross_amount + serverKey).
func (c *SnapClient) VerifyNotification(n *Notification) error {
	sum := sha512.Sum512([]byte(n.OrderID + n.StatusCode + n.GrossAmount + c.config.ServerKey))
	expected := hex.EncodeToString(sum[:])
	if subtle.ConstantTimeCompare([]byte(expected), []byte(n.SignatureKey)) != 1 {
		return ErrInvalidSignature
	}
	return nil
}

// MapStatus folds the gateway's transaction status onto the fine's
// three-valued status. Success only on settlement or an accepted capture.
func MapStatus(n *Notification) string {
	switch n.TransactionStatus {
	case "settlement":
		return StatusSuccess
	case "capture":
		if n.FraudStatus == "challenge" {
			return StatusPending
		}
		return StatusSuccess
	case "deny", "cancel", "expire", "failure":
		return StatusFailed
	default: // pending, authorize, ...
		return StatusPending
	}
}

func basicAuth(serverKey string) string {
	return base64.StdEncoding.EncodeToString([]byte(serverKey + ":"))
}
