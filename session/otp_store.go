package session

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrOTPNotFound = errors.New("otp not found or expired")
	ErrOTPMismatch = errors.New("otp does not match")
)

// OTPStore keeps one-time verification codes in Redis with a TTL.
type OTPStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewOTPStore(rdb *redis.Client, ttl time.Duration) *OTPStore {
	return &OTPStore{rdb: rdb, ttl: ttl}
}

type otpEntry struct {
	Code     string `json:"code"`
	IssuedAt int64  `json:"iat"`
}

func otpKey(email string) string { return fmt.Sprintf("otp:register:%s", email) }

// Issue generates a 6-digit code for the email, replacing any previous one.
func (s *OTPStore) Issue(ctx context.Context, email string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", err
	}
	b, _ := json.Marshal(otpEntry{Code: code, IssuedAt: time.Now().Unix()})
	if err := s.rdb.Set(ctx, otpKey(email), b, s.ttl).Err(); err != nil {
		return "", err
	}
	return code, nil
}

// Verify checks the submitted code and consumes it on success.
func (s *OTPStore) Verify(ctx context.Context, email, code string) error {
	b, err := s.rdb.Get(ctx, otpKey(email)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrOTPNotFound
		}
		return err
	}
	var e otpEntry
	if err := json.Unmarshal(b, &e); err != nil {
		return err
	}
	if e.Code != code {
		return ErrOTPMismatch
	}
	return s.rdb.Del(ctx, otpKey(email)).Err()
}

func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
