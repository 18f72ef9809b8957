package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/elibrary/backend/app"
	"github.com/elibrary/backend/auth"
	"github.com/elibrary/backend/db"
	"github.com/elibrary/backend/models"
	"github.com/elibrary/backend/payment"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// stubGateway satisfies SnapGateway without a network round trip. The
// signature check accepts exactly "good-signature".
type stubGateway struct {
	token     payment.Token
	createErr error
	lastReq   payment.CreateTransactionRequest
}

func (g *stubGateway) CreateTransaction(_ context.Context, req payment.CreateTransactionRequest) (*payment.Token, error) {
	g.lastReq = req
	if g.createErr != nil {
		return nil, g.createErr
	}
	tok := g.token
	return &tok, nil
}

func (g *stubGateway) VerifyNotification(n *payment.Notification) error {
	if n.SignatureKey != "good-signature" {
		return payment.ErrInvalidSignature
	}
	return nil
}

type testEnv struct {
	srv    *Srv
	router *gin.Engine
	gw     *stubGateway
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))
	t.Cleanup(func() {
		if sqlDB, err := conn.DB(); err == nil {
			sqlDB.Close()
		}
	})

	gw := &stubGateway{token: payment.Token{Token: "snap-token", RedirectURL: "https://pay.example/x"}}
	s := &Srv{
		Repo: db.NewRepo(conn),
		JWT:  auth.NewJWTService("test-secret", "test", time.Hour),
		Snap: gw,
		Cfg: app.Config{
			LoanPeriod: 7 * 24 * time.Hour,
			FinePerDay: 5000,
			UploadsDir: t.TempDir(),
		},
		Log:      zap.NewNop(),
		validate: validator.New(),
	}

	r := gin.New()
	v1 := r.Group("/api/v1")
	v1.POST("/login", s.Login)
	v1.GET("/books", s.ListBooks)
	v1.GET("/book/:id", s.GetBook)
	v1.GET("/categories", s.ListCategories)
	v1.GET("/category/:id", s.GetCategory)
	v1.POST("/payment/notification", s.PaymentNotification)

	authMW := app.AuthRequired(s.JWT)
	user := v1.Group("", authMW)
	user.GET("/check-auth", s.CheckAuth)
	user.GET("/user/:id", s.GetUser)
	user.PATCH("/user/:id", s.UpdateUser)
	user.POST("/transaction", s.CreateTransaction)
	user.GET("/transactions-borrow-by-user", s.ListBorrowsByUser)
	user.GET("/transactions-return-by-user", s.ListReturnsByUser)
	user.GET("/fines-by-user", s.ListFinesByUser)
	user.GET("/fine/:id", s.GetFine)
	user.PATCH("/fine/:id", s.PayFine)

	admin := v1.Group("", authMW, app.AdminOnly())
	admin.POST("/book", s.CreateBook)
	admin.PATCH("/book/:id", s.UpdateBook)
	admin.DELETE("/book/:id", s.DeleteBook)
	admin.DELETE("/book/:id/image", s.DeleteBookImage)
	admin.DELETE("/book/:id/file", s.DeleteBookFile)
	admin.POST("/category", s.CreateCategory)
	admin.PATCH("/category/:id", s.UpdateCategory)
	admin.DELETE("/category/:id", s.DeleteCategory)
	admin.GET("/users", s.ListUsers)
	admin.DELETE("/user/:id", s.DeleteUser)
	admin.GET("/transactions-by-admin", s.ListTransactionsByAdmin)
	admin.PATCH("/transaction/:id", s.UpdateTransaction)
	admin.PATCH("/fine-status-by-admin/:id", s.UpdateFineStatusByAdmin)

	return &testEnv{srv: s, router: r, gw: gw}
}

func (e *testEnv) seedUser(t *testing.T, username, roleName string) (*models.User, string) {
	t.Helper()
	ctx := context.Background()
	role, err := e.srv.Repo.FindRoleByName(ctx, roleName)
	require.NoError(t, err)
	hash, err := auth.HashPassword("s3cret!")
	require.NoError(t, err)
	u := &models.User{
		Username:        username,
		Email:           username + "@example.com",
		Password:        hash,
		IsEmailVerified: true,
		RoleID:          role.ID,
	}
	require.NoError(t, e.srv.Repo.CreateUser(ctx, u))
	u.Role = *role
	token, err := e.srv.JWT.Generate(u.ID, u.Username, u.Email, roleName)
	require.NoError(t, err)
	return u, token
}

func (e *testEnv) seedBook(t *testing.T, title, isbn string, qty int) *models.Book {
	t.Helper()
	b := &models.Book{Title: title, ISBN: isbn, Qty: qty}
	require.NoError(t, e.srv.Repo.CreateBook(context.Background(), b, nil))
	return b
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	return body
}
