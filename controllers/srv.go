// Package controllers wires HTTP requests to the repositories. Every
// response body carries {status, message}; collection endpoints add the
// {data, currentPage, totalData, totalPage} envelope.
package controllers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/elibrary/backend/app"
	"github.com/elibrary/backend/auth"
	"github.com/elibrary/backend/db"
	"github.com/elibrary/backend/pagination"
	"github.com/elibrary/backend/session"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Srv struct {
	Repo   *db.Repo
	JWT    *auth.JWTService
	OTP    *session.OTPStore
	Mailer session.Mailer
	Snap   SnapGateway
	Cfg    app.Config
	Log    *zap.Logger

	validate *validator.Validate
}

func GetSrv(a *app.App) *Srv {
	return &Srv{
		Repo:     db.NewRepo(a.DB),
		JWT:      auth.NewJWTService(a.Config.JWTSecret, a.Config.JWTIssuer, a.Config.TokenTTL),
		OTP:      a.OTP(),
		Mailer:   a.Mailer(),
		Snap:     a.Snap,
		Cfg:      a.Config,
		Log:      a.Log,
		validate: validator.New(),
	}
}

// --- responses ---

func respond(c *gin.Context, code int, message string, data any) {
	body := app.H{"status": code, "message": message}
	if data != nil {
		body["data"] = data
	}
	c.JSON(code, body)
}

func respondList[T any](c *gin.Context, message string, page pagination.Page[T]) {
	c.JSON(http.StatusOK, app.H{
		"status":      http.StatusOK,
		"message":     message,
		"data":        page.Data,
		"currentPage": page.CurrentPage,
		"totalData":   page.TotalData,
		"totalPage":   page.TotalPage,
	})
}

func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, app.H{"status": code, "message": message})
}

func notFoundOr500(c *gin.Context, err error, what string) {
	if errors.Is(err, db.ErrNotFound) {
		respondError(c, http.StatusNotFound, what+" not found")
		return
	}
	respondError(c, http.StatusInternalServerError, err.Error())
}

// --- request plumbing ---

func pageParams(c *gin.Context) pagination.Params {
	return pagination.ParseParams(c.Query("page"), c.Query("per-page"))
}

func idParam(c *gin.Context) (uint, bool) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || n == 0 {
		respondError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(n), true
}

// checkInput validates a bound struct and, on failure, writes a 400 with a
// "<Field> is required" style message. Returns false when blocked.
func (s *Srv) checkInput(c *gin.Context, input any) bool {
	err := s.validate.Struct(input)
	if err == nil {
		return true
	}
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		respondError(c, http.StatusBadRequest, validationMessage(verrs[0]))
		return false
	}
	respondError(c, http.StatusBadRequest, err.Error())
	return false
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	default:
		return fe.Field() + " is invalid"
	}
}

func userID(c *gin.Context) (uint, bool) { return app.UserID(c) }

// saveUpload stores one multipart file under the uploads dir with a uuid
// name and returns its public URL path.
func (s *Srv) saveUpload(c *gin.Context, fh *multipart.FileHeader) (string, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(fh.Filename))
	if err := c.SaveUploadedFile(fh, filepath.Join(s.Cfg.UploadsDir, name)); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}
