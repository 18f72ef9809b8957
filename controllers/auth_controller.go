package controllers

import (
	"net/http"

	"github.com/elibrary/backend/auth"
	"github.com/elibrary/backend/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type RegisterInput struct {
	Username string `form:"username" validate:"required"`
	Email    string `form:"email" validate:"required,email"`
	Password string `form:"password" validate:"required,min=8"`
	Gender   string `form:"gender"`
	Phone    string `form:"phone"`
	Address  string `form:"address"`
}

// POST /api/v1/register
func (s *Srv) Register(c *gin.Context) {
	var in RegisterInput
	if err := c.ShouldBind(&in); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !s.checkInput(c, &in) {
		return
	}

	role, err := s.Repo.FindRoleByName(c.Request.Context(), models.RoleUser)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}

	u := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
		Gender:   in.Gender,
		Phone:    in.Phone,
		Address:  in.Address,
		RoleID:   role.ID,
	}
	if fh, err := c.FormFile("photo"); err == nil {
		url, err := s.saveUpload(c, fh)
		if err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
		u.Photo = url
	}

	if err := s.Repo.CreateUser(c.Request.Context(), u); err != nil {
		respondError(c, http.StatusBadRequest, "username or email already registered")
		return
	}

	code, err := s.OTP.Issue(c.Request.Context(), u.Email)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.Mailer.SendOTP(c.Request.Context(), u.Email, code); err != nil {
		s.Log.Warn("otp delivery failed", zap.Error(err))
	}

	respond(c, http.StatusCreated, "register successfully, please check your email for the otp code", u)
}

type VerifyOTPInput struct {
	Email string `form:"email" json:"email" validate:"required,email"`
	OTP   string `form:"otp" json:"otp" validate:"required"`
}

// POST /api/v1/verify-otp
func (s *Srv) VerifyOTP(c *gin.Context) {
	var in VerifyOTPInput
	if err := c.ShouldBind(&in); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !s.checkInput(c, &in) {
		return
	}

	if err := s.OTP.Verify(c.Request.Context(), in.Email, in.OTP); err != nil {
		respondError(c, http.StatusBadRequest, "otp is invalid or expired")
		return
	}
	if err := s.Repo.MarkEmailVerified(c.Request.Context(), in.Email); err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respond(c, http.StatusOK, "email verified successfully", nil)
}

type ResendOTPInput struct {
	Email string `form:"email" json:"email" validate:"required,email"`
}

// POST /api/v1/resend-otp
func (s *Srv) ResendOTP(c *gin.Context) {
	var in ResendOTPInput
	if err := c.ShouldBind(&in); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !s.checkInput(c, &in) {
		return
	}

	u, err := s.Repo.FindUserByEmail(c.Request.Context(), in.Email)
	if err != nil {
		notFoundOr500(c, err, "user")
		return
	}
	if u.IsEmailVerified {
		respondError(c, http.StatusBadRequest, "email is already verified")
		return
	}

	code, err := s.OTP.Issue(c.Request.Context(), u.Email)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.Mailer.SendOTP(c.Request.Context(), u.Email, code); err != nil {
		s.Log.Warn("otp delivery failed", zap.Error(err))
	}
	respond(c, http.StatusOK, "otp resent successfully", nil)
}

type LoginInput struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

// POST /api/v1/login
// The response data is what the auth provider stores as the session user:
// {username, email, role: {id, role}, token}.
func (s *Srv) Login(c *gin.Context) {
	var in LoginInput
	if err := c.ShouldBind(&in); err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	if !s.checkInput(c, &in) {
		return
	}

	u, err := s.Repo.FindUserByEmail(c.Request.Context(), in.Email)
	if err != nil || !auth.CheckPassword(u.Password, in.Password) {
		respondError(c, http.StatusUnauthorized, "email or password is wrong")
		return
	}
	if !u.IsEmailVerified {
		respondError(c, http.StatusUnauthorized, "email is not verified yet")
		return
	}

	token, err := s.JWT.Generate(u.ID, u.Username, u.Email, u.RoleName())
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	_ = s.Repo.TouchUserLogin(c.Request.Context(), u.ID)

	respond(c, http.StatusOK, "login successfully", gin.H{
		"username": u.Username,
		"email":    u.Email,
		"role":     gin.H{"id": u.Role.ID, "role": u.Role.Role},
		"token":    token,
	})
}

// GET /api/v1/check-auth
func (s *Srv) CheckAuth(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized")
		return
	}
	u, err := s.Repo.FindUserByID(c.Request.Context(), uid)
	if err != nil {
		notFoundOr500(c, err, "user")
		return
	}
	respond(c, http.StatusOK, "authenticated", u)
}
