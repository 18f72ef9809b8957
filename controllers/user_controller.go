package controllers

import (
	"net/http"
	"strconv"

	"github.com/elibrary/backend/auth"
	"github.com/elibrary/backend/models"
	"github.com/elibrary/backend/pagination"
	"github.com/elibrary/backend/search"

	"github.com/gin-gonic/gin"
)

// GET /api/v1/users?page=&per-page=&search= (admin)
func (s *Srv) ListUsers(c *gin.Context) {
	params := pageParams(c)
	users, total, err := s.Repo.ListUsers(c.Request.Context(), params)
	if err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	users = search.Filter(users, c.Query("search"), func(u models.User) []string {
		return []string{u.Username, u.Email, u.Gender, u.Phone, u.Address, u.RoleName()}
	})
	respondList(c, "users fetched successfully", pagination.NewPage(users, params, total))
}

// GET /api/v1/user/:id
func (s *Srv) GetUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	u, err := s.Repo.FindUserByID(c.Request.Context(), id)
	if err != nil {
		notFoundOr500(c, err, "user")
		return
	}
	respond(c, http.StatusOK, "user fetched successfully", u)
}

// PATCH /api/v1/user/:id (multipart; own profile, or any profile for admins)
func (s *Srv) UpdateUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	uid, _ := userID(c)
	role := c.GetString("role")
	if id != uid && role != models.RoleAdmin && role != models.RoleSuperAdmin {
		respondError(c, http.StatusForbidden, "forbidden")
		return
	}

	fields := map[string]any{}
	for form, column := range map[string]string{
		"username": "username",
		"gender":   "gender",
		"phone":    "phone",
		"address":  "address",
	} {
		if v, ok := c.GetPostForm(form); ok {
			fields[column] = v
		}
	}
	if v, ok := c.GetPostForm("password"); ok && v != "" {
		hash, err := auth.HashPassword(v)
		if err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
		fields["password"] = hash
	}
	// Only admins may move a user between roles.
	if v, ok := c.GetPostForm("roleId"); ok && (role == models.RoleAdmin || role == models.RoleSuperAdmin) {
		if n, err := strconv.ParseUint(v, 10, 32); err == nil {
			fields["role_id"] = uint(n)
		}
	}
	if fh, err := c.FormFile("photo"); err == nil {
		url, err := s.saveUpload(c, fh)
		if err != nil {
			respondError(c, http.StatusInternalServerError, err.Error())
			return
		}
		fields["photo"] = url
	}

	u, err := s.Repo.UpdateUser(c.Request.Context(), id, fields)
	if err != nil {
		notFoundOr500(c, err, "user")
		return
	}
	respond(c, http.StatusOK, "user updated successfully", u)
}

// DELETE /api/v1/user/:id (admin)
func (s *Srv) DeleteUser(c *gin.Context) {
	id, ok := idParam(c)
	if !ok {
		return
	}
	uid, _ := userID(c)
	if id == uid {
		respondError(c, http.StatusBadRequest, "cannot delete yourself")
		return
	}
	target, err := s.Repo.FindUserByID(c.Request.Context(), id)
	if err != nil {
		notFoundOr500(c, err, "user")
		return
	}
	if target.RoleName() == models.RoleSuperAdmin {
		respondError(c, http.StatusForbidden, "cannot delete a super admin")
		return
	}
	if err := s.Repo.DeleteUserByID(c.Request.Context(), id); err != nil {
		respondError(c, http.StatusInternalServerError, err.Error())
		return
	}
	respond(c, http.StatusOK, "user deleted successfully", gin.H{"id": id})
}
