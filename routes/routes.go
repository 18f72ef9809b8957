package routes

import (
	"time"

	"github.com/elibrary/backend/app"
	"github.com/elibrary/backend/controllers"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, a *app.App) {
	s := controllers.GetSrv(a)

	authMW := app.AuthRequired(s.JWT)
	adminMW := app.AdminOnly()
	seenMW := app.TouchLastSeen(s.Repo, a.RDB, 5*time.Minute)

	// Uploaded book covers, e-books and user photos.
	r.Static("/uploads", a.Config.UploadsDir)

	v1 := r.Group("/api/v1")

	// ------------------------------
	// Public: registration and login
	// ------------------------------
	v1.POST("/register", s.Register)
	v1.POST("/verify-otp", s.VerifyOTP)
	v1.POST("/resend-otp", s.ResendOTP)
	v1.POST("/login", s.Login)

	// Public browsing
	v1.GET("/books", s.ListBooks)
	v1.GET("/book/:id", s.GetBook)
	v1.GET("/categories", s.ListCategories)
	v1.GET("/category/:id", s.GetCategory)

	// Payment gateway webhook (authenticated by its signature)
	v1.POST("/payment/notification", s.PaymentNotification)

	// ------------------------------
	// Authenticated users
	// ------------------------------
	user := v1.Group("", authMW, seenMW)
	{
		user.GET("/check-auth", s.CheckAuth)
		user.GET("/user/:id", s.GetUser)
		user.PATCH("/user/:id", s.UpdateUser)

		user.POST("/transaction", s.CreateTransaction)
		user.GET("/transaction/:id", s.GetTransaction)
		user.GET("/transactions-borrow-by-user", s.ListBorrowsByUser)
		user.GET("/transactions-return-by-user", s.ListReturnsByUser)

		user.GET("/fines-by-user", s.ListFinesByUser)
		user.GET("/fine/:id", s.GetFine)
		user.PATCH("/fine/:id", s.PayFine)
	}

	// ------------------------------
	// Admin CRUD
	// ------------------------------
	admin := v1.Group("", authMW, adminMW, seenMW)
	{
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
		admin.DELETE("/transaction/:id", s.DeleteTransaction)

		admin.POST("/fine", s.CreateFine)
		admin.GET("/fines-by-admin", s.ListFinesByAdmin)
		admin.PATCH("/fine-status-by-admin/:id", s.UpdateFineStatusByAdmin)
		admin.DELETE("/fine/:id", s.DeleteFine)
	}
}
