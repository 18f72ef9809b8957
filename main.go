package main

import (
	"log"

	"github.com/elibrary/backend/app"
	"github.com/elibrary/backend/config"
	"github.com/elibrary/backend/routes"
	"github.com/elibrary/backend/workers"
)

func main() {
	config.LoadEnv()

	application := app.MustNew()
	defer application.Close()

	r := application.Router

	// Health
	r.GET("/healthz", func(c *app.Ctx) { c.JSON(200, app.H{"ok": true}) })

	routes.RegisterRoutes(r, application)

	// Overdue sweep raises pending fines for borrows past their deadline.
	overdue := workers.NewOverdueNotifier(application)
	overdue.Start()
	defer overdue.Stop()

	log.Printf("listening on :%s", application.Config.Port)
	_ = r.Run(":" + application.Config.Port)
}
