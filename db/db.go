package db

import (
	"fmt"
	"log"
	"os"

	"github.com/elibrary/backend/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func ConnectDB() *gorm.DB {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database: ", err)
	}

	if err := Migrate(conn); err != nil {
		log.Fatal("Failed to migrate models: ", err)
	}
	log.Println("Database connected")
	return conn
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Role{}, &models.User{}, &models.Category{}, &models.Book{},
		&models.Transaction{}, &models.Fine{},
	); err != nil {
		return err
	}

	if err := seedRoles(db); err != nil {
		return err
	}

	// Partial indexes are Postgres-only; tests run on sqlite.
	if db.Dialector.Name() != "postgres" {
		return nil
	}

	// At most one open borrow per user and book.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE UNIQUE INDEX IF NOT EXISTS %s_one_open_per_user_book
	  ON %s (id_user, id_book)
	  WHERE is_status = TRUE AND transaction_type = 'Borrow';
	`, models.TransactionTable, models.TransactionTable)).Error; err != nil {
		return err
	}

	// Overdue scans hit open borrows by deadline.
	if err := db.Exec(fmt.Sprintf(`
	  CREATE INDEX IF NOT EXISTS %s_open_loan_maximum
	  ON %s (loan_maximum)
	  WHERE is_status = TRUE;
	`, models.TransactionTable, models.TransactionTable)).Error; err != nil {
		return err
	}

	return nil
}

func seedRoles(db *gorm.DB) error {
	for _, name := range []string{models.RoleSuperAdmin, models.RoleAdmin, models.RoleUser} {
		role := models.Role{Role: name}
		if err := db.Where(models.Role{Role: name}).FirstOrCreate(&role).Error; err != nil {
			return err
		}
	}
	return nil
}
