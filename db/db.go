package db

import (
	"database/sql"
	"fmt"
	"log"
	"minesweeper/internal/minesweeper/models"

	_ "github.com/lib/pq"
)

func GetDBConnectionString(c *models.Config) string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

// InitDB opens the credentials database used by the postgres
// authentication backend. Failing to reach it at startup is fatal.
func InitDB(cfg *models.Config) *sql.DB {
	connStr := GetDBConnectionString(cfg)
	db, err := sql.Open("postgres", connStr)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.Ping(); err != nil {
		log.Fatalf("Failed to ping database: %v", err)
	}

	return db
}
