// Package db provides database connection management for the application.
package db

import (
	"fmt"
	"log"
	"os"
	"time"

	gmysql "gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	authentity "watchlist_backend/internal/feature/auth/domain/entity"
	watchlistadapters "watchlist_backend/internal/feature/watchlist/adapters"
)

// OpenDB opens the application database.
// When DB_HOST is set it connects to MySQL (retrying for up to 60s so the
// container can come up first); otherwise it falls back to a local SQLite
// file for development.
func OpenDB() *gorm.DB {
	var (
		db  *gorm.DB
		err error
	)

	if host := os.Getenv("DB_HOST"); host != "" {
		dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=Local",
			os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD"),
			host, os.Getenv("DB_PORT"), os.Getenv("DB_NAME"))

		deadline := time.Now().Add(60 * time.Second)
		for {
			db, err = gorm.Open(gmysql.Open(dsn), &gorm.Config{TranslateError: true})
			if err == nil {
				break
			}
			if time.Now().After(deadline) {
				log.Fatalf("DB connect failed after 60s: %v", err)
			}
			log.Printf("DB connect failed, retrying...: %v", err)
			time.Sleep(3 * time.Second)
		}
	} else {
		path := os.Getenv("SQLITE_PATH")
		if path == "" {
			path = "./watchlist.db"
		}
		db, err = gorm.Open(sqlite.Open(path), &gorm.Config{TranslateError: true})
		if err != nil {
			log.Fatalf("failed to open sqlite database: %v", err)
		}
		log.Println("USING_SQLITE:", path)
	}

	if os.Getenv("RUN_MIGRATIONS") == "true" {
		if err := db.AutoMigrate(
			&authentity.User{},
			&watchlistadapters.WatchlistModel{},
		); err != nil {
			log.Fatalf("failed to migrate: %v", err)
		}
	}

	return db
}
