package config

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

var (
	DB   *sql.DB
	dbMu sync.Mutex
)

// ConnectDB initializes the shared DB connection (idempotent).
func ConnectDB() *sql.DB {
	dbMu.Lock()
	defer dbMu.Unlock()

	if DB != nil {
		return DB
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s)/%s?parseTime=true&loc=Local&charset=utf8mb4&timeout=5s&readTimeout=30s&writeTimeout=30s",
		envOr("DB_USER", "root"),
		os.Getenv("DB_PASSWORD"),
		envOr("DB_ADDR", "127.0.0.1:3306"),
		envOr("DB_NAME", "xcargo"),
	)

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		log.Fatalf("No se pudo abrir la base de datos: %v", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(10 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("No se pudo hacer ping a la base de datos: %v", err)
	}

	DB = db
	log.Println("Conexión a MySQL establecida")
	return DB
}

func EnsureDB() error {
	dbMu.Lock()
	defer dbMu.Unlock()

	if DB == nil {
		ConnectDB()
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := DB.PingContext(ctx); err != nil {
		return err
	}
	return nil
}

func CloseDB() {
	dbMu.Lock()
	defer dbMu.Unlock()

	if DB != nil {
		_ = DB.Close()
		DB = nil
	}
}

func envOr(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
