package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
)

// Settings holds the MySQL connection parameters.
type Settings struct {
	User string
	Pass string
	Host string
	Port string
	Name string
}

// DSN builds the go-sql-driver/mysql data source name.
func (s Settings) DSN() string {
	auth := s.User
	if s.Pass != "" {
		auth = fmt.Sprintf("%s:%s", s.User, s.Pass)
	}
	// parseTime=true -> DATE -> time.Time | loc=UTC keeps holiday dates on the right day
	return fmt.Sprintf("%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=true&loc=UTC",
		auth, s.Host, s.Port, s.Name)
}

// Open connects to MySQL and verifies the connection.
func Open(ctx context.Context, s Settings) (*sql.DB, error) {
	db, err := sql.Open("mysql", s.DSN())
	if err != nil {
		return nil, err
	}

	// Pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(30 * time.Minute)

	// Ping with timeout
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}
	return db, nil
}
