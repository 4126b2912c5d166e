package utils

import (
	"database/sql"
	"fmt"
	"os"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// Getenv returns the variable's value or def when it is unset or empty.
func Getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// BuildPostgresDSNFromEnv assembles a lib/pq DSN from the PG_* variables,
// with defaults suitable for a local development database.
func BuildPostgresDSNFromEnv() string {
	host := Getenv("PG_HOST", "127.0.0.1")
	port := Getenv("PG_PORT", "5432")
	user := Getenv("PG_USER", "orbis")
	pass := Getenv("PG_PASSWORD", "orbis")
	db := Getenv("PG_DBNAME", "orbis")
	ssl := Getenv("PG_SSLMODE", "disable")
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, pass, db, ssl)
}

// OpenPostgres opens and pings the world database.
func OpenPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// OpenRedisFromEnv returns a client for the route cache, or nil when
// REDIS_ADDR is unset, which turns caching off.
func OpenRedisFromEnv() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		return nil
	}
	dbIndex := 0
	if raw := os.Getenv("REDIS_DB"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			dbIndex = parsed
		}
	}
	return redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       dbIndex,
	})
}
