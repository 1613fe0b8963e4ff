package settings

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/importacademy/hotmart-bridge/internal/redisx"
)

// Keys the admin surface writes and the pipeline reads. The names are
// kept from the legacy installation so existing rows keep working.
const (
	KeyLoggingEnabled = "hotmart_logging_enabled"
	KeyLogRawData     = "hotmart_log_raw_data"
	KeyLogFilePath    = "hotmart_log_file_path"
	KeyErrorEmail     = "hotmart_error_email"
)

// Enabled is the value boolean-ish settings compare against.
const Enabled = "yes"

// Store reads admin-mutable settings from postgres with a short-TTL
// redis cache in front. A lookup failure degrades to the caller's
// default rather than failing the request.
type Store struct {
	DB    *pgxpool.Pool
	Redis *redis.Client
}

func (s *Store) Get(ctx context.Context, key, def string) string {
	cacheKey := fmt.Sprintf(redisx.KeySetting, key)
	if s.Redis != nil {
		if v, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			return v
		}
	}

	var v string
	err := s.DB.QueryRow(ctx, `SELECT value FROM settings WHERE key=$1`, key).Scan(&v)
	if errors.Is(err, pgx.ErrNoRows) {
		return def
	}
	if err != nil {
		log.Printf("settings: read %s: %v", key, err)
		return def
	}

	if s.Redis != nil {
		_ = s.Redis.Set(ctx, cacheKey, v, redisx.TTLSetting).Err()
	}
	return v
}

func (s *Store) Set(ctx context.Context, key, value string) error {
	_, err := s.DB.Exec(ctx, `
		INSERT INTO settings(key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value`, key, value)
	if err != nil {
		return err
	}
	if s.Redis != nil {
		_ = s.Redis.Del(ctx, fmt.Sprintf(redisx.KeySetting, key)).Err()
	}
	return nil
}
