package cmd

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"dispatch/internal/adapters/out/redislock"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/jobs"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

type Config struct {
	HTTPPort string

	StorageBackend string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSslMode      string

	// RedisURL selects the Redis driver reservation; empty keeps reservations in process.
	RedisURL string
	// RedisLockTTL bounds a Redis hold. Holds are not renewed, so it must
	// cover the reservation wait plus the slowest commit.
	RedisLockTTL time.Duration
	ZoneFile     string

	SearchRadiusKm      float64
	MaxActiveDeliveries int
	ReservationWait     time.Duration
	LookupConcurrency   int
	TrafficFactor       float64

	BatchPause    time.Duration
	BatchJob      bool
	BatchSchedule string
	PendingLimit  int
}

// DSN is the Postgres connection string built from the DB_* settings.
func (c Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSslMode)
}

// LoadConfig reads the configuration from the environment through getenv,
// falling back to defaults for unset keys.
func LoadConfig(getenv func(string) string) (Config, error) {
	env := envReader{getenv: getenv}

	cfg := Config{
		HTTPPort:       env.getString("HTTP_PORT", "8080"),
		StorageBackend: strings.ToLower(env.getString("STORAGE_BACKEND", StorageMemory)),
		DBHost:         env.getString("DB_HOST", "localhost"),
		DBPort:         env.getString("DB_PORT", "5432"),
		DBUser:         env.getString("DB_USER", ""),
		DBPassword:     env.getString("DB_PASSWORD", ""),
		DBName:         env.getString("DB_NAME", "dispatch"),
		DBSslMode:      env.getString("DB_SSLMODE", "disable"),
		RedisURL:       env.getString("REDIS_URL", ""),
		RedisLockTTL:   env.getDuration("REDIS_LOCK_TTL", redislock.DefaultTTL),
		ZoneFile:       env.getString("ZONE_FILE", ""),

		SearchRadiusKm:      env.getFloat("SEARCH_RADIUS_KM", 10),
		MaxActiveDeliveries: env.getInt("MAX_ACTIVE_DELIVERIES", commands.DefaultMaxActiveDeliveries),
		ReservationWait:     env.getDuration("RESERVATION_WAIT", commands.DefaultReservationWait),
		LookupConcurrency:   env.getInt("LOOKUP_CONCURRENCY", 8),
		TrafficFactor:       env.getFloat("TRAFFIC_FACTOR", 1.0),

		BatchPause:    env.getDuration("BATCH_PAUSE", commands.DefaultBatchPause),
		BatchJob:      env.getBool("BATCH_JOB_ENABLED", true),
		BatchSchedule: env.getString("BATCH_SCHEDULE", jobs.DefaultBatchSchedule),
		PendingLimit:  env.getInt("BATCH_PENDING_LIMIT", jobs.DefaultPendingLimit),
	}

	if cfg.StorageBackend != StorageMemory && cfg.StorageBackend != StoragePostgres {
		env.errs = append(env.errs, fmt.Errorf("STORAGE_BACKEND: %q is not one of memory, postgres", cfg.StorageBackend))
	}
	if cfg.SearchRadiusKm <= 0 {
		env.errs = append(env.errs, errors.New("SEARCH_RADIUS_KM must be positive"))
	}
	if cfg.MaxActiveDeliveries <= 0 {
		env.errs = append(env.errs, errors.New("MAX_ACTIVE_DELIVERIES must be positive"))
	}
	if cfg.TrafficFactor <= 0 {
		env.errs = append(env.errs, errors.New("TRAFFIC_FACTOR must be positive"))
	}
	if cfg.RedisLockTTL <= cfg.ReservationWait {
		env.errs = append(env.errs, errors.New("REDIS_LOCK_TTL must be longer than RESERVATION_WAIT"))
	}
	if cfg.BatchPause < 0 {
		env.errs = append(env.errs, errors.New("BATCH_PAUSE must not be negative"))
	}

	if err := errors.Join(env.errs...); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// OSConfig reads the configuration from the process environment.
func OSConfig() (Config, error) {
	return LoadConfig(os.Getenv)
}

type envReader struct {
	getenv func(string) string
	errs   []error
}

func (e *envReader) getString(key, fallback string) string {
	if v := strings.TrimSpace(e.getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (e *envReader) getInt(key string, fallback int) int {
	raw := e.getString(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return v
}

func (e *envReader) getFloat(key string, fallback float64) float64 {
	raw := e.getString(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return v
}

func (e *envReader) getBool(key string, fallback bool) bool {
	raw := e.getString(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return v
}

func (e *envReader) getDuration(key string, fallback time.Duration) time.Duration {
	raw := e.getString(key, "")
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return v
}
