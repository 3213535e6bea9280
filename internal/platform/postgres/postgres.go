package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Pool bounds the connections held by the shared *sql.DB.
type Pool struct {
	MaxOpen     int
	MaxIdle     int
	MaxLifetime time.Duration
}

// DefaultPool suits a single API or worker process.
var DefaultPool = Pool{MaxOpen: 20, MaxIdle: 5, MaxLifetime: 30 * time.Minute}

type options struct {
	pool     Pool
	logLevel gormlogger.LogLevel
}

// Option tunes Connect.
type Option func(*options)

// WithPool overrides DefaultPool.
func WithPool(p Pool) Option {
	return func(o *options) {
		o.pool = p
	}
}

// WithQueryLogging makes GORM print every statement.
func WithQueryLogging() Option {
	return func(o *options) {
		o.logLevel = gormlogger.Info
	}
}

// Connect opens PostgreSQL through GORM and pings it. Timestamps are written in UTC and
// driver errors are translated so unique violations surface as gorm.ErrDuplicatedKey.
func Connect(ctx context.Context, dsn string, opts ...Option) (*gorm.DB, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("postgres DSN is empty")
	}
	o := options{pool: DefaultPool, logLevel: gormlogger.Warn}
	for _, opt := range opts {
		opt(&o)
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
		Logger:         gormlogger.Default.LogMode(o.logLevel),
	})
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(o.pool.MaxOpen)
	sqlDB.SetMaxIdleConns(o.pool.MaxIdle)
	sqlDB.SetConnMaxLifetime(o.pool.MaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	return db, nil
}

// Open connects when dsn is set and returns the DB with its cleanup. An empty dsn yields a
// nil DB so callers run on the in-memory adapters; a configured but unreachable database
// is an error rather than a silent fallback, because the two stores do not share data.
func Open(ctx context.Context, dsn string, logger *slog.Logger, opts ...Option) (*gorm.DB, func(), error) {
	if strings.TrimSpace(dsn) == "" {
		logger.Warn("POSTGRES_DSN not set, using in-memory repositories")
		return nil, func() {}, nil
	}
	db, err := Connect(ctx, dsn, opts...)
	if err != nil {
		return nil, func() {}, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, func() {}, err
	}
	logger.Info("postgres connection established")
	return db, func() { _ = sqlDB.Close() }, nil
}
