package postgres

import (
	"context"
	"embed"
	"fmt"
	"log/slog"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema/*.sql
var schemaFS embed.FS

// DBTX is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxBeginner is a DBTX that can open transactions.
type TxBeginner interface {
	DBTX
	Begin(ctx context.Context) (pgx.Tx, error)
}

// ClientConfig holds configuration for the PostgreSQL pool.
type ClientConfig struct {
	DSN             string
	ApplicationName string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// DefaultClientConfig returns pool settings sized for one API or worker process.
func DefaultClientConfig(dsn string) ClientConfig {
	return ClientConfig{
		DSN:             dsn,
		ApplicationName: "mediamind",
		MaxConns:        10,
		MinConns:        2,
		MaxConnLifetime: time.Hour,
		MaxConnIdleTime: 15 * time.Minute,
	}
}

// Client owns the connection pool shared by the repositories.
type Client struct {
	pool *pgxpool.Pool
}

// NewClient opens the pool and pings the server.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DSN: %w", err)
	}

	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.MaxConnIdleTime = cfg.MaxConnIdleTime
	if cfg.ApplicationName != "" {
		poolCfg.ConnConfig.RuntimeParams["application_name"] = cfg.ApplicationName
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Client{pool: pool}, nil
}

// Migrate applies the embedded schema files in name order.
// Every statement is idempotent, so it runs on each startup.
func (c *Client) Migrate(ctx context.Context) error {
	return migrate(ctx, c.pool)
}

func migrate(ctx context.Context, db DBTX) error {
	files, err := schemaFiles()
	if err != nil {
		return err
	}

	for _, name := range files {
		data, err := schemaFS.ReadFile(path.Join("schema", name))
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if _, err := db.Exec(ctx, string(data)); err != nil {
			return fmt.Errorf("apply %s: %w", name, err)
		}
		slog.Info("schema applied", "file", name)
	}
	return nil
}

func schemaFiles() ([]string, error) {
	entries, err := schemaFS.ReadDir("schema")
	if err != nil {
		return nil, fmt.Errorf("read schema dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}

// Pool returns the pool for constructing repositories.
func (c *Client) Pool() *pgxpool.Pool {
	return c.pool
}

func (c *Client) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

func (c *Client) Close() {
	c.pool.Close()
}

// Stats is a snapshot of pool usage.
type Stats struct {
	AcquireCount      int64
	AcquiredConns     int32
	IdleConns         int32
	TotalConns        int32
	MaxConns          int32
	EmptyAcquireCount int64
}

func (c *Client) Stats() Stats {
	s := c.pool.Stat()
	return Stats{
		AcquireCount:      s.AcquireCount(),
		AcquiredConns:     s.AcquiredConns(),
		IdleConns:         s.IdleConns(),
		TotalConns:        s.TotalConns(),
		MaxConns:          s.MaxConns(),
		EmptyAcquireCount: s.EmptyAcquireCount(),
	}
}

// nullString maps "" to SQL NULL.
func nullString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
