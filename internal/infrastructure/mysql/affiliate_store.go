// Package mysql reads affiliate rules from a MySQL database. Domains are
// stored as a JSON array column.
package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/setupscatalog/linkengine/internal/domain"
)

const listActiveQuery = `
SELECT store_key, store_name, domains, affiliate_type,
       affiliate_param, affiliate_code, redirect_template, is_active
FROM affiliate_configs
WHERE is_active = 1
ORDER BY store_key`

// Config holds the connection settings
type Config struct {
	DSN string
}

// Open opens the database with conservative pool limits and pings it
func Open(ctx context.Context, cfg Config) (*sql.DB, error) {
	db, err := sql.Open("mysql", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open mysql: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping mysql: %w", err)
	}

	return db, nil
}

// AffiliateStore lists active affiliate rules from the affiliate_configs table
type AffiliateStore struct {
	db *sql.DB
}

// NewAffiliateStore creates a store over an open database
func NewAffiliateStore(db *sql.DB) *AffiliateStore {
	return &AffiliateStore{db: db}
}

// ListActive returns every row with is_active = 1
func (s *AffiliateStore) ListActive(ctx context.Context) ([]domain.AffiliateConfig, error) {
	rows, err := s.db.QueryContext(ctx, listActiveQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to query affiliate configs: %w", err)
	}
	defer rows.Close()

	var configs []domain.AffiliateConfig
	for rows.Next() {
		cfg, err := scanAffiliateConfig(rows)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read affiliate configs: %w", err)
	}
	return configs, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

func scanAffiliateConfig(row rowScanner) (domain.AffiliateConfig, error) {
	var (
		cfg              domain.AffiliateConfig
		domainsJSON      []byte
		affiliateType    string
		affiliateParam   sql.NullString
		affiliateCode    sql.NullString
		redirectTemplate sql.NullString
	)

	err := row.Scan(
		&cfg.StoreKey,
		&cfg.StoreName,
		&domainsJSON,
		&affiliateType,
		&affiliateParam,
		&affiliateCode,
		&redirectTemplate,
		&cfg.IsActive,
	)
	if err != nil {
		return domain.AffiliateConfig{}, fmt.Errorf("failed to scan affiliate config: %w", err)
	}

	domains, err := decodeDomains(domainsJSON)
	if err != nil {
		return domain.AffiliateConfig{}, fmt.Errorf("store %s: %w", cfg.StoreKey, err)
	}

	cfg.Domains = domains
	cfg.AffiliateType = domain.AffiliateType(affiliateType)
	cfg.AffiliateParam = nullableString(affiliateParam)
	cfg.AffiliateCode = nullableString(affiliateCode)
	cfg.RedirectTemplate = nullableString(redirectTemplate)
	return cfg, nil
}

// decodeDomains parses the JSON array column; NULL or empty means no domains
func decodeDomains(raw []byte) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return nil, nil
	}
	var domains []string
	if err := json.Unmarshal(raw, &domains); err != nil {
		return nil, fmt.Errorf("invalid domains column: %w", err)
	}
	return domains, nil
}

func nullableString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
