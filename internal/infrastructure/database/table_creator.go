// Package database provides schema creation for the banner store
package database

import (
	"context"
	"database/sql"
	"fmt"
)

// TableCreator handles the creation of the database schema.
type TableCreator struct{}

// NewTableCreator creates a new TableCreator.
func NewTableCreator() *TableCreator {
	return &TableCreator{}
}

// CreateSchema executes all necessary queries to build the tables and indexes. It is
// idempotent.
func (tc *TableCreator) CreateSchema(ctx context.Context, db *sql.DB) error {
	for _, tableSQL := range tables {
		if _, err := db.ExecContext(ctx, tableSQL); err != nil {
			return fmt.Errorf("failed to create table for query [%s]: %w", tableSQL, err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.ExecContext(ctx, indexSQL); err != nil {
			return fmt.Errorf("failed to create index for query [%s]: %w", indexSQL, err)
		}
	}
	return nil
}

// SeedProducts inserts catalog rows for local development when the catalog is empty.
// In production the products table is owned by the storefront.
func (tc *TableCreator) SeedProducts(ctx context.Context, db *sql.DB, products []SeedProduct) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count); err != nil {
		return fmt.Errorf("failed to count products: %w", err)
	}
	if count > 0 {
		return nil
	}
	for _, p := range products {
		if _, err := db.ExecContext(ctx, `INSERT INTO products (id, name, price, image_url) VALUES (?, ?, ?, ?)`,
			p.ID, p.Name, p.Price, p.ImageURL); err != nil {
			return fmt.Errorf("failed to insert product %d: %w", p.ID, err)
		}
	}
	return nil
}

// SeedProduct is a catalog row for SeedProducts.
type SeedProduct struct {
	ID       int64
	Name     string
	Price    float64
	ImageURL string
}

var tables = []string{
	`CREATE TABLE IF NOT EXISTS banners (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL DEFAULT '',
		text TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		mobile_image_url TEXT,
		video_url TEXT,
		media_type TEXT NOT NULL DEFAULT 'image',
		link_url TEXT,
		sort_order INTEGER NOT NULL DEFAULT 0,
		is_active INTEGER NOT NULL DEFAULT 1,
		text_position TEXT NOT NULL DEFAULT 'center',
		text_align TEXT NOT NULL DEFAULT 'center',
		animation_style TEXT NOT NULL DEFAULT 'fade',
		overlay_style TEXT NOT NULL DEFAULT 'dark',
		mobile_aspect_ratio TEXT NOT NULL DEFAULT '4:5',
		text_elements TEXT,
		created TEXT NOT NULL,
		changed TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		price REAL NOT NULL DEFAULT 0,
		image_url TEXT NOT NULL DEFAULT ''
	)`,
}

var indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_banners_active_order ON banners(is_active, sort_order)`,
	`CREATE INDEX IF NOT EXISTS idx_products_name ON products(name)`,
}
