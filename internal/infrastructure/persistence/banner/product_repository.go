package banner

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/AtRiskMedia/bannerstack-go/internal/domain/entities/banner"
	"github.com/AtRiskMedia/bannerstack-go/internal/domain/repositories"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/persistence/database"
)

// ProductRepository reads the storefront's products table for the link picker.
type ProductRepository struct {
	db     *sql.DB
	logger *logging.ChanneledLogger
}

var _ repositories.ProductCatalog = (*ProductRepository)(nil)

func NewProductRepository(db *sql.DB, logger *logging.ChanneledLogger) *ProductRepository {
	return &ProductRepository{db: db, logger: logger}
}

// Search matches products whose name contains term (ASCII case-insensitive). An empty term
// lists products by name.
func (r *ProductRepository) Search(ctx context.Context, term string, limit int) ([]banner.Product, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT id, name, price, image_url FROM products
		WHERE name LIKE ? ESCAPE '\' ORDER BY name ASC, id ASC LIMIT ?`

	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query, "%"+escapeLike(strings.TrimSpace(term))+"%", limit)
	if err != nil {
		r.logger.Database().Error("Product search failed", "error", err.Error(), "term", term)
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	defer rows.Close()

	products := []banner.Product{}
	for rows.Next() {
		var p banner.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price, &p.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate products: %w", err)
	}

	duration := time.Since(start)
	r.logger.Database().Debug("Product search completed", "term", term, "count", len(products), "duration", duration)
	database.CheckAndLogSlowQuery(r.logger, query, duration)
	return products, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }
