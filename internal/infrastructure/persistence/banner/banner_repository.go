// Package banner provides the SQL-backed banner repository.
package banner

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AtRiskMedia/bannerstack-go/internal/domain/entities/banner"
	"github.com/AtRiskMedia/bannerstack-go/internal/domain/repositories"
	"github.com/AtRiskMedia/bannerstack-go/internal/domain/schema"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/caching/interfaces"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/performance"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/persistence/database"
)

const bannerColumns = `id, title, text, image_url, mobile_image_url, video_url, media_type, link_url,
	sort_order, is_active, text_position, text_align, animation_style, overlay_style,
	mobile_aspect_ratio, text_elements, created, changed`

type BannerRepository struct {
	db          *sql.DB
	cache       interfaces.BannerCache
	logger      *logging.ChanneledLogger
	perfTracker *performance.Tracker
}

var _ repositories.BannerRepository = (*BannerRepository)(nil)

func NewBannerRepository(db *sql.DB, cache interfaces.BannerCache, logger *logging.ChanneledLogger, perfTracker *performance.Tracker) *BannerRepository {
	return &BannerRepository{
		db:          db,
		cache:       cache,
		logger:      logger,
		perfTracker: perfTracker,
	}
}

// FindByID returns the banner or ErrBannerNotFound, cache first.
func (r *BannerRepository) FindByID(ctx context.Context, id string) (*banner.Banner, error) {
	marker := r.perfTracker.StartOperation("banner:repository_find", id)
	defer marker.Complete()

	if b, found := r.cache.GetBanner(id); found {
		marker.AddCacheHit()
		return b, nil
	}
	marker.AddCacheMiss()

	// taken before the query so a write landing mid-read leaves the cache empty
	gen := r.cache.Generation()

	query := `SELECT ` + bannerColumns + ` FROM banners WHERE id = ?`
	start := time.Now()
	r.logger.Database().Debug("Loading banner", "id", id)

	b, err := scanBanner(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repositories.ErrBannerNotFound
	}
	if err != nil {
		marker.SetError(err)
		r.logger.Database().Error("Banner query failed", "error", err.Error(), "id", id)
		return nil, fmt.Errorf("failed to load banner %s: %w", id, err)
	}
	database.CheckAndLogSlowQuery(r.logger, query, time.Since(start))

	if !r.cache.SetBannerIfCurrent(b, gen) {
		marker.AddMetadata("cacheSkipped", true)
	}
	return b, nil
}

// FindAll returns every banner in display order. Admin listings always read through.
func (r *BannerRepository) FindAll(ctx context.Context) ([]*banner.Banner, error) {
	query := `SELECT ` + bannerColumns + ` FROM banners ORDER BY sort_order ASC, created ASC, id ASC`
	return r.queryList(ctx, query)
}

// FindActive returns the storefront list in display order, cache first.
func (r *BannerRepository) FindActive(ctx context.Context) ([]*banner.Banner, error) {
	marker := r.perfTracker.StartOperation("banner:repository_active", "storefront")
	defer marker.Complete()

	if list, found := r.cache.GetActiveList(); found {
		marker.AddCacheHit()
		return list, nil
	}
	marker.AddCacheMiss()

	gen := r.cache.Generation()
	query := `SELECT ` + bannerColumns + ` FROM banners WHERE is_active = 1 ORDER BY sort_order ASC, created ASC, id ASC`
	list, err := r.queryList(ctx, query)
	if err != nil {
		marker.SetError(err)
		return nil, err
	}

	if !r.cache.SetActiveListIfCurrent(list, gen) {
		marker.AddMetadata("cacheSkipped", true)
	}
	return list, nil
}

func (r *BannerRepository) queryList(ctx context.Context, query string) ([]*banner.Banner, error) {
	start := time.Now()
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Database().Error("Banner list query failed", "error", err.Error())
		return nil, fmt.Errorf("failed to query banners: %w", err)
	}
	defer rows.Close()

	list := []*banner.Banner{}
	for rows.Next() {
		b, err := scanBanner(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan banner: %w", err)
		}
		list = append(list, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate banners: %w", err)
	}

	duration := time.Since(start)
	r.logger.Database().Debug("Banner list loaded", "count", len(list), "duration", duration)
	database.CheckAndLogSlowQuery(r.logger, query, duration)
	return list, nil
}

func (r *BannerRepository) Store(ctx context.Context, b *banner.Banner) error {
	elements, err := schema.Serialize(b.TextElements)
	if err != nil {
		return fmt.Errorf("failed to serialize elements for banner %s: %w", b.ID, err)
	}

	query := `INSERT INTO banners (` + bannerColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	start := time.Now()
	r.logger.Database().Debug("Executing banner insert", "id", b.ID)

	_, err = r.db.ExecContext(ctx, query,
		b.ID, b.Title, b.Text, b.ImageURL, nullable(b.MobileImageURL), nullable(b.VideoURL),
		string(b.MediaType), nullable(b.LinkURL), b.Order, b.IsActive, string(b.TextPosition),
		string(b.TextAlign), string(b.AnimationStyle), string(b.OverlayStyle), b.MobileAspectRatio,
		elements, formatTime(b.Created), nullableTime(b.Changed))
	if err != nil {
		r.logger.Database().Error("Banner insert failed", "error", err.Error(), "id", b.ID)
		return fmt.Errorf("failed to insert banner: %w", err)
	}

	duration := time.Since(start)
	r.logger.Database().Info("Banner insert completed", "id", b.ID, "elements", len(b.TextElements), "duration", duration)
	database.CheckAndLogSlowQuery(r.logger, query, duration)

	r.cache.InvalidateBanner(b.ID)
	return nil
}

func (r *BannerRepository) Update(ctx context.Context, b *banner.Banner) error {
	elements, err := schema.Serialize(b.TextElements)
	if err != nil {
		return fmt.Errorf("failed to serialize elements for banner %s: %w", b.ID, err)
	}

	query := `UPDATE banners SET title = ?, text = ?, image_url = ?, mobile_image_url = ?, video_url = ?,
		media_type = ?, link_url = ?, sort_order = ?, is_active = ?, text_position = ?, text_align = ?,
		animation_style = ?, overlay_style = ?, mobile_aspect_ratio = ?, text_elements = ?, changed = ?
		WHERE id = ?`

	start := time.Now()
	r.logger.Database().Debug("Executing banner update", "id", b.ID)

	res, err := r.db.ExecContext(ctx, query,
		b.Title, b.Text, b.ImageURL, nullable(b.MobileImageURL), nullable(b.VideoURL),
		string(b.MediaType), nullable(b.LinkURL), b.Order, b.IsActive, string(b.TextPosition),
		string(b.TextAlign), string(b.AnimationStyle), string(b.OverlayStyle), b.MobileAspectRatio,
		elements, nullableTime(b.Changed), b.ID)
	if err != nil {
		r.logger.Database().Error("Banner update failed", "error", err.Error(), "id", b.ID)
		return fmt.Errorf("failed to update banner: %w", err)
	}
	if err := expectOneRow(res, b.ID); err != nil {
		return err
	}

	duration := time.Since(start)
	r.logger.Database().Info("Banner update completed", "id", b.ID, "elements", len(b.TextElements), "duration", duration)
	database.CheckAndLogSlowQuery(r.logger, query, duration)

	r.cache.InvalidateBanner(b.ID)
	return nil
}

func (r *BannerRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM banners WHERE id = ?`

	start := time.Now()
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		r.logger.Database().Error("Banner delete failed", "error", err.Error(), "id", id)
		return fmt.Errorf("failed to delete banner: %w", err)
	}
	if err := expectOneRow(res, id); err != nil {
		return err
	}

	r.logger.Database().Info("Banner delete completed", "id", id, "duration", time.Since(start))
	r.cache.InvalidateBanner(id)
	return nil
}

// Reorder writes every sort order in one transaction. An unknown id aborts the batch.
func (r *BannerRepository) Reorder(ctx context.Context, updates []banner.OrderUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	query := `UPDATE banners SET sort_order = ?, changed = ? WHERE id = ?`
	start := time.Now()
	now := formatTime(time.Now())

	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, query)
		if err != nil {
			return fmt.Errorf("failed to prepare reorder: %w", err)
		}
		defer stmt.Close()

		for _, u := range updates {
			res, err := stmt.ExecContext(ctx, u.Order, now, u.ID)
			if err != nil {
				return fmt.Errorf("failed to reorder banner %s: %w", u.ID, err)
			}
			if err := expectOneRow(res, u.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		r.logger.Database().Error("Banner reorder failed", "error", err.Error(), "count", len(updates))
		return err
	}

	duration := time.Since(start)
	r.logger.Database().Info("Banner reorder completed", "count", len(updates), "duration", duration)
	database.CheckAndLogSlowQuery(r.logger, "BATCH_"+query, duration)

	r.cache.InvalidateAll()
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBanner(row rowScanner) (*banner.Banner, error) {
	var (
		b                                  banner.Banner
		mobileImageURL, videoURL, linkURL  sql.NullString
		mediaType, textPosition, textAlign string
		animationStyle, overlayStyle       string
		textElements, changed              sql.NullString
		created                            string
	)
	err := row.Scan(&b.ID, &b.Title, &b.Text, &b.ImageURL, &mobileImageURL, &videoURL, &mediaType,
		&linkURL, &b.Order, &b.IsActive, &textPosition, &textAlign, &animationStyle, &overlayStyle,
		&b.MobileAspectRatio, &textElements, &created, &changed)
	if err != nil {
		return nil, err
	}

	b.MobileImageURL = stringPtr(mobileImageURL)
	b.VideoURL = stringPtr(videoURL)
	b.LinkURL = stringPtr(linkURL)
	b.MediaType = banner.MediaType(mediaType)
	b.TextPosition = banner.TextPosition(textPosition)
	b.TextAlign = banner.TextAlign(textAlign)
	b.AnimationStyle = banner.AnimationStyle(animationStyle)
	b.OverlayStyle = banner.OverlayStyle(overlayStyle)
	b.TextElements = schema.ParseStored(textElements)
	b.Created = parseTime(created)
	if changed.Valid && changed.String != "" {
		t := parseTime(changed.String)
		b.Changed = &t
	}
	return &b, nil
}

func expectOneRow(res sql.Result, id string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows for banner %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", repositories.ErrBannerNotFound, id)
	}
	return nil
}

func nullable(s *string) sql.NullString {
	if s == nil || *s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	s := ns.String
	return &s
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		t = time.Now()
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func nullableTime(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*t), Valid: true}
}

var timeLayouts = []string{time.RFC3339Nano, "2006-01-02 15:04:05.999999999-07:00", "2006-01-02 15:04:05"}

func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
