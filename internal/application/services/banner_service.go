// Package services provides application-level services that orchestrate
// business logic and coordinate between repositories and domain entities.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/AtRiskMedia/bannerstack-go/internal/domain/entities/banner"
	"github.com/AtRiskMedia/bannerstack-go/internal/domain/rendering"
	"github.com/AtRiskMedia/bannerstack-go/internal/domain/repositories"
	"github.com/AtRiskMedia/bannerstack-go/internal/domain/schema"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/logging"
)

// BannerInput is the admin write payload. TextElements stays raw so it can go through the
// tolerant classification path; absent keeps the stored list on update, null clears it.
type BannerInput struct {
	Title             string                `json:"title"`
	Text              string                `json:"text"`
	ImageURL          string                `json:"imageUrl"`
	MobileImageURL    *string               `json:"mobileImageUrl"`
	VideoURL          *string               `json:"videoUrl"`
	MediaType         banner.MediaType      `json:"mediaType"`
	LinkURL           *string               `json:"linkUrl"`
	Order             int                   `json:"order"`
	IsActive          *bool                 `json:"isActive"`
	TextPosition      banner.TextPosition   `json:"textPosition"`
	TextAlign         banner.TextAlign      `json:"textAlign"`
	AnimationStyle    banner.AnimationStyle `json:"animationStyle"`
	OverlayStyle      banner.OverlayStyle   `json:"overlayStyle"`
	MobileAspectRatio string                `json:"mobileAspectRatio"`
	TextElements      json.RawMessage       `json:"textElements"`
}

// WriteResult is a persisted banner plus any elements dropped while normalizing.
type WriteResult struct {
	Banner  *banner.Banner          `json:"banner"`
	Dropped []schema.DroppedElement `json:"dropped,omitempty"`
}

// BannerService orchestrates banner reads and writes over the cache-first repository
type BannerService struct {
	repo      repositories.BannerRepository
	validator *schema.Validator
	logger    *logging.ChanneledLogger
	now       func() time.Time
}

// NewBannerService creates a new banner application service
func NewBannerService(repo repositories.BannerRepository, validator *schema.Validator, logger *logging.ChanneledLogger) *BannerService {
	return &BannerService{
		repo:      repo,
		validator: validator,
		logger:    logger,
		now:       time.Now,
	}
}

// ListAll returns every banner in display order
func (s *BannerService) ListAll(ctx context.Context) ([]*banner.Banner, error) {
	list, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list banners: %w", err)
	}
	return list, nil
}

// ListActive returns the storefront banners in display order (cache-first)
func (s *BannerService) ListActive(ctx context.Context) ([]*banner.Banner, error) {
	list, err := s.repo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active banners: %w", err)
	}
	return list, nil
}

// WarmCache loads the storefront list so the first shopper request is served from memory.
func (s *BannerService) WarmCache(ctx context.Context) (int, error) {
	start := time.Now()
	list, err := s.repo.FindActive(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to warm banner cache: %w", err)
	}
	s.logger.Cache().Info("Banner cache warmed", "active", len(list), "duration", time.Since(start))
	return len(list), nil
}

// GetByID returns a banner by ID (cache-first)
func (s *BannerService) GetByID(ctx context.Context, id string) (*banner.Banner, error) {
	if id == "" {
		return nil, fmt.Errorf("banner ID cannot be empty: %w", repositories.ErrBannerNotFound)
	}
	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get banner %s: %w", id, err)
	}
	return b, nil
}

// Create validates and stores a new banner
func (s *BannerService) Create(ctx context.Context, in *BannerInput) (*WriteResult, error) {
	b := &banner.Banner{
		ID:       banner.NewID(),
		IsActive: true,
		Created:  s.now().UTC(),
	}
	dropped, err := s.apply(b, in, true)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Store(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create banner: %w", err)
	}

	s.logger.Banner().Info("Banner created", "id", b.ID, "elements", len(b.TextElements), "dropped", len(dropped))
	return &WriteResult{Banner: b, Dropped: dropped}, nil
}

// Update replaces the banner's fields. The element list is kept when the payload omits it.
func (s *BannerService) Update(ctx context.Context, id string, in *BannerInput) (*WriteResult, error) {
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	b := *existing
	b.TextElements = existing.TextElements
	dropped, err := s.apply(&b, in, in.TextElements != nil)
	if err != nil {
		return nil, err
	}
	changed := s.now().UTC()
	b.Changed = &changed

	if err := s.repo.Update(ctx, &b); err != nil {
		return nil, fmt.Errorf("failed to update banner %s: %w", id, err)
	}

	s.logger.Banner().Info("Banner updated", "id", b.ID, "elements", len(b.TextElements), "dropped", len(dropped))
	return &WriteResult{Banner: &b, Dropped: dropped}, nil
}

// SaveElements replaces only the element list, as the editor does on save.
func (s *BannerService) SaveElements(ctx context.Context, id string, elements []banner.Element) (*banner.Banner, error) {
	if err := s.validator.ValidateElementList(elements); err != nil {
		return nil, err
	}
	existing, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	b := *existing
	b.TextElements = banner.CloneElements(elements)
	changed := s.now().UTC()
	b.Changed = &changed

	if err := s.repo.Update(ctx, &b); err != nil {
		return nil, fmt.Errorf("failed to save elements for banner %s: %w", id, err)
	}

	s.logger.Banner().Info("Banner elements saved", "id", id, "elements", len(elements))
	return &b, nil
}

// Delete removes a banner
func (s *BannerService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete banner %s: %w", id, err)
	}
	s.logger.Banner().Info("Banner deleted", "id", id)
	return nil
}

// Reorder applies a batch of display orders atomically
func (s *BannerService) Reorder(ctx context.Context, updates []banner.OrderUpdate) error {
	var fieldErrs []schema.FieldError
	seen := make(map[string]int, len(updates))
	for i, u := range updates {
		switch {
		case u.ID == "":
			fieldErrs = append(fieldErrs, schema.FieldError{Field: fmt.Sprintf("[%d].id", i), Message: "is required"})
		case u.Order < 0:
			fieldErrs = append(fieldErrs, schema.FieldError{Field: fmt.Sprintf("[%d].order", i), Message: "must be at least 0"})
		}
		if first, dup := seen[u.ID]; dup && u.ID != "" {
			fieldErrs = append(fieldErrs, schema.FieldError{Field: fmt.Sprintf("[%d].id", i), Message: fmt.Sprintf("duplicates [%d].id", first)})
		}
		seen[u.ID] = i
	}
	if len(fieldErrs) > 0 {
		return &schema.ValidationError{Fields: fieldErrs}
	}

	if err := s.repo.Reorder(ctx, updates); err != nil {
		return fmt.Errorf("failed to reorder banners: %w", err)
	}
	s.logger.Banner().Info("Banners reordered", "count", len(updates))
	return nil
}

// ValidateElements runs the write-path normalization without persisting.
func (s *BannerService) ValidateElements(raw json.RawMessage) (*schema.Result, error) {
	return s.validator.ValidateElements(raw)
}

// Scene loads a banner and lays it out for one viewport.
func (s *BannerService) Scene(ctx context.Context, id string, vp banner.Viewport, mode rendering.Mode) (rendering.Scene, error) {
	b, err := s.GetByID(ctx, id)
	if err != nil {
		return rendering.Scene{}, err
	}
	return rendering.BuildScene(b, vp, mode, rendering.EditorView{}), nil
}

func (s *BannerService) apply(b *banner.Banner, in *BannerInput, replaceElements bool) ([]schema.DroppedElement, error) {
	b.Title = in.Title
	b.Text = in.Text
	b.ImageURL = in.ImageURL
	b.MobileImageURL = in.MobileImageURL
	b.VideoURL = in.VideoURL
	b.MediaType = in.MediaType
	b.LinkURL = in.LinkURL
	b.Order = in.Order
	if in.IsActive != nil {
		b.IsActive = *in.IsActive
	}
	b.TextPosition = in.TextPosition
	b.TextAlign = in.TextAlign
	b.AnimationStyle = in.AnimationStyle
	b.OverlayStyle = in.OverlayStyle
	b.MobileAspectRatio = in.MobileAspectRatio

	var dropped []schema.DroppedElement
	if replaceElements {
		result, err := s.validator.ValidateElements(in.TextElements)
		if err != nil {
			return nil, err
		}
		b.TextElements = result.Elements
		dropped = result.Dropped
	}

	schema.ApplyBannerDefaults(b)

	// a kept list was normalized when it was read; only fresh elements are checked
	elements := b.TextElements
	if !replaceElements {
		b.TextElements = nil
	}
	err := s.validator.ValidateBanner(b)
	b.TextElements = elements
	if err != nil {
		return nil, err
	}
	return dropped, nil
}
