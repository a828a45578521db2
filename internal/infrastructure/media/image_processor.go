// Package media stores uploaded banner assets: images are re-encoded to WebP, videos
// and SVGs are stored as uploaded.
package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	"github.com/gabriel-vasile/mimetype"
	"github.com/oklog/ulid/v2"

	"github.com/AtRiskMedia/bannerstack-go/internal/domain/repositories"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/bannerstack-go/pkg/config"
)

var (
	ErrEmptyUpload       = errors.New("empty upload")
	ErrUploadTooLarge    = errors.New("upload exceeds size limit")
	ErrUnsupportedFormat = errors.New("unsupported media format")
)

// Options tunes an ImageProcessor.
type Options struct {
	BasePath  string
	URLPrefix string
	MaxBytes  int64
	MaxWidth  int
	Quality   int
}

// OptionsFromConfig reads media settings from pkg/config.
func OptionsFromConfig() Options {
	return Options{
		BasePath:  config.MediaDirectory,
		URLPrefix: config.MediaURLPrefix,
		MaxBytes:  config.MaxUploadBytes,
		MaxWidth:  config.MaxImageWidthPx,
		Quality:   config.WebPQuality,
	}
}

// ImageProcessor implements AssetUploader on the local filesystem.
type ImageProcessor struct {
	opts   Options
	logger *logging.ChanneledLogger
}

var _ repositories.AssetUploader = (*ImageProcessor)(nil)

// NewImageProcessor creates a new ImageProcessor instance
func NewImageProcessor(opts Options, logger *logging.ChanneledLogger) *ImageProcessor {
	if opts.URLPrefix == "" {
		opts.URLPrefix = "/media"
	}
	if opts.Quality <= 0 || opts.Quality > 100 {
		opts.Quality = 82
	}
	return &ImageProcessor{opts: opts, logger: logger}
}

// Upload sniffs the content type, normalizes images and returns the public URL.
func (p *ImageProcessor) Upload(ctx context.Context, filename string, data []byte) (string, error) {
	start := time.Now()
	if len(data) == 0 {
		return "", ErrEmptyUpload
	}
	if p.opts.MaxBytes > 0 && int64(len(data)) > p.opts.MaxBytes {
		return "", fmt.Errorf("%w: %d bytes", ErrUploadTooLarge, len(data))
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	mtype := mimetype.Detect(data)
	p.logger.Media().Debug("Upload received", "filename", filename, "mime", mtype.String(), "bytes", len(data))

	var (
		url string
		err error
	)
	switch {
	case mtype.Is("image/jpeg"), mtype.Is("image/png"), mtype.Is("image/webp"), mtype.Is("image/bmp"), mtype.Is("image/tiff"):
		url, err = p.storeImage(filename, data, mtype)
	case mtype.Is("image/gif"), mtype.Is("image/svg+xml"):
		url, err = p.storeRaw("images", filename, mtype.Extension(), data)
	case strings.HasPrefix(mtype.String(), "video/"):
		url, err = p.storeRaw("videos", filename, mtype.Extension(), data)
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedFormat, mtype.String())
	}
	if err != nil {
		p.logger.Media().Error("Upload failed", "filename", filename, "mime", mtype.String(), "error", err.Error())
		return "", err
	}

	p.logger.Media().Info("Upload stored", "filename", filename, "url", url, "duration", time.Since(start))
	return url, nil
}

// storeImage decodes, downsizes to the width limit and re-encodes as WebP.
func (p *ImageProcessor) storeImage(filename string, data []byte, mtype *mimetype.MIME) (string, error) {
	var (
		img image.Image
		err error
	)
	if mtype.Is("image/webp") {
		img, err = webp.Decode(bytes.NewReader(data))
	} else {
		img, err = imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	}
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	if p.opts.MaxWidth > 0 && img.Bounds().Dx() > p.opts.MaxWidth {
		img = imaging.Resize(img, p.opts.MaxWidth, 0, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: float32(p.opts.Quality)}); err != nil {
		return "", fmt.Errorf("failed to encode webp: %w", err)
	}
	return p.storeRaw("images", filename, ".webp", buf.Bytes())
}

func (p *ImageProcessor) storeRaw(subdir, filename, ext string, data []byte) (string, error) {
	targetDir := filepath.Join(p.opts.BasePath, subdir)
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create directory: %w", err)
	}

	name := fmt.Sprintf("%s-%s%s", strings.ToLower(ulid.Make().String()), slug(filename), ext)
	if err := os.WriteFile(filepath.Join(targetDir, name), data, 0644); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return strings.TrimRight(p.opts.URLPrefix, "/") + "/" + subdir + "/" + name, nil
}

var slugStrip = regexp.MustCompile(`[^a-z0-9]+`)

// slug reduces an uploaded filename to a safe stem.
func slug(filename string) string {
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	base = strings.TrimSuffix(base, filepath.Ext(base))
	s := strings.Trim(slugStrip.ReplaceAllString(strings.ToLower(base), "-"), "-")
	if s == "" {
		return "asset"
	}
	if len(s) > 48 {
		s = strings.TrimRight(s[:48], "-")
	}
	return s
}

var dataURLPattern = regexp.MustCompile(`^data:([\w.+-]+/[\w.+-]+);base64,`)

// DecodeDataURL strips a base64 data URL prefix and decodes the payload. Bare base64 is
// accepted too.
func DecodeDataURL(data string) ([]byte, error) {
	data = strings.TrimSpace(data)
	if data == "" {
		return nil, ErrEmptyUpload
	}
	payload := dataURLPattern.ReplaceAllString(data, "")
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return decoded, nil
}
