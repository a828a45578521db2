package media

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/chai2010/webp"

	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/logging"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, h/2, color.RGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func newTestProcessor(t *testing.T) (*ImageProcessor, string) {
	t.Helper()
	dir := t.TempDir()
	p := NewImageProcessor(Options{BasePath: dir, URLPrefix: "/media/", MaxBytes: 1 << 20, MaxWidth: 100, Quality: 80}, logging.NewDiscardLogger())
	return p, dir
}

func TestUploadReencodesImagesAsWebP(t *testing.T) {
	p, dir := newTestProcessor(t)

	url, err := p.Upload(context.Background(), "Summer Hero.PNG", pngBytes(t, 400, 200))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(url, "/media/images/") || !strings.HasSuffix(url, "-summer-hero.webp") {
		t.Fatalf("url = %q", url)
	}

	f, err := os.Open(filepath.Join(dir, "images", filepath.Base(url)))
	if err != nil {
		t.Fatalf("stored file: %v", err)
	}
	defer f.Close()
	img, err := webp.Decode(f)
	if err != nil {
		t.Fatalf("stored file is not webp: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Fatalf("resized bounds = %v, want 100x50", b)
	}
}

func TestUploadStoresVideoAsIs(t *testing.T) {
	p, dir := newTestProcessor(t)
	mp4 := append([]byte{0, 0, 0, 0x18, 'f', 't', 'y', 'p', 'm', 'p', '4', '2', 0, 0, 0, 0, 'm', 'p', '4', '2', 'i', 's', 'o', 'm'}, make([]byte, 64)...)

	url, err := p.Upload(context.Background(), "loop.mp4", mp4)
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(url, "/media/videos/") || !strings.HasSuffix(url, ".mp4") {
		t.Fatalf("url = %q", url)
	}
	stored, err := os.ReadFile(filepath.Join(dir, "videos", filepath.Base(url)))
	if err != nil || !bytes.Equal(stored, mp4) {
		t.Fatalf("video should be stored unchanged (err %v)", err)
	}
}

func TestUploadRejects(t *testing.T) {
	p, _ := newTestProcessor(t)
	ctx := context.Background()

	if _, err := p.Upload(ctx, "a.png", nil); !errors.Is(err, ErrEmptyUpload) {
		t.Fatalf("empty: %v", err)
	}
	if _, err := p.Upload(ctx, "a.png", make([]byte, 2<<20)); !errors.Is(err, ErrUploadTooLarge) {
		t.Fatalf("too large: %v", err)
	}
	if _, err := p.Upload(ctx, "notes.txt", []byte("plain text, not media")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("text: %v", err)
	}
}

func TestSlug(t *testing.T) {
	cases := map[string]string{
		"Summer Hero.PNG":     "summer-hero",
		"../../etc/passwd":    "passwd",
		"C:\\Users\\x\\a.jpg": "a",
		"???.png":             "asset",
		"":                    "asset",
	}
	for in, want := range cases {
		if got := slug(in); got != want {
			t.Fatalf("slug(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestDecodeDataURL(t *testing.T) {
	payload := []byte("hello")
	enc := base64.StdEncoding.EncodeToString(payload)

	for _, in := range []string{"data:image/png;base64," + enc, enc, "data:image/svg+xml;base64," + enc} {
		got, err := DecodeDataURL(in)
		if err != nil || !bytes.Equal(got, payload) {
			t.Fatalf("DecodeDataURL(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := DecodeDataURL(""); !errors.Is(err, ErrEmptyUpload) {
		t.Fatalf("empty: %v", err)
	}
	if _, err := DecodeDataURL("data:image/png;base64,!!!"); err == nil {
		t.Fatalf("invalid base64 should fail")
	}
}
