package banner

import "time"

// MediaType is the kind of background media.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// TextPosition anchors the legacy caption inside the banner.
type TextPosition string

const (
	PositionTopLeft      TextPosition = "top-left"
	PositionTopCenter    TextPosition = "top-center"
	PositionTopRight     TextPosition = "top-right"
	PositionCenterLeft   TextPosition = "center-left"
	PositionCenter       TextPosition = "center"
	PositionCenterRight  TextPosition = "center-right"
	PositionBottomLeft   TextPosition = "bottom-left"
	PositionBottomCenter TextPosition = "bottom-center"
	PositionBottomRight  TextPosition = "bottom-right"
)

// OverlayStyle tints the background behind the legacy caption.
type OverlayStyle string

const (
	OverlayNone     OverlayStyle = "none"
	OverlayDark     OverlayStyle = "dark"
	OverlayLight    OverlayStyle = "light"
	OverlayGradient OverlayStyle = "gradient"
)

// DefaultMobileAspectRatio applies when a banner has none set.
const DefaultMobileAspectRatio = "4:5"

// Banner owns an ordered element list on top of background media. List order is z-order.
type Banner struct {
	ID                string         `json:"id"`
	Title             string         `json:"title" validate:"max=200"`
	Text              string         `json:"text"`
	ImageURL          string         `json:"imageUrl" validate:"required_without=VideoURL"`
	MobileImageURL    *string        `json:"mobileImageUrl,omitempty"`
	VideoURL          *string        `json:"videoUrl,omitempty" validate:"required_if=MediaType video"`
	MediaType         MediaType      `json:"mediaType" validate:"oneof=image video"`
	LinkURL           *string        `json:"linkUrl,omitempty"`
	Order             int            `json:"order" validate:"gte=0"`
	IsActive          bool           `json:"isActive"`
	TextPosition      TextPosition   `json:"textPosition" validate:"oneof=top-left top-center top-right center-left center center-right bottom-left bottom-center bottom-right"`
	TextAlign         TextAlign      `json:"textAlign" validate:"oneof=left center right"`
	AnimationStyle    AnimationStyle `json:"animationStyle" validate:"oneof=fade slide zoom bounce pulse none"`
	OverlayStyle      OverlayStyle   `json:"overlayStyle" validate:"oneof=none dark light gradient"`
	MobileAspectRatio string         `json:"mobileAspectRatio" validate:"oneof=16:9 4:3 1:1 4:5 9:16"`
	TextElements      []Element      `json:"textElements" validate:"-"`
	Created           time.Time      `json:"created"`
	Changed           *time.Time     `json:"changed,omitempty"`
}

// HasElements reports whether the element list replaces the legacy caption.
func (b *Banner) HasElements() bool { return len(b.TextElements) > 0 }

// HasLegacyCaption reports whether there is legacy title/text to show.
func (b *Banner) HasLegacyCaption() bool { return b.Title != "" || b.Text != "" }

// BackgroundFor picks the background image for a viewport.
func (b *Banner) BackgroundFor(vp Viewport) string {
	if vp == ViewportMobile && b.MobileImageURL != nil && *b.MobileImageURL != "" {
		return *b.MobileImageURL
	}
	return b.ImageURL
}

// IsVideo reports whether the background plays a video.
func (b *Banner) IsVideo() bool {
	return b.MediaType == MediaVideo && b.VideoURL != nil && *b.VideoURL != ""
}

// OrderUpdate is one entry of a batch reorder.
type OrderUpdate struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// Product is a catalog entry offered by the product-link picker.
type Product struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl"`
}
