// Package banner defines the banner aggregate, its overlay element model and the
// pure placement and motion math shared by the editor preview and the storefront.
package banner

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Kind is the wire discriminant of an element.
type Kind string

const (
	KindText  Kind = "text"
	KindImage Kind = "image"
)

// TextAlign is the horizontal alignment of a text element or legacy caption.
type TextAlign string

const (
	AlignLeft   TextAlign = "left"
	AlignCenter TextAlign = "center"
	AlignRight  TextAlign = "right"
)

// Element is a single positioned overlay. The only implementations are *TextElement and
// *ImageElement; consumers switch on the concrete type.
type Element interface {
	ElementID() string
	Kind() Kind
	Motion() MotionSettings
	Clone() Element
	isElement()
}

// MotionSettings holds the optional per-element animation fields.
type MotionSettings struct {
	Style    *AnimationStyle `json:"animation,omitempty" validate:"omitempty,oneof=fade slide zoom bounce pulse none"`
	Delay    *float64        `json:"animationDelay,omitempty" validate:"omitempty,gte=0,lte=10"`
	Duration *float64        `json:"animationDuration,omitempty" validate:"omitempty,gte=0.1,lte=10"`
}

// CSSValue is a CSS length or number that may arrive as a JSON string or number.
type CSSValue string

// UnmarshalJSON accepts "0.05em", 1.2 or 700.
func (v *CSSValue) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = CSSValue(s)
		return nil
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil {
		return fmt.Errorf("css value must be a string or number, got %s", trimmed)
	}
	*v = CSSValue(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

// TextElement is a text overlay.
type TextElement struct {
	ID             string    `json:"id" validate:"required"`
	Content        string    `json:"content"`
	X              float64   `json:"x" validate:"gte=0,lte=100"`
	Y              float64   `json:"y" validate:"gte=0,lte=100"`
	FontSize       float64   `json:"fontSize" validate:"gte=8,lte=200"`
	FontFamily     string    `json:"fontFamily" validate:"fontfamily"`
	FontWeight     CSSValue  `json:"fontWeight" validate:"fontweight"`
	Color          string    `json:"color" validate:"csscolor"`
	TextAlign      TextAlign `json:"textAlign" validate:"oneof=left center right"`
	TextShadow     *string   `json:"textShadow,omitempty"`
	LetterSpacing  *CSSValue `json:"letterSpacing,omitempty"`
	LineHeight     *CSSValue `json:"lineHeight,omitempty"`
	MobileX        *float64  `json:"mobileX,omitempty" validate:"omitempty,gte=0,lte=100"`
	MobileY        *float64  `json:"mobileY,omitempty" validate:"omitempty,gte=0,lte=100"`
	MobileFontSize *float64  `json:"mobileFontSize,omitempty" validate:"omitempty,gte=8,lte=200"`
	MotionSettings
}

func (t *TextElement) ElementID() string      { return t.ID }
func (t *TextElement) Kind() Kind             { return KindText }
func (t *TextElement) Motion() MotionSettings { return t.MotionSettings }
func (t *TextElement) isElement()             {}

// Clone returns a deep copy so the editor can replace elements without aliasing.
func (t *TextElement) Clone() Element {
	c := *t
	c.TextShadow = cloneString(t.TextShadow)
	c.LetterSpacing = cloneCSS(t.LetterSpacing)
	c.LineHeight = cloneCSS(t.LineHeight)
	c.MobileX = cloneFloat(t.MobileX)
	c.MobileY = cloneFloat(t.MobileY)
	c.MobileFontSize = cloneFloat(t.MobileFontSize)
	c.MotionSettings = t.MotionSettings.clone()
	return &c
}

// MarshalJSON writes the flat wire shape with "type":"text".
func (t TextElement) MarshalJSON() ([]byte, error) {
	type wire TextElement
	return json.Marshal(struct {
		Type Kind `json:"type"`
		wire
	}{KindText, wire(t)})
}

// ImageElement is an image overlay, optionally linked to a product.
type ImageElement struct {
	ID           string   `json:"id" validate:"required"`
	ImageURL     string   `json:"imageUrl" validate:"required"`
	ProductID    *int64   `json:"productId,omitempty" validate:"omitempty,gt=0"`
	ProductURL   *string  `json:"productUrl,omitempty" validate:"omitempty,min=1"`
	X            float64  `json:"x" validate:"gte=0,lte=100"`
	Y            float64  `json:"y" validate:"gte=0,lte=100"`
	Width        float64  `json:"width" validate:"gte=5,lte=100"`
	Height       *float64 `json:"height,omitempty" validate:"omitempty,gte=5,lte=100"`
	MobileX      *float64 `json:"mobileX,omitempty" validate:"omitempty,gte=0,lte=100"`
	MobileY      *float64 `json:"mobileY,omitempty" validate:"omitempty,gte=0,lte=100"`
	MobileWidth  *float64 `json:"mobileWidth,omitempty" validate:"omitempty,gte=5,lte=100"`
	MobileHeight *float64 `json:"mobileHeight,omitempty" validate:"omitempty,gte=5,lte=100"`
	MotionSettings
}

func (i *ImageElement) ElementID() string      { return i.ID }
func (i *ImageElement) Kind() Kind             { return KindImage }
func (i *ImageElement) Motion() MotionSettings { return i.MotionSettings }
func (i *ImageElement) isElement()             {}

func (i *ImageElement) Clone() Element {
	c := *i
	if i.ProductID != nil {
		id := *i.ProductID
		c.ProductID = &id
	}
	c.ProductURL = cloneString(i.ProductURL)
	c.Height = cloneFloat(i.Height)
	c.MobileX = cloneFloat(i.MobileX)
	c.MobileY = cloneFloat(i.MobileY)
	c.MobileWidth = cloneFloat(i.MobileWidth)
	c.MobileHeight = cloneFloat(i.MobileHeight)
	c.MotionSettings = i.MotionSettings.clone()
	return &c
}

// MarshalJSON writes the flat wire shape with "type":"image".
func (i ImageElement) MarshalJSON() ([]byte, error) {
	type wire ImageElement
	return json.Marshal(struct {
		Type Kind `json:"type"`
		wire
	}{KindImage, wire(i)})
}

// ProductHref returns the click-through target of a product-linked image. Images without
// a product are decorative and report false.
func (i *ImageElement) ProductHref() (string, bool) {
	if i.ProductID == nil {
		return "", false
	}
	if i.ProductURL != nil && *i.ProductURL != "" {
		return *i.ProductURL, true
	}
	return DefaultProductURL(*i.ProductID), true
}

// DefaultProductURL is the storefront product path used when productUrl is absent.
func DefaultProductURL(productID int64) string {
	return fmt.Sprintf("/product/%d", productID)
}

// Element defaults for newly added elements.
const (
	DefaultPosition   = 50.0
	DefaultFontSize   = 32.0
	DefaultFontFamily = "Inter"
	DefaultFontWeight = "bold"
	DefaultColor      = "#ffffff"
	DefaultImageWidth = 30.0
)

// NewTextElement returns a text element at the default position.
func NewTextElement(id, content string) *TextElement {
	return &TextElement{
		ID:         id,
		Content:    content,
		X:          DefaultPosition,
		Y:          DefaultPosition,
		FontSize:   DefaultFontSize,
		FontFamily: DefaultFontFamily,
		FontWeight: DefaultFontWeight,
		Color:      DefaultColor,
		TextAlign:  AlignCenter,
	}
}

// NewImageElement returns an image element at the default position.
func NewImageElement(id, imageURL string) *ImageElement {
	return &ImageElement{
		ID:       id,
		ImageURL: imageURL,
		X:        DefaultPosition,
		Y:        DefaultPosition,
		Width:    DefaultImageWidth,
	}
}

// FindElement returns the index of the element with id, or -1.
func FindElement(elements []Element, id string) int {
	for i, el := range elements {
		if el.ElementID() == id {
			return i
		}
	}
	return -1
}

// CloneElements deep-copies a list.
func CloneElements(elements []Element) []Element {
	out := make([]Element, len(elements))
	for i, el := range elements {
		out[i] = el.Clone()
	}
	return out
}

func (m MotionSettings) clone() MotionSettings {
	c := MotionSettings{Delay: cloneFloat(m.Delay), Duration: cloneFloat(m.Duration)}
	if m.Style != nil {
		s := *m.Style
		c.Style = &s
	}
	return c
}

func cloneFloat(f *float64) *float64 {
	if f == nil {
		return nil
	}
	v := *f
	return &v
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneCSS(c *CSSValue) *CSSValue {
	if c == nil {
		return nil
	}
	v := *c
	return &v
}
