// Package schema enforces the element-list contract on write and re-hydrates stored
// element lists on read. Classification by field presence happens only here; everything
// downstream switches on the concrete element type.
package schema

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/AtRiskMedia/bannerstack-go/internal/domain/entities/banner"
)

var (
	// ErrUnresolvableVariant marks an element with neither content nor imageUrl.
	ErrUnresolvableVariant = errors.New("element has neither content nor imageUrl")
	// ErrAmbiguousVariant marks an untagged element carrying both content and imageUrl.
	ErrAmbiguousVariant = errors.New("element carries both content and imageUrl without a type tag")
)

// Classify resolves the variant of a raw element. A valid type tag wins; otherwise the
// variant is inferred from content or imageUrl.
func Classify(fields map[string]json.RawMessage) (banner.Kind, error) {
	if raw, ok := fields["type"]; ok {
		var tag string
		if err := json.Unmarshal(raw, &tag); err == nil {
			switch kind := banner.Kind(tag); kind {
			case banner.KindText, banner.KindImage:
				return kind, nil
			}
		}
	}

	hasContent := present(fields, "content")
	hasImage := present(fields, "imageUrl")
	switch {
	case hasContent && hasImage:
		return "", ErrAmbiguousVariant
	case hasContent:
		return banner.KindText, nil
	case hasImage:
		return banner.KindImage, nil
	default:
		return "", ErrUnresolvableVariant
	}
}

// ParseStored re-hydrates a persisted element list in whatever form it arrives: an
// already-parsed slice, a serialized string, raw bytes, or nothing at all. It never fails;
// anything unreadable becomes an empty list.
func ParseStored(value any) []banner.Element {
	switch v := value.(type) {
	case nil:
		return []banner.Element{}
	case []banner.Element:
		if v == nil {
			return []banner.Element{}
		}
		return v
	case string:
		return ParseElements([]byte(v))
	case *string:
		if v == nil {
			return []banner.Element{}
		}
		return ParseElements([]byte(*v))
	case []byte:
		return ParseElements(v)
	case json.RawMessage:
		return ParseElements(v)
	case sql.NullString:
		if !v.Valid {
			return []banner.Element{}
		}
		return ParseElements([]byte(v.String))
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return []banner.Element{}
		}
		return ParseElements(data)
	}
}

// ParseElements decodes a serialized element list. The legacy storage format, a JSON
// string holding the serialized array, is unwrapped once. Elements that cannot be decoded
// or classified are dropped individually; positions and sizes are clamped into range and
// missing or repeated ids are replaced.
func ParseElements(data []byte) []banner.Element {
	return parseElements(data, 1)
}

func parseElements(data []byte, unwrap int) []banner.Element {
	out := []banner.Element{}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return out
	}

	if trimmed[0] == '"' {
		if unwrap == 0 {
			return out
		}
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return out
		}
		return parseElements([]byte(inner), unwrap-1)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return out
	}

	seen := make(map[string]bool, len(items))
	for _, item := range items {
		el, _, err := decodeElement(item)
		if err != nil {
			continue
		}
		if id := el.ElementID(); id == "" || seen[id] {
			el = withID(el, banner.NewID())
		}
		seen[el.ElementID()] = true
		out = append(out, clampElement(el))
	}
	return out
}

// decodeElement classifies and decodes one raw element, applying defaults for absent
// style fields. The raw field map is returned for presence checks.
func decodeElement(raw json.RawMessage) (banner.Element, map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		// numbers, strings and other non-objects match neither variant
		return nil, nil, ErrUnresolvableVariant
	}
	if fields == nil {
		return nil, nil, ErrUnresolvableVariant
	}

	kind, err := Classify(fields)
	if err != nil {
		return nil, fields, err
	}

	switch kind {
	case banner.KindText:
		var t banner.TextElement
		if err := json.Unmarshal(raw, &t); err != nil {
			return nil, fields, err
		}
		applyTextDefaults(&t, fields)
		return &t, fields, nil
	case banner.KindImage:
		var i banner.ImageElement
		if err := json.Unmarshal(raw, &i); err != nil {
			return nil, fields, err
		}
		applyImageDefaults(&i, fields)
		return &i, fields, nil
	default:
		return nil, fields, ErrUnresolvableVariant
	}
}

// DecodeElement resolves and decodes a single raw element with defaults applied.
func DecodeElement(raw json.RawMessage) (banner.Element, error) {
	el, _, err := decodeElement(raw)
	return el, err
}

// ClampElement forces positions and sizes into their allowed ranges in place.
func ClampElement(el banner.Element) banner.Element {
	return clampElement(el)
}

func applyTextDefaults(t *banner.TextElement, fields map[string]json.RawMessage) {
	if !present(fields, "x") {
		t.X = banner.DefaultPosition
	}
	if !present(fields, "y") {
		t.Y = banner.DefaultPosition
	}
	if !present(fields, "fontSize") {
		t.FontSize = banner.DefaultFontSize
	}
	if t.FontFamily == "" {
		t.FontFamily = banner.DefaultFontFamily
	}
	if t.FontWeight == "" {
		t.FontWeight = banner.DefaultFontWeight
	}
	if t.Color == "" {
		t.Color = banner.DefaultColor
	}
	if t.TextAlign == "" {
		t.TextAlign = banner.AlignCenter
	}
}

func applyImageDefaults(i *banner.ImageElement, fields map[string]json.RawMessage) {
	if !present(fields, "x") {
		i.X = banner.DefaultPosition
	}
	if !present(fields, "y") {
		i.Y = banner.DefaultPosition
	}
	if !present(fields, "width") {
		i.Width = banner.DefaultImageWidth
	}
}

func clampElement(el banner.Element) banner.Element {
	switch e := el.(type) {
	case *banner.TextElement:
		e.X, e.Y = banner.ClampPercent(e.X), banner.ClampPercent(e.Y)
		e.FontSize = banner.Clamp(e.FontSize, banner.MinFontSize, banner.MaxFontSize)
		clampPtr(e.MobileX, banner.MinPercent, banner.MaxPercent)
		clampPtr(e.MobileY, banner.MinPercent, banner.MaxPercent)
		clampPtr(e.MobileFontSize, banner.MinFontSize, banner.MaxFontSize)
	case *banner.ImageElement:
		e.X, e.Y = banner.ClampPercent(e.X), banner.ClampPercent(e.Y)
		e.Width = banner.Clamp(e.Width, banner.MinImageSize, banner.MaxImageSize)
		clampPtr(e.Height, banner.MinImageSize, banner.MaxImageSize)
		clampPtr(e.MobileX, banner.MinPercent, banner.MaxPercent)
		clampPtr(e.MobileY, banner.MinPercent, banner.MaxPercent)
		clampPtr(e.MobileWidth, banner.MinImageSize, banner.MaxImageSize)
		clampPtr(e.MobileHeight, banner.MinImageSize, banner.MaxImageSize)
	}
	return el
}

func clampPtr(v *float64, lo, hi float64) {
	if v != nil {
		*v = banner.Clamp(*v, lo, hi)
	}
}

func withID(el banner.Element, id string) banner.Element {
	switch e := el.(type) {
	case *banner.TextElement:
		e.ID = id
	case *banner.ImageElement:
		e.ID = id
	}
	return el
}

func present(fields map[string]json.RawMessage, key string) bool {
	raw, ok := fields[key]
	return ok && !bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// Serialize encodes an element list for storage. A nil list is stored as [].
func Serialize(elements []banner.Element) (string, error) {
	if elements == nil {
		elements = []banner.Element{}
	}
	data, err := json.Marshal(elements)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
