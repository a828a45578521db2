package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/AtRiskMedia/bannerstack-go/internal/domain/entities/banner"
	"github.com/go-playground/validator/v10"
)

// ErrValidation is the sentinel wrapped by every ValidationError.
var ErrValidation = errors.New("validation failed")

// FontFamilies is the allow-list offered by the editor.
var FontFamilies = []string{
	"Inter", "Roboto", "Open Sans", "Montserrat", "Poppins", "Lato",
	"Oswald", "Playfair Display", "Bebas Neue", "Georgia", "Arial",
}

var fontWeights = map[string]bool{
	"normal": true, "bold": true, "lighter": true, "bolder": true,
	"100": true, "200": true, "300": true, "400": true, "500": true,
	"600": true, "700": true, "800": true, "900": true,
}

var (
	hexColor   = regexp.MustCompile(`^#([0-9a-fA-F]{3,4}|[0-9a-fA-F]{6}|[0-9a-fA-F]{8})$`)
	funcColor  = regexp.MustCompile(`^(rgb|rgba|hsl|hsla)\(\s*[-0-9.%,\s/a-z]+\)$`)
	namedColor = regexp.MustCompile(`^[a-zA-Z]{3,20}$`)
)

// FieldError is one field-level rejection.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every field-level rejection of a write.
type ValidationError struct {
	Fields []FieldError `json:"fields"`
}

func (e *ValidationError) Error() string {
	msgs := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		msgs[i] = f.Field + " " + f.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// DroppedElement records an element removed because its variant could not be resolved.
type DroppedElement struct {
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Result is a normalized element list ready to persist.
type Result struct {
	Elements []banner.Element `json:"elements"`
	Dropped  []DroppedElement `json:"dropped,omitempty"`
}

// Validator enforces the element and banner schema on write.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds a validator with the banner-specific rules registered.
func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("csscolor", func(fl validator.FieldLevel) bool {
		return IsCSSColor(fl.Field().String())
	})
	_ = v.RegisterValidation("fontfamily", func(fl validator.FieldLevel) bool {
		return IsAllowedFontFamily(fl.Field().String())
	})
	_ = v.RegisterValidation("fontweight", func(fl validator.FieldLevel) bool {
		return fontWeights[fl.Field().String()]
	})
	return &Validator{validate: v}
}

// IsCSSColor accepts hex, rgb[a]()/hsl[a]() and named colors.
func IsCSSColor(s string) bool {
	s = strings.TrimSpace(s)
	return hexColor.MatchString(s) || funcColor.MatchString(s) || namedColor.MatchString(s)
}

// IsAllowedFontFamily reports whether a family is on the allow-list.
func IsAllowedFontFamily(family string) bool {
	for _, f := range FontFamilies {
		if f == family {
			return true
		}
	}
	return false
}

// ValidateElements normalizes and checks a raw element list. Elements whose variant
// cannot be resolved are dropped and reported in the result; every other problem is a
// field-level error and fails the whole write. A null or absent list is empty.
func (v *Validator) ValidateElements(raw json.RawMessage) (*Result, error) {
	result := &Result{Elements: []banner.Element{}}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return result, nil
	}

	// legacy clients post the list as a serialized string
	if trimmed[0] == '"' {
		var inner string
		if err := json.Unmarshal(trimmed, &inner); err != nil {
			return nil, &ValidationError{Fields: []FieldError{{Field: "textElements", Message: "must be an array"}}}
		}
		return v.ValidateElements(json.RawMessage(inner))
	}

	var items []json.RawMessage
	if err := json.Unmarshal(trimmed, &items); err != nil {
		return nil, &ValidationError{Fields: []FieldError{{Field: "textElements", Message: "must be an array"}}}
	}

	var fieldErrs []FieldError
	seen := make(map[string]int, len(items))
	for i, item := range items {
		prefix := fmt.Sprintf("textElements[%d]", i)

		el, _, err := decodeElement(item)
		if errors.Is(err, ErrUnresolvableVariant) || errors.Is(err, ErrAmbiguousVariant) {
			result.Dropped = append(result.Dropped, DroppedElement{Index: i, Reason: err.Error()})
			continue
		}
		if err != nil {
			fieldErrs = append(fieldErrs, FieldError{Field: prefix, Message: "is malformed: " + err.Error()})
			continue
		}

		if el.ElementID() == "" {
			el = withID(el, banner.NewID())
		}
		if first, dup := seen[el.ElementID()]; dup {
			fieldErrs = append(fieldErrs, FieldError{
				Field:   prefix + ".id",
				Message: fmt.Sprintf("duplicates textElements[%d].id", first),
			})
			continue
		}
		seen[el.ElementID()] = i

		fieldErrs = append(fieldErrs, v.structErrors(prefix+".", el)...)
		result.Elements = append(result.Elements, el)
	}

	if len(fieldErrs) > 0 {
		return nil, &ValidationError{Fields: fieldErrs}
	}
	return result, nil
}

// ValidateElementList checks an already-typed list, as produced by the editor.
func (v *Validator) ValidateElementList(elements []banner.Element) error {
	var fieldErrs []FieldError
	seen := make(map[string]int, len(elements))
	for i, el := range elements {
		prefix := fmt.Sprintf("textElements[%d]", i)
		if first, dup := seen[el.ElementID()]; dup {
			fieldErrs = append(fieldErrs, FieldError{
				Field:   prefix + ".id",
				Message: fmt.Sprintf("duplicates textElements[%d].id", first),
			})
			continue
		}
		seen[el.ElementID()] = i
		fieldErrs = append(fieldErrs, v.structErrors(prefix+".", el)...)
	}
	if len(fieldErrs) > 0 {
		return &ValidationError{Fields: fieldErrs}
	}
	return nil
}

// ValidateBanner checks the aggregate fields and its element list.
func (v *Validator) ValidateBanner(b *banner.Banner) error {
	fieldErrs := v.structErrors("", b)
	if err := v.ValidateElementList(b.TextElements); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			fieldErrs = append(fieldErrs, ve.Fields...)
		}
	}
	if len(fieldErrs) > 0 {
		return &ValidationError{Fields: fieldErrs}
	}
	return nil
}

// ApplyBannerDefaults fills presentational defaults left empty by the client.
func ApplyBannerDefaults(b *banner.Banner) {
	if b.MediaType == "" {
		b.MediaType = banner.MediaImage
	}
	if b.TextPosition == "" {
		b.TextPosition = banner.PositionCenter
	}
	if b.TextAlign == "" {
		b.TextAlign = banner.AlignCenter
	}
	if b.AnimationStyle == "" {
		b.AnimationStyle = banner.AnimationFade
	}
	if b.OverlayStyle == "" {
		b.OverlayStyle = banner.OverlayDark
	}
	if b.MobileAspectRatio == "" {
		b.MobileAspectRatio = banner.DefaultMobileAspectRatio
	}
	if b.TextElements == nil {
		b.TextElements = []banner.Element{}
	}
}

func (v *Validator) structErrors(prefix string, s any) []FieldError {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: strings.TrimSuffix(prefix, "."), Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{Field: prefix + fe.Field(), Message: message(fe)})
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required", "required_without", "required_if":
		return "is required"
	case "gte":
		return "must be at least " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "min":
		return "must not be empty"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "oneof":
		return "must be one of [" + fe.Param() + "]"
	case "csscolor":
		return "must be a CSS color or hex value"
	case "fontfamily":
		return "must be one of the supported font families"
	case "fontweight":
		return "must be a font weight token"
	default:
		return "is invalid"
	}
}
