package schema

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/AtRiskMedia/bannerstack-go/internal/domain/entities/banner"
)

func TestValidateElementsUntaggedText(t *testing.T) {
	v := NewValidator()
	res, err := v.ValidateElements(json.RawMessage(`[{"id":"e1","content":"Hi","x":10,"y":10,"fontSize":24,"fontFamily":"Inter","fontWeight":"bold","color":"#fff","textAlign":"left"}]`))
	if err != nil {
		t.Fatalf("expected valid list, got %v", err)
	}
	if len(res.Elements) != 1 {
		t.Fatalf("expected 1 element, got %d", len(res.Elements))
	}
	if _, ok := res.Elements[0].(*banner.TextElement); !ok {
		t.Fatalf("expected text element, got %T", res.Elements[0])
	}
}

func TestValidateElementsEmptyForms(t *testing.T) {
	v := NewValidator()
	for _, raw := range []string{``, `null`, `[]`, `"[]"`} {
		res, err := v.ValidateElements(json.RawMessage(raw))
		if err != nil {
			t.Fatalf("%q: unexpected error %v", raw, err)
		}
		if res.Elements == nil || len(res.Elements) != 0 {
			t.Fatalf("%q: expected empty list, got %v", raw, res.Elements)
		}
	}
}

func TestValidateElementsRejectsNonArray(t *testing.T) {
	v := NewValidator()
	_, err := v.ValidateElements(json.RawMessage(`{"id":"e1"}`))
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if ve.Fields[0].Field != "textElements" {
		t.Fatalf("unexpected field %q", ve.Fields[0].Field)
	}
	if !errors.Is(err, ErrValidation) {
		t.Fatal("expected error to wrap ErrValidation")
	}
}

func TestValidateElementsFieldErrors(t *testing.T) {
	v := NewValidator()
	_, err := v.ValidateElements(json.RawMessage(`[
		{"id":"a","content":"Hi","x":120,"fontFamily":"Comic Sans","color":"not a color!"},
		{"id":"b","imageUrl":"/a.png","width":2,"productId":0},
		{"id":"a","content":"dup"}
	]`))
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}

	got := map[string]string{}
	for _, f := range ve.Fields {
		got[f.Field] = f.Message
	}
	for field, msg := range map[string]string{
		"textElements[0].x":          "must be at most 100",
		"textElements[0].fontFamily": "must be one of the supported font families",
		"textElements[0].color":      "must be a CSS color or hex value",
		"textElements[1].width":      "must be at least 5",
		"textElements[1].productId":  "must be greater than 0",
		"textElements[2].id":         "duplicates textElements[0].id",
	} {
		if got[field] != msg {
			t.Fatalf("%s: expected %q, got %q (all: %v)", field, msg, got[field], got)
		}
	}
}

func TestValidateElementsDropsUnresolvable(t *testing.T) {
	v := NewValidator()
	res, err := v.ValidateElements(json.RawMessage(`[
		{"id":"a","x":10},
		{"id":"b","content":"Hi","imageUrl":"/a.png"},
		{"content":"no id"}
	]`))
	if err != nil {
		t.Fatalf("unexpected error %v", err)
	}
	if len(res.Dropped) != 2 {
		t.Fatalf("expected 2 dropped, got %v", res.Dropped)
	}
	if len(res.Elements) != 1 || res.Elements[0].ElementID() == "" {
		t.Fatalf("expected one element with generated id, got %v", res.Elements)
	}
}

func TestValidateElementsDropsNonObjects(t *testing.T) {
	v := NewValidator()
	res, err := v.ValidateElements(json.RawMessage(`[42, "junk", true, {"id":"e1","content":"Hi","x":10,"y":10}]`))
	if err != nil {
		t.Fatalf("non-object items should not fail the write: %v", err)
	}
	if len(res.Dropped) != 3 || res.Dropped[0].Index != 0 || res.Dropped[1].Index != 1 || res.Dropped[2].Index != 2 {
		t.Fatalf("dropped = %+v", res.Dropped)
	}
	if len(res.Elements) != 1 || res.Elements[0].ElementID() != "e1" {
		t.Fatalf("elements = %v", res.Elements)
	}
}

func TestValidateElementsWrongFieldTypeIsMalformed(t *testing.T) {
	v := NewValidator()
	_, err := v.ValidateElements(json.RawMessage(`[{"id":"e1","content":"Hi","x":"left","y":10}]`))
	var ve *ValidationError
	if !errors.As(err, &ve) || ve.Fields[0].Field != "textElements[0]" || !strings.Contains(ve.Fields[0].Message, "malformed") {
		t.Fatalf("err = %v", err)
	}
}

func TestValidateElementsRejectsUnknownAnimation(t *testing.T) {
	v := NewValidator()
	_, err := v.ValidateElements(json.RawMessage(`[{"id":"a","content":"Hi","animation":"wobble","animationDuration":0}]`))
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	fields := make([]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		fields = append(fields, f.Field)
	}
	joined := strings.Join(fields, ",")
	if !strings.Contains(joined, "textElements[0].animation") || !strings.Contains(joined, "textElements[0].animationDuration") {
		t.Fatalf("expected animation field errors, got %s", joined)
	}
}

func TestIsCSSColor(t *testing.T) {
	for _, c := range []string{"#fff", "#FFFFFF", "#ffffff80", "rgb(255, 0, 0)", "rgba(0,0,0,0.5)", "hsl(120 50% 50%)", "white", "transparent"} {
		if !IsCSSColor(c) {
			t.Fatalf("expected %q to be a color", c)
		}
	}
	for _, c := range []string{"", "#ff", "#gggggg", "rgb(1,2,3);x", "red;", "url(x)"} {
		if IsCSSColor(c) {
			t.Fatalf("expected %q to be rejected", c)
		}
	}
}

func TestValidateBanner(t *testing.T) {
	v := NewValidator()
	b := &banner.Banner{Title: "Spring"}
	ApplyBannerDefaults(b)

	err := v.ValidateBanner(b)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected missing image to fail, got %v", err)
	}
	if ve.Fields[0].Field != "imageUrl" {
		t.Fatalf("expected imageUrl error, got %v", ve.Fields)
	}

	b.ImageURL = "/hero.jpg"
	b.TextElements = []banner.Element{banner.NewTextElement("e1", "Hi")}
	if err := v.ValidateBanner(b); err != nil {
		t.Fatalf("expected valid banner, got %v", err)
	}

	b.MediaType = banner.MediaVideo
	if err := v.ValidateBanner(b); err == nil {
		t.Fatal("expected video banner without videoUrl to fail")
	}
}
