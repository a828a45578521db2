package services

import (
	"errors"
	"testing"
	"time"

	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/security"
)

const authSecret = "auth-service-test-secret"

func TestBearerToken(t *testing.T) {
	cases := map[string]string{
		"Bearer abc":   "abc",
		"Bearer  abc ": "abc",
		"Bearer ":      "",
		"Basic abc":    "",
		"":             "",
	}
	for header, want := range cases {
		if got := BearerToken(header); got != want {
			t.Errorf("BearerToken(%q) = %q, want %q", header, got, want)
		}
	}
}

func TestAuthServiceTickets(t *testing.T) {
	svc := NewAuthService(authSecret, "", time.Minute, logging.NewDiscardLogger())

	admin, err := security.GenerateAdminToken("ops", authSecret, "", time.Hour)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	claims, err := svc.Authorize(admin)
	if err != nil {
		t.Fatalf("authorize: %v", err)
	}

	ticket, expires, err := svc.IssueEditorTicket(claims, "b1")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if until := time.Until(expires); until <= 0 || until > time.Minute {
		t.Fatalf("ticket expires in %v", until)
	}

	if _, err := svc.Authorize(ticket); !errors.Is(err, security.ErrForbidden) {
		t.Fatalf("ticket on admin API: %v", err)
	}
	got, err := svc.AuthorizeEditor(ticket, "b1")
	if err != nil || got.Subject != "ops" || got.BannerID != "b1" {
		t.Fatalf("authorize editor = %+v, %v", got, err)
	}
	if _, err := svc.AuthorizeEditor(ticket, "b2"); !errors.Is(err, ErrTicketScope) {
		t.Fatalf("ticket for another banner: %v", err)
	}
	if _, err := svc.AuthorizeEditor(admin, "b2"); err != nil {
		t.Fatalf("admin token opens any banner: %v", err)
	}
}

func TestAuthServiceWithoutSecret(t *testing.T) {
	svc := NewAuthService("", "", time.Minute, logging.NewDiscardLogger())
	if _, err := svc.Authorize("anything"); !errors.Is(err, security.ErrMissingSecret) {
		t.Fatalf("err = %v", err)
	}
}
