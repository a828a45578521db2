package security

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestValidateAdminToken(t *testing.T) {
	token, err := GenerateAdminToken("ops@example.com", testSecret, "storefront", time.Hour)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}

	claims, err := ValidateAdminToken(token, testSecret, "storefront")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.Subject != "ops@example.com" || claims.Role != RoleAdmin || claims.BannerID != "" {
		t.Fatalf("claims = %+v", claims)
	}

	if _, err := ValidateAdminToken(token, "wrong-secret", ""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("wrong secret: %v", err)
	}
	if _, err := ValidateAdminToken(token, testSecret, "someone-else"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("issuer mismatch: %v", err)
	}
	if _, err := ValidateAdminToken(token, "", ""); !errors.Is(err, ErrMissingSecret) {
		t.Fatalf("missing secret: %v", err)
	}
}

func TestValidateAdminTokenRejectsExpiredAndNonAdmin(t *testing.T) {
	expired, err := GenerateAdminToken("ops", testSecret, "", -time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if _, err := ValidateAdminToken(expired, testSecret, ""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expired: %v", err)
	}

	viewer := jwt.NewWithClaims(jwt.SigningMethodHS256, &AdminClaims{
		Role:             "viewer",
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	})
	signed, err := viewer.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if _, err := ValidateAdminToken(signed, testSecret, ""); !errors.Is(err, ErrForbidden) {
		t.Fatalf("viewer: %v", err)
	}

	none := jwt.NewWithClaims(jwt.SigningMethodNone, &AdminClaims{Role: RoleAdmin})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := ValidateAdminToken(unsigned, testSecret, ""); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("alg none must be rejected: %v", err)
	}
}

func TestEditorTicketCarriesBanner(t *testing.T) {
	ticket, err := GenerateEditorTicket("ops", "01HBANNER", testSecret, "", time.Minute)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	claims, err := ValidateAdminToken(ticket, testSecret, "")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if claims.BannerID != "01HBANNER" || claims.ID == "" {
		t.Fatalf("claims = %+v", claims)
	}
}
