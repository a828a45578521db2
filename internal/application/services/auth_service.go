package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/observability/logging"
	"github.com/AtRiskMedia/bannerstack-go/internal/infrastructure/security"
)

// ErrTicketScope is returned when an editor ticket is presented for another banner.
var ErrTicketScope = errors.New("editor ticket is scoped to another banner")

// AuthService validates operator tokens and issues editor tickets
type AuthService struct {
	secret    string
	issuer    string
	ticketTTL time.Duration
	logger    *logging.ChanneledLogger
}

// NewAuthService creates a new auth service
func NewAuthService(secret, issuer string, ticketTTL time.Duration, logger *logging.ChanneledLogger) *AuthService {
	return &AuthService{
		secret:    secret,
		issuer:    issuer,
		ticketTTL: ticketTTL,
		logger:    logger,
	}
}

// BearerToken extracts the token from an Authorization header.
func BearerToken(authHeader string) string {
	if len(authHeader) > 7 && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	return ""
}

// Authorize validates an admin token. Banner-scoped tickets are refused here; they only
// open editor sockets.
func (s *AuthService) Authorize(token string) (*security.AdminClaims, error) {
	claims, err := security.ValidateAdminToken(token, s.secret, s.issuer)
	if err != nil {
		s.logger.LogAuthOperation("authorize", "", false, map[string]any{"error": err.Error()})
		return nil, err
	}
	if claims.BannerID != "" {
		s.logger.LogAuthOperation("authorize", claims.Subject, false, map[string]any{"reason": "ticket used as admin token"})
		return nil, fmt.Errorf("%w: editor tickets cannot call the admin API", security.ErrForbidden)
	}
	return claims, nil
}

// AuthorizeEditor accepts a full admin token or a ticket scoped to bannerID.
func (s *AuthService) AuthorizeEditor(token, bannerID string) (*security.AdminClaims, error) {
	claims, err := security.ValidateAdminToken(token, s.secret, s.issuer)
	if err != nil {
		s.logger.LogAuthOperation("authorize_editor", "", false, map[string]any{"bannerId": bannerID, "error": err.Error()})
		return nil, err
	}
	if claims.BannerID != "" && claims.BannerID != bannerID {
		s.logger.LogAuthOperation("authorize_editor", claims.Subject, false, map[string]any{"bannerId": bannerID})
		return nil, ErrTicketScope
	}
	s.logger.LogAuthOperation("authorize_editor", claims.Subject, true, map[string]any{"bannerId": bannerID})
	return claims, nil
}

// IssueEditorTicket signs a short-lived ticket for opening one banner's editor socket.
func (s *AuthService) IssueEditorTicket(claims *security.AdminClaims, bannerID string) (string, time.Time, error) {
	expires := time.Now().UTC().Add(s.ticketTTL)
	ticket, err := security.GenerateEditorTicket(claims.Subject, bannerID, s.secret, s.issuer, s.ticketTTL)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to issue editor ticket: %w", err)
	}
	s.logger.LogAuthOperation("issue_ticket", claims.Subject, true, map[string]any{"bannerId": bannerID})
	return ticket, expires, nil
}
