package sharing

import (
	"context"
	"regexp"
	"strings"

	"mediquery/client"
	"mediquery/models"
	"mediquery/utils"

	"go.uber.org/zap"
)

// DefaultExpiryHours is used when the caller omits the hour count or supplies
// a non-positive one. The actual expiry timestamp is computed server-side.
const DefaultExpiryHours = 24

// tokenPattern extracts the opaque token from a full share URL.
var tokenPattern = regexp.MustCompile(`view-shared/([a-zA-Z0-9_-]+)`)

// bareTokenPattern matches a token pasted without its URL.
var bareTokenPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// ShareService issues and redeems prescription share links.
type ShareService interface {
	GenerateLink(ctx context.Context, prescriptionID, patientID string, expiryHours int, password string) (*models.ShareLink, error)
	RedeemLink(ctx context.Context, tokenOrURL, password string) (*models.SharedRecords, error)
}

// DefaultShareService implements ShareService. It never stores a password
// beyond the single outgoing request.
type DefaultShareService struct {
	API    client.DiagnosisAPI
	Logger *zap.Logger
}

var _ ShareService = (*DefaultShareService)(nil)

// GenerateLink creates a time-limited share link for the patient's records.
// The link is password-protected exactly when a password is supplied.
func (s *DefaultShareService) GenerateLink(ctx context.Context, prescriptionID, patientID string, expiryHours int, password string) (*models.ShareLink, error) {
	if strings.TrimSpace(patientID) == "" {
		return nil, utils.NewInputError("patient ID is required")
	}
	if expiryHours <= 0 {
		expiryHours = DefaultExpiryHours
	}

	link, err := s.API.GenerateShareLink(ctx, patientID, expiryHours, password)
	if err != nil {
		return nil, err
	}
	link.Token = ExtractToken(link.ShareURL)
	s.logger().Info("Share link generated",
		zap.String("prescriptionId", prescriptionID),
		zap.String("expiresAt", link.ExpiresAt),
		zap.Bool("requiresPassword", link.RequiresPassword))
	return link, nil
}

// RedeemLink resolves a bare token or a full share URL and fetches the shared
// prescription bundle. Wrong-password rejections are distinguishable from
// unknown or expired links so the holder can retry without re-entering the
// token.
func (s *DefaultShareService) RedeemLink(ctx context.Context, tokenOrURL, password string) (*models.SharedRecords, error) {
	token := ExtractToken(tokenOrURL)
	if token == "" {
		return nil, utils.NewInputError("share token is required")
	}

	records, err := s.API.RedeemShareLink(ctx, token, password)
	if err != nil {
		return nil, classifyRedemption(err)
	}
	return records, nil
}

// ExtractToken pulls the opaque token out of a full share URL, or returns the
// trimmed input when it already looks like a bare token. Anything else yields
// the empty string.
func ExtractToken(tokenOrURL string) string {
	trimmed := strings.TrimSpace(tokenOrURL)
	if m := tokenPattern.FindStringSubmatch(trimmed); m != nil {
		return m[1]
	}
	if bareTokenPattern.MatchString(trimmed) {
		return trimmed
	}
	return ""
}

func (s *DefaultShareService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
