package sharing

import (
	"errors"
	"fmt"
	"net/http"

	"mediquery/client"
)

// Redemption failure kinds. The backend distinguishes them by HTTP status:
// 401 for a missing or wrong password, 403 for an expired link, 404 for an
// unknown token.
const (
	RedeemWrongPassword = "wrong_password"
	RedeemExpired       = "expired"
	RedeemInvalidToken  = "invalid_token"
)

// RedemptionError classifies a failed share-link redemption while keeping the
// server-supplied reason verbatim.
type RedemptionError struct {
	Kind   string
	Reason string
}

func (e *RedemptionError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

// IsWrongPassword reports whether err is a password rejection, which can be
// retried without re-entering the token.
func IsWrongPassword(err error) bool {
	var redemptionErr *RedemptionError
	return errors.As(err, &redemptionErr) && redemptionErr.Kind == RedeemWrongPassword
}

// IsInvalidToken reports whether err means the token is unknown or expired.
func IsInvalidToken(err error) bool {
	var redemptionErr *RedemptionError
	return errors.As(err, &redemptionErr) &&
		(redemptionErr.Kind == RedeemInvalidToken || redemptionErr.Kind == RedeemExpired)
}

// classifyRedemption maps backend rejections onto redemption kinds. Transport
// errors pass through untouched.
func classifyRedemption(err error) error {
	apiErr, ok := client.AsAPIError(err)
	if !ok {
		return err
	}
	if client.IsUnauthorized(err) {
		return &RedemptionError{Kind: RedeemWrongPassword, Reason: apiErr.Reason}
	}
	switch apiErr.StatusCode {
	case http.StatusForbidden:
		return &RedemptionError{Kind: RedeemExpired, Reason: apiErr.Reason}
	case http.StatusNotFound:
		return &RedemptionError{Kind: RedeemInvalidToken, Reason: apiErr.Reason}
	default:
		return err
	}
}
