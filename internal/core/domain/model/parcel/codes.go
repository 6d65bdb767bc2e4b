package parcel

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"pickupoint/internal/pkg/errs"
	"pickupoint/internal/pkg/guard"
)

const (
	confirmationCodeDigits = 6
	trackingPrefix         = "PKP"
	trackingAlphabet       = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
)

var (
	ErrConfirmationCodeIsNotConstructed = errs.NewValueIsRequiredError("confirmation code")

	confirmationCodePattern = regexp.MustCompile(`^\d{6}$`)
	trackingCodePattern     = regexp.MustCompile(`^PKP-[A-Z0-9]{3}-[A-Z0-9]{4}$`)
)

// ConfirmationCode is a 6-digit proof-of-handoff code. Pickup and delivery codes
// are issued once at parcel creation and never regenerated.
type ConfirmationCode struct {
	value string
	guard guard.ConstructorGuard
}

func NewConfirmationCode(value string) (ConfirmationCode, error) {
	if !confirmationCodePattern.MatchString(value) {
		return ConfirmationCode{}, errs.NewValueIsInvalidErrorWithCause(
			"confirmation code", fmt.Errorf("must be %d digits", confirmationCodeDigits))
	}
	return ConfirmationCode{value: value, guard: guard.NewConstructorGuard()}, nil
}

// GenerateConfirmationCode draws a uniformly random code from crypto/rand.
func GenerateConfirmationCode() (ConfirmationCode, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return ConfirmationCode{}, fmt.Errorf("generate confirmation code: %w", err)
	}
	return NewConfirmationCode(fmt.Sprintf("%06d", n.Int64()))
}

func (c ConfirmationCode) Validate() error {
	return c.guard.Validate(ErrConfirmationCodeIsNotConstructed)
}

func (c ConfirmationCode) Value() string {
	return c.value
}

// Matches compares in constant time. Surrounding whitespace is ignored.
func (c ConfirmationCode) Matches(presented string) bool {
	presented = strings.TrimSpace(presented)
	return len(presented) == len(c.value) &&
		subtle.ConstantTimeCompare([]byte(presented), []byte(c.value)) == 1
}

// GenerateTrackingCode returns a human readable code like PKP-7KD-M3QZ.
func GenerateTrackingCode() (string, error) {
	var sb strings.Builder
	sb.WriteString(trackingPrefix)
	for i := range 7 {
		if i == 0 || i == 3 {
			sb.WriteByte('-')
		}
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(trackingAlphabet))))
		if err != nil {
			return "", fmt.Errorf("generate tracking code: %w", err)
		}
		sb.WriteByte(trackingAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

func validateTrackingCode(code string) error {
	if !trackingCodePattern.MatchString(code) {
		return errs.NewValueIsInvalidErrorWithCause("tracking_code", fmt.Errorf("%q has the wrong format", code))
	}
	return nil
}
