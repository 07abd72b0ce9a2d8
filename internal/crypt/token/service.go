package token

import (
	"crypto/hmac"
	"fmt"
	"math"
	"time"

	"github.com/and161185/zserver/internal/crypt"
	"github.com/and161185/zserver/internal/utils"
)

// Service generates and validates web tokens with one symmetric key.
// It is immutable and safe for concurrent use.
type Service struct {
	key         []byte
	durationSec float64
}

// MaxDurationSec bounds lifetimes from above (exclusive) so they fit a time.Duration.
const MaxDurationSec = float64(math.MaxInt64) / float64(time.Second)

// CheckDurationSec rejects lifetimes that are not finite, not positive or
// too large for a time.Duration.
func CheckDurationSec(sec float64) error {
	if math.IsNaN(sec) || math.IsInf(sec, 0) || sec <= 0 || sec >= MaxDurationSec {
		return fmt.Errorf("%w: %v", ErrInvalidDuration, sec)
	}
	return nil
}

// NewService constructs a Service. durationSec may be fractional.
func NewService(key []byte, durationSec float64) (*Service, error) {
	if len(key) == 0 {
		return nil, fmt.Errorf("%w: %w", ErrSignFailed, crypt.ErrKeyFailHmac)
	}
	if err := CheckDurationSec(durationSec); err != nil {
		return nil, err
	}
	return &Service{key: append([]byte(nil), key...), durationSec: durationSec}, nil
}

// Generate mints a token for ident, signed with salt.
func (s *Service) Generate(ident, salt string) (Token, error) {
	return generate(ident, s.durationSec, salt, s.key)
}

// Validate checks the signature of t against salt, then its expiration.
func (s *Service) Validate(t Token, salt string) error {
	return validateSignAndExp(t, salt, s.key)
}

func generate(ident string, durationSec float64, salt string, key []byte) (Token, error) {
	exp := utils.NowUTCPlusSecStr(durationSec)

	sign, err := signIntoB64u(ident, exp, salt, key)
	if err != nil {
		return Token{}, err
	}
	return Token{Ident: ident, Exp: exp, SignB64u: sign}, nil
}

func validateSignAndExp(t Token, salt string, key []byte) error {
	sign, err := signIntoB64u(t.Ident, t.Exp, salt, key)
	if err != nil {
		return err
	}
	if !hmac.Equal([]byte(sign), []byte(t.SignB64u)) {
		return ErrSignatureNotMatching
	}

	exp, err := utils.ParseUTC(t.Exp)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExpNotIso, err)
	}
	if exp.Before(utils.NowUTC()) {
		return ErrExpired
	}
	return nil
}

// signIntoB64u signs "<b64u(ident)>.<b64u(exp)>" with salt.
func signIntoB64u(ident, exp, salt string, key []byte) (string, error) {
	content := utils.B64uEncode(ident) + "." + utils.B64uEncode(exp)
	sign, err := crypt.EncryptIntoB64u(key, crypt.EncryptContent{Content: content, Salt: salt})
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSignFailed, err)
	}
	return sign, nil
}
