package token

import (
	"fmt"
	"strings"

	"github.com/and161185/zserver/internal/utils"
)

// Token is an identity token. The zero value is not a valid token.
type Token struct {
	Ident    string // identifier, e.g. username
	Exp      string // expiration, RFC3339
	SignB64u string // signature, already b64u encoded
}

// String returns the wire form of t.
func (t Token) String() string {
	return utils.B64uEncode(t.Ident) + "." + utils.B64uEncode(t.Exp) + "." + t.SignB64u
}

// Parse decodes the wire form. It checks neither the signature nor the expiration.
func Parse(s string) (Token, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 3 {
		return Token{}, ErrInvalidFormat
	}

	ident, err := utils.B64uDecode(parts[0])
	if err != nil {
		return Token{}, fmt.Errorf("%w: %w", ErrCannotDecodeIdent, err)
	}
	exp, err := utils.B64uDecode(parts[1])
	if err != nil {
		return Token{}, fmt.Errorf("%w: %w", ErrCannotDecodeExp, err)
	}

	return Token{Ident: ident, Exp: exp, SignB64u: parts[2]}, nil
}
