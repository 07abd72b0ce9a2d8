// Package token implements the stateless signed web token:
// <b64u(ident)>.<b64u(exp)>.<b64u(signature)>.
package token

import "errors"

// Token-layer errors.
var (
	// ErrInvalidFormat indicates the text does not have exactly three segments.
	ErrInvalidFormat = errors.New("token invalid format")
	// ErrCannotDecodeIdent indicates the ident segment is not b64u text.
	ErrCannotDecodeIdent = errors.New("token cannot decode ident")
	// ErrCannotDecodeExp indicates the exp segment is not b64u text.
	ErrCannotDecodeExp = errors.New("token cannot decode exp")
	// ErrSignatureNotMatching indicates the recomputed signature differs.
	ErrSignatureNotMatching = errors.New("token signature not matching")
	// ErrExpNotIso indicates the exp field is not an RFC3339 timestamp.
	ErrExpNotIso = errors.New("token exp not iso")
	// ErrExpired indicates the token expiration is in the past.
	ErrExpired = errors.New("token expired")
	// ErrInvalidDuration indicates a lifetime that cannot produce a future expiration.
	ErrInvalidDuration = errors.New("token invalid duration")
	// ErrSignFailed wraps a signing-layer error.
	ErrSignFailed = errors.New("token sign failed")
)
