// Package utils holds the small encoding and clock helpers shared by the token code.
package utils

import (
	"encoding/base64"
	"errors"
	"fmt"
	"unicode/utf8"
)

// ErrFailToB64uDecode indicates the input is not base64url (no padding) text,
// or does not decode to valid UTF-8 when a string is expected.
var ErrFailToB64uDecode = errors.New("fail to b64u decode")

// B64uEncode encodes s as base64url without padding.
func B64uEncode(s string) string {
	return B64uEncodeBytes([]byte(s))
}

// B64uEncodeBytes encodes b as base64url without padding.
func B64uEncodeBytes(b []byte) string {
	return base64.RawURLEncoding.EncodeToString(b)
}

// B64uDecodeBytes decodes base64url text without padding. Non-zero trailing
// bits are rejected, so every byte string has exactly one accepted encoding.
func B64uDecodeBytes(s string) ([]byte, error) {
	b, err := base64.RawURLEncoding.Strict().DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFailToB64uDecode, err)
	}
	return b, nil
}

// B64uDecode decodes base64url text into a UTF-8 string.
func B64uDecode(s string) (string, error) {
	b, err := B64uDecodeBytes(s)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", fmt.Errorf("%w: invalid utf-8", ErrFailToB64uDecode)
	}
	return string(b), nil
}
