// Package crypt implements the signing primitives: keyed content signatures
// and password hashing.
package crypt

import "errors"

// Signing-layer errors.
var (
	// ErrKeyFailHmac indicates the key cannot be used to build the HMAC.
	ErrKeyFailHmac = errors.New("key fail hmac")

	// ErrPwdNotMatching indicates the clear password does not match the stored hash.
	ErrPwdNotMatching = errors.New("pwd not matching")
)
