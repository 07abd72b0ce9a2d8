package crypt

import (
	"crypto/rand"
	"crypto/subtle"

	"golang.org/x/crypto/argon2"
)

// Argon2id parameters for stored user passwords.
const (
	argonTime    uint32 = 3         // iterations
	argonMemory  uint32 = 64 * 1024 // 64 MB
	argonThreads uint8  = 1
	argonKeyLen  uint32 = 32

	// PwdSaltLen is the per-user password salt length.
	PwdSaltLen = 16
)

// RandBytes returns n cryptographically secure random bytes.
func RandBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := rand.Read(b)
	return b, err
}

// HashPwd returns the Argon2id hash of the clear password with the given salt.
func HashPwd(pwdClear string, salt []byte) []byte {
	return argon2.IDKey([]byte(pwdClear), salt, argonTime, argonMemory, argonThreads, argonKeyLen)
}

// ValidatePwd checks pwdClear against the stored hash and salt.
func ValidatePwd(pwdClear string, salt, pwdHash []byte) error {
	got := HashPwd(pwdClear, salt)
	if subtle.ConstantTimeCompare(got, pwdHash) != 1 {
		return ErrPwdNotMatching
	}
	return nil
}
