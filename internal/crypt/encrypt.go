package crypt

import (
	"crypto/hmac"
	"crypto/sha512"

	"github.com/and161185/zserver/internal/utils"
)

// EncryptContent is the input of one signature: the content and the caller salt.
type EncryptContent struct {
	Content string // clear content
	Salt    string // clear salt
}

// EncryptIntoB64u returns base64url(HMAC-SHA512(key, content ‖ salt)).
// The output is deterministic for identical inputs.
func EncryptIntoB64u(key []byte, ec EncryptContent) (string, error) {
	if len(key) == 0 {
		return "", ErrKeyFailHmac
	}
	mac := hmac.New(sha512.New, key)
	mac.Write([]byte(ec.Content))
	mac.Write([]byte(ec.Salt))
	return utils.B64uEncodeBytes(mac.Sum(nil)), nil
}
