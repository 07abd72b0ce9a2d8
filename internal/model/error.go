package model

import (
	"fmt"

	"github.com/and161185/zserver/internal/errs"
)

// Kind tells which lower layer an Error comes from.
type Kind uint8

const (
	// KindCrypt wraps signing or token errors.
	KindCrypt Kind = iota + 1
	// KindStore wraps pool construction errors from package store.
	KindStore
	// KindStorage wraps errors returned by the database driver.
	KindStorage
)

func (k Kind) String() string {
	switch k {
	case KindCrypt:
		return "crypt"
	case KindStore:
		return "store"
	case KindStorage:
		return "storage"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Error is the model-layer error. Err is the original lower-layer value.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string { return "model " + e.Kind.String() + ": " + e.Err.Error() }

// Unwrap returns the lower-layer error for errors.Is and errors.As.
func (e *Error) Unwrap() error { return e.Err }

// Crypt wraps a crypt or token error. A nil err stays nil.
func Crypt(err error) error { return wrap(KindCrypt, err) }

// Store wraps an error from package store. A nil err stays nil.
func Store(err error) error { return wrap(KindStore, err) }

// Storage wraps a database driver error. A nil err stays nil.
func Storage(err error) error { return wrap(KindStorage, err) }

func wrap(k Kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Kind: k, Err: err}
}

// EntityNotFoundError reports that no row of Entity has ID.
type EntityNotFoundError struct {
	Entity string
	ID     int64
}

func (e *EntityNotFoundError) Error() string {
	return fmt.Sprintf("entity not found: %s id=%d", e.Entity, e.ID)
}

// Is makes errors.Is(err, errs.ErrNotFound) hold.
func (e *EntityNotFoundError) Is(target error) bool { return target == errs.ErrNotFound }
