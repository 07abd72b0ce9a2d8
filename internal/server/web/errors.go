package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/and161185/zserver/internal/crypt/token"
	"github.com/and161185/zserver/internal/errs"
)

var (
	errNoAuth   = errors.New("no auth token")
	errBadBody  = errors.New("bad request body")
	errBadID    = errors.New("bad id")
	errPanic    = errors.New("internal")
	errNoReqCtx = errors.New("no request ctx")
)

// Error types reported to clients. Causes never leave the server.
const (
	TypeUnauthorized = "UNAUTHORIZED"
	TypeNotFound     = "NOT_FOUND"
	TypeValidation   = "VALIDATION"
	TypeExists       = "ALREADY_EXISTS"
	TypeRateLimited  = "RATE_LIMITED"
	TypeInternal     = "SERVICE_ERROR"
)

type errorBody struct {
	Error struct {
		Type  string `json:"type"`
		ReqID string `json:"req_id"`
	} `json:"error"`
}

func statusOf(err error) (int, string) {
	switch {
	case errors.Is(err, token.ErrSignFailed), errors.Is(err, errPanic), errors.Is(err, errNoReqCtx):
		return http.StatusInternalServerError, TypeInternal
	case errors.Is(err, errNoAuth),
		errors.Is(err, errs.ErrUnauthorized),
		errors.Is(err, token.ErrInvalidFormat),
		errors.Is(err, token.ErrCannotDecodeIdent),
		errors.Is(err, token.ErrCannotDecodeExp),
		errors.Is(err, token.ErrSignatureNotMatching),
		errors.Is(err, token.ErrExpNotIso),
		errors.Is(err, token.ErrExpired):
		return http.StatusUnauthorized, TypeUnauthorized
	case errors.Is(err, errs.ErrRateLimited):
		return http.StatusTooManyRequests, TypeRateLimited
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound, TypeNotFound
	case errors.Is(err, errs.ErrValidation), errors.Is(err, errBadBody), errors.Is(err, errBadID):
		return http.StatusBadRequest, TypeValidation
	case errors.Is(err, errs.ErrAlreadyExists):
		return http.StatusConflict, TypeExists
	default:
		return http.StatusInternalServerError, TypeInternal
	}
}

func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	code, typ := statusOf(err)
	var body errorBody
	body.Error.Type = typ
	body.Error.ReqID = ReqID(r.Context())
	writeJSON(w, code, body)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
