// Package service contains application services for authentication and tasks.
package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/and161185/zserver/internal/crypt"
	"github.com/and161185/zserver/internal/crypt/token"
	"github.com/and161185/zserver/internal/errs"
	"github.com/and161185/zserver/internal/limiter"
	"github.com/and161185/zserver/internal/model"
	"github.com/and161185/zserver/internal/repository"
	"github.com/and161185/zserver/internal/reqctx"
)

// AuthService defines login and request authentication.
type AuthService interface {
	// Login checks credentials, applying rate-limiting by (username, ip), and mints a token.
	Login(ctx context.Context, username, pwd, ip string) (token.Token, error)
	// Authenticate validates a wire token and returns the request ctx of its user.
	Authenticate(ctx context.Context, tokenStr string) (reqctx.Ctx, error)
	// ChangePwd replaces the password of the ctx user after checking the current one.
	ChangePwd(ctx context.Context, c reqctx.Ctx, pwd, newPwd string) error
}

type AuthServiceImpl struct {
	users  repository.Users
	mm     *model.Manager
	tokens *token.Service
	lim    limiter.Limiter
	log    *zap.Logger
}

// NewAuthService constructs AuthService with required dependencies.
func NewAuthService(users repository.Users, mm *model.Manager, tokens *token.Service, lim limiter.Limiter, log *zap.Logger) *AuthServiceImpl {
	if log == nil {
		log = zap.NewNop()
	}
	return &AuthServiceImpl{users: users, mm: mm, tokens: tokens, lim: lim, log: log}
}

// Login authenticates username/pwd and returns a token salted with the user's token salt.
func (s *AuthServiceImpl) Login(ctx context.Context, username, pwd, ip string) (token.Token, error) {
	ipHash := limiter.HashIP(ip)

	allowed, _, err := s.lim.Allow(ctx, username, ipHash)
	if err != nil {
		return token.Token{}, err
	}
	if !allowed {
		return token.Token{}, errs.ErrRateLimited
	}

	u, err := s.users.FirstForLogin(ctx, reqctx.Root(), s.mm, username)
	if err == nil {
		err = crypt.ValidatePwd(pwd, u.PwdSalt, u.Pwd)
	}
	if err != nil {
		if !errors.Is(err, errs.ErrNotFound) && !errors.Is(err, crypt.ErrPwdNotMatching) {
			return token.Token{}, err
		}
		s.log.Info("login failed", zap.String("username", username), zap.Error(err))
		if blocked, _, ferr := s.lim.Failure(ctx, username, ipHash); ferr == nil && blocked {
			return token.Token{}, errs.ErrRateLimited
		}
		// Unknown user and wrong password look the same to the caller.
		return token.Token{}, fmt.Errorf("%w: %w", errs.ErrUnauthorized, err)
	}

	// Success: reset counters (best-effort).
	_ = s.lim.Success(ctx, username, ipHash)

	tk, err := s.tokens.Generate(u.Username, u.TokenSalt.String())
	if err != nil {
		return token.Token{}, model.Crypt(err)
	}
	return tk, nil
}

// Authenticate parses tokenStr, loads its user and validates it with the user's token salt.
func (s *AuthServiceImpl) Authenticate(ctx context.Context, tokenStr string) (reqctx.Ctx, error) {
	tk, err := token.Parse(tokenStr)
	if err != nil {
		return reqctx.Ctx{}, fmt.Errorf("%w: %w", errs.ErrUnauthorized, model.Crypt(err))
	}

	u, err := s.users.FirstForAuth(ctx, reqctx.Root(), s.mm, tk.Ident)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return reqctx.Ctx{}, fmt.Errorf("%w: %w", errs.ErrUnauthorized, err)
		}
		return reqctx.Ctx{}, err
	}

	if err := s.tokens.Validate(tk, u.TokenSalt.String()); err != nil {
		if errors.Is(err, token.ErrSignFailed) {
			return reqctx.Ctx{}, model.Crypt(err)
		}
		return reqctx.Ctx{}, fmt.Errorf("%w: %w", errs.ErrUnauthorized, model.Crypt(err))
	}

	return reqctx.New(u.ID)
}

// ChangePwd verifies pwd for the user of c and stores newPwd.
// Tokens already issued stay valid until they expire.
func (s *AuthServiceImpl) ChangePwd(ctx context.Context, c reqctx.Ctx, pwd, newPwd string) error {
	if newPwd == "" {
		return fmt.Errorf("%w: empty new password", errs.ErrValidation)
	}
	u, err := s.users.Get(ctx, c, s.mm, c.UserID())
	if err != nil {
		return err
	}
	lu, err := s.users.FirstForLogin(ctx, c, s.mm, u.Username)
	if err != nil {
		return err
	}
	if err := crypt.ValidatePwd(pwd, lu.PwdSalt, lu.Pwd); err != nil {
		s.log.Info("change pwd rejected", zap.Int64("user_id", u.ID), zap.Error(err))
		return fmt.Errorf("%w: %w", errs.ErrUnauthorized, err)
	}
	return s.users.UpdatePwd(ctx, c, s.mm, u.ID, newPwd)
}
