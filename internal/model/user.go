package model

import (
	"context"
	"fmt"

	"github.com/gofrs/uuid/v5"

	"github.com/and161185/zserver/internal/crypt"
	"github.com/and161185/zserver/internal/errs"
	"github.com/and161185/zserver/internal/reqctx"
)

// User is the public view of a users row.
type User struct {
	ID       int64  `db:"id" json:"id"`
	Username string `db:"username" json:"username"`
}

// UserForCreate is the payload of UserBmc.Create.
type UserForCreate struct {
	Username string
	PwdClear string
}

// UserForLogin carries what password verification needs.
type UserForLogin struct {
	ID       int64  `db:"id"`
	Username string `db:"username"`
	Pwd      []byte `db:"pwd"` // argon2id(pwd, pwd_salt)
	PwdSalt  []byte `db:"pwd_salt"`

	TokenSalt uuid.UUID `db:"token_salt"`
}

// UserForAuth carries what token validation needs.
type UserForAuth struct {
	ID       int64  `db:"id"`
	Username string `db:"username"`

	TokenSalt uuid.UUID `db:"token_salt"`
}

type userForInsert struct {
	username  string
	pwd       []byte
	pwdSalt   []byte
	tokenSalt uuid.UUID
}

func (d userForInsert) fields() fields {
	return fields{
		names:  []string{"username", "pwd", "pwd_salt", "token_salt"},
		values: []any{d.username, d.pwd, d.pwdSalt, d.tokenSalt},
	}
}

type userPwd struct{ pwd []byte }

func (d userPwd) fields() fields {
	return fields{names: []string{"pwd"}, values: []any{d.pwd}}
}

var (
	userTable      = table{name: "users", entity: "user", columns: []string{"id", "username"}}
	userLoginTable = table{name: "users", entity: "user", columns: []string{"id", "username", "pwd", "pwd_salt", "token_salt"}}
	userAuthTable  = table{name: "users", entity: "user", columns: []string{"id", "username", "token_salt"}}
)

// UserBmc is the backend model controller of users.
type UserBmc struct{}

// Create inserts a user with fresh password and token salts.
// A taken username gives an error matching errs.ErrAlreadyExists.
func (UserBmc) Create(ctx context.Context, c reqctx.Ctx, mm *Manager, data UserForCreate) (int64, error) {
	if data.Username == "" || data.PwdClear == "" {
		return 0, fmt.Errorf("%w: empty username/password", errs.ErrValidation)
	}
	pwdSalt, err := crypt.RandBytes(crypt.PwdSaltLen)
	if err != nil {
		return 0, Crypt(err)
	}
	tokenSalt, err := uuid.NewV4()
	if err != nil {
		return 0, Crypt(err)
	}
	return create(ctx, c, mm, userTable, userForInsert{
		username:  data.Username,
		pwd:       crypt.HashPwd(data.PwdClear, pwdSalt),
		pwdSalt:   pwdSalt,
		tokenSalt: tokenSalt,
	})
}

func (UserBmc) Get(ctx context.Context, c reqctx.Ctx, mm *Manager, id int64) (User, error) {
	return get[User](ctx, c, mm, userTable, id)
}

func (UserBmc) List(ctx context.Context, c reqctx.Ctx, mm *Manager) ([]User, error) {
	return list[User](ctx, c, mm, userTable)
}

func (UserBmc) Delete(ctx context.Context, c reqctx.Ctx, mm *Manager, id int64) error {
	return remove(ctx, c, mm, userTable, id)
}

// FirstForLogin loads the login view by username.
func (UserBmc) FirstForLogin(ctx context.Context, c reqctx.Ctx, mm *Manager, username string) (UserForLogin, error) {
	return firstBy[UserForLogin](ctx, c, mm, userLoginTable, "username", username)
}

// FirstForAuth loads the auth view by username.
func (UserBmc) FirstForAuth(ctx context.Context, c reqctx.Ctx, mm *Manager, username string) (UserForAuth, error) {
	return firstBy[UserForAuth](ctx, c, mm, userAuthTable, "username", username)
}

// UpdatePwd replaces the password, keeping the stored salt.
func (b UserBmc) UpdatePwd(ctx context.Context, c reqctx.Ctx, mm *Manager, id int64, pwdClear string) error {
	if pwdClear == "" {
		return fmt.Errorf("%w: empty password", errs.ErrValidation)
	}
	u, err := get[UserForLogin](ctx, c, mm, userLoginTable, id)
	if err != nil {
		return err
	}
	return update(ctx, c, mm, userTable, id, userPwd{pwd: crypt.HashPwd(pwdClear, u.PwdSalt)})
}
