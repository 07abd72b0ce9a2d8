package model

import (
	"context"
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/jackc/pgx/v5/pgconn"
	pgxmock "github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/and161185/zserver/internal/crypt"
	"github.com/and161185/zserver/internal/errs"
	"github.com/and161185/zserver/internal/reqctx"
)

const (
	userInsertSQL   = `INSERT INTO "users" ("username", "pwd", "pwd_salt", "token_salt") VALUES ($1, $2, $3, $4) RETURNING id`
	userLoginSQL    = `SELECT "id", "username", "pwd", "pwd_salt", "token_salt" FROM "users" WHERE "username" = $1 ORDER BY id LIMIT 1`
	userAuthSQL     = `SELECT "id", "username", "token_salt" FROM "users" WHERE "username" = $1 ORDER BY id LIMIT 1`
	userLoginGetSQL = `SELECT "id", "username", "pwd", "pwd_salt", "token_salt" FROM "users" WHERE id = $1`
	userPwdSQL      = `UPDATE "users" SET "pwd" = $1 WHERE id = $2`
)

func TestUserBmc_Create(t *testing.T) {
	mm, mock := newMM(t)
	ctx := context.Background()

	mock.ExpectQuery(q(userInsertSQL)).
		WithArgs("demo2", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1001)))
	id, err := UserBmc{}.Create(ctx, reqctx.Root(), mm, UserForCreate{Username: "demo2", PwdClear: "welcome"})
	require.NoError(t, err)
	require.Equal(t, int64(1001), id)

	mock.ExpectQuery(q(userInsertSQL)).
		WithArgs("demo2", pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	_, err = UserBmc{}.Create(ctx, reqctx.Root(), mm, UserForCreate{Username: "demo2", PwdClear: "welcome"})
	require.ErrorIs(t, err, errs.ErrAlreadyExists)

	_, err = UserBmc{}.Create(ctx, reqctx.Root(), mm, UserForCreate{Username: "demo2"})
	require.ErrorIs(t, err, errs.ErrValidation)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUserBmc_FirstForLogin(t *testing.T) {
	mm, mock := newMM(t)
	salt := []byte("0123456789abcdef")
	tokenSalt := uuid.Must(uuid.NewV4())

	mock.ExpectQuery(q(userLoginSQL)).
		WithArgs("demo1").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "pwd", "pwd_salt", "token_salt"}).
			AddRow(int64(1000), "demo1", crypt.HashPwd("welcome", salt), salt, tokenSalt))

	u, err := UserBmc{}.FirstForLogin(context.Background(), reqctx.Root(), mm, "demo1")
	require.NoError(t, err)
	require.Equal(t, int64(1000), u.ID)
	require.Equal(t, tokenSalt, u.TokenSalt)
	require.NoError(t, crypt.ValidatePwd("welcome", u.PwdSalt, u.Pwd))
}

func TestUserBmc_FirstForAuth_NotFound(t *testing.T) {
	mm, mock := newMM(t)

	mock.ExpectQuery(q(userAuthSQL)).
		WithArgs("ghost").
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "token_salt"}))

	_, err := UserBmc{}.FirstForAuth(context.Background(), reqctx.Root(), mm, "ghost")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestUserBmc_UpdatePwd(t *testing.T) {
	mm, mock := newMM(t)
	salt := []byte("0123456789abcdef")

	mock.ExpectQuery(q(userLoginGetSQL)).
		WithArgs(int64(1000)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "pwd", "pwd_salt", "token_salt"}).
			AddRow(int64(1000), "demo1", []byte("old"), salt, uuid.Must(uuid.NewV4())))
	mock.ExpectExec(q(userPwdSQL)).
		WithArgs(crypt.HashPwd("new-pwd", salt), int64(1000)).
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	require.NoError(t, UserBmc{}.UpdatePwd(context.Background(), reqctx.Root(), mm, 1000, "new-pwd"))
	require.NoError(t, mock.ExpectationsWereMet())

	mock.ExpectQuery(q(userLoginGetSQL)).
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "username", "pwd", "pwd_salt", "token_salt"}))
	err := UserBmc{}.UpdatePwd(context.Background(), reqctx.Root(), mm, 42, "x")
	var nf *EntityNotFoundError
	require.ErrorAs(t, err, &nf)
	require.Equal(t, "user", nf.Entity)
}
