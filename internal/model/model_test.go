package model

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestManager_PingPoolClose(t *testing.T) {
	mm, mock := newMM(t)
	ctx := context.Background()

	mock.ExpectPing()
	require.NoError(t, mm.Ping(ctx))

	mock.ExpectPing().WillReturnError(errors.New("down"))
	err := mm.Ping(ctx)
	var me *Error
	require.ErrorAs(t, err, &me)
	require.Equal(t, KindStorage, me.Kind)

	require.Same(t, mock, mm.Pool())

	mock.ExpectClose()
	mm.Close()
	require.NoError(t, mock.ExpectationsWereMet())
}
