package postgres

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenWithoutDSNSelectsMemory(t *testing.T) {
	db, cleanup, err := Open(context.Background(), "  ", slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	require.Nil(t, db)
	cleanup()
}

func TestConnectRejectsEmptyDSN(t *testing.T) {
	_, err := Connect(context.Background(), "")
	require.EqualError(t, err, "postgres DSN is empty")
}
