package result

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Apurer/rescue-adoption-api/internal/shared/failure"
)

func TestFail_ValidationCarriesFields(t *testing.T) {
	env := Fail(failure.Validation(map[string]string{"motivation": "is required"}))

	require.False(t, env.Success)
	require.Equal(t, "validation failed", env.Message)
	require.Equal(t, map[string]string{"motivation": "is required"}, env.Errors)
}

func TestFail_BusinessCodeKeyed(t *testing.T) {
	env := Fail(failure.New(failure.CodeNoSeats, "activity has no available seats"))

	require.Equal(t, "activity has no available seats", env.Errors["no_seats"])
	require.Equal(t, http.StatusOK, HTTPStatus(failure.ErrNoSeats))
}

func TestFail_StorageHidesCause(t *testing.T) {
	err := errors.New("pq: connection refused to 10.0.0.3")
	env := Fail(err)

	require.Equal(t, failure.GenericStorageMessage, env.Message)
	require.NotContains(t, env.Errors[string(failure.CodeStorage)], "10.0.0.3")
	require.Equal(t, http.StatusInternalServerError, HTTPStatus(err))
}

func TestOK(t *testing.T) {
	env := OK("created", map[string]string{"id": "1"})
	require.True(t, env.Success)
	require.Nil(t, env.Errors)
}
