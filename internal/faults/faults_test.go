package faults

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{Validation("champ manquant"), http.StatusBadRequest},
		{NotFound("abc"), http.StatusNotFound},
		{InsufficientStock("abc", 1, 3), http.StatusConflict},
		{DuplicateItem("abc"), http.StatusConflict},
		{Unauthorized("accès refusé"), http.StatusForbidden},
		{Transaction("base indisponible"), http.StatusServiceUnavailable},
		{errors.New("erreur quelconque"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, HTTPStatus(tc.err), "pour %v", tc.err)
	}
}

func TestAsUnwrapsChain(t *testing.T) {
	inner := NotFound("phone-42")
	wrapped := fmt.Errorf("lecture annonce: %w", inner)

	f, ok := As(wrapped)
	require.True(t, ok)
	assert.Equal(t, KindNotFound, f.Kind)
	assert.Equal(t, "phone-42", f.Ref)

	_, ok = As(errors.New("pas un fault"))
	assert.False(t, ok)
}

func TestIsKind(t *testing.T) {
	err := InsufficientStock("phone-42", 0, 2)

	assert.True(t, IsKind(err, KindInsufficientStock))
	assert.False(t, IsKind(err, KindValidation))
	assert.False(t, IsKind(nil, KindValidation))
}

func TestErrorMessageIncludesRef(t *testing.T) {
	assert.Equal(t, "ressource introuvable (phone-42)", NotFound("phone-42").Error())
	assert.Equal(t, "base indisponible", Transaction("base indisponible").Error())
}

func TestInsufficientStockMessage(t *testing.T) {
	err := InsufficientStock("phone-42", 1, 3)
	assert.Contains(t, err.Error(), "disponible: 1")
	assert.Contains(t, err.Error(), "demandé: 3")
}
