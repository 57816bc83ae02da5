// Copyright (c) 2026 Envision Studio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/envision/internal/platform/apperr"
	requestutil "github.com/taibuivan/envision/internal/platform/request"
)

func withParam(request *http.Request, key, value string) *http.Request {
	routeContext := chi.NewRouteContext()
	routeContext.URLParams.Add(key, value)
	return request.WithContext(context.WithValue(request.Context(), chi.RouteCtxKey, routeContext))
}

func TestID(t *testing.T) {
	request := withParam(httptest.NewRequest(http.MethodGet, "/api/images/42", nil), "id", "42")
	id, err := requestutil.ID(request, "id")
	require.NoError(t, err)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"abc", "0", "-3", ""} {
		request := withParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", raw)
		_, err := requestutil.ID(request, "id")
		assert.True(t, apperr.HasCode(err, apperr.CodeValidation), raw)
	}
}

func TestDecodeJSON(t *testing.T) {
	var target struct {
		Name string `json:"name"`
	}

	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Lan"}`))
	require.NoError(t, requestutil.DecodeJSON(httptest.NewRecorder(), request, &target))
	assert.Equal(t, "Lan", target.Name)

	request = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	assert.Error(t, requestutil.DecodeJSON(httptest.NewRecorder(), request, &target))
}
