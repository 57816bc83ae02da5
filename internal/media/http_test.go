// Copyright (c) 2026 Envision Studio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package media

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/envision/internal/platform/constants"
	"github.com/taibuivan/envision/internal/platform/middleware"
	"github.com/taibuivan/envision/internal/platform/sec"
	"github.com/taibuivan/envision/pkg/pointer"
)

type httpFixture struct {
	*fixture
	router http.Handler
	token  string
}

func newHTTPFixture(t *testing.T, publicBaseURL string) *httpFixture {
	t.Helper()

	f := newFixture(t)
	tokens, err := sec.NewTokenService("media-test-secret", constants.AuthIssuer)
	require.NoError(t, err)
	token, _, err := tokens.GenerateAccessToken("studio", constants.RoleAdmin, time.Hour)
	require.NoError(t, err)

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokens))
	router.Mount("/api/images", NewHandler(f.service, publicBaseURL).Routes())

	return &httpFixture{fixture: f, router: router, token: token}
}

func (f *httpFixture) do(request *http.Request, admin bool) *httptest.ResponseRecorder {
	if admin {
		request.Header.Set(constants.HeaderAuthorization, "Bearer "+f.token)
	}
	recorder := httptest.NewRecorder()
	f.router.ServeHTTP(recorder, request)
	return recorder
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, recorder *httptest.ResponseRecorder) envelope {
	t.Helper()
	var body envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

// multipartBody builds an upload form with one image part of the given size.
func multipartBody(t *testing.T, filename, contentType string, content io.Reader, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}

	if content != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", `form-data; name="image"; filename="`+filename+`"`)
		header.Set("Content-Type", contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = io.Copy(part, content)
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestHTTP_UploadCreatesImage(t *testing.T) {
	f := newHTTPFixture(t, "")

	body, contentType := multipartBody(t, "ring.png", "image/png", strings.NewReader("png"), map[string]string{
		"title": "Rings", "section": "portfolio", "displayOrder": "3",
	})
	request := httptest.NewRequest(http.MethodPost, "/api/images/upload", body)
	request.Header.Set("Content-Type", contentType)
	request.Host = "api.envision.test"

	recorder := f.do(request, true)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	var view View
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, recorder).Data, &view))
	assert.NotZero(t, view.ID)
	assert.True(t, strings.HasPrefix(view.URL, "http://api.envision.test/uploads/"), view.URL)
	assert.Equal(t, SectionPortfolio, view.Section)
	assert.Equal(t, 3, view.DisplayOrder)
	assert.True(t, view.Active)
	assert.Len(t, f.files(t), 1)
}

func TestHTTP_UploadTooLarge(t *testing.T) {
	f := newHTTPFixture(t, "")

	body, contentType := multipartBody(t, "huge.jpg", "image/jpeg", &zeroReader{remaining: 12 << 20}, nil)
	request := httptest.NewRequest(http.MethodPost, "/api/images/upload", body)
	request.Header.Set("Content-Type", contentType)

	recorder := f.do(request, true)

	assert.Equal(t, http.StatusRequestEntityTooLarge, recorder.Code)
	assert.False(t, decodeEnvelope(t, recorder).Success)
	assert.Empty(t, f.files(t))
	assert.Zero(t, f.repo.count())
}

func TestHTTP_UploadMissingFile(t *testing.T) {
	f := newHTTPFixture(t, "")

	body, contentType := multipartBody(t, "", "", nil, map[string]string{"title": "No file"})
	request := httptest.NewRequest(http.MethodPost, "/api/images/upload", body)
	request.Header.Set("Content-Type", contentType)

	recorder := f.do(request, true)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHTTP_MutationsRequireAdmin(t *testing.T) {
	f := newHTTPFixture(t, "")

	requests := []*http.Request{
		httptest.NewRequest(http.MethodPost, "/api/images/upload", nil),
		httptest.NewRequest(http.MethodPost, "/api/images", strings.NewReader(`{}`)),
		httptest.NewRequest(http.MethodPost, "/api/images/bulk", strings.NewReader(`{"images":[]}`)),
		httptest.NewRequest(http.MethodPatch, "/api/images/1", strings.NewReader(`{}`)),
		httptest.NewRequest(http.MethodDelete, "/api/images/1", nil),
		httptest.NewRequest(http.MethodGet, "/api/images?activeOnly=false", nil),
	}

	for _, request := range requests {
		recorder := f.do(request, false)
		assert.Equal(t, http.StatusUnauthorized, recorder.Code, request.Method+" "+request.URL.String())
	}
}

func TestHTTP_DeleteUnknown(t *testing.T) {
	f := newHTTPFixture(t, "")

	recorder := f.do(httptest.NewRequest(http.MethodDelete, "/api/images/999", nil), true)

	assert.Equal(t, http.StatusNotFound, recorder.Code)
	assert.Equal(t, "NOT_FOUND", decodeEnvelope(t, recorder).Code)
}

/*
TestHTTP_ListResolvesURLs checks forwarded headers for uploads and that
external URLs pass through unchanged.
*/
func TestHTTP_ListResolvesURLs(t *testing.T) {
	f := newHTTPFixture(t, "")
	f.repo.seed(
		&Image{ID: 1, Active: true, DisplayOrder: 0, Section: SectionHero, FilePath: pointer.To("/uploads/a.jpg")},
		&Image{ID: 2, Active: true, DisplayOrder: 1, Section: SectionHero, ExternalURL: pointer.To("https://cdn.example.com/b.jpg")},
		&Image{ID: 3, Active: false, DisplayOrder: 2, Section: SectionHero, ExternalURL: pointer.To("https://cdn.example.com/c.jpg")},
	)

	request := httptest.NewRequest(http.MethodGet, "/api/images?section=hero", nil)
	request.Header.Set(constants.HeaderXForwardedProto, "https")
	request.Header.Set(constants.HeaderXForwardedHost, "envision.studio, proxy.internal")

	recorder := f.do(request, false)
	require.Equal(t, http.StatusOK, recorder.Code)

	var views []View
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, recorder).Data, &views))
	require.Len(t, views, 2)
	assert.Equal(t, "https://envision.studio/uploads/a.jpg", views[0].URL)
	assert.Equal(t, "https://cdn.example.com/b.jpg", views[1].URL)
}

func TestHTTP_PublicBaseURLOverridesRequest(t *testing.T) {
	f := newHTTPFixture(t, "https://media.envision.studio/")
	f.repo.seed(&Image{ID: 1, Active: true, FilePath: pointer.To("/uploads/a.jpg")})

	recorder := f.do(httptest.NewRequest(http.MethodGet, "/api/images/1", nil), false)
	require.Equal(t, http.StatusOK, recorder.Code)

	var view View
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, recorder).Data, &view))
	assert.Equal(t, "https://media.envision.studio/uploads/a.jpg", view.URL)
}

func TestHTTP_ListInactiveAsAdmin(t *testing.T) {
	f := newHTTPFixture(t, "")
	f.repo.seed(
		&Image{ID: 1, Active: true, ExternalURL: pointer.To("https://x/1")},
		&Image{ID: 2, Active: false, ExternalURL: pointer.To("https://x/2")},
	)

	recorder := f.do(httptest.NewRequest(http.MethodGet, "/api/images?activeOnly=false", nil), true)
	require.Equal(t, http.StatusOK, recorder.Code)

	var views []View
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, recorder).Data, &views))
	assert.Len(t, views, 2)
}

func TestHTTP_PatchJSON(t *testing.T) {
	f := newHTTPFixture(t, "")
	f.repo.seed(&Image{ID: 1, Active: true, Title: pointer.To("Old"), ExternalURL: pointer.To("https://x/1")})

	empty := httptest.NewRequest(http.MethodPatch, "/api/images/1", strings.NewReader(`{}`))
	empty.Header.Set("Content-Type", "application/json")
	recorder := f.do(empty, true)
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "Nothing to update", decodeEnvelope(t, recorder).Message)

	patch := httptest.NewRequest(http.MethodPatch, "/api/images/1", strings.NewReader(`{"title":"New","displayOrder":5}`))
	patch.Header.Set("Content-Type", "application/json")
	recorder = f.do(patch, true)
	require.Equal(t, http.StatusOK, recorder.Code)

	var view View
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, recorder).Data, &view))
	assert.Equal(t, "New", *view.Title)
	assert.Equal(t, 5, view.DisplayOrder)
}

func TestHTTP_CreateExternal(t *testing.T) {
	f := newHTTPFixture(t, "")

	request := httptest.NewRequest(http.MethodPost, "/api/images",
		strings.NewReader(`{"url":"https://cdn.example.com/i.gif","section":"instagram"}`))
	request.Header.Set("Content-Type", "application/json")

	recorder := f.do(request, true)
	require.Equal(t, http.StatusCreated, recorder.Code)

	var view View
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, recorder).Data, &view))
	assert.Equal(t, "https://cdn.example.com/i.gif", view.URL)
	assert.Equal(t, SectionInstagram, view.Section)
	assert.True(t, view.Active)
}

func TestHTTP_BulkCreate(t *testing.T) {
	f := newHTTPFixture(t, "")

	request := httptest.NewRequest(http.MethodPost, "/api/images/bulk", strings.NewReader(`{"images":[
		{"url":"https://cdn.example.com/a.jpg","section":"gallery"},
		{"url":"","title":"missing url"},
		{"url":"https://cdn.example.com/c.jpg","active":false}
	]}`))
	request.Header.Set("Content-Type", "application/json")

	recorder := f.do(request, true)
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	body := decodeEnvelope(t, recorder)
	assert.True(t, body.Success)
	assert.Equal(t, "Processed 3 images", body.Message)

	var results []struct {
		Success bool   `json:"success"`
		ID      int64  `json:"id"`
		URL     string `json:"url"`
		Error   string `json:"error"`
		Code    string `json:"code"`
		Details []struct {
			Field string `json:"field"`
		} `json:"details"`
	}
	require.NoError(t, json.Unmarshal(body.Data, &results))
	require.Len(t, results, 3)

	assert.True(t, results[0].Success)
	assert.NotZero(t, results[0].ID)
	assert.Equal(t, "https://cdn.example.com/a.jpg", results[0].URL)

	assert.False(t, results[1].Success)
	assert.Zero(t, results[1].ID)
	assert.Equal(t, "VALIDATION_ERROR", results[1].Code)
	require.NotEmpty(t, results[1].Details)
	assert.Equal(t, FieldURL, results[1].Details[0].Field)

	assert.True(t, results[2].Success)
	stored, err := f.repo.FindByID(request.Context(), results[2].ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)

	assert.Equal(t, 2, f.repo.count())
}

func TestHTTP_BulkCreateRequiresArray(t *testing.T) {
	f := newHTTPFixture(t, "")

	for _, payload := range []string{`{}`, `{"images":null}`} {
		request := httptest.NewRequest(http.MethodPost, "/api/images/bulk", strings.NewReader(payload))
		request.Header.Set("Content-Type", "application/json")

		recorder := f.do(request, true)

		assert.Equal(t, http.StatusBadRequest, recorder.Code, payload)
		body := decodeEnvelope(t, recorder)
		assert.Equal(t, "VALIDATION_ERROR", body.Code)
		assert.Equal(t, "images array is required", body.Message)
	}
	assert.Zero(t, f.repo.count())
}
