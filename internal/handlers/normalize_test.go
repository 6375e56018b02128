package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCreateRequest(contentType, body string) (*httptest.ResponseRecorder, *http.Request) {
	req := httptest.NewRequest(http.MethodPost, "/users", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	return httptest.NewRecorder(), req
}

func TestDecodeUser(t *testing.T) {
	tests := []struct {
		name        string
		contentType string
		body        string
		wantKind    inputKind
		wantID      string
		wantName    *string
		wantCountry *string
		wantMsg     string
	}{
		{
			name:        "json full record",
			contentType: "application/json",
			body:        `{"user_id":"42","user_name":"Ada","country":"UK"}`,
			wantKind:    inputJSON,
			wantID:      "42",
			wantName:    strPtr("Ada"),
			wantCountry: strPtr("UK"),
		},
		{
			name:        "json with charset and explicit nulls",
			contentType: "application/json; charset=utf-8",
			body:        `{"user_id":"1","user_name":null}`,
			wantKind:    inputJSON,
			wantID:      "1",
		},
		{
			name:        "json empty id",
			contentType: "application/json",
			body:        `{"user_id":""}`,
			wantMsg:     msgUserIDRequired,
		},
		{
			name:        "json malformed",
			contentType: "application/json",
			body:        `not json`,
			wantMsg:     msgInvalidJSON,
		},
		{
			name:        "json trailing garbage",
			contentType: "application/json",
			body:        `{"user_id":"43"} trailing-garbage`,
			wantMsg:     msgInvalidJSON,
		},
		{
			name:        "json two objects",
			contentType: "application/json",
			body:        `{"user_id":"43"} {}`,
			wantMsg:     msgInvalidJSON,
		},
		{
			name:        "json trailing whitespace",
			contentType: "application/json",
			body:        "{\"user_id\":\"43\"}\n\t ",
			wantKind:    inputJSON,
			wantID:      "43",
		},
		{
			name:        "json numeric id",
			contentType: "application/json",
			body:        `{"user_id":42}`,
			wantMsg:     "user_id must be a string",
		},
		{
			name:        "json numeric country",
			contentType: "application/json",
			body:        `{"user_id":"1","country":1}`,
			wantMsg:     "country must be a string",
		},
		{
			name:        "form with country",
			contentType: "application/x-www-form-urlencoded",
			body:        "userId=7&userName=Grace&country=US",
			wantKind:    inputForm,
			wantID:      "7",
			wantName:    strPtr("Grace"),
			wantCountry: strPtr("US"),
		},
		{
			name:        "form empty name is kept",
			contentType: "application/x-www-form-urlencoded",
			body:        "userId=7&userName=",
			wantKind:    inputForm,
			wantID:      "7",
			wantName:    strPtr(""),
		},
		{
			name:        "form missing userId",
			contentType: "application/x-www-form-urlencoded",
			body:        "userName=Grace",
			wantMsg:     msgJSONRequired,
		},
		{
			name:    "no content type",
			body:    `{"user_id":"1"}`,
			wantMsg: msgJSONRequired,
		},
		{
			name:        "malformed content type",
			contentType: "application/json; =",
			body:        `{"user_id":"1"}`,
			wantMsg:     msgJSONRequired,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, r := newCreateRequest(tt.contentType, tt.body)

			u, kind, err := decodeUser(w, r, 1<<10)
			if tt.wantMsg != "" {
				var bre *badRequestError
				require.True(t, errors.As(err, &bre), "expected badRequestError, got %v", err)
				assert.Equal(t, tt.wantMsg, bre.message)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantKind, kind)
			assert.Equal(t, tt.wantID, u.ID)
			assert.Equal(t, tt.wantName, u.Name)
			assert.Equal(t, tt.wantCountry, u.Country)
		})
	}
}

func TestDecodeUser_BodyLimit(t *testing.T) {
	w, r := newCreateRequest("application/x-www-form-urlencoded",
		"userId=1&userName="+strings.Repeat("x", 64))

	_, _, err := decodeUser(w, r, 16)

	var bre *badRequestError
	require.True(t, errors.As(err, &bre))
	assert.Equal(t, msgBodyTooLarge, bre.message)

	var tooLarge *http.MaxBytesError
	assert.True(t, errors.As(err, &tooLarge))
}

func TestIsJSONMediaType(t *testing.T) {
	assert.True(t, isJSONMediaType("application/json"))
	assert.True(t, isJSONMediaType("application/problem+json"))
	assert.False(t, isJSONMediaType("text/json+plain"))
	assert.False(t, isJSONMediaType("application/x-www-form-urlencoded"))
	assert.False(t, isJSONMediaType(""))
}

func TestInputKindString(t *testing.T) {
	assert.Equal(t, "json", inputJSON.String())
	assert.Equal(t, "form", inputForm.String())
	assert.Equal(t, "unknown", inputKind(0).String())
}

func strPtr(s string) *string { return &s }
