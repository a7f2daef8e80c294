package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atinyakov/yosso/internal/repository"
)

func decodeValidate(t *testing.T, w *httptest.ResponseRecorder) ValidateResponse {
	t.Helper()
	var body ValidateResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name       string
		codes      *fakeCodeService
		request    func() *http.Request
		wantStatus int
		want       ValidateResponse
	}{
		{
			name:  "no code provided",
			codes: &fakeCodeService{},
			request: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/validate", nil)
			},
			wantStatus: http.StatusOK,
			want:       ValidateResponse{Valid: false, Error: "No code provided"},
		},
		{
			name:  "valid code in query",
			codes: &fakeCodeService{redeemUser: "alice"},
			request: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/validate?code=deadbeef", nil)
			},
			wantStatus: http.StatusOK,
			want:       ValidateResponse{Valid: true, Username: "alice"},
		},
		{
			name:  "valid code in form body",
			codes: &fakeCodeService{redeemUser: "alice"},
			request: func() *http.Request {
				form := url.Values{"code": {"deadbeef"}}
				req := httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader(form.Encode()))
				req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
				return req
			},
			wantStatus: http.StatusOK,
			want:       ValidateResponse{Valid: true, Username: "alice"},
		},
		{
			name:  "valid code in JSON body",
			codes: &fakeCodeService{redeemUser: "alice"},
			request: func() *http.Request {
				req := httptest.NewRequest(http.MethodPost, "/validate", strings.NewReader(`{"code":"deadbeef"}`))
				req.Header.Set("Content-Type", "application/json")
				return req
			},
			wantStatus: http.StatusOK,
			want:       ValidateResponse{Valid: true, Username: "alice"},
		},
		{
			name:  "invalid or expired code",
			codes: &fakeCodeService{redeemErr: repository.ErrCodeInvalid},
			request: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/validate?code=stale", nil)
			},
			wantStatus: http.StatusOK,
			want:       ValidateResponse{Valid: false, Error: "Invalid or expired code"},
		},
		{
			name:  "store failure",
			codes: &fakeCodeService{redeemErr: errors.New("store down")},
			request: func() *http.Request {
				return httptest.NewRequest(http.MethodGet, "/validate?code=deadbeef", nil)
			},
			wantStatus: http.StatusInternalServerError,
			want:       ValidateResponse{Valid: false, Error: "Server error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := &ValidateHandler{Codes: tt.codes}

			w := httptest.NewRecorder()
			handler.Validate(w, tt.request())

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, tt.want, decodeValidate(t, w))
		})
	}
}

func TestValidate_CodeConsumedOnce(t *testing.T) {
	codes := &fakeCodeService{redeemUser: "alice"}
	handler := &ValidateHandler{Codes: codes}

	w := httptest.NewRecorder()
	handler.Validate(w, httptest.NewRequest(http.MethodGet, "/validate?code=deadbeef", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"deadbeef"}, codes.redeemed)
}
