package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func runCORS(allowed []string, method, origin, requestMethod string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/wizard", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if requestMethod != "" {
		req.Header.Set("Access-Control-Request-Method", requestMethod)
	}
	rec := httptest.NewRecorder()
	CORS(allowed)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})).ServeHTTP(rec, req)
	return rec
}

func TestCORSAllowedOrigin(t *testing.T) {
	rec := runCORS([]string{"https://salon.example"}, http.MethodGet, "https://salon.example", "")
	assert.Equal(t, "https://salon.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSDisallowedOrigin(t *testing.T) {
	rec := runCORS([]string{"https://salon.example"}, http.MethodGet, "https://evil.example", "")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, rec.Code, "the request itself still runs")
}

func TestCORSWildcardEchoesOrigin(t *testing.T) {
	rec := runCORS([]string{"*"}, http.MethodGet, "https://anywhere.example", "")
	assert.Equal(t, "https://anywhere.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	rec := runCORS([]string{"https://salon.example"}, http.MethodOptions, "https://salon.example", http.MethodPost)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://salon.example", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSNoOrigin(t *testing.T) {
	rec := runCORS([]string{"https://salon.example"}, http.MethodGet, "", "")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, http.StatusOK, rec.Code)
}
