package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestCORS(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name       string
		origins    []string
		origin     string
		method     string
		wantOrigin string
		wantCode   int
	}{
		{name: "any origin", origin: "http://localhost:5173", method: http.MethodGet, wantOrigin: "*", wantCode: http.StatusOK},
		{name: "listed origin", origins: []string{"https://app.example"}, origin: "https://app.example", method: http.MethodGet, wantOrigin: "https://app.example", wantCode: http.StatusOK},
		{name: "unlisted origin", origins: []string{"https://app.example"}, origin: "https://evil.example", method: http.MethodGet, wantCode: http.StatusOK},
		{name: "preflight", origins: []string{"*"}, origin: "https://app.example", method: http.MethodOptions, wantOrigin: "*", wantCode: http.StatusNoContent},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/movies/trending", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()

			CORS(tt.origins)(ok).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestRecoverAnswers500(t *testing.T) {
	panicky := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	Recover(zap.NewNop())(panicky).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"status":false,"message":"Internal server error"}`, rec.Body.String())
}
