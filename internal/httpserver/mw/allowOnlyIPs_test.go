package mw

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MrSnakeDoc/linkbot/internal/logger"
)

func TestAllowOnlyCIDRS(t *testing.T) {
	tests := []struct {
		name       string
		allowed    []string
		trustProxy bool
		remoteAddr string
		xff        string
		wantStatus int
	}{
		{name: "empty list passes through", remoteAddr: "8.8.8.8:1", wantStatus: http.StatusOK},
		{name: "exact ip", allowed: []string{"127.0.0.1"}, remoteAddr: "127.0.0.1:1234", wantStatus: http.StatusOK},
		{name: "inside cidr", allowed: []string{"172.16.0.0/12"}, remoteAddr: "172.20.1.1:1234", wantStatus: http.StatusOK},
		{name: "outside cidr", allowed: []string{"172.16.0.0/12"}, remoteAddr: "8.8.8.8:1234", wantStatus: http.StatusForbidden},
		{name: "forwarded ip ignored without trust", allowed: []string{"10.0.0.1"}, remoteAddr: "8.8.8.8:1", xff: "10.0.0.1", wantStatus: http.StatusForbidden},
		{name: "forwarded ip trusted", allowed: []string{"10.0.0.1"}, trustProxy: true, remoteAddr: "127.0.0.1:1", xff: "10.0.0.1, 127.0.0.1", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
			handler := AllowOnlyCIDRS(tt.allowed, tt.trustProxy, logger.NewNop())(next)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}
}
