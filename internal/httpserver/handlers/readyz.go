package handlers

import (
	"net/http"

	"github.com/MrSnakeDoc/linkbot/internal/httpserver/deps"
)

type readyzResponse struct {
	Ready     bool     `json:"ready"`
	Platforms []string `json:"platforms"`
}

// Readyz reports ready once the dispatcher has at least one platform enabled.
func Readyz(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var names []string
		if d.Dispatcher != nil {
			names = d.Dispatcher.Platforms()
		}

		status := http.StatusOK
		if len(names) == 0 {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, readyzResponse{Ready: len(names) > 0, Platforms: names})
	}
}
