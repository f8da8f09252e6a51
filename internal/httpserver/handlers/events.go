package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/MrSnakeDoc/linkbot/internal/dispatch"
	"github.com/MrSnakeDoc/linkbot/internal/domain"
	"github.com/MrSnakeDoc/linkbot/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkbot/internal/logger"
)

type eventsResponse struct {
	Replies []domain.MessageChain `json:"replies"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// bufferReplier collects replies so they can be returned in the HTTP response.
type bufferReplier struct {
	chains []domain.MessageChain
}

func (b *bufferReplier) Reply(_ context.Context, chain domain.MessageChain) error {
	b.chains = append(b.chains, chain)
	return nil
}

// Events handles one host event posted as JSON. It answers 200 with the
// replies to send, or 204 when the event needs no reply.
func Events(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ev, err := decodeEvent(io.LimitReader(r.Body, d.EventLimit()))
		if err != nil {
			d.Logger.Debug("rejecting event", logger.Error(err))
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}

		replier := &bufferReplier{}
		outcome, err := d.Dispatcher.Handle(r.Context(), ev, replier)
		if err != nil {
			d.Logger.Error("event handling failed", logger.String("event_id", ev.ID), logger.Error(err))
			writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "reply delivery failed"})
			return
		}

		if outcome == dispatch.Ignored {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		writeJSON(w, http.StatusOK, eventsResponse{Replies: replier.chains})
	}
}

var errMissingKind = errors.New("event kind is required")

func decodeEvent(r io.Reader) (domain.Event, error) {
	var ev domain.Event
	if err := json.NewDecoder(r).Decode(&ev); err != nil {
		return domain.Event{}, errors.New("invalid event payload")
	}
	if ev.Kind == "" {
		return domain.Event{}, errMissingKind
	}
	return ev, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
