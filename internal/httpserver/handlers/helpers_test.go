package handlers

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MrSnakeDoc/linkbot/internal/dispatch"
	"github.com/MrSnakeDoc/linkbot/internal/domain"
	"github.com/MrSnakeDoc/linkbot/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkbot/internal/logger"
	"github.com/MrSnakeDoc/linkbot/internal/platforms"
)

// stubPlatform previews links of the form "stub/<id>". The id "broken" fails.
type stubPlatform struct {
	name  string
	image string
	delay time.Duration
}

func (s stubPlatform) Name() string       { return s.name }
func (s stubPlatform) Patterns() []string { return []string{s.name + `/(\w+)`} }
func (s stubPlatform) Apology() string    { return "❌ " + s.name + " failed" }

func (s stubPlatform) Fetch(ctx context.Context, m domain.MatchResult) (domain.Metadata, error) {
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, domain.NewFetchError(s.name, domain.ErrTransport, ctx.Err())
		}
	}
	if m.Group(0) == "broken" {
		return nil, domain.NewFetchError(s.name, domain.ErrUpstream, errors.New("boom"))
	}
	return &domain.RepoMetadata{Name: m.Group(0)}, nil
}

func (s stubPlatform) Format(meta domain.Metadata) (domain.Reply, error) {
	repo := meta.(*domain.RepoMetadata)
	return domain.Reply{Text: "preview " + repo.Name, ImageURL: s.image}, nil
}

func testDeps(t *testing.T, list ...platforms.Platform) deps.Deps {
	t.Helper()
	if len(list) == 0 {
		list = []platforms.Platform{stubPlatform{name: "stub", image: "https://img/x.jpg"}}
	}
	d, err := dispatch.New(list, logger.NewNop())
	if err != nil {
		t.Fatalf("dispatch.New() error = %v", err)
	}
	return deps.Deps{
		Logger:     logger.NewNop(),
		StartTime:  time.Now(),
		Version:    "test",
		Dispatcher: d,
	}
}
