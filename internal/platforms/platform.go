// Package platforms implements metadata fetching and reply formatting for each
// supported link platform.
package platforms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/MrSnakeDoc/linkbot/internal/domain"
	"github.com/MrSnakeDoc/linkbot/internal/utils"
)

// Platform is one entry of the dispatch table: the links it recognizes, how it
// fetches their metadata and how it renders a reply.
type Platform interface {
	// Name is the platform key used in configuration and match results.
	Name() string

	// Patterns are the link regexes, tried in order.
	Patterns() []string

	// Fetch performs one API call for the match. Every failure is a *domain.FetchError.
	Fetch(ctx context.Context, m domain.MatchResult) (domain.Metadata, error)

	// Format renders fetched metadata. It never performs I/O.
	Format(meta domain.Metadata) (domain.Reply, error)

	// Apology is the fixed text sent when Fetch or Format fails.
	Apology() string
}

// maxResponseBytes bounds how much of an API response is decoded.
const maxResponseBytes = 4 << 20

// getJSON issues a single GET and decodes the JSON body into out.
// Transport failures map to domain.ErrTransport, bad statuses and bodies to
// domain.ErrUpstream (domain.ErrNotFound for 404).
func getJSON(ctx context.Context, client *http.Client, platform, rawURL, userAgent string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return domain.NewFetchError(platform, domain.ErrTransport, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		// url.Error repeats the request URL, which may carry an API key.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return domain.NewFetchError(platform, domain.ErrTransport, fmt.Errorf("request failed: %w", err))
	}
	defer utils.Close(resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.NewFetchError(platform, domain.ErrNotFound, fmt.Errorf("status %d", resp.StatusCode))
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return domain.NewFetchError(platform, domain.ErrUpstream, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		return domain.NewFetchError(platform, domain.ErrUpstream, fmt.Errorf("failed to decode response: %w", err))
	}
	return nil
}

// missingField reports a required key absent from an API response.
func missingField(platform, field string) error {
	return domain.NewFetchError(platform, domain.ErrUpstream, fmt.Errorf("missing field %q", field))
}

// unexpectedMetadata is returned by Format when handed another platform's metadata.
func unexpectedMetadata(platform string, meta domain.Metadata) error {
	return fmt.Errorf("%s: unexpected metadata type %T", platform, meta)
}
