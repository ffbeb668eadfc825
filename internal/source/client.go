// Package source fetches contact snapshots from the backend that aggregates
// profile, transaction and event data. The engine itself never does I/O;
// this client is the serving layer's way to obtain a ContactContext.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"

	"nba-insights-go/internal/types"
)

var httpClient = &http.Client{
	Timeout: 12 * time.Second,
}

type Client struct {
	baseURL string
	log     *logrus.Entry
}

func New(baseURL string, log *logrus.Entry) *Client {
	return &Client{baseURL: baseURL, log: log.WithField("component", "source")}
}

// FetchSnapshot retrieves one contact's snapshot by id. Retries transparently
// on network errors and 5xx; 4xx fails immediately.
func (c *Client) FetchSnapshot(ctx context.Context, projectID, contactID string) (*types.ContactContext, error) {
	u, err := url.Parse(fmt.Sprintf("%s/contacts/%s/snapshot", c.baseURL, url.PathEscape(contactID)))
	if err != nil {
		return nil, fmt.Errorf("bad snapshot url: %w", err)
	}
	q := u.Query()
	q.Set("project_id", projectID)
	u.RawQuery = q.Encode()

	var snapshot types.ContactContext
	if err := c.getJSON(ctx, u.String(), &snapshot); err != nil {
		return nil, err
	}
	if snapshot.ContactID == "" {
		snapshot.ContactID = contactID
	}
	if snapshot.ProjectID == "" {
		snapshot.ProjectID = projectID
	}
	return &snapshot, nil
}

func (c *Client) getJSON(ctx context.Context, rawURL string, target any) error {
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = 12 * time.Second

	operation := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := httpClient.Do(req)
		if err != nil {
			c.log.WithError(err).Warn("snapshot request failed, retrying")
			return err
		}
		defer resp.Body.Close()

		body, _ := io.ReadAll(resp.Body)
		if resp.StatusCode >= 500 {
			c.log.WithField("status", resp.StatusCode).Warn("snapshot server error, retrying")
			return fmt.Errorf("server error: %d", resp.StatusCode)
		}
		if resp.StatusCode >= 400 {
			return backoff.Permanent(fmt.Errorf("snapshot request rejected: %d %s", resp.StatusCode, body))
		}
		if err := json.Unmarshal(body, target); err != nil {
			return backoff.Permanent(fmt.Errorf("decode snapshot: %w", err))
		}
		return nil
	}

	return backoff.Retry(operation, backoff.WithContext(bo, ctx))
}
