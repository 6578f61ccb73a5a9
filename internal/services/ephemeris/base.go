package ephemeris

import (
	"context"
	"fmt"
	"time"

	"DestinyMap/pkg/config"
	xhttp "DestinyMap/pkg/http"
)

// serviceBase centralizes client construction and JSON POST handling for the
// ephemeris sidecar.
type serviceBase struct {
	baseURL string
	client  *xhttp.Client
}

func newServiceBase(cfg *config.Config) *serviceBase {
	timeout := cfg.Ephemeris.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &serviceBase{
		baseURL: cfg.Ephemeris.ServiceURL,
		client:  xhttp.NewClient(xhttp.WithTimeout(timeout)),
	}
}

// postJSON posts the given payload to `path` under baseURL and decodes JSON into dest.
func (b *serviceBase) postJSON(ctx context.Context, path string, payload interface{}, dest interface{}) error {
	if b.client == nil || b.baseURL == "" {
		return fmt.Errorf("ephemeris http client not initialized")
	}
	err := b.client.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		URL:    b.baseURL + path,
		Headers: map[string]string{
			"Content-Type": "application/json",
		},
		Body: payload,
	}, dest)
	if err != nil {
		return fmt.Errorf("post %s: %w", path, err)
	}
	return nil
}

// postJSONWithRetry posts JSON with up to `attempts` retries for transient errors.
func (b *serviceBase) postJSONWithRetry(ctx context.Context, path string, payload interface{}, dest interface{}, attempts int) error {
	if attempts <= 1 {
		return b.postJSON(ctx, path, payload, dest)
	}
	var err error
	for i := 1; i <= attempts; i++ {
		err = b.postJSON(ctx, path, payload, dest)
		if err == nil {
			return nil
		}
		select {
		case <-time.After(time.Duration(i) * 50 * time.Millisecond):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}
