package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/armaan-gp-school/ossf-scada/internal/domain"
)

// HTTPSource talks to an IoT-cloud style REST registry:
// GET {base}/v2/things/{id} with an optional bearer token.
type HTTPSource struct {
	BaseURL string
	Token   string
	Client  *http.Client
}

func NewHTTPSource(baseURL, token string, timeout time.Duration) *HTTPSource {
	return &HTTPSource{
		BaseURL: baseURL,
		Token:   token,
		Client:  &http.Client{Timeout: timeout},
	}
}

func (h *HTTPSource) GetThing(ctx context.Context, deviceID string) (*domain.Thing, error) {
	u := h.BaseURL + "/v2/things/" + url.PathEscape(deviceID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	if h.Token != "" {
		req.Header.Set("Authorization", "Bearer "+h.Token)
	}

	resp, err := h.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch thing %s: %w", deviceID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch thing %s: %s", deviceID, resp.Status)
	}

	var th domain.Thing
	if err := json.NewDecoder(resp.Body).Decode(&th); err != nil {
		return nil, fmt.Errorf("decode thing %s: %w", deviceID, err)
	}
	return &th, nil
}
