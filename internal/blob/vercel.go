package blob

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/propmaint/backend/internal/logger"
)

const (
	DefaultVercelURL  = "https://blob.vercel-storage.com"
	vercelAPIVersion  = "7"
	vercelHostMarker  = "vercel-storage.com"
	vercelErrBodySize = 512
)

// VercelStore uploads to Vercel Blob with public access.
type VercelStore struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	Timeout    time.Duration
}

func NewVercelStore(token string) *VercelStore {
	return &VercelStore{
		BaseURL:    DefaultVercelURL,
		Token:      token,
		Timeout:    30 * time.Second,
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type putResponse struct {
	URL      string `json:"url"`
	Pathname string `json:"pathname"`
}

func (s *VercelStore) Put(ctx context.Context, name, contentType string, r io.Reader) (string, error) {
	hc := s.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: s.Timeout}
	}
	pathname := Prefix + "/" + ObjectName(name)
	base := strings.TrimRight(s.BaseURL, "/")
	if base == "" {
		base = DefaultVercelURL
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, base+"/"+pathname, r)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+s.Token)
	req.Header.Set("x-api-version", vercelAPIVersion)
	req.Header.Set("x-content-type", contentType)
	req.Header.Set("x-add-random-suffix", "0")

	resp, err := hc.Do(req)
	if err != nil {
		logger.WithError(err, "blob").Error("Blob upload failed")
		return "", fmt.Errorf("blob put %s: %w", pathname, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, vercelErrBodySize))
		logger.Error("Blob upload rejected", map[string]interface{}{
			"status":   resp.StatusCode,
			"pathname": pathname,
		})
		return "", fmt.Errorf("blob put %s: status=%d body=%s", pathname, resp.StatusCode, strings.TrimSpace(string(b)))
	}

	var out putResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("blob put %s: decode response: %w", pathname, err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("blob put %s: response has no url", pathname)
	}
	logger.Debug("Blob uploaded", map[string]interface{}{"url": out.URL})
	return out.URL, nil
}

func (s *VercelStore) Owns(url string) bool {
	return strings.Contains(url, vercelHostMarker)
}
