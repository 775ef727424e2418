package expedia

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/UmairArshadShk/ExpediaIntegration/internal/adapters/observability"
)

// Transport performs a single GET against the Expedia API. It does not retry
// and does not interpret the response: any status code's body is handed back
// verbatim. The returned error covers network-level failures only.
type Transport struct {
	hc *http.Client
	rl *rate.Limiter
}

func NewTransport(timeout time.Duration, rps int) *Transport {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if rps <= 0 {
		rps = 5
	}
	return &Transport{
		hc: &http.Client{Timeout: timeout},
		rl: rate.NewLimiter(rate.Limit(rps), rps),
	}
}

// requestEcho is what gets logged verbatim as the raw request.
type requestEcho struct {
	URL     string   `json:"url"`
	Headers []string `json:"headers"`
}

func (t *Transport) Send(ctx context.Context, headers []string, rawURL string) (string, string, error) {
	echoBytes, _ := json.Marshal(requestEcho{URL: rawURL, Headers: redactAuth(headers)})
	echo := string(echoBytes)

	if err := t.rl.Wait(ctx); err != nil {
		return echo, "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return echo, "", err
	}
	for _, h := range headers {
		name, value, ok := strings.Cut(h, ":")
		if !ok {
			continue
		}
		req.Header.Set(strings.TrimSpace(name), strings.TrimSpace(value))
	}

	start := time.Now()
	resp, err := t.hc.Do(req)
	if err != nil {
		observability.ObserveExternal("expedia", endpointOf(rawURL), 0, time.Since(start))
		if ctx.Err() != nil {
			return echo, "", ctx.Err()
		}
		return echo, "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	observability.ObserveExternal("expedia", endpointOf(rawURL), resp.StatusCode, time.Since(start))
	if err != nil {
		return echo, "", err
	}
	return echo, string(body), nil
}

// redactAuth keeps credentials out of the stored request echo.
func redactAuth(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		if strings.HasPrefix(h, "Authorization:") {
			out[i] = "Authorization: Basic [redacted]"
			continue
		}
		out[i] = h
	}
	return out
}

// endpointOf reduces a booking URL to its collection path for metric labels,
// dropping the per-booking itinerary number.
func endpointOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "unknown"
	}
	p := strings.Trim(u.Path, "/")
	parts := strings.Split(p, "/")
	if len(parts) > 2 {
		parts = parts[:2]
	}
	return strings.Join(parts, "/")
}
