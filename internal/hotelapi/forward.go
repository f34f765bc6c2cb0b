package hotelapi

import (
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/diagnosis/hotel-frontdesk/internal/http/response"
	"github.com/diagnosis/hotel-frontdesk/internal/utils"
	"github.com/diagnosis/hotel-frontdesk/pkg/logger"
)

// Forwarder relays a request verbatim to another origin. It serves page
// requests to the front end and admin CRUD calls to the hotel API.
type Forwarder struct {
	baseURL string
	client  *http.Client
	name    string
}

func NewForwarder(baseURL, name string, timeout time.Duration) *Forwarder {
	return &Forwarder{
		baseURL: strings.TrimRight(baseURL, "/"),
		name:    name,
		client: &http.Client{
			Timeout: timeout,
			// Redirects from the origin are passed back to the browser.
			CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
		},
	}
}

// Forward sends r to path (plus r's query string) on the target origin and
// copies the reply back. It reports the upstream status, or 0 on failure.
func (f *Forwarder) Forward(w http.ResponseWriter, r *http.Request, path string) int {
	url := f.baseURL + path
	if r.URL.RawQuery != "" {
		url += "?" + r.URL.RawQuery
	}

	req, err := http.NewRequestWithContext(r.Context(), r.Method, url, r.Body)
	if err != nil {
		logger.ErrorContext(r.Context(), "Failed to build forwarded request", "error", err, "target", f.name)
		if utils.HasPathPrefix(r.URL.Path, "/api") {
			response.BadRequest(w, "invalid forwarded request")
		} else {
			http.Error(w, "Bad request", http.StatusBadRequest)
		}
		return 0
	}
	req.ContentLength = r.ContentLength

	for key, values := range r.Header {
		if !shouldCopyHeader(key) {
			continue
		}
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if requestID, ok := r.Context().Value(logger.RequestIDKey).(string); ok {
		req.Header.Set("X-Request-ID", requestID)
	}
	req.Header.Set("X-Forwarded-Host", r.Host)
	req.Header.Set("X-Gateway-Forwarded", "true")

	resp, err := f.client.Do(req)
	if err != nil {
		logger.ErrorContext(r.Context(), "Forwarding failed", "error", err, "target", f.name, "path", path)
		// API callers always get the JSON envelope.
		if utils.HasPathPrefix(r.URL.Path, "/api") {
			response.BadGateway(w, "upstream service unavailable", f.name)
		} else {
			http.Error(w, "Service unavailable", http.StatusBadGateway)
		}
		return 0
	}
	defer resp.Body.Close()

	for key, values := range resp.Header {
		if !shouldCopyHeader(key) {
			continue
		}
		for _, value := range values {
			w.Header().Add(key, value)
		}
	}
	w.WriteHeader(resp.StatusCode)

	if _, err := io.Copy(w, resp.Body); err != nil {
		logger.ErrorContext(r.Context(), "Failed to copy forwarded body", "error", err, "target", f.name)
	}
	return resp.StatusCode
}

// hop-by-hop headers are never relayed
var skipHeaders = map[string]struct{}{
	"connection":          {},
	"keep-alive":          {},
	"proxy-authenticate":  {},
	"proxy-authorization": {},
	"proxy-connection":    {},
	"te":                  {},
	"trailer":             {},
	"transfer-encoding":   {},
	"upgrade":             {},
	"host":                {},
	"content-length":      {},
}

func shouldCopyHeader(key string) bool {
	_, skip := skipHeaders[strings.ToLower(key)]
	return !skip
}
