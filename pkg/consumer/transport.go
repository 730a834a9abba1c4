package consumer

import (
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/gopact/gopact/pkg/pact"
)

// MockTransport is how a consumer test reaches the mock: an address the
// client under test can send real HTTP requests to. The shipped
// implementation is an httptest.Server; a test could substitute another
// transport (e.g. an in-process net.Listener) as long as it serves the
// Dispatcher.
type MockTransport interface {
	// BaseURL is the address consumer code should point its HTTP client at.
	BaseURL() string
	// Close tears down the transport.
	Close()
}

// httpTransport is the default MockTransport: a real listening
// httptest.Server backed by the Dispatcher.
type httpTransport struct {
	server *httptest.Server
}

// NewHTTPTransport starts an httptest.Server dispatching every request to d.
func NewHTTPTransport(d *Dispatcher) MockTransport {
	return &httpTransport{server: httptest.NewServer(d)}
}

func (t *httpTransport) BaseURL() string { return t.server.URL }
func (t *httpTransport) Close()          { t.server.Close() }

// ServeHTTP makes Dispatcher itself an http.Handler, so it can back an
// httptest.Server directly: it reads the incoming request, dispatches it,
// and writes back either the matched interaction's response or a 500 with
// the mismatch diagnostics for a failed mock match.
func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read request body: "+err.Error(), http.StatusBadRequest)
		return
	}

	query, err := ParseQueryString(r.URL.RawQuery)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := d.Dispatch(IncomingRequest{
		Method:  r.Method,
		Path:    r.URL.Path,
		Query:   query,
		Headers: r.Header,
		Body:    body,
	})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeResponse(w, resp)
}

func writeResponse(w http.ResponseWriter, resp *pact.Response) {
	for name, value := range resp.Headers {
		w.Header().Set(name, value)
	}
	if resp.Body != nil && w.Header().Get("Content-Type") == "" {
		w.Header().Set("Content-Type", "application/json")
	}
	status := resp.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	if resp.Body == nil {
		return
	}
	writeBody(w, resp.Body)
}
