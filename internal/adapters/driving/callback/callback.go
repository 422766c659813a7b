// Package callback provides the transient local HTTP endpoint that captures
// one OAuth redirect per authorization attempt.
package callback

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/custodia-labs/gsuite-mcp/internal/core/domain"
	"github.com/custodia-labs/gsuite-mcp/internal/core/ports/driven"
)

// Ensure Server implements the listener port.
var _ driven.CallbackListener = (*Server)(nil)

// Server is a single-use OAuth callback listener. It accepts the first
// well-formed redirect on /callback, responds with a confirmation page the
// user can read, and stops accepting further results. Close releases the
// port and joins the serving goroutine; every exit path of AwaitRedirect
// must be followed by Close.
type Server struct {
	port    int
	results chan result

	mu        sync.Mutex
	delivered bool
	server    *http.Server
	listener  net.Listener
	serveErr  chan error
	serveDone chan struct{}
}

type result struct {
	redirect *driven.Redirect
	err      error
}

// New creates a callback server bound to a fixed local port.
func New(port int) *Server {
	return &Server{
		port:    port,
		results: make(chan result, 1),
	}
}

// NewFactory returns a ListenerFactory producing fresh single-use servers
// on the given port.
func NewFactory(port int) driven.ListenerFactory {
	return func() driven.CallbackListener {
		return New(port)
	}
}

// Start binds the configured port and begins serving. A port already in use
// is a setup error wrapping domain.ErrPortUnavailable; it is not retried.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc("/callback", s.handleCallback)

	s.server = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %v: %w", addr, err, domain.ErrPortUnavailable)
	}
	s.listener = listener
	s.serveErr = make(chan error, 1)
	s.serveDone = make(chan struct{})

	go func() {
		defer close(s.serveDone)
		if err := s.server.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.serveErr <- err
		}
	}()

	return nil
}

// handleCallback processes one redirect request. Malformed requests (no
// code and no error parameter) get a 400 and the listener keeps waiting;
// the first well-formed redirect is delivered exactly once.
func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	code := query.Get("code")
	errParam := query.Get("error")

	if code == "" && errParam == "" {
		http.Error(w, "missing code parameter", http.StatusBadRequest)
		return
	}

	// The browser always gets a readable page, whatever the outcome.
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if errParam != "" {
		fmt.Fprint(w, confirmationHTML("Authorization failed",
			"The provider reported an error. You can close this window and return to the application."))
		s.deliver(result{err: fmt.Errorf("%s: %w", errParam, domain.ErrProviderDenied)})
		return
	}

	fmt.Fprint(w, confirmationHTML("Authorization successful!",
		"You can close this window and return to the application."))
	s.deliver(result{redirect: &driven.Redirect{Code: code, State: query.Get("state")}})
}

// deliver hands over the first result and drops any later ones.
func (s *Server) deliver(res result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.delivered {
		return
	}
	s.delivered = true
	s.results <- res
}

// AwaitRedirect blocks until a well-formed redirect arrives, the timeout
// elapses, or ctx is cancelled. Cancellation takes effect promptly; the
// caller still owns teardown via Close.
func (s *Server) AwaitRedirect(ctx context.Context, timeout time.Duration) (*driven.Redirect, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case res := <-s.results:
		return res.redirect, res.err
	case err := <-s.serveErr:
		return nil, fmt.Errorf("callback server: %w", err)
	case <-timer.C:
		return nil, domain.ErrCallbackTimeout
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close shuts the server down, releases the listening port and waits for
// the serving goroutine to finish. Idempotent.
func (s *Server) Close() error {
	s.mu.Lock()
	server := s.server
	done := s.serveDone
	s.mu.Unlock()

	if server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := server.Shutdown(ctx)

	if done != nil {
		<-done
	}
	return err
}

// Port returns the port the server listens on.
func (s *Server) Port() int {
	return s.port
}

// RedirectURI returns the redirect target served by this listener.
func (s *Server) RedirectURI() string {
	return fmt.Sprintf("http://localhost:%d/callback", s.port)
}

// FindAvailablePort finds an available port in the given range.
func FindAvailablePort(startPort, endPort int) (int, error) {
	for port := startPort; port <= endPort; port++ {
		addr := fmt.Sprintf("127.0.0.1:%d", port)
		listener, err := net.Listen("tcp", addr)
		if err == nil {
			listener.Close()
			return port, nil
		}
	}
	return 0, fmt.Errorf("no available port in range %d-%d", startPort, endPort)
}

func confirmationHTML(title, message string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
    <title>Google Workspace - Authorization</title>
    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            display: flex;
            justify-content: center;
            align-items: center;
            height: 100vh;
            margin: 0;
            background: #FAFAFA;
        }
        .container {
            text-align: center;
            background: white;
            padding: 48px 64px;
            border-radius: 16px;
            border: 1px solid #C7C8CC;
        }
        h1 { color: #333F50; margin: 0 0 8px 0; font-size: 24px; }
        p { color: #7B8088; margin: 0; font-size: 16px; }
    </style>
</head>
<body>
    <div class="container">
        <h1>%s</h1>
        <p>%s</p>
    </div>
</body>
</html>`, title, message)
}
