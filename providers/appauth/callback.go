package appauth

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/giantswarm/google-signin/internal/util"
	"github.com/giantswarm/google-signin/providers"
	"github.com/giantswarm/google-signin/security"
)

const (
	callbackPath = "/callback"

	// oauthErrorAccessDenied is the RFC 6749 error code sent when the user
	// declines consent.
	oauthErrorAccessDenied = "access_denied"
)

// callbackServer receives the authorization response on the loopback
// interface. It accepts a single response carrying the expected state: the
// first such code or error wins.
type callbackServer struct {
	mu            sync.Mutex
	port          int
	expectedState string
	codeChan      chan string
	errChan       chan error
	server        *http.Server
	listener      net.Listener
	limiter       *security.RateLimiter
	logger        *slog.Logger
}

func newCallbackServer(port int, expectedState string, limiter *security.RateLimiter, logger *slog.Logger) *callbackServer {
	return &callbackServer{
		port:          port,
		expectedState: expectedState,
		codeChan:      make(chan string, 1),
		errChan:       make(chan error, 1),
		limiter:       limiter,
		logger:        logger,
	}
}

// start listens on 127.0.0.1. Port 0 picks a free port.
func (s *callbackServer) start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, s.handleCallback)

	s.server = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	addr := fmt.Sprintf("127.0.0.1:%d", s.port)
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", addr, err)
	}
	s.listener = listener

	if tcpAddr, ok := listener.Addr().(*net.TCPAddr); ok {
		s.port = tcpAddr.Port
	}

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.deliverError(err)
		}
	}()

	return nil
}

func (s *callbackServer) handleCallback(w http.ResponseWriter, r *http.Request) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	if util.ClassifyIP(net.ParseIP(host)) != util.IPClassificationLoopback {
		s.logger.Warn("Rejected non-loopback authorization callback", "remote_addr", host)
		http.Error(w, "forbidden", http.StatusForbidden)
		return
	}
	if s.limiter != nil && !s.limiter.Allow(host) {
		http.Error(w, "too many requests", http.StatusTooManyRequests)
		return
	}

	query := r.URL.Query()

	// RFC 6749 4.1.2 and 4.1.2.1: success and error responses both carry
	// state. Requests without it never reach the waiting flow.
	if query.Get("state") != s.expectedState {
		s.logger.Warn("Ignored authorization callback with invalid state", "remote_addr", host)
		http.Error(w, "invalid state parameter", http.StatusBadRequest)
		return
	}

	if errCode := query.Get("error"); errCode != "" {
		if errCode == oauthErrorAccessDenied {
			s.deliverError(providers.ErrUserCancelled)
			writePage(w, "Sign-in cancelled", "You can close this window and return to the application.")
			return
		}
		s.deliverError(&providers.AuthorizationError{
			Code:        errCode,
			Description: query.Get("error_description"),
		})
		writePage(w, "Sign-in failed", query.Get("error_description"))
		return
	}

	code := query.Get("code")
	if code == "" {
		s.deliverError(errors.New("no authorization code received"))
		writePage(w, "Sign-in failed", "No authorization code received.")
		return
	}

	select {
	case s.codeChan <- code:
	default:
	}

	writePage(w, "Sign-in successful", "You can close this window and return to the application.")
}

func (s *callbackServer) deliverError(err error) {
	select {
	case s.errChan <- err:
	default:
	}
}

// waitForCode blocks until a code or an error arrives, or ctx is done.
func (s *callbackServer) waitForCode(ctx context.Context) (string, error) {
	select {
	case code := <-s.codeChan:
		return code, nil
	case err := <-s.errChan:
		return "", err
	case <-ctx.Done():
		return "", fmt.Errorf("waiting for authorization callback: %w", ctx.Err())
	}
}

func (s *callbackServer) stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *callbackServer) redirectURI() string {
	return fmt.Sprintf("http://127.0.0.1:%d%s", s.port, callbackPath)
}

func writePage(w http.ResponseWriter, title, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = fmt.Fprintf(w, `<!DOCTYPE html>
<html>
<head><title>%s</title></head>
<body style="font-family: sans-serif; text-align: center; margin-top: 20vh">
<h1>%s</h1>
<p>%s</p>
</body>
</html>`, html.EscapeString(title), html.EscapeString(title), html.EscapeString(message))
}
