package refapp

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"
)

// Server is a running stub bound to a TCP address.
type Server struct {
	URL  string
	http *http.Server
	done chan error
}

// Start listens on addr (":0" picks a free port) and serves app in the background.
func Start(app *App, addr string) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	s := &Server{
		URL: "http://" + hostPort(ln.Addr()),
		http: &http.Server{
			Handler:           app,
			ReadHeaderTimeout: 10 * time.Second,
		},
		done: make(chan error, 1),
	}
	go func() {
		err := s.http.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.done <- err
	}()
	app.log.WithField("url", s.URL).Info("contract stub listening")
	return s, nil
}

// hostPort rewrites wildcard listen addresses to loopback so the URL is dialable.
func hostPort(addr net.Addr) string {
	tcp, ok := addr.(*net.TCPAddr)
	if !ok || tcp.IP == nil || tcp.IP.IsUnspecified() {
		if ok {
			return fmt.Sprintf("127.0.0.1:%d", tcp.Port)
		}
		return addr.String()
	}
	return tcp.String()
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.http.Shutdown(ctx); err != nil {
		return err
	}
	return <-s.done
}

// Close shuts the server down with a five second grace period.
func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Shutdown(ctx)
}

// Serve runs the stub on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, opts Options) error {
	app, err := New(opts)
	if err != nil {
		return err
	}
	s, err := Start(app, addr)
	if err != nil {
		return err
	}
	select {
	case <-ctx.Done():
		return s.Close()
	case err := <-s.done:
		return err
	}
}
