package config

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// ProbeResult describes one reachability check against a base URL.
type ProbeResult struct {
	BaseURL    string
	Reachable  bool
	StatusCode int
	Path       string
	Elapsed    time.Duration
	Err        error
}

// Probe checks that something answers HTTP at baseURL. It does a TCP dial first so a
// closed port fails fast, then tries /healthz and / in that order.
func Probe(ctx context.Context, baseURL string, timeout time.Duration) ProbeResult {
	start := time.Now()
	res := ProbeResult{BaseURL: baseURL}

	u, err := url.Parse(baseURL)
	if err != nil {
		res.Err = fmt.Errorf("invalid base url: %w", err)
		return res
	}
	port := u.Port()
	if port == "" {
		port = "80"
		if u.Scheme == "https" {
			port = "443"
		}
	}
	host := net.JoinHostPort(u.Hostname(), port)

	d := net.Dialer{Timeout: timeout}
	conn, err := d.DialContext(ctx, "tcp", host)
	if err != nil {
		res.Err = fmt.Errorf("dial %s: %w", host, err)
		res.Elapsed = time.Since(start)
		return res
	}
	_ = conn.Close()

	client := &http.Client{Timeout: timeout}
	for _, path := range []string{"/healthz", "/"} {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+path, nil)
		if err != nil {
			res.Err = err
			continue
		}
		resp, err := client.Do(req)
		if err != nil {
			res.Err = err
			continue
		}
		_ = resp.Body.Close()
		res.StatusCode = resp.StatusCode
		res.Path = path
		if resp.StatusCode < http.StatusInternalServerError && resp.StatusCode != http.StatusNotFound {
			res.Reachable = true
			res.Err = nil
			break
		}
	}
	res.Elapsed = time.Since(start)
	return res
}

// Candidates lists the base URLs worth probing when the configured one is down,
// starting with the configured one. Local dev servers usually sit on 8000 or 8080.
func Candidates(baseURL string) []string {
	out := []string{baseURL}
	u, err := url.Parse(baseURL)
	if err != nil {
		return out
	}
	port := u.Port()
	if port == "" {
		port = "8000"
	}
	seen := map[string]struct{}{baseURL: {}}
	for _, host := range []string{"127.0.0.1", "localhost"} {
		for _, p := range []string{port, "8000", "8080"} {
			c := "http://" + host + ":" + p
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
		}
	}
	return out
}

// ErrNotEmployeeApp is returned by VerifyApp for a server that answers but does
// not serve the employee list.
var ErrNotEmployeeApp = errors.New("not the employee management app")

var employeeListMarker = regexp.MustCompile(`(?s)<h2[^>]*>\s*Employees\s*</h2>.*<table`)

// VerifyApp fetches /employees/ and checks for the heading and table the page
// objects locate.
func VerifyApp(ctx context.Context, baseURL string, timeout time.Duration) error {
	client := &http.Client{Timeout: timeout}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(baseURL, "/")+"/employees/", nil)
	if err != nil {
		return err
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: /employees/ returned %d", ErrNotEmployeeApp, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return err
	}
	if !employeeListMarker.Match(body) {
		return fmt.Errorf("%w: /employees/ has no employee table", ErrNotEmployeeApp)
	}
	return nil
}

// DetectReachable returns the first candidate of baseURL that answers and serves
// the employee list, or ok=false.
func DetectReachable(ctx context.Context, baseURL string, timeout time.Duration) (string, bool) {
	for _, c := range Candidates(baseURL) {
		if !Probe(ctx, c, timeout).Reachable {
			continue
		}
		if VerifyApp(ctx, c, timeout) == nil {
			return c, true
		}
	}
	return baseURL, false
}
