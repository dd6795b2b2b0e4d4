// Package upstream forwards admitted requests to the protected service.
package upstream

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/http/httputil"
	"net/url"
	"time"

	"github.com/DanielPopoola/idempotency-gateway/internal/config"
	"github.com/DanielPopoola/idempotency-gateway/internal/interfaces/rest"
)

const ErrCodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"

type Proxy struct {
	target *url.URL
	proxy  *httputil.ReverseProxy
	logger *slog.Logger
}

func NewProxy(cfg config.UpstreamConfig, logger *slog.Logger) (*Proxy, error) {
	target, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse upstream url: %w", err)
	}
	if target.Scheme == "" || target.Host == "" {
		return nil, fmt.Errorf("upstream url %q must be absolute", cfg.BaseURL)
	}

	p := &Proxy{target: target, logger: logger}

	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.DialContext = (&net.Dialer{Timeout: cfg.Timeout}).DialContext
	transport.ResponseHeaderTimeout = cfg.Timeout

	p.proxy = &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.SetXForwarded()
		},
		Transport:    transport,
		ErrorHandler: p.handleError,
	}

	return p, nil
}

func (p *Proxy) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p.proxy.ServeHTTP(w, r)
}

func (p *Proxy) handleError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadGateway
	if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
		status = http.StatusGatewayTimeout
	}

	p.logger.ErrorContext(r.Context(), "upstream request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"upstream", p.target.Host,
		"error", err,
	)

	rest.WriteJSON(w, status, rest.ErrorResponse{
		Success: false,
		Error: rest.ErrorDetail{
			Code:    ErrCodeUpstreamUnavailable,
			Message: "upstream request failed",
		},
	}, p.logger)
}

func isTimeout(err error) bool {
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// Ping reports whether the upstream accepts TCP connections.
func (p *Proxy) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	host := p.target.Host
	if p.target.Port() == "" {
		if p.target.Scheme == "https" {
			host = net.JoinHostPort(p.target.Hostname(), "443")
		} else {
			host = net.JoinHostPort(p.target.Hostname(), "80")
		}
	}

	conn, err := (&net.Dialer{}).DialContext(ctx, "tcp", host)
	if err != nil {
		return fmt.Errorf("dial upstream: %w", err)
	}
	return conn.Close()
}
