package logger

import (
	"bytes"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"
)

const (
	maxBodySnippet = 512
	redacted       = "REDACTED"
)

var secretParams = []string{"appid", "key"}

type RoundTripper struct {
	Logger *zap.Logger
	Proxy  http.RoundTripper
	// OmitBody drops the response body snippet, for endpoints that return credentials.
	OmitBody bool
}

type Option func(*RoundTripper)

// WithoutBody keeps response bodies out of the log.
func WithoutBody() Option {
	return func(rt *RoundTripper) {
		rt.OmitBody = true
	}
}

func NewRoundTripper(logger *zap.Logger, opts ...Option) *RoundTripper {
	rt := &RoundTripper{
		Logger: logger,
		Proxy:  http.DefaultTransport,
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

func (l *RoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := l.Proxy.RoundTrip(req)
	duration := time.Since(start)

	safeURL := RedactURL(req.URL)

	if err != nil {
		l.Logger.Error("HTTP request failed",
			zap.String("method", req.Method),
			zap.String("url", safeURL),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		l.Logger.Error("Failed to read response body",
			zap.String("method", req.Method),
			zap.String("url", safeURL),
			zap.Duration("duration", duration),
			zap.Error(err),
		)
		return nil, err
	}

	resp.Body = io.NopCloser(bytes.NewBuffer(bodyBytes))

	fields := []zap.Field{
		zap.String("method", req.Method),
		zap.String("url", safeURL),
		zap.Int("status_code", resp.StatusCode),
		zap.Duration("duration", duration),
	}
	if !l.OmitBody {
		snippet := bodyBytes
		if len(snippet) > maxBodySnippet {
			snippet = snippet[:maxBodySnippet]
		}
		fields = append(fields, zap.ByteString("body_snipped", snippet))
	}

	l.Logger.Info("HTTP request completed", fields...)

	return resp, nil
}

// RedactURL renders u with API credentials masked.
func RedactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	clone := *u
	q := clone.Query()
	for _, p := range secretParams {
		if q.Has(p) {
			q.Set(p, redacted)
		}
	}
	clone.RawQuery = q.Encode()
	return clone.String()
}
