// Package middleware provides HTTP middleware components for the bank API.
package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/benx421/retail-bank/internal/models"
	"golang.org/x/sync/singleflight"
)

const (
	idempotencyKeyHeader = "Idempotency-Key"
	replayedHeader       = "X-Idempotent-Replayed"
	apiPrefix            = "/api/v1/"
)

// IdempotencyStore keeps the responses of completed requests
type IdempotencyStore interface {
	Get(ctx context.Context, key, requestPath string) (*models.IdempotencyKey, error)
	Store(ctx context.Context, idemKey *models.IdempotencyKey) error
}

type responseCapture struct {
	http.ResponseWriter
	body       bytes.Buffer
	statusCode int
}

func newResponseCapture(w http.ResponseWriter) *responseCapture {
	return &responseCapture{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rc *responseCapture) WriteHeader(code int) {
	rc.statusCode = code
	rc.ResponseWriter.WriteHeader(code)
}

func (rc *responseCapture) Write(b []byte) (int, error) {
	rc.body.Write(b)
	return rc.ResponseWriter.Write(b)
}

type capturedResponse struct {
	body   string
	status int
}

// Idempotency replays the stored response of a POST carrying an Idempotency-Key that
// already succeeded. Concurrent requests with the same key and path run the handler once.
func Idempotency(repo IdempotencyStore, logger *slog.Logger) func(http.Handler) http.Handler {
	var inflight singleflight.Group

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !requiresIdempotency(r) {
				next.ServeHTTP(w, r)
				return
			}

			idempotencyKey := r.Header.Get(idempotencyKeyHeader)
			if idempotencyKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			requestPath := normalizeRequestPath(r.URL.Path)
			ctx := r.Context()

			cached, err := repo.Get(ctx, idempotencyKey, requestPath)
			if err != nil {
				logger.Error("failed to check idempotency cache", "error", err)
				next.ServeHTTP(w, r)
				return
			}
			if cached != nil {
				logger.Debug("returning cached idempotent response",
					"key", idempotencyKey,
					"path", requestPath,
					"status", cached.ResponseStatus,
				)
				replay(w, cached.ResponseStatus, cached.ResponseBody)
				return
			}

			leader := false
			result, _, _ := inflight.Do(requestPath+"\x00"+idempotencyKey, func() (any, error) {
				leader = true
				capture := newResponseCapture(w)
				next.ServeHTTP(capture, r)

				resp := capturedResponse{status: capture.statusCode, body: capture.body.String()}
				if shouldCacheResponse(resp.status) {
					idemKey := &models.IdempotencyKey{
						Key:            idempotencyKey,
						RequestPath:    requestPath,
						ResponseStatus: resp.status,
						ResponseBody:   resp.body,
						CreatedAt:      time.Now(),
					}
					if err := repo.Store(context.WithoutCancel(ctx), idemKey); err != nil {
						logger.Error("failed to store idempotency key",
							"error", err,
							"key", idempotencyKey,
						)
					}
				}
				return resp, nil
			})
			if leader {
				return
			}

			resp := result.(capturedResponse)
			logger.Debug("sharing in-flight idempotent response", "key", idempotencyKey, "path", requestPath)
			replay(w, resp.status, resp.body)
		})
	}
}

func replay(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set(replayedHeader, "true")
	w.WriteHeader(status)
	//nolint:errcheck // Best effort response writing
	w.Write([]byte(body))
}

// requiresIdempotency matches every mutating API call
func requiresIdempotency(r *http.Request) bool {
	return r.Method == http.MethodPost && strings.HasPrefix(r.URL.Path, apiPrefix)
}

func normalizeRequestPath(urlPath string) string {
	return strings.TrimSuffix(urlPath, "/")
}

func shouldCacheResponse(statusCode int) bool {
	return statusCode >= 200 && statusCode < 300
}
