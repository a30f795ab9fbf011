// Package graphql is the outbound adapter for the records API: it executes
// named query/mutation documents against one fixed GraphQL endpoint over
// HTTP. Callers attach the session token per call; the client itself holds
// no authentication state.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/lnclinic/prontuario/internal/domain"
	"github.com/lnclinic/prontuario/pkg/ctxutil"
)

// Client executes GraphQL operations against a single endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	log        *slog.Logger
}

// NewClient creates a Client for the given endpoint.
func NewClient(endpoint string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "graphql"),
	}
}

type wireRequest struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type wireError struct {
	Message string `json:"message"`
}

type wireResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []wireError     `json:"errors"`
}

// Do executes op with the given variables. When token is non-empty it is
// attached as "Authorization: JWT <token>". On success the response data is
// decoded into out (which may be nil when the caller only cares about
// errors). GraphQL-layer errors are returned carrying the server's message;
// authentication failures additionally match domain.ErrUnauthorized.
//
// Failed calls are never retried: every failure surfaces to the caller
// immediately so local state stays exactly as it was before the call.
func (c *Client) Do(ctx context.Context, op Operation, variables map[string]any, token string, out any) error {
	ctx, reqID := ctxutil.EnsureRequestID(ctx)

	body, err := json.Marshal(wireRequest{
		Query:         op.document,
		OperationName: op.name,
		Variables:     variables,
	})
	if err != nil {
		return fmt.Errorf("graphql: %s: encode request: %w", op.name, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("graphql: %s: create request: %w", op.name, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "JWT "+token)
	}

	c.log.DebugContext(ctx, "graphql request",
		slog.String("operation", op.name),
		slog.String("request_id", reqID),
		slog.Bool("mutation", op.IsMutation()),
		slog.Bool("authorized", token != ""),
	)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.ErrorContext(ctx, "graphql request failed",
			slog.String("operation", op.name),
			slog.String("request_id", reqID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("graphql: %s: request failed: %w", op.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("graphql: %s: unexpected status %d", op.name, resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("graphql: %s: read body: %w", op.name, err)
	}

	var res wireResponse
	if err := json.Unmarshal(raw, &res); err != nil {
		return fmt.Errorf("graphql: %s: decode response: %w", op.name, err)
	}

	if len(res.Errors) > 0 {
		msg := res.Errors[0].Message
		c.log.DebugContext(ctx, "graphql error response",
			slog.String("operation", op.name),
			slog.String("request_id", reqID),
			slog.String("message", msg),
		)
		if isAuthMessage(msg) {
			return fmt.Errorf("graphql: %s: %s: %w", op.name, msg, domain.ErrUnauthorized)
		}
		return fmt.Errorf("graphql: %s: %s", op.name, msg)
	}

	if out != nil && len(res.Data) > 0 && string(res.Data) != "null" {
		if err := json.Unmarshal(res.Data, out); err != nil {
			return fmt.Errorf("graphql: %s: decode data: %w", op.name, err)
		}
	}

	return nil
}

// isAuthMessage recognizes the error messages the API's JWT middleware
// emits for missing, invalid, or expired credentials.
func isAuthMessage(msg string) bool {
	m := strings.ToLower(msg)
	return strings.Contains(m, "permission") ||
		strings.Contains(m, "credentials") ||
		strings.Contains(m, "signature") ||
		strings.Contains(m, "not logged in") ||
		strings.Contains(m, "token")
}
