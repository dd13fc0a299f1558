package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/garyjia/invoice-desk/internal/application/port"
	"github.com/garyjia/invoice-desk/internal/domain/entity"
	"go.uber.org/zap"
)

// HTTPSink posts mutations to the configured replication endpoint.
// The response is closed unread: a forward succeeds once the request is sent.
type HTTPSink struct {
	client *http.Client
	urls   port.SinkURLSource
	logger *zap.Logger
}

// NewHTTPSink creates a sink that looks up its endpoint from urls on every forward
func NewHTTPSink(urls port.SinkURLSource, timeout time.Duration, logger *zap.Logger) *HTTPSink {
	return &HTTPSink{
		client: &http.Client{Timeout: timeout},
		urls:   urls,
		logger: logger,
	}
}

// Forward implements port.ReplicationSink
func (s *HTTPSink) Forward(ctx context.Context, m port.Mutation) port.Outcome {
	url, err := s.urls.SinkURL(ctx)
	if err != nil {
		return s.failed(m, fmt.Errorf("failed to read sink url: %w", err))
	}
	if url == "" {
		return port.Outcome{Status: port.StatusSkipped}
	}

	body, err := json.Marshal(m)
	if err != nil {
		return s.failed(m, fmt.Errorf("failed to encode mutation: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return s.failed(m, fmt.Errorf("failed to build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return s.failed(m, err)
	}
	resp.Body.Close()

	s.logger.Debug("Mutation dispatched to sink",
		zap.String("action", string(m.Action)),
		zap.Int("bytes", len(body)))
	return port.Outcome{Status: port.StatusDispatched}
}

func (s *HTTPSink) failed(m port.Mutation, err error) port.Outcome {
	dispatchErr := &entity.SinkDispatchError{Action: string(m.Action), Err: err}
	s.logger.Warn("Sink dispatch failed",
		zap.String("action", string(m.Action)),
		zap.Error(err))
	return port.Outcome{Status: port.StatusTransportFailed, Err: dispatchErr}
}

var _ port.ReplicationSink = (*HTTPSink)(nil)
