package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gaadilink/backend/internal/repository"
	"github.com/gaadilink/backend/pkg/logger"
	"github.com/gaadilink/backend/pkg/metrics"
)

// Dispatcher delivers a notification to a set of recipients. Delivery is
// best-effort; callers must never treat a dispatch failure as an operation
// failure.
type Dispatcher interface {
	Notify(ctx context.Context, recipientIDs []string, title, body string, data map[string]string) error
}

type expoMessage struct {
	To    string            `json:"to"`
	Sound string            `json:"sound"`
	Title string            `json:"title"`
	Body  string            `json:"body"`
	Data  map[string]string `json:"data,omitempty"`
}

type ExpoDispatcher struct {
	client      *http.Client
	pushURL     string
	accessToken string
	tokenRepo   repository.PushTokenRepository
	log         logger.Logger
	metrics     *metrics.Metrics
}

func NewExpoDispatcher(pushURL, accessToken string, tokenRepo repository.PushTokenRepository, log logger.Logger, m *metrics.Metrics) *ExpoDispatcher {
	return &ExpoDispatcher{
		client:      &http.Client{Timeout: 10 * time.Second},
		pushURL:     pushURL,
		accessToken: accessToken,
		tokenRepo:   tokenRepo,
		log:         log,
		metrics:     m,
	}
}

func (d *ExpoDispatcher) Notify(ctx context.Context, recipientIDs []string, title, body string, data map[string]string) error {
	if len(recipientIDs) == 0 {
		return nil
	}

	tokens, err := d.tokenRepo.GetByUserIDs(ctx, recipientIDs)
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return nil
	}

	messages := make([]expoMessage, 0, len(tokens))
	for _, t := range tokens {
		messages = append(messages, expoMessage{
			To:    t.Token,
			Sound: "default",
			Title: title,
			Body:  body,
			Data:  data,
		})
	}

	payload, err := json.Marshal(messages)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.pushURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if d.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+d.accessToken)
	}

	resp, err := d.client.Do(req)
	if err != nil {
		d.metrics.NotificationsFailed.Inc()
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		d.metrics.NotificationsFailed.Inc()
		return fmt.Errorf("expo push returned status %d", resp.StatusCode)
	}

	d.metrics.NotificationsSent.Inc()
	d.log.Debug("push notification batch dispatched", "recipients", len(tokens))
	return nil
}
