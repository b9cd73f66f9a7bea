// Package telegram delivers trade notifications through the Telegram Bot
// API. Messages go through a bounded queue drained by a single worker so
// a slow or broken channel can never stall order submission.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"quantBreakoutBot/internal/ports"
)

const (
	defaultQueueSize = 64
	requestTimeout   = 10 * time.Second
	apiURLFormat     = "https://api.telegram.org/bot%s/sendMessage"
)

// Config holds the notifier settings. An empty token or chat ID disables
// delivery entirely; Send becomes a no-op.
type Config struct {
	Token     string
	ChatID    string
	QueueSize int
	Logger    ports.Logger
}

// Notifier implements ports.Notifier over the Telegram Bot API.
type Notifier struct {
	cfg     Config
	client  *http.Client
	apiURL  string
	queue   chan string
	done    chan struct{}
	enabled bool
}

// New creates the notifier and starts its delivery worker.
func New(cfg Config) (*Notifier, error) {
	if cfg.Logger == nil {
		return nil, fmt.Errorf("logger is required for telegram notifier")
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = defaultQueueSize
	}

	n := &Notifier{
		cfg:     cfg,
		client:  &http.Client{Timeout: requestTimeout},
		apiURL:  fmt.Sprintf(apiURLFormat, cfg.Token),
		queue:   make(chan string, cfg.QueueSize),
		done:    make(chan struct{}),
		enabled: cfg.Token != "" && cfg.ChatID != "",
	}
	if !n.enabled {
		cfg.Logger.Warn(context.Background(), "Telegram notifier disabled (no token or chat ID configured)")
	}
	go n.run()
	return n, nil
}

// Send enqueues a message. If the queue is full the message is dropped
// with a warning; delivery is best effort and never blocks the caller.
func (n *Notifier) Send(text string) {
	if !n.enabled {
		return
	}
	select {
	case n.queue <- text:
	default:
		n.cfg.Logger.Warn(context.Background(), "Notification queue full, dropping message")
	}
}

// Close flushes the queue and stops the worker.
func (n *Notifier) Close() {
	close(n.queue)
	<-n.done
}

func (n *Notifier) run() {
	defer close(n.done)
	for msg := range n.queue {
		if err := n.post(msg); err != nil {
			n.cfg.Logger.Warn(context.Background(), "Failed to deliver notification", map[string]interface{}{
				"error": err.Error(),
			})
		}
	}
}

func (n *Notifier) post(text string) error {
	payload := map[string]interface{}{
		"chat_id":    n.cfg.ChatID,
		"text":       text,
		"parse_mode": "Markdown",
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	resp, err := n.client.Post(n.apiURL, "application/json", bytes.NewReader(data))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("telegram returned status %d", resp.StatusCode)
	}
	return nil
}
