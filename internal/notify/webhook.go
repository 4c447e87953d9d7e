package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"text/template"
	"time"

	"desknotify/internal/config"
)

// Webhook posts notifications to a chat webhook.
type Webhook struct {
	URL      string // webhook endpoint
	Format   string // "slack", "feishu", "dingtalk", "telegram", "custom"
	Template string // body template for "custom"
	ChatID   string // telegram chat
	client   *http.Client
}

func NewWebhook(s config.WebhookSettings) *Webhook {
	return &Webhook{
		URL:      s.URL,
		Format:   s.Format,
		Template: s.Template,
		ChatID:   s.ChatID,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

func (*Webhook) Name() string      { return "webhook" }
func (*Webhook) Priority() int     { return 5 }
func (w *Webhook) Available() bool { return w.URL != "" }

// RawIcons: icon names are only used as text in templates.
func (*Webhook) RawIcons() bool { return true }

// Payload builds the request body for n in the configured format.
func (w *Webhook) Payload(n Notification) ([]byte, error) {
	var payload any

	text := fmt.Sprintf("%s: %s", n.Title, n.Message)

	switch w.Format {
	case "feishu":
		payload = map[string]any{
			"msg_type": "text",
			"content": map[string]string{
				"text": text,
			},
		}
	case "dingtalk":
		payload = map[string]any{
			"msgtype": "text",
			"text": map[string]string{
				"content": text,
			},
		}
	case "telegram":
		payload = map[string]any{
			"chat_id":    w.ChatID,
			"text":       text,
			"parse_mode": "HTML",
		}
	case "custom":
		if w.Template == "" {
			return nil, fmt.Errorf("webhook custom format: backends.webhook.template is empty")
		}
		tmpl, err := template.New("webhook").Parse(w.Template)
		if err != nil {
			return nil, fmt.Errorf("webhook custom template parse: %w", err)
		}
		data := map[string]string{
			"Title":   n.Title,
			"Message": n.Message,
			"Text":    text,
			"Icon":    n.Icon,
			"Urgency": string(NormalizeUrgency(string(n.Urgency))),
			"ID":      n.ID,
		}
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return nil, fmt.Errorf("webhook custom template execute: %w", err)
		}
		if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
			return nil, fmt.Errorf("webhook custom template produced invalid JSON: %w", err)
		}
	default: // "slack" and any other format
		payload = map[string]string{
			"text": text,
		}
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("webhook marshal: %w", err)
	}
	return body, nil
}

// Send posts n to the configured webhook. Actions are not offered.
func (w *Webhook) Send(ctx context.Context, n Notification) (Result, error) {
	if !w.Available() {
		return failed(w.Name(), fmt.Errorf("%w: no webhook url configured", ErrBackendUnavailable))
	}
	body, err := w.Payload(n)
	if err != nil {
		return failed(w.Name(), err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.URL, bytes.NewReader(body))
	if err != nil {
		return failed(w.Name(), fmt.Errorf("webhook request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return failed(w.Name(), fmt.Errorf("webhook post: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return failed(w.Name(), fmt.Errorf("webhook returned status %d", resp.StatusCode))
	}
	res := delivered(w.Name(), OutcomeSent)
	res.NotificationID = n.ID
	return res, nil
}

func (w *Webhook) Info() BackendInfo {
	return BackendInfo{
		Name:        w.Name(),
		Priority:    w.Priority(),
		Available:   w.Available(),
		Description: "Chat webhook (slack, feishu, dingtalk, telegram or custom JSON)",
		Features:    []string{FeatureRemote},
		Urgencies:   Urgencies,
		Extra:       map[string]string{"format": w.Format},
	}
}
