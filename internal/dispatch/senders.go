package dispatch

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"kudosd/internal/models"
)

const pushoverAPIURL = "https://api.pushover.net/1/messages.json"

// pushoverPriority maps activity tiers onto Pushover's -2..2 scale:
// critical becomes emergency (requires acknowledgment), high becomes high,
// everything else normal.
func pushoverPriority(priority models.Priority) int {
	switch priority {
	case models.PriorityCritical:
		return 2
	case models.PriorityHigh:
		return 1
	default:
		return 0
	}
}

// embedColor is the shared four-color palette for chat cards.
func embedColor(priority models.Priority) int {
	switch priority {
	case models.PriorityCritical:
		return 0xe74c3c
	case models.PriorityHigh:
		return 0xf39c12
	case models.PriorityMedium:
		return 0xf1c40f
	default:
		return 0x3498db
	}
}

func priorityIcon(priority models.Priority) string {
	switch priority {
	case models.PriorityCritical:
		return "🔥"
	case models.PriorityHigh:
		return "⚡"
	default:
		return "🎯"
	}
}

func (d *Dispatcher) sendPushover(ctx context.Context, cfg models.PushoverConfig, title, message string, priority models.Priority, link string) error {
	if cfg.UserKey == "" || cfg.AppToken == "" {
		return nil
	}

	form := url.Values{
		"token":     {cfg.AppToken},
		"user":      {cfg.UserKey},
		"message":   {message},
		"title":     {title},
		"priority":  {strconv.Itoa(pushoverPriority(priority))},
		"sound":     {"pushover"},
		"url":       {link},
		"url_title": {"View Activity"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pushoverAPIURL, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("transport: %w", err)
	}
	defer resp.Body.Close()

	var result struct {
		Status int      `json:"status"`
		Errors []string `json:"errors"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return fmt.Errorf("status %d: unreadable response: %w", resp.StatusCode, err)
	}
	if result.Status != 1 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.Join(result.Errors, "; "))
	}
	return nil
}

func (d *Dispatcher) sendDiscord(ctx context.Context, webhook models.WebhookConfig, title, message string, priority models.Priority, link string) error {
	payload := map[string]any{
		"embeds": []map[string]any{{
			"title":       fmt.Sprintf("%s %s", priorityIcon(priority), title),
			"description": message,
			"color":       embedColor(priority),
			"url":         link,
			"timestamp":   time.Now().UTC().Format(time.RFC3339),
		}},
	}
	return d.postJSON(ctx, webhook.URL, http.MethodPost, nil, payload)
}

func (d *Dispatcher) sendSlack(ctx context.Context, webhook models.WebhookConfig, title, message string, priority models.Priority, link string) error {
	payload := map[string]any{
		"attachments": []map[string]any{{
			"color":      fmt.Sprintf("#%06x", embedColor(priority)),
			"title":      fmt.Sprintf("%s %s", priorityIcon(priority), title),
			"text":       message,
			"title_link": link,
			"footer":     "Activity Monitor",
			"ts":         time.Now().Unix(),
		}},
	}
	return d.postJSON(ctx, webhook.URL, http.MethodPost, nil, payload)
}

func (d *Dispatcher) sendGeneric(ctx context.Context, webhook models.WebhookConfig, title, message string, priority models.Priority, activityID, link string) error {
	payload := map[string]any{
		"title":       title,
		"message":     message,
		"priority":    priority,
		"activityId":  activityID,
		"activityUrl": link,
		"timestamp":   time.Now().UTC().Format(time.RFC3339),
	}

	method := webhook.Method
	if method == "" {
		method = http.MethodPost
	}
	headers := webhook.Headers
	if headers == nil {
		headers = map[string]string{"Content-Type": "application/json"}
	}
	return d.postJSON(ctx, webhook.URL, method, headers, payload)
}

func (d *Dispatcher) postJSON(ctx context.Context, rawURL, method string, headers map[string]string, payload any) error {
	if rawURL == "" {
		return nil
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	if headers == nil {
		req.Header.Set("Content-Type", "application/json")
	} else {
		for key, value := range headers {
			req.Header.Set(key, value)
		}
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("transport: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("status %d: %s", resp.StatusCode, string(detail))
	}
	return nil
}
