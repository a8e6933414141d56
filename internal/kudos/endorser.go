// Package kudos drains detected activities through a strictly serial
// endorsement queue, respecting the daily limit and pacing actions with a
// humanizing delay.
package kudos

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	json "github.com/goccy/go-json"

	"kudosd/internal/models"
	"kudosd/internal/providers"
	"kudosd/internal/structures"
)

// Endorser performs the actual kudos action for one activity. The DOM click
// lives with the scraping collaborator; the daemon only triggers it.
type Endorser interface {
	Endorse(ctx context.Context, activity *models.Activity) error
}

// CallbackEndorser POSTs the activity id to the collaborator's endorse URL.
type CallbackEndorser struct {
	url    string
	client providers.HTTPClientInterface
}

func (e *CallbackEndorser) Endorse(ctx context.Context, activity *models.Activity) error {
	body, err := json.Marshal(map[string]string{"activityId": activity.ID})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return fmt.Errorf("transport: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

// logEndorser stands in when no endorse URL is configured.
type logEndorser struct {
	logger providers.Logger
}

func (e *logEndorser) Endorse(_ context.Context, activity *models.Activity) error {
	e.logger.Infof(providers.TypeApp, "Endorse (no callback configured): %s by %s", activity.ID, activity.AthleteName)
	return nil
}

func NewEndorser(conf *structures.Config, client providers.HTTPClientInterface, logger providers.Logger) Endorser {
	if conf.Kudos.EndorseURL == "" {
		return &logEndorser{logger: logger}
	}
	return &CallbackEndorser{url: conf.Kudos.EndorseURL, client: client}
}
