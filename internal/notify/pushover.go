package notify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"regexp"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog/log"

	"github.com/r2kit/bucket-sweep/internal/util"
)

// pushoverURL is the Pushover v1 messages endpoint; a package var so tests
// can point it at a local server.
var pushoverURL = "https://api.pushover.net/1/messages.json"

// Pushover tokens and user keys are 30 alphanumeric characters.
var validPushoverKey = regexp.MustCompile(`^[a-zA-Z0-9]{30}$`)

// Summary is the sweep result a notification reports.
type Summary struct {
	Bucket   string
	DryRun   bool
	Deleted  int64
	Failed   int64
	Duration time.Duration
	Err      error // non-nil when the run aborted
}

// SendPushover sends a completion notification. Missing or malformed keys
// are not an error: the notification is simply skipped.
func SendPushover(ctx context.Context, apiKey, userKey string, s Summary) error {
	if !validPushoverKey.MatchString(apiKey) || !validPushoverKey.MatchString(userKey) {
		log.Debug().Str("component", "notify").Msg("Pushover not configured, skipping notification")
		return nil
	}

	title := fmt.Sprintf("Bucket sweep finished: %s", s.Bucket)
	priority := "0"
	sound := "pushover"
	message := fmt.Sprintf("Deleted %s objects in %s.", humanize.Comma(s.Deleted), s.Duration.Round(time.Second))
	if s.DryRun {
		message = fmt.Sprintf("Dry run: %s objects would be deleted.", humanize.Comma(s.Deleted+s.Failed))
	}
	if s.Failed > 0 || s.Err != nil {
		title = fmt.Sprintf("Bucket sweep FAILED: %s", s.Bucket)
		priority = "1"
		sound = "siren"
		reason := fmt.Sprintf("%s objects failed", humanize.Comma(s.Failed))
		if s.Err != nil {
			reason = s.Err.Error()
		}
		message = fmt.Sprintf("Deleted %s, then: %s (after %s)", humanize.Comma(s.Deleted), reason, s.Duration.Round(time.Second))
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	_ = writer.WriteField("token", apiKey)
	_ = writer.WriteField("user", userKey)
	_ = writer.WriteField("title", title)
	_ = writer.WriteField("message", message)
	_ = writer.WriteField("priority", priority)
	_ = writer.WriteField("sound", sound)
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to build pushover request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pushoverURL, &body)
	if err != nil {
		return fmt.Errorf("failed to create pushover request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	log.Debug().Str("component", "notify").
		Str("user", util.RedactKey(userKey)).
		Str("title", title).
		Msg("Sending Pushover notification")

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("pushover request failed: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Pushover response body")
		}
	}()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("pushover API error: status %d, response: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
