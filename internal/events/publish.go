package events

import (
	"log/slog"
	"time"
)

// PublishChange sends a change notification with retry, without blocking the
// calling mutation on delivery failure. A nil publisher is a silent no-op so
// callers need no daemon-mode checks.
func PublishChange(pub Publisher, ownerID, projectID string) {
	if pub == nil {
		return
	}

	event := Event{
		Type:      EventChanged,
		OwnerID:   ownerID,
		ProjectID: projectID,
		Timestamp: time.Now(),
	}

	const maxRetries = 3
	baseDelay := 50 * time.Millisecond

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		lastErr = pub.SendEvent(event)
		if lastErr == nil {
			return
		}
		if attempt < maxRetries-1 {
			time.Sleep(baseDelay << attempt)
		}
	}

	// Live views miss this refresh, so it is worth a warning
	slog.Warn("change notification failed after retries",
		"attempts", maxRetries,
		"project_id", projectID,
		"error", lastErr)
}
