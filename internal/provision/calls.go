package provision

import (
	"context"
	"errors"

	"github.com/suteetoe/clinicvoice/internal/store"
)

// CallLogEntry is the normalized view of one platform call. It is a
// read-through projection, never persisted.
type CallLogEntry struct {
	ID         string `json:"id"`
	Date       string `json:"date"`
	FromNumber string `json:"from_number"`
	Duration   int    `json:"duration"`
	Status     string `json:"status"`
}

const callDateLayout = "2006-01-02 15:04:05"

// CallLogs fetches the clinic's call history live from the platform.
// A clinic without an assistant has no calls: the result is an empty
// list, not an error.
func (s *Service) CallLogs(ctx context.Context, clinicID uint) ([]CallLogEntry, error) {
	assistant, err := s.store.GetAssistantByClinic(ctx, clinicID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return []CallLogEntry{}, nil
		}
		return nil, err
	}

	calls, err := s.client.ListCalls(ctx, assistant.VapiAssistantID)
	if err != nil {
		return nil, err
	}

	entries := make([]CallLogEntry, 0, len(calls))
	for _, call := range calls {
		fromNumber := "Unknown"
		if call.Customer != nil && call.Customer.Number != "" {
			fromNumber = call.Customer.Number
		}

		status := call.Status
		if status == "" {
			status = "unknown"
		}

		duration := 0
		if call.EndedAt != nil && call.StartedAt != nil {
			duration = int(call.EndedAt.Sub(*call.StartedAt).Seconds())
		}

		entries = append(entries, CallLogEntry{
			ID:         call.ID,
			Date:       call.CreatedAt.Format(callDateLayout),
			FromNumber: fromNumber,
			Duration:   duration,
			Status:     status,
		})
	}

	return entries, nil
}
