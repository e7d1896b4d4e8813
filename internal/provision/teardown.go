package provision

import (
	"context"
	"errors"

	"github.com/suteetoe/clinicvoice/internal/store"
	"go.uber.org/zap"
)

// OrphanedResource identifies a platform resource that could not be
// released during teardown and remains allocated on the platform side.
type OrphanedResource struct {
	Kind       string `json:"kind"` // "assistant", "phone-number", or "file"
	ExternalID string `json:"externalId"`
	Reason     string `json:"reason"`
}

// TeardownResult is the outcome of the clinic cascading deletion.
type TeardownResult struct {
	Outcome Outcome            `json:"outcome"`
	Orphans []OrphanedResource `json:"orphans,omitempty"`
}

// TeardownClinic removes a clinic and everything that references it.
// Phase one releases the clinic's platform resources best-effort,
// collecting failures as orphans for the administrator. Phase two
// removes every local record in one transaction: either all local
// records for the clinic disappear, or none do.
func (s *Service) TeardownClinic(ctx context.Context, clinicID uint) (*TeardownResult, error) {
	if _, err := s.store.GetClinic(ctx, clinicID); err != nil {
		return nil, err
	}

	var orphans []OrphanedResource

	if assistant, err := s.store.GetAssistantByClinic(ctx, clinicID); err == nil {
		if err := s.client.DeleteAssistant(ctx, assistant.VapiAssistantID); err != nil {
			orphans = append(orphans, OrphanedResource{
				Kind:       "assistant",
				ExternalID: assistant.VapiAssistantID,
				Reason:     err.Error(),
			})
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	if phone, err := s.store.GetPhoneByClinic(ctx, clinicID); err == nil {
		if err := s.client.DeletePhoneNumber(ctx, phone.VapiPhoneID); err != nil {
			orphans = append(orphans, OrphanedResource{
				Kind:       "phone-number",
				ExternalID: phone.VapiPhoneID,
				Reason:     err.Error(),
			})
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, err
	}

	files, err := s.store.ListKnowledgeFilesByClinic(ctx, clinicID)
	if err != nil {
		return nil, err
	}
	for _, file := range files {
		if err := s.client.DeleteFile(ctx, file.VapiFileID); err != nil {
			orphans = append(orphans, OrphanedResource{
				Kind:       "file",
				ExternalID: file.VapiFileID,
				Reason:     err.Error(),
			})
		}
	}

	if err := s.store.DeleteClinicCascade(ctx, clinicID); err != nil {
		return nil, err
	}

	for _, orphan := range orphans {
		s.log.Warn("platform resource orphaned during teardown",
			zap.Uint("clinic_id", clinicID),
			zap.String("kind", orphan.Kind),
			zap.String("external_id", orphan.ExternalID),
			zap.String("reason", orphan.Reason))
	}

	outcome := OutcomeCommitted
	if len(orphans) > 0 {
		outcome = OutcomePartial
	}
	return &TeardownResult{Outcome: outcome, Orphans: orphans}, nil
}
