package provision

import (
	"context"
	"errors"
	"fmt"

	"github.com/suteetoe/clinicvoice/internal/model"
	"github.com/suteetoe/clinicvoice/internal/store"
	"github.com/suteetoe/clinicvoice/internal/vapi"
	"go.uber.org/zap"
)

// AssistantResult is the outcome of the assistant-creation workflow.
type AssistantResult struct {
	Outcome   Outcome          `json:"outcome"`
	Assistant *model.Assistant `json:"assistant"`
}

// CreateAssistant provisions a hosted assistant for the clinic and
// records the reference locally. The seed prompt comes from the global
// default-prompt setting, falling back to the built-in prompt.
func (s *Service) CreateAssistant(ctx context.Context, clinicID uint) (*AssistantResult, error) {
	if _, err := s.store.GetAssistantByClinic(ctx, clinicID); err == nil {
		return nil, ErrAssistantExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking existing assistant: %w", err)
	}

	clinic, err := s.store.GetClinic(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("loading clinic: %w", err)
	}

	prompt := s.resolveDefaultPrompt(ctx)

	name := clinic.ClinicName
	if name == "" {
		name = "Clinic"
	}
	req := vapi.NewAssistantRequest(name+" Assistant", prompt)
	created, err := s.client.CreateAssistant(ctx, req)
	if err != nil {
		return nil, err
	}

	assistant := &model.Assistant{
		ClinicID:        clinicID,
		VapiAssistantID: created.ID,
	}
	if err := s.store.CreateAssistant(ctx, assistant); err != nil {
		// The external agent is not rolled back here; the reference is
		// lost and the platform resource is orphaned.
		s.log.Error("assistant created on platform but local persistence failed",
			zap.Uint("clinic_id", clinicID),
			zap.String("vapi_assistant_id", created.ID),
			zap.Error(err))
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrAssistantExists
		}
		return nil, fmt.Errorf("persisting assistant reference: %w", err)
	}

	s.log.Info("assistant provisioned",
		zap.Uint("clinic_id", clinicID),
		zap.String("vapi_assistant_id", created.ID))

	return &AssistantResult{Outcome: OutcomeCommitted, Assistant: assistant}, nil
}
