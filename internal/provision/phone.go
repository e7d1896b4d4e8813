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

// DefaultAreaCode is requested when the caller does not pick one.
const DefaultAreaCode = "689"

// fallbackAreaCodes are tried in order after the requested code.
var fallbackAreaCodes = []string{"689", "447", "539"}

// PhoneResult is the outcome of the phone-acquisition workflow.
type PhoneResult struct {
	Outcome            Outcome            `json:"outcome"`
	Phone              *model.PhoneNumber `json:"phone"`
	FailedSteps        []string           `json:"failedSteps,omitempty"`
	RequestedAreaCode  string             `json:"requestedAreaCode"`
	SuccessfulAreaCode string             `json:"successfulAreaCode"`
	WasFallback        bool               `json:"wasFallback"`
}

// AcquirePhone provisions a telephony number for the clinic, trying the
// requested area code first and then each fixed fallback code. Every
// candidate is attempted; when none succeeds the returned error is a
// *NoNumberAvailableError aggregating all attempts. Linking the number
// to the assistant is best-effort.
func (s *Service) AcquirePhone(ctx context.Context, clinicID uint, areaCode string) (*PhoneResult, error) {
	if _, err := s.store.GetPhoneByClinic(ctx, clinicID); err == nil {
		s.log.Warn("duplicate phone provision attempt", zap.Uint("clinic_id", clinicID))
		return nil, ErrPhoneExists
	} else if !errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("checking existing phone: %w", err)
	}

	assistant, err := s.store.GetAssistantByClinic(ctx, clinicID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoAssistant
		}
		return nil, fmt.Errorf("loading assistant: %w", err)
	}

	if areaCode == "" {
		areaCode = DefaultAreaCode
	}
	candidates := dedupeAreaCodes(append([]string{areaCode}, fallbackAreaCodes...))

	var granted *vapi.PhoneNumber
	var successfulAreaCode string
	var attempts []AttemptFailure

	for _, candidate := range candidates {
		s.log.Info("attempting phone provision",
			zap.Uint("clinic_id", clinicID),
			zap.String("area_code", candidate))

		phone, err := s.client.CreatePhoneNumber(ctx, candidate)
		if err != nil {
			s.log.Warn("phone provision attempt failed",
				zap.String("area_code", candidate),
				zap.Error(err))
			attempts = append(attempts, AttemptFailure{AreaCode: candidate, Reason: err.Error()})
			if errors.Is(err, vapi.ErrUnauthorized) {
				// A rejected credential will not succeed on another code.
				return nil, err
			}
			continue
		}
		if phone.ID == "" {
			attempts = append(attempts, AttemptFailure{AreaCode: candidate, Reason: "no phone id returned"})
			continue
		}

		granted = phone
		successfulAreaCode = candidate
		break
	}

	if granted == nil {
		return nil, &NoNumberAvailableError{Attempts: attempts}
	}

	var failedSteps []string
	if err := s.client.AssignPhoneNumber(ctx, granted.ID, assistant.VapiAssistantID); err != nil {
		// The number is still usable and recorded; the link can be
		// repaired on the platform side.
		s.log.Error("failed to link phone to assistant",
			zap.String("vapi_phone_id", granted.ID),
			zap.String("vapi_assistant_id", assistant.VapiAssistantID),
			zap.Error(err))
		failedSteps = append(failedSteps, StepAssistantLink)
	}

	number := granted.Number
	if number == "" {
		number = "VAPI-" + shortID(granted.ID)
	}

	phone := &model.PhoneNumber{
		ClinicID:    clinicID,
		PhoneNumber: number,
		VapiPhoneID: granted.ID,
		AreaCode:    successfulAreaCode,
	}
	if err := s.store.CreatePhoneNumber(ctx, phone); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return nil, ErrPhoneExists
		}
		return nil, fmt.Errorf("persisting phone reference: %w", err)
	}

	s.log.Info("phone provisioned",
		zap.Uint("clinic_id", clinicID),
		zap.String("number", number),
		zap.String("area_code", successfulAreaCode),
		zap.Bool("was_fallback", successfulAreaCode != areaCode))

	return &PhoneResult{
		Outcome:            outcomeFor(failedSteps),
		Phone:              phone,
		FailedSteps:        failedSteps,
		RequestedAreaCode:  areaCode,
		SuccessfulAreaCode: successfulAreaCode,
		WasFallback:        successfulAreaCode != areaCode,
	}, nil
}

// ReleasePhone deletes the clinic's number from the platform and then
// removes the local reference. The platform call is best-effort; a
// stale platform-side number is preferable to a local record the
// clinic cannot replace.
func (s *Service) ReleasePhone(ctx context.Context, clinicID uint) error {
	phone, err := s.store.GetPhoneByClinic(ctx, clinicID)
	if err != nil {
		return err
	}

	if err := s.client.DeletePhoneNumber(ctx, phone.VapiPhoneID); err != nil {
		s.log.Error("failed to delete phone from platform",
			zap.String("vapi_phone_id", phone.VapiPhoneID),
			zap.Error(err))
	}

	return s.store.DeletePhoneNumber(ctx, phone.ID)
}

// dedupeAreaCodes removes duplicates while preserving first-occurrence order.
func dedupeAreaCodes(codes []string) []string {
	seen := make(map[string]bool, len(codes))
	var out []string
	for _, code := range codes {
		if seen[code] {
			continue
		}
		seen[code] = true
		out = append(out, code)
	}
	return out
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
