package provision

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/suteetoe/clinicvoice/internal/model"
	"github.com/suteetoe/clinicvoice/internal/store"
	"go.uber.org/zap"
)

// AttachResult is the outcome of the knowledge-file upload workflow.
type AttachResult struct {
	Outcome     Outcome              `json:"outcome"`
	File        *model.KnowledgeFile `json:"file"`
	FailedSteps []string             `json:"failedSteps,omitempty"`
}

// DetachResult is the outcome of the knowledge-file deletion workflow.
type DetachResult struct {
	Outcome     Outcome  `json:"outcome"`
	FailedSteps []string `json:"failedSteps,omitempty"`
}

// AttachFile uploads a document to the platform's file store and wires
// it into the clinic assistant's knowledge base. Reading and pushing the
// knowledge-base list are both best-effort: a failure there leaves the
// file stored but unattached, reported as a partial outcome. The local
// reference is persisted regardless of attach outcome.
func (s *Service) AttachFile(ctx context.Context, clinicID uint, originalFilename string, content io.Reader) (*AttachResult, error) {
	clinic, err := s.store.GetClinic(ctx, clinicID)
	if err != nil {
		return nil, fmt.Errorf("loading clinic: %w", err)
	}

	assistant, err := s.store.GetAssistantByClinic(ctx, clinicID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrNoAssistant
		}
		return nil, fmt.Errorf("loading assistant: %w", err)
	}

	// Embed the clinic name so platform-side files stay traceable.
	clinicName := clinic.ClinicName
	if clinicName == "" {
		clinicName = "Clinic"
	}
	storedName := clinicName + "-" + originalFilename

	uploaded, err := s.client.UploadFile(ctx, storedName, content)
	if err != nil {
		return nil, err
	}

	s.log.Info("file uploaded to platform",
		zap.Uint("clinic_id", clinicID),
		zap.String("vapi_file_id", uploaded.ID),
		zap.String("filename", storedName))

	var failedSteps []string

	var existingFileIDs []string
	if current, err := s.client.GetAssistant(ctx, assistant.VapiAssistantID); err != nil {
		s.log.Error("failed to read current knowledge base, treating as empty",
			zap.String("vapi_assistant_id", assistant.VapiAssistantID),
			zap.Error(err))
		failedSteps = append(failedSteps, StepKnowledgeBaseRead)
	} else {
		existingFileIDs = current.FileIDs()
	}

	allFileIDs := append(existingFileIDs, uploaded.ID)
	if err := s.client.UpdateKnowledgeBase(ctx, assistant.VapiAssistantID, allFileIDs); err != nil {
		// File exists in platform storage but is not wired into the
		// assistant; only a platform-side comparison can spot this.
		s.log.Error("failed to attach file to assistant",
			zap.String("vapi_assistant_id", assistant.VapiAssistantID),
			zap.String("vapi_file_id", uploaded.ID),
			zap.Error(err))
		failedSteps = append(failedSteps, StepKnowledgeBaseAttach)
	}

	file := &model.KnowledgeFile{
		ClinicID:         clinicID,
		Filename:         storedName,
		OriginalFilename: originalFilename,
		VapiFileID:       uploaded.ID,
	}
	if err := s.store.CreateKnowledgeFile(ctx, file); err != nil {
		return nil, fmt.Errorf("persisting file reference: %w", err)
	}

	return &AttachResult{
		Outcome:     outcomeFor(failedSteps),
		File:        file,
		FailedSteps: failedSteps,
	}, nil
}

// DetachFile removes a knowledge file. Ownership mismatch reports
// not-found rather than forbidden so file ids cannot be probed. The
// knowledge-base list sync is best-effort, but the platform file
// deletion is not: its failure aborts before the local reference is
// touched, so a local record never points at a disposed remote file.
func (s *Service) DetachFile(ctx context.Context, clinicID, fileID uint) (*DetachResult, error) {
	file, err := s.store.GetKnowledgeFile(ctx, fileID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrFileNotFound
		}
		return nil, fmt.Errorf("loading file reference: %w", err)
	}
	if file.ClinicID != clinicID {
		return nil, ErrFileNotFound
	}

	var failedSteps []string

	if assistant, err := s.store.GetAssistantByClinic(ctx, clinicID); err == nil {
		if err := s.syncKnowledgeBaseRemoval(ctx, assistant.VapiAssistantID, file.VapiFileID); err != nil {
			s.log.Error("failed to remove file from knowledge base",
				zap.String("vapi_assistant_id", assistant.VapiAssistantID),
				zap.String("vapi_file_id", file.VapiFileID),
				zap.Error(err))
			failedSteps = append(failedSteps, StepKnowledgeBaseDetach)
		}
	}

	if err := s.client.DeleteFile(ctx, file.VapiFileID); err != nil {
		return nil, err
	}

	if err := s.store.DeleteKnowledgeFile(ctx, file.ID); err != nil {
		return nil, fmt.Errorf("deleting file reference: %w", err)
	}

	s.log.Info("knowledge file deleted",
		zap.Uint("clinic_id", clinicID),
		zap.String("vapi_file_id", file.VapiFileID))

	return &DetachResult{
		Outcome:     outcomeFor(failedSteps),
		FailedSteps: failedSteps,
	}, nil
}

func (s *Service) syncKnowledgeBaseRemoval(ctx context.Context, assistantID, fileID string) error {
	current, err := s.client.GetAssistant(ctx, assistantID)
	if err != nil {
		return err
	}

	remaining := make([]string, 0, len(current.FileIDs()))
	for _, id := range current.FileIDs() {
		if id != fileID {
			remaining = append(remaining, id)
		}
	}

	return s.client.UpdateKnowledgeBase(ctx, assistantID, remaining)
}
