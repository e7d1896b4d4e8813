package provision

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/suteetoe/clinicvoice/internal/model"
	"github.com/suteetoe/clinicvoice/internal/store"
	"github.com/suteetoe/clinicvoice/internal/vapi"
)

// mockStore implements store.Store with per-method function fields.
// Unset getters report not-found, unset writers succeed.
type mockStore struct {
	CreateClinicFunc        func(ctx context.Context, clinic *model.Clinic) error
	GetClinicFunc           func(ctx context.Context, id uint) (*model.Clinic, error)
	GetClinicByEmailFunc    func(ctx context.Context, email string) (*model.Clinic, error)
	ListClinicsFunc         func(ctx context.Context) ([]model.Clinic, error)
	DeleteClinicCascadeFunc func(ctx context.Context, clinicID uint) error

	CreateAssistantFunc      func(ctx context.Context, assistant *model.Assistant) error
	GetAssistantByClinicFunc func(ctx context.Context, clinicID uint) (*model.Assistant, error)
	ListAssistantsFunc       func(ctx context.Context) ([]model.Assistant, error)

	CreatePhoneNumberFunc func(ctx context.Context, phone *model.PhoneNumber) error
	GetPhoneByClinicFunc  func(ctx context.Context, clinicID uint) (*model.PhoneNumber, error)
	ListPhoneNumbersFunc  func(ctx context.Context) ([]model.PhoneNumber, error)
	DeletePhoneNumberFunc func(ctx context.Context, id uint) error

	CreateKnowledgeFileFunc        func(ctx context.Context, file *model.KnowledgeFile) error
	GetKnowledgeFileFunc           func(ctx context.Context, id uint) (*model.KnowledgeFile, error)
	ListKnowledgeFilesByClinicFunc func(ctx context.Context, clinicID uint) ([]model.KnowledgeFile, error)
	DeleteKnowledgeFileFunc        func(ctx context.Context, id uint) error

	ListRecentCallRecordsFunc func(ctx context.Context, clinicID uint, limit int) ([]model.CallRecord, error)

	GetSettingFunc    func(ctx context.Context, name string) (*model.Setting, error)
	UpsertSettingFunc func(ctx context.Context, setting *model.Setting) error

	CountsFunc                func(ctx context.Context) (store.Counts, error)
	CountCallRecordsSinceFunc func(ctx context.Context, since time.Time) (int64, error)
}

var _ store.Store = (*mockStore)(nil)

func (m *mockStore) CreateClinic(ctx context.Context, clinic *model.Clinic) error {
	if m.CreateClinicFunc != nil {
		return m.CreateClinicFunc(ctx, clinic)
	}
	return nil
}

func (m *mockStore) GetClinic(ctx context.Context, id uint) (*model.Clinic, error) {
	if m.GetClinicFunc != nil {
		return m.GetClinicFunc(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockStore) GetClinicByEmail(ctx context.Context, email string) (*model.Clinic, error) {
	if m.GetClinicByEmailFunc != nil {
		return m.GetClinicByEmailFunc(ctx, email)
	}
	return nil, store.ErrNotFound
}

func (m *mockStore) ListClinics(ctx context.Context) ([]model.Clinic, error) {
	if m.ListClinicsFunc != nil {
		return m.ListClinicsFunc(ctx)
	}
	return nil, nil
}

func (m *mockStore) DeleteClinicCascade(ctx context.Context, clinicID uint) error {
	if m.DeleteClinicCascadeFunc != nil {
		return m.DeleteClinicCascadeFunc(ctx, clinicID)
	}
	return nil
}

func (m *mockStore) CreateAssistant(ctx context.Context, assistant *model.Assistant) error {
	if m.CreateAssistantFunc != nil {
		return m.CreateAssistantFunc(ctx, assistant)
	}
	return nil
}

func (m *mockStore) GetAssistantByClinic(ctx context.Context, clinicID uint) (*model.Assistant, error) {
	if m.GetAssistantByClinicFunc != nil {
		return m.GetAssistantByClinicFunc(ctx, clinicID)
	}
	return nil, store.ErrNotFound
}

func (m *mockStore) ListAssistants(ctx context.Context) ([]model.Assistant, error) {
	if m.ListAssistantsFunc != nil {
		return m.ListAssistantsFunc(ctx)
	}
	return nil, nil
}

func (m *mockStore) CreatePhoneNumber(ctx context.Context, phone *model.PhoneNumber) error {
	if m.CreatePhoneNumberFunc != nil {
		return m.CreatePhoneNumberFunc(ctx, phone)
	}
	return nil
}

func (m *mockStore) GetPhoneByClinic(ctx context.Context, clinicID uint) (*model.PhoneNumber, error) {
	if m.GetPhoneByClinicFunc != nil {
		return m.GetPhoneByClinicFunc(ctx, clinicID)
	}
	return nil, store.ErrNotFound
}

func (m *mockStore) ListPhoneNumbers(ctx context.Context) ([]model.PhoneNumber, error) {
	if m.ListPhoneNumbersFunc != nil {
		return m.ListPhoneNumbersFunc(ctx)
	}
	return nil, nil
}

func (m *mockStore) DeletePhoneNumber(ctx context.Context, id uint) error {
	if m.DeletePhoneNumberFunc != nil {
		return m.DeletePhoneNumberFunc(ctx, id)
	}
	return nil
}

func (m *mockStore) CreateKnowledgeFile(ctx context.Context, file *model.KnowledgeFile) error {
	if m.CreateKnowledgeFileFunc != nil {
		return m.CreateKnowledgeFileFunc(ctx, file)
	}
	return nil
}

func (m *mockStore) GetKnowledgeFile(ctx context.Context, id uint) (*model.KnowledgeFile, error) {
	if m.GetKnowledgeFileFunc != nil {
		return m.GetKnowledgeFileFunc(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockStore) ListKnowledgeFilesByClinic(ctx context.Context, clinicID uint) ([]model.KnowledgeFile, error) {
	if m.ListKnowledgeFilesByClinicFunc != nil {
		return m.ListKnowledgeFilesByClinicFunc(ctx, clinicID)
	}
	return nil, nil
}

func (m *mockStore) DeleteKnowledgeFile(ctx context.Context, id uint) error {
	if m.DeleteKnowledgeFileFunc != nil {
		return m.DeleteKnowledgeFileFunc(ctx, id)
	}
	return nil
}

func (m *mockStore) ListRecentCallRecords(ctx context.Context, clinicID uint, limit int) ([]model.CallRecord, error) {
	if m.ListRecentCallRecordsFunc != nil {
		return m.ListRecentCallRecordsFunc(ctx, clinicID, limit)
	}
	return nil, nil
}

func (m *mockStore) GetSetting(ctx context.Context, name string) (*model.Setting, error) {
	if m.GetSettingFunc != nil {
		return m.GetSettingFunc(ctx, name)
	}
	return nil, store.ErrNotFound
}

func (m *mockStore) UpsertSetting(ctx context.Context, setting *model.Setting) error {
	if m.UpsertSettingFunc != nil {
		return m.UpsertSettingFunc(ctx, setting)
	}
	return nil
}

func (m *mockStore) Counts(ctx context.Context) (store.Counts, error) {
	if m.CountsFunc != nil {
		return m.CountsFunc(ctx)
	}
	return store.Counts{}, nil
}

func (m *mockStore) CountCallRecordsSince(ctx context.Context, since time.Time) (int64, error) {
	if m.CountCallRecordsSinceFunc != nil {
		return m.CountCallRecordsSinceFunc(ctx, since)
	}
	return 0, nil
}

// mockVapiClient implements vapi.Client with per-method function fields.
// Unset methods succeed with minimal fixed responses.
type mockVapiClient struct {
	CreateAssistantFunc       func(ctx context.Context, req vapi.AssistantRequest) (*vapi.Assistant, error)
	GetAssistantFunc          func(ctx context.Context, assistantID string) (*vapi.Assistant, error)
	UpdateAssistantPromptFunc func(ctx context.Context, assistantID, prompt string) error
	UpdateKnowledgeBaseFunc   func(ctx context.Context, assistantID string, fileIDs []string) error
	DeleteAssistantFunc       func(ctx context.Context, assistantID string) error

	CreatePhoneNumberFunc func(ctx context.Context, areaCode string) (*vapi.PhoneNumber, error)
	AssignPhoneNumberFunc func(ctx context.Context, phoneID, assistantID string) error
	DeletePhoneNumberFunc func(ctx context.Context, phoneID string) error

	UploadFileFunc func(ctx context.Context, filename string, content io.Reader) (*vapi.File, error)
	DeleteFileFunc func(ctx context.Context, fileID string) error

	ListCallsFunc func(ctx context.Context, assistantID string) ([]vapi.Call, error)
}

var _ vapi.Client = (*mockVapiClient)(nil)

func (m *mockVapiClient) CreateAssistant(ctx context.Context, req vapi.AssistantRequest) (*vapi.Assistant, error) {
	if m.CreateAssistantFunc != nil {
		return m.CreateAssistantFunc(ctx, req)
	}
	return &vapi.Assistant{ID: "asst-mock", Name: req.Name, Model: req.Model}, nil
}

func (m *mockVapiClient) GetAssistant(ctx context.Context, assistantID string) (*vapi.Assistant, error) {
	if m.GetAssistantFunc != nil {
		return m.GetAssistantFunc(ctx, assistantID)
	}
	return &vapi.Assistant{ID: assistantID}, nil
}

func (m *mockVapiClient) UpdateAssistantPrompt(ctx context.Context, assistantID, prompt string) error {
	if m.UpdateAssistantPromptFunc != nil {
		return m.UpdateAssistantPromptFunc(ctx, assistantID, prompt)
	}
	return nil
}

func (m *mockVapiClient) UpdateKnowledgeBase(ctx context.Context, assistantID string, fileIDs []string) error {
	if m.UpdateKnowledgeBaseFunc != nil {
		return m.UpdateKnowledgeBaseFunc(ctx, assistantID, fileIDs)
	}
	return nil
}

func (m *mockVapiClient) DeleteAssistant(ctx context.Context, assistantID string) error {
	if m.DeleteAssistantFunc != nil {
		return m.DeleteAssistantFunc(ctx, assistantID)
	}
	return nil
}

func (m *mockVapiClient) CreatePhoneNumber(ctx context.Context, areaCode string) (*vapi.PhoneNumber, error) {
	if m.CreatePhoneNumberFunc != nil {
		return m.CreatePhoneNumberFunc(ctx, areaCode)
	}
	return &vapi.PhoneNumber{ID: "phone-mock", Number: "+1" + areaCode + "5550100"}, nil
}

func (m *mockVapiClient) AssignPhoneNumber(ctx context.Context, phoneID, assistantID string) error {
	if m.AssignPhoneNumberFunc != nil {
		return m.AssignPhoneNumberFunc(ctx, phoneID, assistantID)
	}
	return nil
}

func (m *mockVapiClient) DeletePhoneNumber(ctx context.Context, phoneID string) error {
	if m.DeletePhoneNumberFunc != nil {
		return m.DeletePhoneNumberFunc(ctx, phoneID)
	}
	return nil
}

func (m *mockVapiClient) UploadFile(ctx context.Context, filename string, content io.Reader) (*vapi.File, error) {
	if m.UploadFileFunc != nil {
		return m.UploadFileFunc(ctx, filename, content)
	}
	return &vapi.File{ID: "file-mock", Name: filename}, nil
}

func (m *mockVapiClient) DeleteFile(ctx context.Context, fileID string) error {
	if m.DeleteFileFunc != nil {
		return m.DeleteFileFunc(ctx, fileID)
	}
	return nil
}

func (m *mockVapiClient) ListCalls(ctx context.Context, assistantID string) ([]vapi.Call, error) {
	if m.ListCallsFunc != nil {
		return m.ListCallsFunc(ctx, assistantID)
	}
	return nil, nil
}

// newTestService wires a service around the given mocks with a no-op logger.
func newTestService(st *mockStore, client *mockVapiClient) *Service {
	return NewService(st, client, zap.NewNop())
}
