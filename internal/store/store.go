package store

import (
	"context"
	"errors"
	"time"

	"github.com/suteetoe/clinicvoice/internal/model"
)

var ErrNotFound = errors.New("record not found")
var ErrDuplicate = errors.New("record already exists")

// Store is the data access interface. All database operations go through here.
type Store interface {
	// Clinics
	CreateClinic(ctx context.Context, clinic *model.Clinic) error
	GetClinic(ctx context.Context, id uint) (*model.Clinic, error)
	GetClinicByEmail(ctx context.Context, email string) (*model.Clinic, error)
	ListClinics(ctx context.Context) ([]model.Clinic, error)
	// DeleteClinicCascade removes the clinic row together with every
	// assistant, phone, call-record, and knowledge-file row that keys on
	// it, inside a single transaction.
	DeleteClinicCascade(ctx context.Context, clinicID uint) error

	// Assistants
	CreateAssistant(ctx context.Context, assistant *model.Assistant) error
	GetAssistantByClinic(ctx context.Context, clinicID uint) (*model.Assistant, error)
	ListAssistants(ctx context.Context) ([]model.Assistant, error)

	// Phone numbers
	// CreatePhoneNumber re-checks per-clinic uniqueness inside the
	// transaction immediately before writing.
	CreatePhoneNumber(ctx context.Context, phone *model.PhoneNumber) error
	GetPhoneByClinic(ctx context.Context, clinicID uint) (*model.PhoneNumber, error)
	ListPhoneNumbers(ctx context.Context) ([]model.PhoneNumber, error)
	DeletePhoneNumber(ctx context.Context, id uint) error

	// Knowledge files
	CreateKnowledgeFile(ctx context.Context, file *model.KnowledgeFile) error
	GetKnowledgeFile(ctx context.Context, id uint) (*model.KnowledgeFile, error)
	ListKnowledgeFilesByClinic(ctx context.Context, clinicID uint) ([]model.KnowledgeFile, error)
	DeleteKnowledgeFile(ctx context.Context, id uint) error

	// Call-record cache
	ListRecentCallRecords(ctx context.Context, clinicID uint, limit int) ([]model.CallRecord, error)

	// Settings
	GetSetting(ctx context.Context, name string) (*model.Setting, error)
	UpsertSetting(ctx context.Context, setting *model.Setting) error

	// Statistics
	Counts(ctx context.Context) (Counts, error)
	CountCallRecordsSince(ctx context.Context, since time.Time) (int64, error)
}

// Counts are the totals reported by the admin stats endpoint.
type Counts struct {
	Clinics    int64 `json:"totalClinics"`
	Assistants int64 `json:"totalAssistants"`
	Phones     int64 `json:"totalPhones"`
	Calls      int64 `json:"totalCalls"`
}
