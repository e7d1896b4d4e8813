package store

import (
	"context"
	"errors"
	"time"

	"github.com/suteetoe/clinicvoice/internal/model"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore implements the Store interface on top of gorm.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a new GormStore.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

var _ Store = (*GormStore)(nil)

// --- Clinics ---

func (s *GormStore) CreateClinic(ctx context.Context, clinic *model.Clinic) error {
	result := s.db.WithContext(ctx).Create(clinic)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return result.Error
	}
	return nil
}

func (s *GormStore) GetClinic(ctx context.Context, id uint) (*model.Clinic, error) {
	var clinic model.Clinic
	if result := s.db.WithContext(ctx).First(&clinic, id); result.Error != nil {
		return nil, translate(result.Error)
	}
	return &clinic, nil
}

func (s *GormStore) GetClinicByEmail(ctx context.Context, email string) (*model.Clinic, error) {
	var clinic model.Clinic
	if result := s.db.WithContext(ctx).Where("email = ?", email).First(&clinic); result.Error != nil {
		return nil, translate(result.Error)
	}
	return &clinic, nil
}

func (s *GormStore) ListClinics(ctx context.Context) ([]model.Clinic, error) {
	var clinics []model.Clinic
	if result := s.db.WithContext(ctx).Order("created_at DESC").Find(&clinics); result.Error != nil {
		return nil, result.Error
	}
	return clinics, nil
}

func (s *GormStore) DeleteClinicCascade(ctx context.Context, clinicID uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var clinic model.Clinic
		if result := tx.First(&clinic, clinicID); result.Error != nil {
			return translate(result.Error)
		}

		if result := tx.Where("clinic_id = ?", clinicID).Delete(&model.Assistant{}); result.Error != nil {
			return result.Error
		}
		if result := tx.Where("clinic_id = ?", clinicID).Delete(&model.PhoneNumber{}); result.Error != nil {
			return result.Error
		}
		if result := tx.Where("clinic_id = ?", clinicID).Delete(&model.CallRecord{}); result.Error != nil {
			return result.Error
		}
		if result := tx.Where("clinic_id = ?", clinicID).Delete(&model.KnowledgeFile{}); result.Error != nil {
			return result.Error
		}
		if result := tx.Delete(&clinic); result.Error != nil {
			return result.Error
		}
		return nil
	})
}

// --- Assistants ---

func (s *GormStore) CreateAssistant(ctx context.Context, assistant *model.Assistant) error {
	result := s.db.WithContext(ctx).Create(assistant)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrDuplicate
		}
		return result.Error
	}
	return nil
}

func (s *GormStore) GetAssistantByClinic(ctx context.Context, clinicID uint) (*model.Assistant, error) {
	var assistant model.Assistant
	if result := s.db.WithContext(ctx).Where("clinic_id = ?", clinicID).First(&assistant); result.Error != nil {
		return nil, translate(result.Error)
	}
	return &assistant, nil
}

func (s *GormStore) ListAssistants(ctx context.Context) ([]model.Assistant, error) {
	var assistants []model.Assistant
	if result := s.db.WithContext(ctx).Find(&assistants); result.Error != nil {
		return nil, result.Error
	}
	return assistants, nil
}

// --- Phone numbers ---

func (s *GormStore) CreatePhoneNumber(ctx context.Context, phone *model.PhoneNumber) error {
	// Re-check uniqueness inside the transaction to close the race left
	// open by the handler-level existence check.
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.PhoneNumber
		result := tx.Where("clinic_id = ?", phone.ClinicID).First(&existing)
		if result.Error == nil {
			return ErrDuplicate
		}
		if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return result.Error
		}
		if result := tx.Create(phone); result.Error != nil {
			if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
				return ErrDuplicate
			}
			return result.Error
		}
		return nil
	})
}

func (s *GormStore) GetPhoneByClinic(ctx context.Context, clinicID uint) (*model.PhoneNumber, error) {
	var phone model.PhoneNumber
	if result := s.db.WithContext(ctx).Where("clinic_id = ?", clinicID).First(&phone); result.Error != nil {
		return nil, translate(result.Error)
	}
	return &phone, nil
}

func (s *GormStore) ListPhoneNumbers(ctx context.Context) ([]model.PhoneNumber, error) {
	var phones []model.PhoneNumber
	if result := s.db.WithContext(ctx).Find(&phones); result.Error != nil {
		return nil, result.Error
	}
	return phones, nil
}

func (s *GormStore) DeletePhoneNumber(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.PhoneNumber{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Knowledge files ---

func (s *GormStore) CreateKnowledgeFile(ctx context.Context, file *model.KnowledgeFile) error {
	return s.db.WithContext(ctx).Create(file).Error
}

func (s *GormStore) GetKnowledgeFile(ctx context.Context, id uint) (*model.KnowledgeFile, error) {
	var file model.KnowledgeFile
	if result := s.db.WithContext(ctx).First(&file, id); result.Error != nil {
		return nil, translate(result.Error)
	}
	return &file, nil
}

func (s *GormStore) ListKnowledgeFilesByClinic(ctx context.Context, clinicID uint) ([]model.KnowledgeFile, error) {
	var files []model.KnowledgeFile
	if result := s.db.WithContext(ctx).Where("clinic_id = ?", clinicID).Order("uploaded_at DESC").Find(&files); result.Error != nil {
		return nil, result.Error
	}
	return files, nil
}

func (s *GormStore) DeleteKnowledgeFile(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.KnowledgeFile{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// --- Call-record cache ---

func (s *GormStore) ListRecentCallRecords(ctx context.Context, clinicID uint, limit int) ([]model.CallRecord, error) {
	var records []model.CallRecord
	result := s.db.WithContext(ctx).
		Where("clinic_id = ?", clinicID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records)
	if result.Error != nil {
		return nil, result.Error
	}
	return records, nil
}

// --- Settings ---

func (s *GormStore) GetSetting(ctx context.Context, name string) (*model.Setting, error) {
	var setting model.Setting
	if result := s.db.WithContext(ctx).Where("name = ?", name).First(&setting); result.Error != nil {
		return nil, translate(result.Error)
	}
	return &setting, nil
}

func (s *GormStore) UpsertSetting(ctx context.Context, setting *model.Setting) error {
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at", "updated_by"}),
	}).Create(setting).Error
}

// --- Statistics ---

func (s *GormStore) Counts(ctx context.Context) (Counts, error) {
	var counts Counts
	db := s.db.WithContext(ctx)
	if result := db.Model(&model.Clinic{}).Count(&counts.Clinics); result.Error != nil {
		return counts, result.Error
	}
	if result := db.Model(&model.Assistant{}).Count(&counts.Assistants); result.Error != nil {
		return counts, result.Error
	}
	if result := db.Model(&model.PhoneNumber{}).Count(&counts.Phones); result.Error != nil {
		return counts, result.Error
	}
	if result := db.Model(&model.CallRecord{}).Count(&counts.Calls); result.Error != nil {
		return counts, result.Error
	}
	return counts, nil
}

func (s *GormStore) CountCallRecordsSince(ctx context.Context, since time.Time) (int64, error) {
	var count int64
	result := s.db.WithContext(ctx).Model(&model.CallRecord{}).Where("created_at >= ?", since).Count(&count)
	return count, result.Error
}

func translate(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
