package provision

import (
	"github.com/suteetoe/clinicvoice/internal/store"
	"github.com/suteetoe/clinicvoice/internal/vapi"
	"go.uber.org/zap"
)

// Service orchestrates the multi-step workflows against the voice
// platform and reconciles local reference records afterward.
type Service struct {
	store  store.Store
	client vapi.Client
	log    *zap.Logger
}

// NewService creates a provisioning service.
func NewService(st store.Store, client vapi.Client, log *zap.Logger) *Service {
	return &Service{store: st, client: client, log: log}
}
