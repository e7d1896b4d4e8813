package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suteetoe/clinicvoice/internal/model"
	"github.com/suteetoe/clinicvoice/internal/store"
	"github.com/suteetoe/clinicvoice/pkg/jwtutil"
)

func TestListClinicsSummarizesReferences(t *testing.T) {
	st := &mockStore{
		ListClinicsFunc: func(ctx context.Context) ([]model.Clinic, error) {
			return []model.Clinic{
				{ID: 1, ClinicName: "Sunrise Clinic", Email: "sunrise@example.com"},
				{ID: 2, ClinicName: "Moonlight Clinic", Email: "moon@example.com"},
			}, nil
		},
		ListAssistantsFunc: func(ctx context.Context) ([]model.Assistant, error) {
			return []model.Assistant{{ID: 10, ClinicID: 1, VapiAssistantID: "asst-1"}}, nil
		},
		ListPhoneNumbersFunc: func(ctx context.Context) ([]model.PhoneNumber, error) {
			return []model.PhoneNumber{{ID: 20, ClinicID: 1, PhoneNumber: "+16895550100", AreaCode: "689"}}, nil
		},
	}
	h := newTestHandler(st, &mockVapiClient{}, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/clinics", nil)
	c, rec := newContext(req)
	authed(c, 1, "admin@example.com", jwtutil.RoleAdmin)

	require.NoError(t, h.ListClinics(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	clinics := body["clinics"].([]any)
	require.Len(t, clinics, 2)

	first := clinics[0].(map[string]any)
	assert.Equal(t, true, first["hasAssistant"])
	assert.Equal(t, "+16895550100", first["phoneInfo"].(map[string]any)["phone_number"])

	second := clinics[1].(map[string]any)
	assert.Equal(t, false, second["hasAssistant"])
	assert.Nil(t, second["phoneInfo"])
}

func TestGetClinicDetailsUnknownClinic(t *testing.T) {
	h := newTestHandler(&mockStore{}, &mockVapiClient{}, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/clinics/99", nil)
	c, rec := newContext(req)
	c.SetParamNames("id")
	c.SetParamValues("99")
	authed(c, 1, "admin@example.com", jwtutil.RoleAdmin)

	require.NoError(t, h.GetClinicDetails(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteClinicReportsOrphans(t *testing.T) {
	st := &mockStore{
		GetClinicFunc: func(ctx context.Context, id uint) (*model.Clinic, error) {
			return &model.Clinic{ID: id, ClinicName: "Sunrise Clinic"}, nil
		},
		GetAssistantByClinicFunc: func(ctx context.Context, clinicID uint) (*model.Assistant, error) {
			return &model.Assistant{ID: 1, ClinicID: clinicID, VapiAssistantID: "asst-1"}, nil
		},
	}
	client := &mockVapiClient{
		DeleteAssistantFunc: func(ctx context.Context, assistantID string) error {
			return errors.New("platform timeout")
		},
	}
	h := newTestHandler(st, client, t.TempDir())

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/clinics/3", nil)
	c, rec := newContext(req)
	c.SetParamNames("id")
	c.SetParamValues("3")
	authed(c, 1, "admin@example.com", jwtutil.RoleAdmin)

	require.NoError(t, h.DeleteClinic(c))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decodeBody(t, rec)
	assert.Equal(t, "partially-committed", body["outcome"])
	orphans := body["orphanedResources"].([]any)
	require.Len(t, orphans, 1)
	assert.Equal(t, "assistant", orphans[0].(map[string]any)["kind"])
}

func TestDeleteClinicUnknown(t *testing.T) {
	h := newTestHandler(&mockStore{}, &mockVapiClient{}, t.TempDir())

	req := httptest.NewRequest(http.MethodDelete, "/api/admin/clinics/99", nil)
	c, rec := newContext(req)
	c.SetParamNames("id")
	c.SetParamValues("99")
	authed(c, 1, "admin@example.com", jwtutil.RoleAdmin)

	require.NoError(t, h.DeleteClinic(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetStatsTotals(t *testing.T) {
	st := &mockStore{
		CountsFunc: func(ctx context.Context) (store.Counts, error) {
			return store.Counts{Clinics: 5, Assistants: 4, Phones: 3, Calls: 120}, nil
		},
		CountCallRecordsSinceFunc: func(ctx context.Context, since time.Time) (int64, error) {
			return 17, nil
		},
	}
	h := newTestHandler(st, &mockVapiClient{}, t.TempDir())

	req := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
	c, rec := newContext(req)
	authed(c, 1, "admin@example.com", jwtutil.RoleAdmin)

	require.NoError(t, h.GetStats(c))
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody(t, rec)
	assert.Equal(t, float64(5), body["totalClinics"])
	assert.Equal(t, float64(120), body["totalCalls"])
	assert.Equal(t, float64(17), body["recentCalls"])
}
