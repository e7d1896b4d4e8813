package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	mw "github.com/suteetoe/clinicvoice/internal/middleware"
	"github.com/suteetoe/clinicvoice/internal/provision"
	"github.com/suteetoe/clinicvoice/internal/store"
	"github.com/suteetoe/clinicvoice/internal/vapi"
	"github.com/suteetoe/clinicvoice/pkg/config"
	"github.com/suteetoe/clinicvoice/pkg/jwtutil"
	"github.com/suteetoe/clinicvoice/prometheus"
	"go.uber.org/zap"
)

// Handler carries the dependencies shared by all HTTP handlers.
type Handler struct {
	store  store.Store
	svc    *provision.Service
	client vapi.Client
	cfg    *config.Config
}

// New creates the handler set.
func New(st store.Store, svc *provision.Service, client vapi.Client, cfg *config.Config) *Handler {
	return &Handler{store: st, svc: svc, client: client, cfg: cfg}
}

// errMissingClaims signals that a handler ran without session claims in
// the context. The 401 is already written when it is returned.
var errMissingClaims = errors.New("authentication claims missing from context")

// claims extracts the session claims put in place by AuthMiddleware.
// When the claims are absent it writes the 401 response itself and
// returns a non-nil error so callers stop without touching the nil
// claims.
func claims(c echo.Context) (*jwtutil.ClinicClaims, error) {
	cl, ok := mw.ClaimsFromEcho(c)
	if !ok {
		if err := c.JSON(http.StatusUnauthorized, echo.Map{"error": "authentication required"}); err != nil {
			return nil, err
		}
		return nil, errMissingClaims
	}
	return cl, nil
}

// vapiError maps a voice platform failure to a response. An upstream
// credential rejection surfaces as a generic 500 so credential state is
// not leaked to clients.
func vapiError(c echo.Context, log *zap.Logger, operation string, err error, genericMsg string) error {
	prometheus.RecordVapiError(operation)
	if errors.Is(err, vapi.ErrUnauthorized) {
		log.Error("voice platform rejected service credential", zap.String("operation", operation))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "voice platform authentication failed"})
	}
	log.Error("voice platform call failed", zap.String("operation", operation), zap.Error(err))
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": genericMsg})
}
