package prometheus

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Counter metrics
var (
	// Registration and login counters
	RegisterCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "clinicvoice_register_total",
			Help: "Total number of clinic registrations",
		},
	)

	LoginCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "clinicvoice_login_total",
			Help: "Total number of login attempts",
		},
	)

	// Provisioning counters by resource and outcome
	ProvisionCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinicvoice_provision_total",
			Help: "Total number of provisioning operations by resource and outcome",
		},
		[]string{"resource", "outcome"}, // resource: "assistant", "phone", "file"
	)

	// Phone fallback counter
	PhoneFallbackCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "clinicvoice_phone_fallback_total",
			Help: "Total number of phone provisions granted on a fallback area code",
		},
	)

	// Clinic teardown counter
	ClinicDeletionCounter = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "clinicvoice_clinic_deletions_total",
			Help: "Total number of clinic cascading deletions",
		},
	)

	// HTTP request counter by endpoint and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinicvoice_http_requests_total",
			Help: "Total number of HTTP requests by endpoint and status",
		},
		[]string{"endpoint", "method", "status"},
	)

	// Error counters
	AuthErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinicvoice_auth_errors_total",
			Help: "Total number of authentication errors",
		},
		[]string{"type"}, // type can be "invalid_token", "missing_token", "admin_required" etc.
	)

	// Voice platform error counter
	VapiErrorCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "clinicvoice_vapi_errors_total",
			Help: "Total number of voice platform call failures",
		},
		[]string{"operation"},
	)
)

// Histogram metrics
var (
	// Request duration
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clinicvoice_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"endpoint", "method", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "clinicvoice_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // operation can be "query", "insert", "update", "delete"
	)
)

// Gauge metrics
var (
	// Active clinics
	ActiveClinicsGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "clinicvoice_active_clinics",
			Help: "Number of registered clinics",
		},
	)

	// System info
	InfoGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "clinicvoice_info",
			Help: "Information about the clinicvoice service",
		},
		[]string{"version"},
	)
)

func init() {
	// Register counters
	prometheus.MustRegister(RegisterCounter)
	prometheus.MustRegister(LoginCounter)
	prometheus.MustRegister(ProvisionCounter)
	prometheus.MustRegister(PhoneFallbackCounter)
	prometheus.MustRegister(ClinicDeletionCounter)
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(AuthErrorCounter)
	prometheus.MustRegister(VapiErrorCounter)

	// Register histograms
	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)

	// Register gauges
	prometheus.MustRegister(ActiveClinicsGauge)
	prometheus.MustRegister(InfoGauge)

	// Set initial service info
	InfoGauge.With(prometheus.Labels{"version": "1.0.0"}).Set(1)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations
func TrackDBOperation(operation string) func(time.Time) {
	startTime := time.Now()
	return func(endTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(duration)
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Execute the request handler
			err := next(c)

			// Record request duration
			duration := time.Since(start).Seconds()
			status := strconv.Itoa(c.Response().Status)
			endpoint := c.Path()
			method := c.Request().Method

			RequestDuration.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Observe(duration)

			HTTPRequestCounter.With(prometheus.Labels{
				"endpoint": endpoint,
				"method":   method,
				"status":   status,
			}).Inc()

			return err
		}
	}
}

// RecordAuthError records an authentication error by type
func RecordAuthError(errorType string) {
	AuthErrorCounter.With(prometheus.Labels{"type": errorType}).Inc()
}

// RecordVapiError records a voice platform call failure by operation
func RecordVapiError(operation string) {
	VapiErrorCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordProvision records a provisioning operation outcome
func RecordProvision(resource, outcome string) {
	ProvisionCounter.With(prometheus.Labels{"resource": resource, "outcome": outcome}).Inc()
}
