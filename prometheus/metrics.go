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
	// HTTP request counter by service, method, route and status
	HTTPRequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retail_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"service", "method", "path", "status"},
	)

	// Tenant operation counter
	TenantOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retail_tenant_operations_total",
			Help: "Total number of tenant registry operations",
		},
		[]string{"operation"}, // "create", "list", "get", "provision"
	)

	// Provisioning failures by error kind
	ProvisioningFailureCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retail_provisioning_failures_total",
			Help: "Total number of failed schema provisioning attempts",
		},
		[]string{"kind"},
	)

	AuthOperationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "retail_auth_operations_total",
			Help: "Total number of authentication operations",
		},
		[]string{"operation", "result"},
	)
)

// Histogram metrics
var (
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "retail_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"service", "method", "path", "status"},
	)

	// Database operation duration
	DBOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "retail_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"}, // "query", "insert", "update", "delete"
	)

	// Schema creation plus table migration
	ProvisioningDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "retail_provisioning_duration_seconds",
			Help:    "Duration of tenant schema provisioning in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
	)
)

// Gauge metrics
var (
	RegisteredTenantsGauge = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "retail_tenants",
			Help: "Number of tenants in the registry by status",
		},
		[]string{"status"},
	)
)

func init() {
	prometheus.MustRegister(HTTPRequestCounter)
	prometheus.MustRegister(TenantOperationCounter)
	prometheus.MustRegister(ProvisioningFailureCounter)
	prometheus.MustRegister(AuthOperationCounter)

	prometheus.MustRegister(RequestDuration)
	prometheus.MustRegister(DBOperationDuration)
	prometheus.MustRegister(ProvisioningDuration)

	prometheus.MustRegister(RegisteredTenantsGauge)
}

// GetPrometheusHandler returns an HTTP handler for the Prometheus metrics
func GetPrometheusHandler() http.Handler {
	return promhttp.Handler()
}

// TrackDBOperation measures database operation durations.
// Usage: defer TrackDBOperation("query")(time.Now())
func TrackDBOperation(operation string) func(time.Time) {
	return func(start time.Time) {
		DBOperationDuration.With(prometheus.Labels{
			"operation": operation,
		}).Observe(time.Since(start).Seconds())
	}
}

// TrackProvisioning observes the duration of one provisioning attempt
func TrackProvisioning() func(time.Time) {
	return func(start time.Time) {
		ProvisioningDuration.Observe(time.Since(start).Seconds())
	}
}

// MetricsMiddleware creates a middleware function that captures metrics for each request
func MetricsMiddleware(service string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			err := next(c)

			labels := prometheus.Labels{
				"service": service,
				"method":  c.Request().Method,
				"path":    c.Path(),
				"status":  strconv.Itoa(c.Response().Status),
			}
			RequestDuration.With(labels).Observe(time.Since(start).Seconds())
			HTTPRequestCounter.With(labels).Inc()

			return err
		}
	}
}

// RecordTenantOperation records a tenant operation
func RecordTenantOperation(operation string) {
	TenantOperationCounter.With(prometheus.Labels{"operation": operation}).Inc()
}

// RecordProvisioningFailure records a failed provisioning attempt by error kind
func RecordProvisioningFailure(kind string) {
	ProvisioningFailureCounter.With(prometheus.Labels{"kind": kind}).Inc()
}

// RecordAuthOperation records an authentication operation and its outcome
func RecordAuthOperation(operation, result string) {
	AuthOperationCounter.With(prometheus.Labels{"operation": operation, "result": result}).Inc()
}

// UpdateTenantCounts sets the registered tenant gauge per status
func UpdateTenantCounts(registered, provisioned int64) {
	RegisteredTenantsGauge.With(prometheus.Labels{"status": "registered"}).Set(float64(registered))
	RegisteredTenantsGauge.With(prometheus.Labels{"status": "provisioned"}).Set(float64(provisioned))
}
