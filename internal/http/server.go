package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"fleetplus/internal/cache"
	"fleetplus/internal/core"
	"fleetplus/internal/log"
	"fleetplus/internal/services"
	"fleetplus/internal/storage"
)

type Server struct {
	http.Server

	store   *storage.SQLiteRepository
	fleet   *services.FleetService
	reports *services.ReportService

	// Report bundles are expensive to assemble, so responses are cached per
	// plate and invalidated on any mutation that touches the vehicle.
	reportCache  *cache.LRUCache[core.VehicleReport]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and the report cache, returning a
// ready-to-run http.Server.
func NewServer(addr string, store *storage.SQLiteRepository, fleet *services.FleetService, reports *services.ReportService, cacheSize int, cacheTTL time.Duration) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		store:        store,
		fleet:        fleet,
		reports:      reports,
		reportCache:  cache.NewLRUCache[core.VehicleReport](cacheSize, cacheTTL),
		cacheManager: cache.NewManager(),
	}
	s.cacheManager.Register(s.reportCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/vehicles", s.log(s.handleCreateVehicle))
	mux.HandleFunc("GET /api/vehicles", s.log(s.handleListVehicles))
	mux.HandleFunc("GET /api/vehicles/{plate}", s.log(s.handleGetVehicle))
	mux.HandleFunc("PUT /api/vehicles/{plate}", s.log(s.handleUpdateVehicle))
	mux.HandleFunc("DELETE /api/vehicles/{plate}", s.log(s.handleDeleteVehicle))
	mux.HandleFunc("PUT /api/vehicles/{plate}/odometer", s.log(s.handleUpdateOdometer))

	mux.HandleFunc("GET /api/vehicles/{plate}/report", s.log(s.handleVehicleReport))
	mux.HandleFunc("GET /api/vehicles/{plate}/costs", s.log(s.handleVehicleCosts))
	mux.HandleFunc("GET /api/vehicles/{plate}/service-events", s.log(s.handleListVehicleServiceEvents))
	mux.HandleFunc("GET /api/vehicles/{plate}/obligations", s.log(s.handleListVehicleObligations))
	mux.HandleFunc("GET /api/vehicles/{plate}/expenses", s.log(s.handleListVehicleExpenses))
	mux.HandleFunc("GET /api/vehicles/{plate}/invoices", s.log(s.handleListVehicleInvoices))

	mux.HandleFunc("POST /api/component-types", s.log(s.handleCreateComponentType))
	mux.HandleFunc("GET /api/component-types", s.log(s.handleListComponentTypes))
	mux.HandleFunc("GET /api/component-types/{id}", s.log(s.handleGetComponentType))
	mux.HandleFunc("PUT /api/component-types/{id}", s.log(s.handleUpdateComponentType))
	mux.HandleFunc("DELETE /api/component-types/{id}", s.log(s.handleDeleteComponentType))
	mux.HandleFunc("GET /api/component-types/{id}/products", s.log(s.handleListComponentTypeProducts))

	mux.HandleFunc("POST /api/products", s.log(s.handleCreateProduct))
	mux.HandleFunc("GET /api/products", s.log(s.handleListProducts))
	mux.HandleFunc("GET /api/products/{id}", s.log(s.handleGetProduct))
	mux.HandleFunc("PUT /api/products/{id}", s.log(s.handleUpdateProduct))
	mux.HandleFunc("DELETE /api/products/{id}", s.log(s.handleDeleteProduct))

	mux.HandleFunc("POST /api/service-events", s.log(s.handleCreateServiceEvent))
	mux.HandleFunc("GET /api/service-events/{id}", s.log(s.handleGetServiceEvent))
	mux.HandleFunc("PUT /api/service-events/{id}", s.log(s.handleUpdateServiceEvent))
	mux.HandleFunc("DELETE /api/service-events/{id}", s.log(s.handleDeleteServiceEvent))
	mux.HandleFunc("GET /api/service-events/{id}/projection", s.log(s.handleServiceEventProjection))

	mux.HandleFunc("POST /api/obligations", s.log(s.handleCreateObligation))
	mux.HandleFunc("GET /api/obligations/{id}", s.log(s.handleGetObligation))
	mux.HandleFunc("PUT /api/obligations/{id}", s.log(s.handleUpdateObligation))
	mux.HandleFunc("DELETE /api/obligations/{id}", s.log(s.handleDeleteObligation))
	mux.HandleFunc("GET /api/obligations/{id}/status", s.log(s.handleObligationStatus))

	mux.HandleFunc("POST /api/suppliers", s.log(s.handleCreateSupplier))
	mux.HandleFunc("GET /api/suppliers", s.log(s.handleListSuppliers))
	mux.HandleFunc("GET /api/suppliers/{id}", s.log(s.handleGetSupplier))
	mux.HandleFunc("PUT /api/suppliers/{id}", s.log(s.handleUpdateSupplier))
	mux.HandleFunc("DELETE /api/suppliers/{id}", s.log(s.handleDeleteSupplier))
	mux.HandleFunc("GET /api/suppliers/{id}/invoices", s.log(s.handleListSupplierInvoices))

	mux.HandleFunc("POST /api/invoices", s.log(s.handleCreateInvoice))
	mux.HandleFunc("GET /api/invoices/{id}", s.log(s.handleGetInvoice))
	mux.HandleFunc("PUT /api/invoices/{id}", s.log(s.handleUpdateInvoice))
	mux.HandleFunc("DELETE /api/invoices/{id}", s.log(s.handleDeleteInvoice))

	mux.HandleFunc("POST /api/expenses", s.log(s.handleCreateExpense))
	mux.HandleFunc("GET /api/expenses/{id}", s.log(s.handleGetExpense))
	mux.HandleFunc("PUT /api/expenses/{id}", s.log(s.handleUpdateExpense))
	mux.HandleFunc("DELETE /api/expenses/{id}", s.log(s.handleDeleteExpense))

	return s
}

// log attaches a request ID and structured request logging to a handler.
func (s *Server) log(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			log.FieldComponent, log.ComponentHTTP,
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			"client_ip", clientIP)

		w.Header().Set("X-Content-Type-Options", "nosniff")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			log.FieldComponent, log.ComponentHTTP,
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, time.Since(start).Milliseconds())
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.store != nil {
		if err := s.store.Ping(r.Context()); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("database unavailable"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

// reportCacheKey scopes cached bundles to the reference day; obligation
// states depend on it, so yesterday's bundle must miss after midnight.
// Stale day entries age out through the cache TTL.
func reportCacheKey(plate string, today time.Time) string {
	return plate + "@" + core.FormatDate(today)
}

// invalidateReport drops the cached bundle for one vehicle.
func (s *Server) invalidateReport(plate string) {
	if plate == "" {
		return
	}
	s.reportCache.Delete(reportCacheKey(core.NormalizePlate(plate), time.Now()))
}

// Shutdown gracefully shuts down the server and cache cleanup.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
