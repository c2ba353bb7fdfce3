package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"parking-allocator/internal/logging"
	"parking-allocator/internal/telemetry"
)

type Server struct {
	httpServer *http.Server
	handler    *Handler
}

func NewServer(port, serviceName string, tp *telemetry.Provider) *Server {
	handler := NewHandler(serviceName, tp)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      NewRouter(handler, tp),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		httpServer: httpServer,
		handler:    handler,
	}
}

func NewRouter(handler *Handler, tp *telemetry.Provider) http.Handler {
	registry := newRegistry(handler)

	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(TracingMiddleware(handler.serviceName, tp))
	r.Use(LoggingMiddleware)
	r.Use(RecoveryMiddleware)
	r.Use(CORSMiddleware)

	r.Get("/health", handler.HealthCheck)
	r.Get("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}).ServeHTTP)

	r.Route("/api/parking-lot", func(r chi.Router) {
		r.Post("/", handler.CreateParkingLot)
		r.Post("/park", handler.ParkVehicle)
		r.Post("/leave", handler.LeaveSlot)
		r.Get("/status", handler.GetStatus)
		r.Get("/drivers/{age}/vehicles", handler.VehiclesByDriverAge)
		r.Get("/drivers/{age}/slots", handler.SlotsByDriverAge)
		r.Get("/vehicles/{vehicleID}/slot", handler.SlotByVehicle)
	})

	return r
}

func (s *Server) Start() error {
	logging.Info(context.Background(), "starting HTTP server", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info(ctx, "shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) GetAddress() string {
	return fmt.Sprintf("http://localhost%s", s.httpServer.Addr)
}
