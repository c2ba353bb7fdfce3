package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"parking-allocator/internal/logging"
	"parking-allocator/internal/parking"
	"parking-allocator/internal/telemetry"
)

const msgNoLot = "Parking lot not created. Create parking lot first"

type Handler struct {
	serviceName string
	telemetry   *telemetry.Provider

	mu         sync.RWMutex
	parkingLot *parking.InstrumentedParkingLot
}

func NewHandler(serviceName string, telemetry *telemetry.Provider) *Handler {
	return &Handler{
		serviceName: serviceName,
		telemetry:   telemetry,
	}
}

// lot returns the current parking lot, or nil before one is created.
func (h *Handler) lot() *parking.InstrumentedParkingLot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.parkingLot
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Service: h.serviceName,
		Meta:    extractMeta(r.Context()),
	})
}

func (h *Handler) CreateParkingLot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var req ParkingLotCreateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	parkingLot, err := parking.NewInstrumentedParkingLot(req.Capacity, h.telemetry)
	if errors.Is(err, parking.ErrInvalidCapacity) {
		WriteError(ctx, w, http.StatusBadRequest, "Capacity must be greater than 0")
		return
	}
	if err != nil {
		logging.Error(ctx, "creating parking lot", "capacity", req.Capacity, "error", err)
		WriteError(ctx, w, http.StatusInternalServerError, "Failed to create parking lot")
		return
	}

	h.mu.Lock()
	previous := h.parkingLot
	h.parkingLot = parkingLot
	h.mu.Unlock()

	if previous != nil {
		previous.Close(ctx)
	}

	logging.Info(ctx, "parking lot created", "capacity", req.Capacity)
	WriteSuccess(ctx, w, parking.CreatedMessage(req.Capacity), map[string]any{
		"capacity": req.Capacity,
	})
}

func (h *Handler) ParkVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	parkingLot := h.lot()
	if parkingLot == nil {
		WriteError(ctx, w, http.StatusBadRequest, msgNoLot)
		return
	}

	var req ParkVehicleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.VehicleID == "" || req.DriverAge <= 0 {
		WriteError(ctx, w, http.StatusBadRequest, "vehicle_id and a positive driver_age are required")
		return
	}

	slotNumber, err := parkingLot.Park(ctx, req.VehicleID, req.DriverAge)
	if err != nil {
		WriteError(ctx, w, http.StatusConflict, parking.ParkMessage(req.VehicleID, slotNumber, err))
		return
	}

	WriteSuccess(ctx, w, parking.ParkMessage(req.VehicleID, slotNumber, nil), ParkVehicleResponse{
		SlotNumber: slotNumber,
		VehicleID:  req.VehicleID,
		DriverAge:  req.DriverAge,
	})
}

func (h *Handler) LeaveSlot(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	parkingLot := h.lot()
	if parkingLot == nil {
		WriteError(ctx, w, http.StatusBadRequest, msgNoLot)
		return
	}

	var req LeaveSlotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(ctx, w, http.StatusBadRequest, "Invalid request body")
		return
	}

	vehicle, err := parkingLot.Leave(ctx, req.SlotNumber)
	message := parking.LeaveMessage(req.SlotNumber, vehicle, err)

	switch {
	case errors.Is(err, parking.ErrAlreadyVacant):
		WriteSuccess(ctx, w, message, LeaveSlotResponse{
			SlotNumber: req.SlotNumber,
			Vacant:     true,
		})
	case err != nil:
		WriteError(ctx, w, http.StatusBadRequest, message)
	default:
		WriteSuccess(ctx, w, message, LeaveSlotResponse{
			SlotNumber: req.SlotNumber,
			VehicleID:  vehicle.ID,
			DriverAge:  vehicle.DriverAge,
		})
	}
}

func (h *Handler) GetStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	parkingLot := h.lot()
	if parkingLot == nil {
		WriteError(ctx, w, http.StatusBadRequest, msgNoLot)
		return
	}

	occupiedSlots := parkingLot.Status(ctx)
	capacity := parkingLot.Capacity()

	slots := make([]SlotStatus, capacity)
	for i := range slots {
		slots[i] = SlotStatus{SlotNumber: i + 1}
	}
	for _, occupiedSlot := range occupiedSlots {
		slot := &slots[occupiedSlot.Number-1]
		slot.Occupied = true
		slot.VehicleID = occupiedSlot.Vehicle.ID
		slot.DriverAge = occupiedSlot.Vehicle.DriverAge
	}

	WriteSuccess(ctx, w, "Status retrieved successfully", StatusResponse{
		Capacity:  capacity,
		Occupied:  len(occupiedSlots),
		Available: capacity - len(occupiedSlots),
		Slots:     slots,
	})
}

func (h *Handler) VehiclesByDriverAge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	parkingLot, age, ok := h.driverAgeRequest(ctx, w, r)
	if !ok {
		return
	}

	vehicleIDs := parkingLot.VehiclesByDriverAge(ctx, age)
	WriteSuccess(ctx, w, parking.VehiclesByAgeMessage(age, vehicleIDs), DriverVehiclesResponse{
		DriverAge:  age,
		VehicleIDs: vehicleIDs,
	})
}

func (h *Handler) SlotsByDriverAge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	parkingLot, age, ok := h.driverAgeRequest(ctx, w, r)
	if !ok {
		return
	}

	slotNumbers := parkingLot.SlotsByDriverAge(ctx, age)
	WriteSuccess(ctx, w, parking.SlotsByAgeMessage(age, slotNumbers), DriverSlotsResponse{
		DriverAge:   age,
		SlotNumbers: slotNumbers,
	})
}

func (h *Handler) SlotByVehicle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	parkingLot := h.lot()
	if parkingLot == nil {
		WriteError(ctx, w, http.StatusBadRequest, msgNoLot)
		return
	}

	vehicleID := chi.URLParam(r, "vehicleID")
	if vehicleID == "" {
		WriteError(ctx, w, http.StatusBadRequest, "Vehicle id is required")
		return
	}

	slotNumber, found := parkingLot.SlotByVehicle(ctx, vehicleID)
	if !found {
		WriteError(ctx, w, http.StatusNotFound, parking.SlotByVehicleMessage(vehicleID, 0, false))
		return
	}

	WriteSuccess(ctx, w, "Vehicle found", FindVehicleResponse{
		SlotNumber: slotNumber,
		VehicleID:  vehicleID,
	})
}

// driverAgeRequest resolves the current lot and the {age} URL parameter,
// writing the error response itself when either is missing or invalid.
func (h *Handler) driverAgeRequest(ctx context.Context, w http.ResponseWriter, r *http.Request) (*parking.InstrumentedParkingLot, int, bool) {
	parkingLot := h.lot()
	if parkingLot == nil {
		WriteError(ctx, w, http.StatusBadRequest, msgNoLot)
		return nil, 0, false
	}

	age, err := strconv.Atoi(chi.URLParam(r, "age"))
	if err != nil || age <= 0 {
		WriteError(ctx, w, http.StatusBadRequest, "Driver age must be a positive integer")
		return nil, 0, false
	}

	return parkingLot, age, true
}
