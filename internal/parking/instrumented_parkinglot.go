package parking

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"parking-allocator/internal/logging"
	"parking-allocator/internal/telemetry"
)

type InstrumentedParkingLot struct {
	*ParkingLot
	telemetry *telemetry.Provider

	// Metrics
	parkingOperations metric.Int64Counter
	leavingOperations metric.Int64Counter
	queryOperations   metric.Int64Counter
	occupancyGauge    metric.Int64UpDownCounter
	operationDuration metric.Float64Histogram
	totalSlotsGauge   metric.Int64UpDownCounter
}

func NewInstrumentedParkingLot(capacity int, telemetry *telemetry.Provider) (*InstrumentedParkingLot, error) {
	baseParkingLot, err := NewParkingLot(capacity)
	if err != nil {
		return nil, err
	}

	meter := telemetry.Meter()

	parkingOperations, err := meter.Int64Counter("parking_operations_total",
		metric.WithDescription("Total number of parking operations"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	leavingOperations, err := meter.Int64Counter("leaving_operations_total",
		metric.WithDescription("Total number of leaving operations"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	queryOperations, err := meter.Int64Counter("query_operations_total",
		metric.WithDescription("Total number of lookup operations"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	occupancyGauge, err := meter.Int64UpDownCounter("parking_lot_occupancy",
		metric.WithDescription("Current number of occupied parking slots"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	operationDuration, err := meter.Float64Histogram("operation_duration_seconds",
		metric.WithDescription("Duration of parking lot operations"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}

	totalSlotsGauge, err := meter.Int64UpDownCounter("parking_lot_total_slots",
		metric.WithDescription("Total number of parking slots"),
		metric.WithUnit("1"))
	if err != nil {
		return nil, err
	}

	ipl := &InstrumentedParkingLot{
		ParkingLot:        baseParkingLot,
		telemetry:         telemetry,
		parkingOperations: parkingOperations,
		leavingOperations: leavingOperations,
		queryOperations:   queryOperations,
		occupancyGauge:    occupancyGauge,
		operationDuration: operationDuration,
		totalSlotsGauge:   totalSlotsGauge,
	}

	totalSlotsGauge.Add(context.Background(), int64(capacity))

	return ipl, nil
}

// Close withdraws this lot's contribution to the shared gauges. Call it when
// the lot is replaced.
func (ipl *InstrumentedParkingLot) Close(ctx context.Context) {
	ipl.totalSlotsGauge.Add(ctx, -int64(ipl.Capacity()))
	ipl.occupancyGauge.Add(ctx, -int64(ipl.Capacity()-ipl.ParkingLot.Available()))
}

func (ipl *InstrumentedParkingLot) Park(ctx context.Context, vehicleID string, driverAge int) (int, error) {
	tracer := ipl.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "parking_lot.park",
		trace.WithAttributes(
			attribute.String("vehicle.id", vehicleID),
			attribute.Int("vehicle.driver_age", driverAge),
		))
	defer span.End()

	start := time.Now()

	span.AddEvent("finding_available_slot")

	slotNumber, err := ipl.ParkingLot.Park(NewVehicle(vehicleID, driverAge))

	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{
		attribute.String("operation", "park"),
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		labels = append(labels,
			attribute.String("status", "failed"),
			attribute.String("reason", failureReason(err)),
		)
		logging.Warn(ctx, "park rejected", "vehicle_id", vehicleID, "error", err)
	} else {
		labels = append(labels, attribute.String("status", "success"))
		span.SetAttributes(attribute.Int("allocated_slot_number", slotNumber))
		span.AddEvent("slot_allocated", trace.WithAttributes(
			attribute.Int("slot_number", slotNumber),
		))
		ipl.occupancyGauge.Add(ctx, 1)
		logging.Debug(ctx, "vehicle parked", "vehicle_id", vehicleID, "slot", slotNumber)
	}

	ipl.parkingOperations.Add(ctx, 1, metric.WithAttributes(labels...))
	ipl.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return slotNumber, err
}

func (ipl *InstrumentedParkingLot) Leave(ctx context.Context, slotNumber int) (*Vehicle, error) {
	tracer := ipl.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "parking_lot.leave",
		trace.WithAttributes(
			attribute.Int("slot_number", slotNumber),
		))
	defer span.End()

	start := time.Now()

	span.AddEvent("releasing_slot")

	vehicle, err := ipl.ParkingLot.Leave(slotNumber)

	duration := time.Since(start).Seconds()

	labels := []attribute.KeyValue{
		attribute.String("operation", "leave"),
	}

	switch {
	case errors.Is(err, ErrAlreadyVacant):
		// Informational: the caller asked for a state that already holds.
		span.AddEvent("slot_already_vacant")
		labels = append(labels, attribute.String("status", "already_vacant"))
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		labels = append(labels,
			attribute.String("status", "failed"),
			attribute.String("reason", failureReason(err)),
		)
		logging.Warn(ctx, "leave rejected", "slot", slotNumber, "error", err)
	default:
		span.SetAttributes(
			attribute.String("vehicle.id", vehicle.ID),
			attribute.Int("vehicle.driver_age", vehicle.DriverAge),
		)
		span.AddEvent("slot_released")
		labels = append(labels, attribute.String("status", "success"))
		ipl.occupancyGauge.Add(ctx, -1)
		logging.Debug(ctx, "slot vacated", "vehicle_id", vehicle.ID, "slot", slotNumber)
	}

	ipl.leavingOperations.Add(ctx, 1, metric.WithAttributes(labels...))
	ipl.operationDuration.Record(ctx, duration, metric.WithAttributes(labels...))

	return vehicle, err
}

func (ipl *InstrumentedParkingLot) VehiclesByDriverAge(ctx context.Context, age int) []string {
	ctx, span, done := ipl.startQuery(ctx, "vehicles_by_driver_age",
		attribute.Int("driver_age", age))
	defer span.End()

	vehicleIDs := ipl.ParkingLot.VehiclesByDriverAge(age)

	span.SetAttributes(attribute.Int("result_count", len(vehicleIDs)))
	done(ctx, len(vehicleIDs) > 0)

	return vehicleIDs
}

func (ipl *InstrumentedParkingLot) SlotsByDriverAge(ctx context.Context, age int) []int {
	ctx, span, done := ipl.startQuery(ctx, "slots_by_driver_age",
		attribute.Int("driver_age", age))
	defer span.End()

	slotNumbers := ipl.ParkingLot.SlotsByDriverAge(age)

	span.SetAttributes(attribute.Int("result_count", len(slotNumbers)))
	done(ctx, len(slotNumbers) > 0)

	return slotNumbers
}

func (ipl *InstrumentedParkingLot) SlotByVehicle(ctx context.Context, vehicleID string) (int, bool) {
	ctx, span, done := ipl.startQuery(ctx, "slot_by_vehicle",
		attribute.String("vehicle.id", vehicleID))
	defer span.End()

	slotNumber, found := ipl.ParkingLot.SlotByVehicle(vehicleID)

	if found {
		span.SetAttributes(attribute.Int("found_slot_number", slotNumber))
		span.AddEvent("vehicle_found")
	} else {
		span.AddEvent("vehicle_not_found")
	}
	done(ctx, found)

	return slotNumber, found
}

func (ipl *InstrumentedParkingLot) Status(ctx context.Context) []*Slot {
	ctx, span, done := ipl.startQuery(ctx, "status")
	defer span.End()

	occupiedSlots := ipl.ParkingLot.Status()

	span.SetAttributes(
		attribute.Int("occupied_slots_count", len(occupiedSlots)),
		attribute.Int("total_capacity", ipl.Capacity()),
	)
	done(ctx, len(occupiedSlots) > 0)

	return occupiedSlots
}

// startQuery opens a span for a read-only lookup. The returned func records
// the query counter and duration; found distinguishes hits from empty results.
func (ipl *InstrumentedParkingLot) startQuery(ctx context.Context, operation string, attrs ...attribute.KeyValue) (context.Context, trace.Span, func(context.Context, bool)) {
	ctx, span := ipl.telemetry.Tracer().Start(ctx, "parking_lot."+operation, trace.WithAttributes(attrs...))
	start := time.Now()

	return ctx, span, func(ctx context.Context, found bool) {
		status := "empty"
		if found {
			status = "found"
		}
		labels := metric.WithAttributes(
			attribute.String("operation", operation),
			attribute.String("status", status),
		)
		ipl.queryOperations.Add(ctx, 1, labels)
		ipl.operationDuration.Record(ctx, time.Since(start).Seconds(), labels)
	}
}

func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrAlreadyParked):
		return "already_parked"
	case errors.Is(err, ErrLotFull):
		return "lot_full"
	case errors.Is(err, ErrSlotOutOfRange):
		return "slot_out_of_range"
	default:
		return "unknown"
	}
}
