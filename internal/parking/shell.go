package parking

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"parking-allocator/internal/logging"
	"parking-allocator/internal/telemetry"
)

// Shell reads one command per line and writes one response per line. It owns
// at most one lot at a time; Create_parking_lot replaces it.
type Shell struct {
	parkingLot *InstrumentedParkingLot
	telemetry  *telemetry.Provider
	out        io.Writer
}

func NewShell(telemetry *telemetry.Provider, out io.Writer) *Shell {
	return &Shell{
		telemetry: telemetry,
		out:       out,
	}
}

// Run executes every line of in until EOF or until ctx is cancelled.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	tracer := s.telemetry.Tracer()
	ctx, span := tracer.Start(ctx, "shell.run")
	defer span.End()

	span.AddEvent("shell_started")

	scanner := bufio.NewScanner(in)
	lines := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		input := scanner.Text()
		lines++

		cmdCtx, cmdSpan := tracer.Start(ctx, "shell.process_command",
			trace.WithAttributes(attribute.String("command.input", input)))
		fmt.Fprintln(s.out, s.Execute(cmdCtx, input))
		cmdSpan.End()
	}

	span.SetAttributes(attribute.Int("command.count", lines))
	span.AddEvent("shell_ended")

	if err := scanner.Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("reading commands: %w", err)
	}
	return nil
}

// Execute runs a single command line and returns the text to show for it.
func (s *Shell) Execute(ctx context.Context, input string) string {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return MsgEmptyLine
	}

	command := parts[0]
	trace.SpanFromContext(ctx).SetAttributes(attribute.String("command.name", command))

	if command == "Create_parking_lot" {
		return s.handleCreateParkingLot(ctx, parts)
	}

	// Nothing else runs until a lot exists.
	if s.parkingLot == nil {
		return MsgCreateLotFirst
	}

	switch command {
	case "Park":
		return s.handlePark(ctx, parts)
	case "Leave":
		return s.handleLeave(ctx, parts)
	case "Vehicle_registration_number_for_driver_of_age":
		return s.handleVehiclesByDriverAge(ctx, parts)
	case "Slot_numbers_for_driver_of_age":
		return s.handleSlotsByDriverAge(ctx, parts)
	case "Slot_number_for_car_with_number":
		return s.handleSlotByVehicle(ctx, parts)
	case "Status":
		return s.handleStatus(ctx)
	default:
		trace.SpanFromContext(ctx).AddEvent("unknown_command")
		return MsgNotUnderstood
	}
}

func (s *Shell) handleCreateParkingLot(ctx context.Context, parts []string) string {
	if len(parts) != 2 {
		return MsgNotUnderstood
	}

	capacity, ok := positiveInt(parts[1])
	if !ok {
		trace.SpanFromContext(ctx).AddEvent("invalid_capacity")
		return MsgPositiveInteger
	}

	parkingLot, err := NewInstrumentedParkingLot(capacity, s.telemetry)
	if err != nil {
		logging.Error(ctx, "creating parking lot", "capacity", capacity, "error", err)
		return fmt.Sprintf("Error creating parking lot: %s", err)
	}

	if s.parkingLot != nil {
		s.parkingLot.Close(ctx)
	}
	s.parkingLot = parkingLot

	logging.Info(ctx, "parking lot created", "capacity", capacity)
	return CreatedMessage(capacity)
}

// handlePark expects "Park <vehicle-id> driver_age <age>".
func (s *Shell) handlePark(ctx context.Context, parts []string) string {
	if len(parts) != 4 {
		return MsgNotUnderstood
	}

	vehicleID := parts[1]
	driverAge, ok := positiveInt(parts[3])
	if !ok {
		return MsgPositiveInteger
	}

	slotNumber, err := s.parkingLot.Park(ctx, vehicleID, driverAge)
	return ParkMessage(vehicleID, slotNumber, err)
}

func (s *Shell) handleLeave(ctx context.Context, parts []string) string {
	if len(parts) != 2 {
		return MsgNotUnderstood
	}

	slotNumber, err := strconv.Atoi(parts[1])
	if err != nil {
		return MsgPositiveInteger
	}

	vehicle, err := s.parkingLot.Leave(ctx, slotNumber)
	return LeaveMessage(slotNumber, vehicle, err)
}

func (s *Shell) handleVehiclesByDriverAge(ctx context.Context, parts []string) string {
	if len(parts) != 2 {
		return MsgNotUnderstood
	}

	age, ok := positiveInt(parts[1])
	if !ok {
		return MsgPositiveInteger
	}

	return VehiclesByAgeMessage(age, s.parkingLot.VehiclesByDriverAge(ctx, age))
}

func (s *Shell) handleSlotsByDriverAge(ctx context.Context, parts []string) string {
	if len(parts) != 2 {
		return MsgNotUnderstood
	}

	age, ok := positiveInt(parts[1])
	if !ok {
		return MsgPositiveInteger
	}

	return SlotsByAgeMessage(age, s.parkingLot.SlotsByDriverAge(ctx, age))
}

func (s *Shell) handleSlotByVehicle(ctx context.Context, parts []string) string {
	if len(parts) != 2 {
		return MsgNotUnderstood
	}

	vehicleID := parts[1]
	slotNumber, found := s.parkingLot.SlotByVehicle(ctx, vehicleID)
	return SlotByVehicleMessage(vehicleID, slotNumber, found)
}

func (s *Shell) handleStatus(ctx context.Context) string {
	occupiedSlots := s.parkingLot.Status(ctx)
	if len(occupiedSlots) == 0 {
		return "Parking lot is empty"
	}

	var b strings.Builder
	b.WriteString("Slot No.\tVehicle No.\tDriver Age")
	for _, slot := range occupiedSlots {
		fmt.Fprintf(&b, "\n%d\t\t%s\t%d", slot.Number, slot.Vehicle.ID, slot.Vehicle.DriverAge)
	}
	return b.String()
}

func positiveInt(s string) (int, bool) {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
