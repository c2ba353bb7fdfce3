package parking

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

const (
	MsgEmptyLine       = "Empty line found"
	MsgCreateLotFirst  = "Please create a parking lot first"
	MsgNotUnderstood   = "Did not understand"
	MsgPositiveInteger = "Please provide a positive integer as argument"
)

func CreatedMessage(capacity int) string {
	return fmt.Sprintf("Created parking of %d slots", capacity)
}

// ParkMessage renders the outcome of Park for the vehicle with the given id.
func ParkMessage(vehicleID string, slotNumber int, err error) string {
	switch {
	case err == nil:
		return fmt.Sprintf("Car with vehicle registration number \"%s\" has been parked at slot number %d", vehicleID, slotNumber)
	case errors.Is(err, ErrAlreadyParked):
		return fmt.Sprintf("Vehicle with registration number \"%s\" is already parked in the parking lot", vehicleID)
	case errors.Is(err, ErrLotFull):
		return "Sorry, the parking lot is currently full. Please come back after some time"
	default:
		return err.Error()
	}
}

// LeaveMessage renders the outcome of Leave for slotNumber.
func LeaveMessage(slotNumber int, vehicle *Vehicle, err error) string {
	switch {
	case err == nil:
		return fmt.Sprintf("Slot number %d vacated, the car with vehicle registration number \"%s\" left the space, the driver of the car was of age %d",
			slotNumber, vehicle.ID, vehicle.DriverAge)
	case errors.Is(err, ErrSlotOutOfRange):
		return "Slot does not exist in the parking lot"
	case errors.Is(err, ErrAlreadyVacant):
		return fmt.Sprintf("Slot %d is already vacant", slotNumber)
	default:
		return err.Error()
	}
}

func VehiclesByAgeMessage(age int, vehicleIDs []string) string {
	if len(vehicleIDs) == 0 {
		return fmt.Sprintf("No vehicles found for driver of age %d", age)
	}
	return strings.Join(vehicleIDs, ", ")
}

func SlotsByAgeMessage(age int, slotNumbers []int) string {
	if len(slotNumbers) == 0 {
		return fmt.Sprintf("No slots found for driver of age %d", age)
	}
	parts := make([]string, len(slotNumbers))
	for i, n := range slotNumbers {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}

func SlotByVehicleMessage(vehicleID string, slotNumber int, found bool) string {
	if !found {
		return fmt.Sprintf("Car with vehicle registration number \"%s\" is not present in the parking lot", vehicleID)
	}
	return strconv.Itoa(slotNumber)
}
