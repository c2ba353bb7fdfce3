package parking

import "errors"

var (
	ErrInvalidCapacity = errors.New("capacity must be a positive integer")
	ErrAlreadyParked   = errors.New("vehicle is already parked")
	ErrLotFull         = errors.New("parking lot is full")
	ErrSlotOutOfRange  = errors.New("slot does not exist")
	ErrAlreadyVacant   = errors.New("slot is already vacant")

	// ErrInvalidRelease means a slot number was handed back to the allocator
	// while already vacant, or was never part of the lot. It signals a broken
	// invariant, not a user mistake.
	ErrInvalidRelease = errors.New("invalid slot release")
)
