package parking

import (
	"fmt"
	"sync"
)

// ParkingLot assigns vehicles to the nearest vacant slot and keeps three
// lookup indices in step with slot state. All state is guarded by one lock:
// Park and Leave take it exclusively, queries share it.
type ParkingLot struct {
	mu sync.RWMutex

	capacity  int
	slots     []*Slot
	allocator *SlotAllocator

	vehicleSlots  map[string]int
	ageVehicleIDs *ageIndex[string]
	ageSlots      *ageIndex[int]
}

func NewParkingLot(capacity int) (*ParkingLot, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidCapacity, capacity)
	}

	slots := make([]*Slot, capacity)
	for i := 0; i < capacity; i++ {
		slots[i] = NewSlot(i + 1)
	}

	return &ParkingLot{
		capacity:      capacity,
		slots:         slots,
		allocator:     NewSlotAllocator(capacity),
		vehicleSlots:  make(map[string]int),
		ageVehicleIDs: newAgeIndex[string](),
		ageSlots:      newAgeIndex[int](),
	}, nil
}

// Park puts vehicle into the lowest-numbered vacant slot and returns that
// slot's number.
func (pl *ParkingLot) Park(vehicle *Vehicle) (int, error) {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	if _, ok := pl.vehicleSlots[vehicle.ID]; ok {
		return 0, fmt.Errorf("%w: %q", ErrAlreadyParked, vehicle.ID)
	}

	number, ok := pl.allocator.Acquire()
	if !ok {
		return 0, ErrLotFull
	}

	pl.slots[number-1].Park(vehicle)
	pl.vehicleSlots[vehicle.ID] = number
	pl.ageVehicleIDs.add(vehicle.DriverAge, vehicle.ID)
	pl.ageSlots.add(vehicle.DriverAge, number)

	return number, nil
}

// Leave vacates slotNumber and returns the vehicle that was parked there.
// ErrAlreadyVacant is informational: nothing changed and nothing went wrong.
func (pl *ParkingLot) Leave(slotNumber int) (*Vehicle, error) {
	pl.mu.Lock()
	defer pl.mu.Unlock()

	if slotNumber < 1 || slotNumber > pl.capacity {
		return nil, fmt.Errorf("%w: slot %d", ErrSlotOutOfRange, slotNumber)
	}

	slot := pl.slots[slotNumber-1]
	if !slot.IsOccupied {
		return nil, fmt.Errorf("%w: slot %d", ErrAlreadyVacant, slotNumber)
	}

	vehicle := slot.Leave()
	delete(pl.vehicleSlots, vehicle.ID)
	pl.ageVehicleIDs.remove(vehicle.DriverAge, vehicle.ID)
	pl.ageSlots.remove(vehicle.DriverAge, slotNumber)

	if err := pl.allocator.Release(slotNumber); err != nil {
		panic(fmt.Sprintf("parking: inconsistent lot state: %v", err))
	}

	return vehicle, nil
}

// VehiclesByDriverAge returns the ids of vehicles whose driver is age years
// old, sorted. The result is empty, never nil, when there are none.
func (pl *ParkingLot) VehiclesByDriverAge(age int) []string {
	pl.mu.RLock()
	defer pl.mu.RUnlock()

	return pl.ageVehicleIDs.values(age)
}

// SlotsByDriverAge returns the slot numbers held by drivers of the given age,
// sorted ascending.
func (pl *ParkingLot) SlotsByDriverAge(age int) []int {
	pl.mu.RLock()
	defer pl.mu.RUnlock()

	return pl.ageSlots.values(age)
}

func (pl *ParkingLot) SlotByVehicle(vehicleID string) (int, bool) {
	pl.mu.RLock()
	defer pl.mu.RUnlock()

	number, ok := pl.vehicleSlots[vehicleID]
	return number, ok
}

func (pl *ParkingLot) Capacity() int {
	return pl.capacity
}

func (pl *ParkingLot) Available() int {
	pl.mu.RLock()
	defer pl.mu.RUnlock()

	return pl.allocator.Len()
}

// Status returns copies of the occupied slots in ascending slot order.
func (pl *ParkingLot) Status() []*Slot {
	pl.mu.RLock()
	defer pl.mu.RUnlock()

	var occupied []*Slot
	for _, slot := range pl.slots {
		if slot.IsOccupied {
			occupied = append(occupied, slot.snapshot())
		}
	}
	return occupied
}
