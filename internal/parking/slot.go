package parking

type Slot struct {
	Number     int
	IsOccupied bool
	Vehicle    *Vehicle
}

func NewSlot(number int) *Slot {
	return &Slot{
		Number:     number,
		IsOccupied: false,
		Vehicle:    nil,
	}
}

// Park marks the slot occupied by vehicle. The slot keeps the pointer; it
// does not copy the vehicle.
func (s *Slot) Park(vehicle *Vehicle) {
	s.Vehicle = vehicle
	s.IsOccupied = true
}

// Leave empties the slot and returns the vehicle that occupied it, or nil if
// the slot was already vacant.
func (s *Slot) Leave() *Vehicle {
	vehicle := s.Vehicle
	s.Vehicle = nil
	s.IsOccupied = false
	return vehicle
}

func (s *Slot) snapshot() *Slot {
	return &Slot{
		Number:     s.Number,
		IsOccupied: s.IsOccupied,
		Vehicle:    s.Vehicle,
	}
}
