package parking

type Vehicle struct {
	ID        string
	DriverAge int
}

func NewVehicle(id string, driverAge int) *Vehicle {
	return &Vehicle{
		ID:        id,
		DriverAge: driverAge,
	}
}
