package parking

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"parking-allocator/internal/telemetry"
)

func newTestShell(out *bytes.Buffer) *Shell {
	return NewShell(telemetry.NewLocalProvider("shell-test", nil, nil), out)
}

func TestShellRunsCommandFile(t *testing.T) {
	input := strings.Join([]string{
		"Create_parking_lot 6",
		"Park KA-01-HH-1234 driver_age 21",
		"Park PB-01-HH-1234 driver_age 21",
		"Slot_numbers_for_driver_of_age 21",
		"Park PB-01-TG-2341 driver_age 40",
		"Slot_number_for_car_with_number PB-01-HH-1234",
		"Leave 2",
		"Park HR-29-TG-3098 driver_age 39",
		"Vehicle_registration_number_for_driver_of_age 18",
	}, "\n")

	var out bytes.Buffer
	require.NoError(t, newTestShell(&out).Run(context.Background(), strings.NewReader(input)))

	want := []string{
		"Created parking of 6 slots",
		`Car with vehicle registration number "KA-01-HH-1234" has been parked at slot number 1`,
		`Car with vehicle registration number "PB-01-HH-1234" has been parked at slot number 2`,
		"1, 2",
		`Car with vehicle registration number "PB-01-TG-2341" has been parked at slot number 3`,
		"2",
		`Slot number 2 vacated, the car with vehicle registration number "PB-01-HH-1234" left the space, the driver of the car was of age 21`,
		`Car with vehicle registration number "HR-29-TG-3098" has been parked at slot number 2`,
		"No vehicles found for driver of age 18",
	}
	assert.Equal(t, want, strings.Split(strings.TrimRight(out.String(), "\n"), "\n"))
}

func TestShellRequiresLot(t *testing.T) {
	s := newTestShell(&bytes.Buffer{})
	ctx := context.Background()

	assert.Equal(t, MsgCreateLotFirst, s.Execute(ctx, "Park KA-01 driver_age 21"))
	assert.Equal(t, MsgCreateLotFirst, s.Execute(ctx, "Fly away"))
	assert.Equal(t, MsgEmptyLine, s.Execute(ctx, "   "))
}

func TestShellRejectsMalformedInput(t *testing.T) {
	s := newTestShell(&bytes.Buffer{})
	ctx := context.Background()

	assert.Equal(t, MsgPositiveInteger, s.Execute(ctx, "Create_parking_lot zero"))
	assert.Equal(t, MsgPositiveInteger, s.Execute(ctx, "Create_parking_lot -2"))
	assert.Equal(t, MsgCreateLotFirst, s.Execute(ctx, "Leave 1"), "failed create must not leave a lot behind")

	require.Equal(t, "Created parking of 2 slots", s.Execute(ctx, "Create_parking_lot 2"))

	assert.Equal(t, MsgPositiveInteger, s.Execute(ctx, "Park KA-01 driver_age old"))
	assert.Equal(t, MsgPositiveInteger, s.Execute(ctx, "Park KA-01 driver_age 0"))
	assert.Equal(t, MsgNotUnderstood, s.Execute(ctx, "Park KA-01"))
	assert.Equal(t, MsgPositiveInteger, s.Execute(ctx, "Leave one"))
	assert.Equal(t, MsgNotUnderstood, s.Execute(ctx, "Depart 1"))
	assert.Equal(t, "Slot does not exist in the parking lot", s.Execute(ctx, "Leave 0"))
	assert.Equal(t, "Slot 1 is already vacant", s.Execute(ctx, "Leave 1"))
}

func TestShellFullLotAndDuplicates(t *testing.T) {
	s := newTestShell(&bytes.Buffer{})
	ctx := context.Background()

	s.Execute(ctx, "Create_parking_lot 1")
	s.Execute(ctx, "Park KA-01 driver_age 21")

	assert.Equal(t, `Vehicle with registration number "KA-01" is already parked in the parking lot`,
		s.Execute(ctx, "Park KA-01 driver_age 21"))
	assert.Equal(t, "Sorry, the parking lot is currently full. Please come back after some time",
		s.Execute(ctx, "Park KA-02 driver_age 30"))
	assert.Equal(t, `Car with vehicle registration number "KA-02" is not present in the parking lot`,
		s.Execute(ctx, "Slot_number_for_car_with_number KA-02"))
}

func TestShellRecreateReplacesLot(t *testing.T) {
	s := newTestShell(&bytes.Buffer{})
	ctx := context.Background()

	s.Execute(ctx, "Create_parking_lot 3")
	s.Execute(ctx, "Park KA-01 driver_age 21")
	s.Execute(ctx, "Create_parking_lot 2")

	assert.Equal(t, "No slots found for driver of age 21", s.Execute(ctx, "Slot_numbers_for_driver_of_age 21"))
	assert.Equal(t, "Parking lot is empty", s.Execute(ctx, "Status"))

	s.Execute(ctx, "Park KA-07 driver_age 50")
	assert.Equal(t, "Slot No.\tVehicle No.\tDriver Age\n1\t\tKA-07\t50", s.Execute(ctx, "Status"))
}

func TestShellStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	err := newTestShell(&out).Run(ctx, strings.NewReader("Create_parking_lot 1\n"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, out.String())
}

func TestShellQueriesRequirePositiveAge(t *testing.T) {
	s := newTestShell(&bytes.Buffer{})
	ctx := context.Background()
	require.Equal(t, "Created parking of 2 slots", s.Execute(ctx, "Create_parking_lot 2"))

	for _, line := range []string{
		"Vehicle_registration_number_for_driver_of_age 0",
		"Vehicle_registration_number_for_driver_of_age -4",
		"Slot_numbers_for_driver_of_age 0",
		"Slot_numbers_for_driver_of_age twenty",
	} {
		assert.Equal(t, MsgPositiveInteger, s.Execute(ctx, line), line)
	}
	assert.Equal(t, "No slots found for driver of age 30", s.Execute(ctx, "Slot_numbers_for_driver_of_age 30"))
}
