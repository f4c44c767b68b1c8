package appointment

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deecee-hair/storefront-api/internal/common"
)

func validBooking() bookingInput {
	return bookingInput{
		Name:     "Jordan Smith",
		Email:    "jordan@example.com",
		Phone:    "+1 555 010 2030",
		Service:  "Installation Consultation",
		Date:     "2026-09-15",
		TimeSlot: "10:00 AM",
	}
}

func TestBookingValidation(t *testing.T) {
	require.NoError(t, common.ValidateStruct(validBooking()))

	in := validBooking()
	in.Email = "not-an-email"
	require.Error(t, common.ValidateStruct(in))

	in = validBooking()
	in.Date = "15/09/2026"
	require.Error(t, common.ValidateStruct(in))

	in = validBooking()
	in.Name = ""
	require.Error(t, common.ValidateStruct(in))

	in = validBooking()
	in.TimeSlot = ""
	require.Error(t, common.ValidateStruct(in))

	// Notes are optional.
	in = validBooking()
	in.Notes = "Allergic to certain adhesives"
	require.NoError(t, common.ValidateStruct(in))
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled} {
		require.True(t, s.Valid())
	}
	require.False(t, Status("RESCHEDULED").Valid())
	require.False(t, Status("").Valid())
}
