package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from    ReservationStatus
		to      ReservationStatus
		allowed bool
	}{
		{StatusPending, StatusApproved, true},
		{StatusPending, StatusRejected, true},
		{StatusPending, StatusCancelled, true},
		{StatusPending, StatusNoShow, true},
		{StatusPending, StatusCheckedIn, false},
		{StatusPending, StatusCompleted, false},
		{StatusApproved, StatusCheckedIn, true},
		{StatusApproved, StatusCancelled, true},
		{StatusApproved, StatusNoShow, true},
		{StatusApproved, StatusApproved, false},
		{StatusApproved, StatusRejected, false},
		{StatusCheckedIn, StatusCompleted, true},
		{StatusCheckedIn, StatusCancelled, true},
		{StatusCheckedIn, StatusNoShow, false},
		{StatusCompleted, StatusCancelled, false},
		{StatusCancelled, StatusApproved, false},
		{StatusRejected, StatusApproved, false},
		{StatusNoShow, StatusApproved, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransition(tc.to),
			"%s -> %s", tc.from, tc.to)
	}
}

func TestIsActive(t *testing.T) {
	assert.True(t, StatusPending.IsActive())
	assert.True(t, StatusApproved.IsActive())
	assert.True(t, StatusCheckedIn.IsActive())
	assert.False(t, StatusCompleted.IsActive())
	assert.False(t, StatusCancelled.IsActive())
	assert.False(t, StatusRejected.IsActive())
	assert.False(t, StatusNoShow.IsActive())
}

func TestReservationOverlaps(t *testing.T) {
	base := &Reservation{StartHour: 14, EndHour: 16}

	assert.True(t, base.Overlaps(&Reservation{StartHour: 15, EndHour: 17}))
	assert.True(t, base.Overlaps(&Reservation{StartHour: 13, EndHour: 15}))
	assert.True(t, base.Overlaps(&Reservation{StartHour: 14, EndHour: 16}))
	assert.False(t, base.Overlaps(&Reservation{StartHour: 16, EndHour: 18}))
	assert.False(t, base.Overlaps(&Reservation{StartHour: 12, EndHour: 14}))

	// Overnight ranges collide through the extended hours.
	late := &Reservation{StartHour: 23, EndHour: 26}
	assert.True(t, late.Overlaps(&Reservation{StartHour: 25, EndHour: 27}))
	assert.False(t, late.Overlaps(&Reservation{StartHour: 26, EndHour: 28}))
}
