package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeSlotOverlaps(t *testing.T) {
	base := TimeSlot{Start: "18:00", End: "22:00"}

	tests := []struct {
		name    string
		other   TimeSlot
		overlap bool
	}{
		{"Identical", TimeSlot{Start: "18:00", End: "22:00"}, true},
		{"Contained", TimeSlot{Start: "19:00", End: "20:00"}, true},
		{"Containing", TimeSlot{Start: "17:00", End: "23:00"}, true},
		{"Overlap Start", TimeSlot{Start: "17:00", End: "19:00"}, true},
		{"Overlap End", TimeSlot{Start: "21:00", End: "23:00"}, true},
		{"Touching Before", TimeSlot{Start: "16:00", End: "18:00"}, false},
		{"Touching After", TimeSlot{Start: "22:00", End: "23:00"}, false},
		{"Disjoint Before", TimeSlot{Start: "10:00", End: "12:00"}, false},
		{"Disjoint After", TimeSlot{Start: "22:30", End: "23:30"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.overlap, base.Overlaps(tt.other))
			assert.Equal(t, tt.overlap, tt.other.Overlaps(base))
		})
	}
}

func TestInitialStatus(t *testing.T) {
	assert.Equal(t, BookingStatusConfirmed, InitialStatus(PaymentStatusPaid))
	assert.Equal(t, BookingStatusPending, InitialStatus(PaymentStatusPartial))
	assert.Equal(t, BookingStatusPending, InitialStatus(PaymentStatusUnpaid))
}

func TestBookingCancel(t *testing.T) {
	now := time.Date(2026, 9, 9, 12, 0, 0, 0, time.UTC)
	deadline := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

	t.Run("Normal Policy Always Cancellable", func(t *testing.T) {
		b := &Booking{
			Status:             BookingStatusConfirmed,
			CancellationPolicy: CancellationPolicy{Type: CancellationPolicyNormal},
		}
		require.NoError(t, b.Cancel(now))
		assert.Equal(t, BookingStatusCancelled, b.Status)
		require.NotNil(t, b.CancelledAt)
		assert.Equal(t, now, *b.CancelledAt)
	})

	t.Run("Event Before Deadline", func(t *testing.T) {
		b := &Booking{
			Status: BookingStatusConfirmed,
			CancellationPolicy: CancellationPolicy{
				Type:     CancellationPolicyEvent,
				Deadline: &deadline,
			},
		}
		require.NoError(t, b.Cancel(now))
		assert.Equal(t, BookingStatusCancelled, b.Status)
	})

	t.Run("Event At Deadline Instant", func(t *testing.T) {
		b := &Booking{
			Status: BookingStatusPending,
			CancellationPolicy: CancellationPolicy{
				Type:     CancellationPolicyEvent,
				Deadline: &deadline,
			},
		}
		require.NoError(t, b.Cancel(deadline))
	})

	t.Run("Event After Deadline", func(t *testing.T) {
		b := &Booking{
			Status: BookingStatusConfirmed,
			CancellationPolicy: CancellationPolicy{
				Type:     CancellationPolicyEvent,
				Deadline: &deadline,
			},
		}
		err := b.Cancel(deadline.Add(time.Hour))
		assert.ErrorIs(t, err, ErrPastCancellationDeadline)
		assert.Equal(t, BookingStatusConfirmed, b.Status)
	})

	t.Run("Terminal Status Rejected", func(t *testing.T) {
		for _, status := range []BookingStatus{
			BookingStatusCancelled, BookingStatusCompleted, BookingStatusNoShow,
		} {
			b := &Booking{Status: status}
			assert.ErrorIs(t, b.Cancel(now), ErrTerminalStatus)
			assert.Equal(t, status, b.Status)
		}
	})
}

func TestBookingTransition(t *testing.T) {
	now := time.Date(2026, 9, 9, 12, 0, 0, 0, time.UTC)

	t.Run("Pending To Confirmed", func(t *testing.T) {
		b := &Booking{Status: BookingStatusPending}
		require.NoError(t, b.Transition(BookingStatusConfirmed, now))
		assert.Equal(t, BookingStatusConfirmed, b.Status)
		assert.True(t, b.BookingConfirmed)
		require.NotNil(t, b.ConfirmedAt)
	})

	t.Run("Confirmed To Completed", func(t *testing.T) {
		b := &Booking{Status: BookingStatusConfirmed}
		require.NoError(t, b.Transition(BookingStatusCompleted, now))
		assert.Equal(t, BookingStatusCompleted, b.Status)
	})

	t.Run("Confirmed To No Show", func(t *testing.T) {
		b := &Booking{Status: BookingStatusConfirmed}
		require.NoError(t, b.Transition(BookingStatusNoShow, now))
		assert.Equal(t, BookingStatusNoShow, b.Status)
	})

	t.Run("Out Of Terminal Rejected", func(t *testing.T) {
		b := &Booking{Status: BookingStatusCompleted}
		assert.ErrorIs(t, b.Transition(BookingStatusConfirmed, now), ErrTerminalStatus)
		assert.ErrorIs(t, b.Transition(BookingStatusPending, now), ErrTerminalStatus)
	})

	t.Run("Unknown Status Rejected", func(t *testing.T) {
		b := &Booking{Status: BookingStatusPending}
		assert.Error(t, b.Transition(BookingStatus("archived"), now))
	})
}

func TestBookingBlocks(t *testing.T) {
	slot := TimeSlot{Start: "18:00", End: "22:00"}

	t.Run("Active Statuses Block", func(t *testing.T) {
		for _, status := range []BookingStatus{BookingStatusPending, BookingStatusConfirmed} {
			b := &Booking{Status: status, TimeSlot: TimeSlot{Start: "19:00", End: "21:00"}}
			assert.True(t, b.Blocks(slot))
		}
	})

	t.Run("Terminal Statuses Do Not Block", func(t *testing.T) {
		for _, status := range []BookingStatus{
			BookingStatusCancelled, BookingStatusCompleted, BookingStatusNoShow,
		} {
			b := &Booking{Status: status, TimeSlot: TimeSlot{Start: "19:00", End: "21:00"}}
			assert.False(t, b.Blocks(slot))
		}
	})

	t.Run("Disjoint Slot Does Not Block", func(t *testing.T) {
		b := &Booking{Status: BookingStatusConfirmed, TimeSlot: TimeSlot{Start: "12:00", End: "14:00"}}
		assert.False(t, b.Blocks(slot))
	})
}

func TestCreateBookingRequestValidate(t *testing.T) {
	valid := func() *CreateBookingRequest {
		return &CreateBookingRequest{
			Type:       BookingTypeTable,
			FacilityID: "fac-1",
			Date:       "2026-09-12",
			MealTime:   MealTimeDinner,
			TimeSlot:   TimeSlot{Start: "19:00", End: "21:00"},
			GuestCount: 4,
		}
	}

	t.Run("Valid", func(t *testing.T) {
		assert.NoError(t, valid().Validate())
	})

	t.Run("End Not After Start", func(t *testing.T) {
		req := valid()
		req.TimeSlot = TimeSlot{Start: "21:00", End: "21:00"}
		assert.Error(t, req.Validate())

		req.TimeSlot = TimeSlot{Start: "21:00", End: "19:00"}
		assert.Error(t, req.Validate())
	})

	t.Run("Malformed Clock", func(t *testing.T) {
		req := valid()
		req.TimeSlot = TimeSlot{Start: "7pm", End: "9pm"}
		assert.Error(t, req.Validate())

		req.TimeSlot = TimeSlot{Start: "25:00", End: "26:00"}
		assert.Error(t, req.Validate())
	})

	t.Run("Package Without Package ID", func(t *testing.T) {
		req := valid()
		req.Type = BookingTypePackage
		assert.Error(t, req.Validate())
	})

	t.Run("Negative Discount", func(t *testing.T) {
		req := valid()
		req.Discount = -5
		assert.Error(t, req.Validate())
	})
}
