package bookingsvc

import (
	"fmt"

	"gearrental/model"
)

// allowedNext maps each status to the statuses it may move to, self included.
// completed is fully terminal; a cancelled booking can be revived to pending.
var allowedNext = map[model.BookingStatus][]model.BookingStatus{
	model.BookingPending:   {model.BookingPending, model.BookingConfirmed, model.BookingCancelled},
	model.BookingConfirmed: {model.BookingConfirmed, model.BookingCompleted, model.BookingCancelled},
	model.BookingCompleted: {model.BookingCompleted},
	model.BookingCancelled: {model.BookingCancelled, model.BookingPending},
}

// TransitionError names an illegal status transition.
type TransitionError struct {
	From model.BookingStatus
	To   model.BookingStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot change booking status from %q to %q", e.From, e.To)
}

func (e *TransitionError) Code() ErrCode { return ErrIllegalTransition }

// AllowedNext returns the legal target statuses for current, for rendering
// admin controls. Unknown statuses have no legal targets.
func AllowedNext(current model.BookingStatus) []model.BookingStatus {
	next, ok := allowedNext[current]
	if !ok {
		return nil
	}
	out := make([]model.BookingStatus, len(next))
	copy(out, next)
	return out
}

// ValidateTransition returns nil when current may move to next, or a
// *TransitionError naming the illegal pair. Must run before any status
// mutation is persisted.
func ValidateTransition(current, next model.BookingStatus) error {
	for _, s := range allowedNext[current] {
		if s == next {
			return nil
		}
	}
	return &TransitionError{From: current, To: next}
}
