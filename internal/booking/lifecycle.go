package booking

import (
	"fmt"

	"github.com/centroimagen/booking-api/pkg/types"
)

// transitions is the complete appointment state machine. A transition not
// listed here is rejected; terminal states have no outgoing edges.
var transitions = map[types.AppointmentStatus][]types.AppointmentStatus{
	types.AppointmentScheduled: {
		types.AppointmentConfirmed,
		types.AppointmentCancelled,
		types.AppointmentNoShow,
	},
	types.AppointmentConfirmed: {
		types.AppointmentInProgress,
		types.AppointmentCompleted,
		types.AppointmentCancelled,
		types.AppointmentNoShow,
	},
	types.AppointmentInProgress: {
		types.AppointmentCompleted,
		types.AppointmentCancelled,
	},
}

// NormalizeStatus maps legacy status spellings onto the canonical set.
// "pending" is accepted as an input alias of "scheduled"; the canonical
// value is the only one ever persisted or returned.
func NormalizeStatus(s types.AppointmentStatus) types.AppointmentStatus {
	if s == "pending" {
		return types.AppointmentScheduled
	}
	return s
}

// ValidateTransition reports whether the appointment may move from one
// status to another. Idempotent no-op transitions (same status) are
// rejected like any other undefined edge.
func ValidateTransition(from, to types.AppointmentStatus) error {
	from = NormalizeStatus(from)
	to = NormalizeStatus(to)

	if from.IsTerminal() {
		return types.NewConflictError(types.ErrCodeConflict,
			fmt.Sprintf("appointment is already %s and cannot change status", from))
	}

	for _, allowed := range transitions[from] {
		if allowed == to {
			return nil
		}
	}

	return types.NewConflictError(types.ErrCodeConflict,
		fmt.Sprintf("cannot move appointment from %s to %s", from, to))
}
