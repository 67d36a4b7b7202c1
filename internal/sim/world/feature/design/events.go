package design

import modelpkg "voxelhouse.ai/internal/sim/world/kernel/model"

type CancelReason int

const (
	CancelOperator CancelReason = iota
	CancelTimeout
	CancelDisconnected
	CancelOverridden
)

func (r CancelReason) String() string {
	switch r {
	case CancelTimeout:
		return "timeout"
	case CancelDisconnected:
		return "disconnected"
	case CancelOverridden:
		return "overridden"
	default:
		return "canceled"
	}
}

// Event is an inbound step for an Interaction.
type Event interface{ isEvent() }

// TargetAcquired carries the picked object. Item is nil when the pick did not
// resolve to an item.
type TargetAcquired struct {
	Item *modelpkg.Item
}

type TargetCancelled struct {
	Reason CancelReason
}

type ConfirmAccepted struct{}

type ConfirmRejected struct{}

func (TargetAcquired) isEvent()  {}
func (TargetCancelled) isEvent() {}
func (ConfirmAccepted) isEvent() {}
func (ConfirmRejected) isEvent() {}

// Abort returns the event that ends a pending interaction without operator
// input. A batch treats it as a rejected confirmation.
func Abort(reason CancelReason) Event {
	return TargetCancelled{Reason: reason}
}
