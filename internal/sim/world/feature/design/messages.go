package design

import (
	"fmt"

	"voxelhouse.ai/internal/sim/world/logic/designinsert"
)

const (
	MsgInsertedFirst   = "The item has been inserted into the house design. Press ESC when you are finished."
	MsgInserted        = "The item has been inserted into the house design."
	MsgCannotInsert    = "That cannot be inserted."
	MsgNotInHouse      = "That item is not inside a customizable house."
	MsgTryAgain        = " Try again."
	MsgCommitted       = "Your changes have been committed. Updating..."
	MsgAborted         = "Command aborted."
	MsgAwaitingConfirm = "Awaiting confirmation..."
)

func ConfirmText(n int) string {
	return fmt.Sprintf("You are about to insert %d objects. This cannot be undone without a full server revert.<br><br>Continue?", n)
}

// failureText is empty for Valid.
func failureText(res designinsert.Result) string {
	switch res {
	case designinsert.InvalidItem:
		return MsgCannotInsert
	case designinsert.NotInHouse, designinsert.OutsideHouseBounds:
		return MsgNotInHouse
	default:
		return ""
	}
}
