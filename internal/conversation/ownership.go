package conversation

import "heartlink/internal/model"

// IsMine reports whether msg was sent by the signed-in user. Only the other
// participant's id is known for certain, so any sender that is not that
// participant counts as self, including third parties or a stale participant
// id. With no participant resolved every message counts as self.
func IsMine(msg model.Message, other *model.Participant) bool {
	if msg.Sender.ID == model.LocalSenderID {
		return true
	}
	if other == nil {
		return true
	}
	return msg.Sender.ID != other.ID
}
