package conversation

import "heartlink/internal/model"

// mergeSnapshot replaces the local list with a fresh server snapshot while
// keeping entries the snapshot cannot know about yet: pending and failed
// sends, and sends confirmed after the snapshot was requested (keep reports
// those). Kept entries follow the snapshot in their current relative order.
func mergeSnapshot(snapshot, current []model.Message, keep func(model.Message) bool) []model.Message {
	seen := make(map[string]struct{}, len(snapshot))
	merged := make([]model.Message, 0, len(snapshot)+4)
	for _, msg := range snapshot {
		if msg.DeliveryState == "" {
			msg.DeliveryState = model.DeliveryConfirmed
		}
		seen[msg.ID] = struct{}{}
		merged = append(merged, msg)
	}

	for _, msg := range current {
		if _, ok := seen[msg.ID]; ok {
			continue
		}
		if msg.IsUnconfirmed() || (keep != nil && keep(msg)) {
			merged = append(merged, msg)
		}
	}
	return merged
}
