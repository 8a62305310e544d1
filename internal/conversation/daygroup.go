package conversation

import (
	"time"

	"heartlink/internal/model"
)

// DayGroup is the run of messages that fall on one local calendar day.
type DayGroup struct {
	Key      string          `json:"key"`
	Messages []model.Message `json:"messages"`
}

// ComputeDayGroups buckets messages by the local calendar day of CreatedAt,
// in now's location. Groups are ordered by first appearance and messages keep
// their input order within a group. Messages with an unusable timestamp join
// the today group.
func ComputeDayGroups(messages []model.Message, now time.Time, labels *Labels) []DayGroup {
	loc := now.Location()
	yesterday := now.AddDate(0, 0, -1)

	var groups []DayGroup
	index := make(map[string]int)

	for _, msg := range messages {
		key := labels.Today()
		if created, ok := msg.CreatedTime(); ok {
			key = dayKey(created.In(loc), now, yesterday, labels)
		}

		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, DayGroup{Key: key})
		}
		groups[i].Messages = append(groups[i].Messages, msg)
	}

	return groups
}

func dayKey(t, now, yesterday time.Time, labels *Labels) string {
	switch {
	case sameDay(t, now):
		return labels.Today()
	case sameDay(t, yesterday):
		return labels.Yesterday()
	default:
		return labels.Date(t, t.Year() != now.Year())
	}
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
