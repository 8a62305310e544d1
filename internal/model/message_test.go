package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSenderAcceptsBothShapes(t *testing.T) {
	var msgs []Message
	err := json.Unmarshal([]byte(`[
		{"_id":"1","sender":"u2"},
		{"_id":"2","sender":{"_id":"u1","name":"Ann"}},
		{"_id":"3","sender":null}
	]`), &msgs)
	require.NoError(t, err)

	assert.Equal(t, SenderID("u2"), msgs[0].Sender)
	assert.Equal(t, SenderSummary("u1", "Ann"), msgs[1].Sender)
	assert.Equal(t, Sender{}, msgs[2].Sender)
}

func TestSenderKeepsShapeOnEncode(t *testing.T) {
	bare, err := json.Marshal(SenderID("u2"))
	require.NoError(t, err)
	assert.JSONEq(t, `"u2"`, string(bare))

	summary, err := json.Marshal(SenderSummary("u1", "Ann"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"_id":"u1","name":"Ann"}`, string(summary))
}

func TestSenderRejectsGarbage(t *testing.T) {
	var s Sender
	assert.Error(t, json.Unmarshal([]byte(`42`), &s))
}

func TestCreatedTime(t *testing.T) {
	_, ok := Message{CreatedAt: "2024-05-10T09:00:00.123Z"}.CreatedTime()
	assert.True(t, ok)

	_, ok = Message{CreatedAt: "yesterday"}.CreatedTime()
	assert.False(t, ok)

	_, ok = Message{}.CreatedTime()
	assert.False(t, ok)
}

func TestDeliveryHelpers(t *testing.T) {
	temp := Message{ID: TempIDPrefix + "1-abc", DeliveryState: DeliveryPending}
	assert.True(t, temp.IsTemporary())
	assert.True(t, temp.IsUnconfirmed())

	assert.True(t, Message{DeliveryState: DeliveryFailed}.IsUnconfirmed())
	assert.False(t, Message{ID: "srv", DeliveryState: DeliveryConfirmed}.IsUnconfirmed())
}

func TestInitials(t *testing.T) {
	assert.Equal(t, "?", Participant{}.Initials())
	assert.Equal(t, "A", Participant{Name: "ann"}.Initials())
	assert.Equal(t, "AB", Participant{Name: "Ann Bo Cy"}.Initials())
	assert.Equal(t, "ÉL", Participant{Name: "élise lou"}.Initials())
}
