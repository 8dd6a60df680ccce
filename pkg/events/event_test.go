package events

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadAccessors(t *testing.T) {
	id := uuid.New()
	evt := New("CONSULTATION_ENDED", map[string]interface{}{
		"user_id": id.String(),
		"bad_id":  "not-a-uuid",
		"count":   3,
	})

	got := UUID(evt, "user_id")
	require.NotNil(t, got)
	assert.Equal(t, id, *got)

	assert.Nil(t, UUID(evt, "bad_id"))
	assert.Nil(t, UUID(evt, "missing"))
	assert.Empty(t, String(evt, "count"), "non-string values read as empty")
	assert.False(t, evt.Timestamp().IsZero())
}

func TestNew_NilPayload(t *testing.T) {
	evt := New("X", nil)
	assert.NotNil(t, evt.Payload())
}
