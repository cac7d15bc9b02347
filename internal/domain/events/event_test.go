package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSyncEventMarshalOmitsEmptyEntityID(t *testing.T) {
	event := SyncEvent{
		EventType: EventTypeDataCleared,
		UserID:    uuid.New(),
		Timestamp: time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "entity_id")
	assert.NotContains(t, string(data), "entity_kind")
}

func TestSyncEventMarshalKeepsEntityID(t *testing.T) {
	id := uuid.New()
	event := SyncEvent{
		EventType:  EventTypeEntityUpdated,
		UserID:     uuid.New(),
		EntityKind: "task",
		EntityID:   &id,
		Timestamp:  time.Now().UTC(),
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, id.String(), decoded["entity_id"])
	assert.Equal(t, "task", decoded["entity_kind"])
}
