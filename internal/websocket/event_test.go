package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"id":         1,
		"clientName": "Maria Souza",
		"totalCost":  "300.00",
	}

	before := time.Now()
	evt := NewEvent(EventTypeCreated, EntityTypeBudget, payload)
	after := time.Now()

	assert.Equal(t, "budget.created", evt.Type)
	assert.Equal(t, EntityTypeBudget, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.True(t, !evt.Timestamp.Before(before) && !evt.Timestamp.After(after))
	assert.Equal(t, time.UTC, evt.Timestamp.Location())
}

func TestBudgetEventConstructors(t *testing.T) {
	tests := []struct {
		name     string
		build    func(interface{}) Event
		expected string
	}{
		{"created", BudgetCreated, "budget.created"},
		{"updated", BudgetUpdated, "budget.updated"},
		{"status changed", BudgetStatusChanged, "budget.status_changed"},
		{"deleted", BudgetDeleted, "budget.deleted"},
		{"pdf generated", BudgetPDFGenerated, "budget.pdf_generated"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evt := tt.build(map[string]interface{}{"id": 7})
			assert.Equal(t, tt.expected, evt.Type)
			assert.Equal(t, EntityTypeBudget, evt.Entity)
		})
	}
}

func TestEvent_ToJSON(t *testing.T) {
	evt := BudgetStatusChanged(map[string]interface{}{"id": float64(3), "status": "approved"})

	data, err := evt.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "budget.status_changed", decoded["type"])
	assert.Equal(t, "budget", decoded["entity"])
	assert.Contains(t, decoded, "timestamp")

	payload, ok := decoded["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "approved", payload["status"])
	assert.Equal(t, float64(3), payload["id"])
}

func TestEvent_ToJSON_Unserializable(t *testing.T) {
	evt := BudgetUpdated(map[string]interface{}{"bad": make(chan int)})

	_, err := evt.ToJSON()
	assert.Error(t, err)
}
