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
		"month": "Oct 2026",
		"total": "400.00",
	}

	before := time.Now()
	evt := NewEvent(EventTypeRefreshed, EntityTypeDashboard, payload)
	after := time.Now()

	assert.Equal(t, "dashboard.refreshed", evt.Type)
	assert.Equal(t, EntityTypeDashboard, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.True(t, !evt.Timestamp.Before(before) && !evt.Timestamp.After(after))
}

func TestEvent_ToJSON(t *testing.T) {
	evt := DashboardRefreshed(map[string]interface{}{"total": "12.50"})

	data, err := evt.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "dashboard.refreshed", decoded["type"])
	assert.Equal(t, "dashboard", decoded["entity"])
	assert.NotNil(t, decoded["timestamp"])
	payload, ok := decoded["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "12.50", payload["total"])
}

func TestBudgetEvent_Helpers(t *testing.T) {
	payload := map[string]interface{}{
		"budgetId":   float64(3),
		"category":   "Food",
		"percentage": "100.00",
	}

	t.Run("BudgetExceeded", func(t *testing.T) {
		evt := BudgetExceeded(payload)
		assert.Equal(t, "budget.exceeded", evt.Type)
		assert.Equal(t, EntityTypeBudget, evt.Entity)
		assert.Equal(t, payload, evt.Payload)
	})

	t.Run("BudgetNearLimit", func(t *testing.T) {
		evt := BudgetNearLimit(payload)
		assert.Equal(t, "budget.near_limit", evt.Type)
		assert.Equal(t, EntityTypeBudget, evt.Entity)
	})
}
