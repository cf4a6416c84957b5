package wake

import (
	"encoding/json"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMessage(t *testing.T) {
	body, err := json.Marshal(NewSyncOrders("storefront-api"))
	require.NoError(t, err)

	msg, err := ParseMessage(body)
	require.NoError(t, err)
	assert.Equal(t, TypeSyncOrders, msg.Type)
	assert.Equal(t, "storefront-api", msg.Source)

	msg, err = ParseMessage([]byte("SYNC_ORDERS"))
	require.NoError(t, err)
	assert.Equal(t, TypeSyncOrders, msg.Type)

	msg, err = ParseMessage([]byte(`"SYNC_ORDERS"`))
	require.NoError(t, err)
	assert.Equal(t, TypeSyncOrders, msg.Type)

	_, err = ParseMessage(nil)
	assert.Error(t, err)
}

func TestTrigger_FireCallsEveryCallback(t *testing.T) {
	tr := NewTrigger()
	var a, b atomic.Int32
	tr.Register(func() { a.Add(1) })
	tr.Register(func() { b.Add(1) })

	tr.Arm()
	assert.True(t, tr.Armed())

	tr.Fire("test")
	assert.Equal(t, int32(1), a.Load())
	assert.Equal(t, int32(1), b.Load())
	assert.False(t, tr.Armed())

	tr.Arm()
	tr.Disarm()
	assert.False(t, tr.Armed())
}

func TestTrigger_HandleMessage(t *testing.T) {
	tr := NewTrigger()
	var calls atomic.Int32
	tr.Register(func() { calls.Add(1) })

	assert.True(t, tr.HandleMessage("rabbitmq", []byte(`{"type":"SYNC_ORDERS"}`)))
	assert.False(t, tr.HandleMessage("rabbitmq", []byte(`{"type":"PRICE_UPDATE"}`)))
	assert.True(t, tr.HandleMessage("redis", []byte(`"SYNC_ORDERS"`)))
	assert.False(t, tr.HandleMessage("rabbitmq", nil))

	assert.Equal(t, int32(2), calls.Load())
}
