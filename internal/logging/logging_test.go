package logging

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_WritesComponentAndFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	SetBase(zap.New(core))
	defer SetBase(zap.NewNop())

	NewLogger("contacto-service").Info("Contacto created", Fields{
		"contacto_id": int64(7),
		"error":       errors.New("boom"),
	})

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Contacto created", entries[0].Message)

	ctx := entries[0].ContextMap()
	assert.Equal(t, "contacto-service", ctx["component"])
	assert.Equal(t, int64(7), ctx["contacto_id"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestToZap_SortsKeys(t *testing.T) {
	fields := toZap([]Fields{{"b": 2, "a": 1}})

	require.Len(t, fields, 2)
	assert.Equal(t, "a", fields[0].Key)
	assert.Equal(t, "b", fields[1].Key)
}

func TestToZap_Empty(t *testing.T) {
	assert.Nil(t, toZap(nil))
}

func TestInit_Modes(t *testing.T) {
	defer SetBase(zap.NewNop())

	require.NoError(t, Init("release"))
	require.NoError(t, Init("debug"))
}
