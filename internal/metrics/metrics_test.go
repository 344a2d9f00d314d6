package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestInitRegistry tests registry initialization is idempotent
func TestInitRegistry(t *testing.T) {
	first := InitRegistry()
	require.NotNil(t, first)

	second := InitRegistry()
	assert.Same(t, first, second)
	assert.Same(t, first, GetRegistry())
}

// TestHandler tests that the metrics handler is constructed
func TestHandler(t *testing.T) {
	assert.NotNil(t, Handler())
}
