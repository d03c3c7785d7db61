package mcp

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractOrderID(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "valid order URI",
			uri:      "quickpass://orders/ORD-1A2B3C4D",
			expected: "ORD-1A2B3C4D",
		},
		{
			name:     "invalid prefix",
			uri:      "file://orders/ORD-1",
			expected: "",
		},
		{
			name:     "orders list",
			uri:      "quickpass://orders",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractOrderID(tt.uri))
		})
	}
}

func TestServer_handlePresetsResource(t *testing.T) {
	server, err := NewServer(newTestPorts(t))
	require.NoError(t, err)

	result, err := server.handlePresetsResource(context.Background(), makeReadResourceRequest("quickpass://presets"))

	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)
	assert.Contains(t, result.Contents[0].Text, `"id": "us-2x2"`)
	assert.Contains(t, result.Contents[0].Text, `"width_px": 413`)
}

func TestServer_handleOrdersResource(t *testing.T) {
	ctx := context.Background()

	t.Run("nil cart returns empty list", func(t *testing.T) {
		ports := newTestPorts(t)
		ports.Cart = nil
		server, err := NewServer(ports)
		require.NoError(t, err)

		result, err := server.handleOrdersResource(ctx, makeReadResourceRequest("quickpass://orders"))

		require.NoError(t, err)
		assert.Equal(t, "[]", result.Contents[0].Text)
	})

	t.Run("lists orders and reads one", func(t *testing.T) {
		ports := newTestPorts(t)
		addTestItem(t, ports.Cart, "us-passport")
		order, _, err := ports.Cart.Checkout(ctx)
		require.NoError(t, err)

		server, err := NewServer(ports)
		require.NoError(t, err)

		result, err := server.handleOrdersResource(ctx, makeReadResourceRequest("quickpass://orders"))
		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, order.ID)
		assert.Contains(t, result.Contents[0].Text, `"date": "2026-03-14"`)
		assert.NotContains(t, result.Contents[0].Text, "file_name")

		uri := "quickpass://orders/" + order.ID
		result, err = server.handleOrderResource(ctx, makeReadResourceRequest(uri))
		require.NoError(t, err)
		assert.Contains(t, result.Contents[0].Text, `"total": "14.99"`)
		assert.Contains(t, result.Contents[0].Text, "2-x-2-in-quickpass-1.jpg")
	})

	t.Run("unknown order is not found", func(t *testing.T) {
		server, err := NewServer(newTestPorts(t))
		require.NoError(t, err)

		_, err = server.handleOrderResource(ctx, makeReadResourceRequest("quickpass://orders/ORD-MISSING"))
		require.Error(t, err)
	})
}
