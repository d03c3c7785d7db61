// Package mcp provides an MCP (Model Context Protocol) server adapter for QuickPass.
// It lets AI assistants resolve document-photo sizes and inspect the local cart and orders.
package mcp

import "errors"

var (
	// ErrMissingPresetCatalog is returned when the preset catalog is not provided.
	ErrMissingPresetCatalog = errors.New("mcp: preset catalog is required")

	// ErrMissingResolver is returned when the country resolver is not provided.
	ErrMissingResolver = errors.New("mcp: country resolver is required")
)
