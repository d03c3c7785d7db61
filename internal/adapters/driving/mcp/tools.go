package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/quickpass/internal/core/domain"
)

// ResolveCountryInput is the input schema for the resolve_country tool.
type ResolveCountryInput struct {
	Country string `json:"country" jsonschema:"country name in any case or accent form, e.g. Deutschland or germany"`
}

// ResolveCountryOutput is the output schema for the resolve_country tool.
type ResolveCountryOutput struct {
	Query  string        `json:"query"`
	Found  bool          `json:"found"`
	Preset *PresetOutput `json:"preset,omitempty"`
}

// PresetInfoInput is the input schema for the preset_info tool.
type PresetInfoInput struct {
	PresetID string `json:"preset_id" jsonschema:"preset identifier, e.g. schengen-35x45"`
}

// PresetOutput describes one size preset with its output geometry.
type PresetOutput struct {
	ID          string   `json:"id"`
	Label       string   `json:"label"`
	Description string   `json:"description"`
	Width       int      `json:"width_px"`
	Height      int      `json:"height_px"`
	AspectRatio float64  `json:"aspect_ratio"`
	Countries   []string `json:"countries,omitempty"`
}

// CartSummaryInput is the (empty) input schema for the cart_summary tool.
type CartSummaryInput struct{}

// CartSummaryOutput is the output schema for the cart_summary tool.
type CartSummaryOutput struct {
	Items      []CartItemOutput `json:"items"`
	Count      int              `json:"count"`
	Total      string           `json:"total"`
	TotalCents int64            `json:"total_cents"`
}

// CartItemOutput is a cart line without its image payload.
type CartItemOutput struct {
	Position    int    `json:"position"`
	Name        string `json:"name"`
	Price       string `json:"price"`
	PresetID    string `json:"preset_id"`
	SizeLabel   string `json:"size_label"`
	CountryHint string `json:"country_hint,omitempty"`
	FileName    string `json:"file_name"`
}

// ListServicesInput is the (empty) input schema for the list_services tool.
type ListServicesInput struct{}

// ListServicesOutput is the output schema for the list_services tool.
type ListServicesOutput struct {
	Services []ServiceOutput `json:"services"`
}

// ServiceOutput describes one purchasable service.
type ServiceOutput struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Price           string `json:"price"`
	DocumentType    string `json:"document_type"`
	Description     string `json:"description"`
	DefaultPresetID string `json:"default_preset_id"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "resolve_country",
		Description: "Find the document photo size preset used by a country",
	}, s.handleResolveCountry)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "preset_info",
		Description: "Describe a photo size preset and its pixel dimensions at 300 DPI",
	}, s.handlePresetInfo)

	if s.ports.Cart != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "cart_summary",
			Description: "List the photos currently in the cart and the cart total",
		}, s.handleCartSummary)
	}

	if s.ports.Services != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "list_services",
			Description: "List the purchasable photo services with prices",
		}, s.handleListServices)
	}
}

// handleResolveCountry handles the resolve_country tool invocation.
// A miss is reported as found=false, not as an error.
func (s *Server) handleResolveCountry(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input ResolveCountryInput,
) (*mcp.CallToolResult, ResolveCountryOutput, error) {
	output := ResolveCountryOutput{Query: input.Country}

	id, ok := s.ports.Resolver.Resolve(input.Country)
	if !ok {
		return nil, output, nil
	}
	preset, ok := s.ports.Presets.Preset(id)
	if !ok {
		return nil, output, nil
	}

	p := s.presetOutput(preset, false)
	output.Found = true
	output.Preset = &p
	return nil, output, nil
}

// handlePresetInfo handles the preset_info tool invocation.
func (s *Server) handlePresetInfo(
	_ context.Context,
	_ *mcp.CallToolRequest,
	input PresetInfoInput,
) (*mcp.CallToolResult, PresetOutput, error) {
	preset, ok := s.ports.Presets.Preset(input.PresetID)
	if !ok {
		return nil, PresetOutput{}, fmt.Errorf("preset %q: %w", input.PresetID, domain.ErrNotFound)
	}
	return nil, s.presetOutput(preset, true), nil
}

// handleCartSummary handles the cart_summary tool invocation.
func (s *Server) handleCartSummary(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ CartSummaryInput,
) (*mcp.CallToolResult, CartSummaryOutput, error) {
	items := s.ports.Cart.Cart()
	total := s.ports.Cart.CartTotal()

	output := CartSummaryOutput{
		Items:      make([]CartItemOutput, len(items)),
		Count:      len(items),
		Total:      total.String(),
		TotalCents: int64(total),
	}
	for i := range items {
		output.Items[i] = CartItemOutput{
			Position:    i + 1,
			Name:        items[i].Name,
			Price:       items[i].Price.String(),
			PresetID:    items[i].PresetID,
			SizeLabel:   items[i].SizeLabel,
			CountryHint: items[i].CountryHint,
			FileName:    items[i].FileName(i + 1),
		}
	}
	return nil, output, nil
}

// handleListServices handles the list_services tool invocation.
func (s *Server) handleListServices(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListServicesInput,
) (*mcp.CallToolResult, ListServicesOutput, error) {
	services := s.ports.Services.Services()
	output := ListServicesOutput{Services: make([]ServiceOutput, len(services))}
	for i, svc := range services {
		output.Services[i] = ServiceOutput{
			ID:              svc.ID,
			Name:            svc.Name,
			Price:           svc.Price.String(),
			DocumentType:    svc.DocumentType,
			Description:     svc.Description,
			DefaultPresetID: svc.DefaultPresetID,
		}
	}
	return nil, output, nil
}

func (s *Server) presetOutput(p domain.SizePreset, withCountries bool) PresetOutput {
	dims := s.ports.Presets.PixelDimensions(p.ID)
	out := PresetOutput{
		ID:          p.ID,
		Label:       p.Label,
		Description: p.Description,
		Width:       dims.Width,
		Height:      dims.Height,
		AspectRatio: s.ports.Presets.AspectRatio(p.ID),
	}
	if withCountries {
		out.Countries = p.Countries
	}
	return out
}
