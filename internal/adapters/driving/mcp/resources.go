package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/quickpass/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for QuickPass resources.
	uriScheme = "quickpass://"
)

// orderInfo is an order without its image payloads.
type orderInfo struct {
	ID      string             `json:"id"`
	Date    string             `json:"date"`
	Status  domain.OrderStatus `json:"status"`
	Total   string             `json:"total"`
	Summary string             `json:"summary"`
	Items   []orderItemInfo    `json:"items,omitempty"`
	Count   int                `json:"item_count"`
}

type orderItemInfo struct {
	Name      string `json:"name"`
	Price     string `json:"price"`
	SizeLabel string `json:"size_label"`
	FileName  string `json:"file_name"`
}

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "presets",
		Name:        "presets",
		Description: "All document photo size presets with pixel dimensions",
		MIMEType:    "application/json",
	}, s.handlePresetsResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "orders",
		Name:        "orders",
		Description: "Order history, most recent first",
		MIMEType:    "application/json",
	}, s.handleOrdersResource)

	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "orders/{orderId}",
		Name:        "order",
		Description: "A single order with its items",
		MIMEType:    "application/json",
	}, s.handleOrderResource)
}

// handlePresetsResource returns every preset in catalog order.
func (s *Server) handlePresetsResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	presets := s.ports.Presets.Presets()
	infos := make([]PresetOutput, len(presets))
	for i, p := range presets {
		infos[i] = s.presetOutput(p, true)
	}
	return jsonResource(req.Params.URI, infos)
}

// handleOrdersResource returns the order history without item details.
func (s *Server) handleOrdersResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Cart == nil {
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{
				URI:      req.Params.URI,
				MIMEType: "application/json",
				Text:     "[]",
			}},
		}, nil
	}

	orders := s.ports.Cart.Orders()
	infos := make([]orderInfo, len(orders))
	for i := range orders {
		infos[i] = toOrderInfo(&orders[i], false)
	}
	return jsonResource(req.Params.URI, infos)
}

// handleOrderResource returns one order with its items.
func (s *Server) handleOrderResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Cart == nil {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	orderID := extractOrderID(req.Params.URI)
	if orderID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	order, err := s.ports.Cart.Order(orderID)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}
	if err != nil {
		return nil, fmt.Errorf("getting order: %w", err)
	}
	return jsonResource(req.Params.URI, toOrderInfo(order, true))
}

func toOrderInfo(o *domain.Order, withItems bool) orderInfo {
	info := orderInfo{
		ID:      o.ID,
		Date:    o.CreatedDate,
		Status:  o.Status,
		Total:   o.Total.String(),
		Summary: o.Summary,
		Count:   len(o.Items),
	}
	if withItems {
		info.Items = make([]orderItemInfo, len(o.Items))
		for i, item := range o.Items {
			info.Items[i] = orderItemInfo{
				Name:      item.Name,
				Price:     item.Price.String(),
				SizeLabel: item.SizeLabel,
				FileName:  item.FileName(i + 1),
			}
		}
	}
	return info
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling %s: %w", uri, err)
	}
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// extractOrderID extracts the order ID from a URI like quickpass://orders/{orderId}.
func extractOrderID(uri string) string {
	const prefix = uriScheme + "orders/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	return strings.TrimPrefix(uri, prefix)
}
