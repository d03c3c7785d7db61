package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/custodia-labs/quickpass/internal/logger"
)

// Version is reported when the caller does not set one with WithVersion.
const Version = "dev"

// Server exposes the photo size catalog and the local cart and orders to MCP clients.
type Server struct {
	ports  *Ports
	server *mcp.Server
}

// Option customises a Server.
type Option func(*mcp.Implementation)

// WithVersion reports v as the server version, normally the quickpass build version.
func WithVersion(v string) Option {
	return func(impl *mcp.Implementation) {
		if v != "" {
			impl.Version = v
		}
	}
}

// NewServer validates the ports and registers the tools they support.
func NewServer(ports *Ports, opts ...Option) (*Server, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("validating ports: %w", err)
	}

	impl := &mcp.Implementation{
		Name:    "quickpass",
		Title:   "QuickPass document photos",
		Version: Version,
	}
	for _, opt := range opts {
		opt(impl)
	}

	s := &Server{
		ports: ports,
		server: mcp.NewServer(impl, &mcp.ServerOptions{
			Instructions: instructions(ports),
		}),
	}

	s.registerTools()
	s.registerResources()

	return s, nil
}

// instructions tells the client which questions this server can answer.
func instructions(ports *Ports) string {
	var b strings.Builder
	b.WriteString("QuickPass knows passport and visa photo sizes. ")
	b.WriteString("Call resolve_country with a country name to find the required size, ")
	b.WriteString("then preset_info for pixel dimensions at 300 DPI.")
	if ports.Services != nil {
		b.WriteString(" list_services returns the photo products and prices.")
	}
	if ports.Cart != nil {
		b.WriteString(" cart_summary and the quickpass://orders resources show the local cart and order history.")
	}
	return b.String()
}

// Run serves over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	logger.Debug("mcp: serving on stdio")
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// RunHTTP serves the streamable HTTP transport on addr until ctx is cancelled.
func (s *Server) RunHTTP(ctx context.Context, addr string) error {
	handler := mcp.NewStreamableHTTPHandler(func(_ *http.Request) *mcp.Server {
		return s.server
	}, nil)

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("mcp: shutting down %s: %v", addr, err)
		}
	}()

	logger.Debug("mcp: listening on http://%s", addr)
	err := httpServer.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}
