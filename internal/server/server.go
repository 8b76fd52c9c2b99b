package server

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"

	"github.com/ironsheep/media-handler/internal/handler"
)

// Name is the implementation name announced to clients
const Name = "media-handler"

// Server handles MCP protocol communication
type Server struct {
	handler *handler.Handler
	log     zerolog.Logger
	version string
	mcp     *mcp.Server
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the logger
func WithLogger(log zerolog.Logger) Option {
	return func(s *Server) { s.log = log }
}

// WithVersion sets the version announced to clients
func WithVersion(v string) Option {
	return func(s *Server) { s.version = v }
}

// New creates a new MCP server instance for h
func New(h *handler.Handler, opts ...Option) *Server {
	s := &Server{handler: h, log: zerolog.Nop(), version: "dev"}
	for _, opt := range opts {
		opt(s)
	}
	s.mcp = mcp.NewServer(&mcp.Implementation{Name: Name, Version: s.version}, nil)
	s.registerTools()
	return s
}

// MCP returns the underlying protocol server
func (s *Server) MCP() *mcp.Server { return s.mcp }

// Run serves on stdin/stdout until the client disconnects or ctx is done
func (s *Server) Run(ctx context.Context) error {
	s.log.Info().Str("version", s.version).Msg("mcp server starting")
	return s.mcp.Run(ctx, &mcp.StdioTransport{})
}

// logged wraps a tool handler with a request id and call logging
func logged[In, Out any](s *Server, tool string, h mcp.ToolHandlerFor[In, Out]) mcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
		log := s.log.With().Str("request_id", uuid.NewString()).Str("tool", tool).Logger()
		start := time.Now()
		res, out, err := h(log.WithContext(ctx), req, in)
		ev := log.Debug()
		if err != nil {
			ev = log.Warn().Err(err)
		}
		ev.Dur("elapsed", time.Since(start)).Msg("tool call")
		return res, out, err
	}
}
