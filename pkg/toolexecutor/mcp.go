package toolexecutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
)

// ClientName identifies this client during the MCP handshake.
const ClientName = "mcploop"

// ToolSession is the tool provider surface driven by the agent loop.
type ToolSession interface {
	ListTools(ctx context.Context) ([]Descriptor, error)
	CallTool(ctx context.Context, name string, args *Arguments) (*CallResult, error)
	Close() error
}

// ServerConfig locates the MCP server: a command spoken to over stdio, or
// an http(s) URL. URLs ending in /sse use the SSE transport, any other URL
// the streamable HTTP transport.
type ServerConfig struct {
	Command string
	Args    []string
	Env     []string
	URL     string
}

// transportBuilder is overridden in tests to stub the transport factory.
var transportBuilder = buildTransport

// Session is an initialized MCP client session.
type Session struct {
	session  *mcpsdk.ClientSession
	recorder *schemaRecorder
	logger   zerolog.Logger
}

var _ ToolSession = (*Session)(nil)

// Connect starts or dials the configured server and performs the MCP handshake.
func Connect(ctx context.Context, cfg ServerConfig, logger zerolog.Logger) (*Session, error) {
	transport, err := transportBuilder(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("build transport: %w", err)
	}
	return connectTransport(ctx, transport, logger)
}

func connectTransport(ctx context.Context, transport mcpsdk.Transport, logger zerolog.Logger) (*Session, error) {
	recorder := newSchemaRecorder()
	client := mcpsdk.NewClient(&mcpsdk.Implementation{Name: ClientName, Version: "dev"}, nil)

	cs, err := client.Connect(ctx, &recordingTransport{inner: transport, recorder: recorder}, nil)
	if err != nil {
		return nil, fmt.Errorf("connect to MCP server: %w", err)
	}

	logger.Debug().Msg("MCP session initialized")
	return &Session{session: cs, recorder: recorder, logger: logger}, nil
}

// ListTools fetches every tool the server advertises.
func (s *Session) ListTools(ctx context.Context) ([]Descriptor, error) {
	if s == nil || s.session == nil {
		return nil, errors.New("mcp session is closed")
	}

	var tools []Descriptor
	for tool, err := range s.session.Tools(ctx, nil) {
		if err != nil {
			return nil, fmt.Errorf("list tools: %w", err)
		}
		tools = append(tools, s.descriptor(tool))
	}

	s.logger.Debug().Int("count", len(tools)).Msg("Retrieved tool list")
	return tools, nil
}

func (s *Session) descriptor(tool *mcpsdk.Tool) Descriptor {
	raw, ok := s.recorder.schema(tool.Name)
	if !ok && tool.InputSchema != nil {
		// Map-backed schema; properties come back in lexical order.
		raw, _ = json.Marshal(tool.InputSchema)
	}

	params, err := ParseParameters(raw)
	if err != nil {
		s.logger.Warn().Err(err).Str("tool", tool.Name).Msg("Unreadable tool input schema")
	}

	return Descriptor{
		Name:        tool.Name,
		Description: tool.Description,
		Params:      params,
		Schema:      raw,
	}
}

// CallTool invokes a tool. Arguments are sent in their declared order.
// A result flagged IsError is returned as a result, not an error.
func (s *Session) CallTool(ctx context.Context, name string, args *Arguments) (*CallResult, error) {
	if s == nil || s.session == nil {
		return nil, errors.New("mcp session is closed")
	}

	var arguments any = map[string]any{}
	if args != nil {
		arguments = args
	}

	res, err := s.session.CallTool(ctx, &mcpsdk.CallToolParams{Name: name, Arguments: arguments})
	if err != nil {
		return nil, err
	}
	if res.IsError {
		s.logger.Warn().Str("tool", name).Msg("Tool reported an error result")
	}
	return NewCallResult(res), nil
}

// Close ends the session; for stdio servers this stops the process.
func (s *Session) Close() error {
	if s == nil || s.session == nil {
		return nil
	}
	err := s.session.Close()
	s.session = nil
	return err
}

func buildTransport(ctx context.Context, cfg ServerConfig) (mcpsdk.Transport, error) {
	if endpoint := strings.TrimSpace(cfg.URL); endpoint != "" {
		u, err := url.Parse(endpoint)
		if err != nil {
			return nil, fmt.Errorf("invalid server url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return nil, fmt.Errorf("unsupported server url scheme %q", u.Scheme)
		}
		if strings.HasSuffix(strings.TrimSuffix(u.Path, "/"), "/sse") {
			return &mcpsdk.SSEClientTransport{Endpoint: endpoint}, nil
		}
		return &mcpsdk.StreamableClientTransport{Endpoint: endpoint}, nil
	}

	command := strings.TrimSpace(cfg.Command)
	if command == "" {
		return nil, errors.New("server command is empty")
	}
	// #nosec G204 -- command comes from local configuration
	cmd := exec.CommandContext(ctx, command, cfg.Args...)
	if len(cfg.Env) > 0 {
		cmd.Env = append(os.Environ(), cfg.Env...)
	}
	cmd.Stderr = os.Stderr
	return &mcpsdk.CommandTransport{Command: cmd}, nil
}

// ParseServer turns a --server flag value into a ServerConfig. Values with
// an http(s) scheme are URLs; anything else is a command line split on
// whitespace.
func ParseServer(spec string) (ServerConfig, error) {
	spec = strings.TrimSpace(spec)
	if spec == "" {
		return ServerConfig{}, errors.New("server spec is empty")
	}
	lowered := strings.ToLower(spec)
	if strings.HasPrefix(lowered, "http://") || strings.HasPrefix(lowered, "https://") {
		return ServerConfig{URL: spec}, nil
	}
	parts := strings.Fields(spec)
	return ServerConfig{Command: parts[0], Args: parts[1:]}, nil
}
