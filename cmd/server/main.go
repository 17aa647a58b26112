// Command server is the main entry point for the Webex news bridge MCP server.
package main

import (
	"context"
	"flag"
	"fmt"
	stdlog "log"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/theapemachine/mcp-server-webex-bridge/core"
	"github.com/theapemachine/mcp-server-webex-bridge/pkg/config"
	"github.com/theapemachine/mcp-server-webex-bridge/pkg/news"
	newstool "github.com/theapemachine/mcp-server-webex-bridge/pkg/tools/news"
	webextool "github.com/theapemachine/mcp-server-webex-bridge/pkg/tools/webex"
	"github.com/theapemachine/mcp-server-webex-bridge/pkg/webex"
)

func main() {
	cfg := config.Load()

	host := flag.String("host", cfg.Server.Host, "Server host address")
	port := flag.Int("port", cfg.Server.Port, "Server port number")
	logLevel := flag.String("log-level", defaultLogLevel(), "Log level (debug, info, warn, error)")
	transport := flag.String("transport", "sse", "Transport to serve on: sse or stdio")
	flag.Parse()

	level, err := log.ParseLevel(*logLevel)
	if err != nil {
		log.Warn("unknown log level, using info", "log_level", *logLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)

	// The MCP library logs through the stdlib logger.
	stdlog.SetFlags(stdlog.LstdFlags | stdlog.Lshortfile)
	stdlog.SetOutput(&logWriter{})

	if err := cfg.Validate(); err != nil {
		log.Warn("configuration warning", "error", err)
	}

	mcpServer := server.NewMCPServer(
		"Webex News Bridge",
		"1.0.0",
		server.WithResourceCapabilities(false, false),
		server.WithLogging(),
	)

	registry := NewToolRegistry(mcpServer)

	fetcher := news.NewFetcher(cfg.News.FeedURL, cfg.News.Locale, cfg.HTTP.Timeout)
	client := webex.NewClient(cfg.Webex.AccessToken, cfg.HTTP.Timeout)
	client.BaseURL = cfg.Webex.APIURL

	registry.RegisterTool("get_news", newstool.NewNewsTool(fetcher, cfg.News.WindowDays))
	registry.RegisterTool("get_cisco_news", newstool.NewCiscoNewsTool(fetcher))
	registry.RegisterTool("send_webex_message", webextool.NewMessageTool(client))
	registry.RegisterTool("send_webex_news_card", webextool.NewCardTool(client))

	switch *transport {
	case "stdio":
		log.Info("serving on stdio")
		if err := server.ServeStdio(mcpServer); err != nil {
			log.Fatal("server error", "error", err)
		}
	case "sse":
		addr := fmt.Sprintf("%s:%d", *host, *port)
		log.Info("serving on http", "addr", addr)
		sseServer := server.NewSSEServer(mcpServer, "http://"+addr)
		if err := sseServer.Start(addr); err != nil {
			log.Fatal("server error", "error", err)
		}
	default:
		log.Fatal("unknown transport", "transport", *transport)
	}
}

func defaultLogLevel() string {
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		return strings.ToLower(level)
	}
	return "info"
}

// ToolRegistry manages tool registration and lifecycle
type ToolRegistry struct {
	server *server.MCPServer
	tools  map[string]core.Tool
}

// NewToolRegistry creates a new tool registry
func NewToolRegistry(mcpServer *server.MCPServer) *ToolRegistry {
	return &ToolRegistry{
		server: mcpServer,
		tools:  make(map[string]core.Tool),
	}
}

// RegisterTool registers a tool with the server, wrapping its handler with
// per-invocation instrumentation.
func (r *ToolRegistry) RegisterTool(name string, tool core.Tool) {
	r.tools[name] = tool
	r.server.AddTool(tool.Handle(), instrument(name, tool.Handler))
}

// instrument tags every invocation with a call id and logs its outcome. The
// handler's result passes through unchanged.
func instrument(name string, handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error)) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		callID := uuid.NewString()
		started := time.Now()
		log.Debug("tool call started", "tool", name, "call_id", callID)

		result, err := handler(ctx, request)

		switch {
		case err != nil:
			log.Error("tool call failed", "tool", name, "call_id", callID, "error", err)
		case result != nil && result.IsError:
			log.Warn("tool call returned error result", "tool", name, "call_id", callID, "duration", time.Since(started))
		default:
			log.Debug("tool call completed", "tool", name, "call_id", callID, "duration", time.Since(started))
		}
		return result, err
	}
}

// logWriter filters log messages
type logWriter struct{}

// Write implements io.Writer and filters some log messages
func (w *logWriter) Write(bytes []byte) (int, error) {
	// Clients probe for capabilities the server does not declare.
	if strings.Contains(string(bytes), "Prompts not supported") {
		return len(bytes), nil
	}
	return os.Stderr.Write(bytes)
}
