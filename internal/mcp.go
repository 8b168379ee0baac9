package internal

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// MCPServer wraps the MCP server and application dependencies
type MCPServer struct {
	app       *App
	mcpServer *server.MCPServer
}

// NewMCPServer creates a new MCP server instance
func NewMCPServer(app *App) *MCPServer {
	mcpServer := server.NewMCPServer(
		"audio2tekst-server",
		"1.0.0",
		server.WithToolCapabilities(true),
	)

	s := &MCPServer{
		app:       app,
		mcpServer: mcpServer,
	}

	// Register tools
	s.registerTools()

	return s
}

// registerTools registers all available MCP tools
func (s *MCPServer) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("transcribe_media",
		mcp.WithDescription("Transcribe a local audio/video file or a YouTube video to text using OpenAI Whisper (PAID unless the content was transcribed before - results are cached by content hash). Accepts mp3, wav, m4a, mp4, mov, avi and webm."),
		mcp.WithString("source",
			mcp.Description("Path to a local media file or a YouTube URL"),
			mcp.Required(),
		),
	), s.handleTranscribe)

	s.mcpServer.AddTool(mcp.NewTool("summarize_media",
		mcp.WithDescription("Produce a one-sentence topic and a 3-5 sentence summary of a local audio/video file or a YouTube video. Transcribes first when no cached transcript exists (PAID)."),
		mcp.WithString("source",
			mcp.Description("Path to a local media file or a YouTube URL"),
			mcp.Required(),
		),
	), s.handleSummarize)
}

// handleTranscribe implements the transcribe_media tool
func (s *MCPServer) handleTranscribe(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := request.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError("source parameter is required and must be a string"), nil
	}

	in, err := s.app.Ingest(ctx, source)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to ingest media", err), nil
	}

	transcript, err := s.app.Transcribe(ctx, in)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to transcribe media", err), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(transcript)},
	}, nil
}

// handleSummarize implements the summarize_media tool
func (s *MCPServer) handleSummarize(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	source, err := request.RequireString("source")
	if err != nil {
		return mcp.NewToolResultError("source parameter is required and must be a string"), nil
	}

	in, err := s.app.Ingest(ctx, source)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to ingest media", err), nil
	}

	if _, err := s.app.Transcribe(ctx, in); err != nil {
		return mcp.NewToolResultErrorFromErr("failed to transcribe media", err), nil
	}

	result, err := s.app.Summarize(ctx, in.ID)
	if err != nil {
		return mcp.NewToolResultErrorFromErr("failed to summarize media", err), nil
	}

	text := fmt.Sprintf("Topic: %s\n\nSummary: %s", result.Topic, result.Summary)
	if result.Failed {
		return mcp.NewToolResultError(text), nil
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(text)},
	}, nil
}

// Start starts the MCP server using the specified transport
func (s *MCPServer) Start(ctx context.Context, transport string, port int) error {
	if transport == "http" {
		httpServer := server.NewStreamableHTTPServer(s.mcpServer)
		addr := fmt.Sprintf(":%d", port)
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return httpServer.Start(addr)
	}

	// Default to stdio transport
	return server.ServeStdio(s.mcpServer)
}
