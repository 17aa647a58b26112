// Package news exposes the feed fetcher as MCP tools.
package news

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/theapemachine/mcp-server-webex-bridge/core"
	"github.com/theapemachine/mcp-server-webex-bridge/pkg/news"
	"github.com/theapemachine/mcp-server-webex-bridge/pkg/tools/utils"
)

// NewsTool fetches recent articles for an arbitrary topic.
type NewsTool struct {
	fetcher       *news.Fetcher
	defaultWindow int
	handle        mcp.Tool
}

// NewNewsTool creates the generalized get_news tool. defaultWindow is the
// window applied when the caller omits window_days.
func NewNewsTool(fetcher *news.Fetcher, defaultWindow int) core.Tool {
	t := &NewsTool{
		fetcher:       fetcher,
		defaultWindow: defaultWindow,
	}

	t.handle = mcp.NewTool(
		"get_news",
		mcp.WithDescription("Fetches recent news articles for a topic from an RSS feed, returned as a JSON array."),
		mcp.WithString(
			"topic",
			mcp.Required(),
			mcp.Description("The search topic, e.g. a company or product name."),
		),
		mcp.WithNumber(
			"window_days",
			mcp.Description("Optional. Only articles published within this many days are returned (default 7)."),
		),
	)
	return t
}

// Handle returns the tool's definition.
func (t *NewsTool) Handle() mcp.Tool {
	return t.handle
}

// Handler executes the tool.
func (t *NewsTool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic, err := utils.GetRequiredStringParam(request, "topic")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	windowDays, err := utils.GetOptionalIntParam(request, "window_days")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}
	if windowDays == 0 {
		windowDays = t.defaultWindow
	}

	articles, err := t.fetcher.Fetch(ctx, topic, windowDays)
	if err != nil {
		return fetchErrorResult(err), nil
	}

	return articlesResult(articles)
}

// CiscoNewsTool is the zero-argument convenience tool pinned to Cisco news
// over the last week, kept alongside the generalized get_news.
type CiscoNewsTool struct {
	fetcher *news.Fetcher
	handle  mcp.Tool
}

// NewCiscoNewsTool creates the get_cisco_news tool.
func NewCiscoNewsTool(fetcher *news.Fetcher) core.Tool {
	t := &CiscoNewsTool{fetcher: fetcher}

	t.handle = mcp.NewTool(
		"get_cisco_news",
		mcp.WithDescription("Fetches recent news articles related to Cisco from the last 7 days via a Google News RSS feed."),
	)
	return t
}

// Handle returns the tool's definition.
func (t *CiscoNewsTool) Handle() mcp.Tool {
	return t.handle
}

// Handler executes the tool.
func (t *CiscoNewsTool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	articles, err := t.fetcher.Fetch(ctx, "Cisco", 7)
	if err != nil {
		return fetchErrorResult(err), nil
	}

	return articlesResult(articles)
}

func articlesResult(articles []news.Article) (*mcp.CallToolResult, error) {
	payload, err := json.Marshal(articles)
	if err != nil {
		log.Error("failed to marshal articles", "error", err)
		return mcp.NewToolResultError("internal_error: failed to encode articles"), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

func fetchErrorResult(err error) *mcp.CallToolResult {
	var fetchErr *news.FetchError

	switch {
	case errors.Is(err, news.ErrEmptyTopic), errors.Is(err, news.ErrInvalidWindow):
		return mcp.NewToolResultError("invalid_argument: " + err.Error())
	case errors.As(err, &fetchErr):
		log.Error("news fetch failed", "url", fetchErr.URL, "error", fetchErr.Err)
		return mcp.NewToolResultError("fetch_error: " + err.Error())
	}

	log.Error("news fetch failed", "error", err)
	return mcp.NewToolResultError(fmt.Sprintf("fetch_error: %v", err))
}
