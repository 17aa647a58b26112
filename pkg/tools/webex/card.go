package webex

import (
	"context"
	"encoding/json"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/theapemachine/mcp-server-webex-bridge/core"
	"github.com/theapemachine/mcp-server-webex-bridge/pkg/news"
	"github.com/theapemachine/mcp-server-webex-bridge/pkg/tools/utils"
	"github.com/theapemachine/mcp-server-webex-bridge/pkg/webex"
)

// CardTool sends a news bulletin as an adaptive card to a Webex user.
type CardTool struct {
	client *webex.Client
	handle mcp.Tool
}

// NewCardTool creates the send_webex_news_card tool. The articles argument is
// a JSON-encoded array, typically the output of get_news passed through
// unchanged by the orchestrator.
func NewCardTool(client *webex.Client) core.Tool {
	t := &CardTool{client: client}

	t.handle = mcp.NewTool(
		"send_webex_news_card",
		mcp.WithDescription("Sends a news bulletin as an Adaptive Card to a Webex user. Accepts the JSON article array produced by get_news."),
		mcp.WithString(
			"recipient_email",
			mcp.Required(),
			mcp.Description("Email address of the Webex user to message."),
		),
		mcp.WithString(
			"articles",
			mcp.Required(),
			mcp.Description("JSON array of articles, each with title, link, source, description and published_at."),
		),
	)
	return t
}

// Handle returns the tool's definition.
func (t *CardTool) Handle() mcp.Tool {
	return t.handle
}

// Handler executes the tool.
func (t *CardTool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recipient, err := utils.GetRequiredStringParam(request, "recipient_email")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	rawArticles, err := utils.GetRequiredStringParam(request, "articles")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	var articles []news.Article
	if err := json.Unmarshal([]byte(rawArticles), &articles); err != nil {
		return mcp.NewToolResultError("invalid_argument: articles must be a JSON array: " + err.Error()), nil
	}
	if len(articles) == 0 {
		return mcp.NewToolResultError("invalid_argument: articles must contain at least one article"), nil
	}

	card := webex.NewsCard(articles)
	receipt, err := t.client.SendCard(ctx, recipient, webex.CardFallback(articles), card)
	if err != nil {
		return sendErrorResult(err), nil
	}

	return receiptResult(recipient, receipt)
}
