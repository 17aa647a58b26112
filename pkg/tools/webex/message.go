// Package webex exposes the Webex messaging client as MCP tools.
package webex

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/theapemachine/mcp-server-webex-bridge/core"
	"github.com/theapemachine/mcp-server-webex-bridge/pkg/tools/utils"
	"github.com/theapemachine/mcp-server-webex-bridge/pkg/webex"
)

// MessageTool sends a text or markdown message to a Webex user.
type MessageTool struct {
	client *webex.Client
	handle mcp.Tool
}

// NewMessageTool creates the send_webex_message tool.
func NewMessageTool(client *webex.Client) core.Tool {
	t := &MessageTool{client: client}

	t.handle = mcp.NewTool(
		"send_webex_message",
		mcp.WithDescription("Sends a text or markdown message to a Webex user via their email address."),
		mcp.WithString(
			"recipient_email",
			mcp.Required(),
			mcp.Description("Email address of the Webex user to message."),
		),
		mcp.WithString(
			"message",
			mcp.Required(),
			mcp.Description("The message body to send."),
		),
		mcp.WithBoolean(
			"markdown",
			mcp.Description("Optional. Render the body as markdown instead of plain text."),
		),
	)
	return t
}

// Handle returns the tool's definition.
func (t *MessageTool) Handle() mcp.Tool {
	return t.handle
}

// Handler executes the tool.
func (t *MessageTool) Handler(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	recipient, err := utils.GetRequiredStringParam(request, "recipient_email")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	body, err := utils.GetRequiredStringParam(request, "message")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	markdown, err := utils.GetOptionalBoolParam(request, "markdown")
	if err != nil {
		return utils.HandleParameterError(err), nil
	}

	receipt, err := t.client.SendMessage(ctx, recipient, body, markdown)
	if err != nil {
		return sendErrorResult(err), nil
	}

	return receiptResult(recipient, receipt)
}

func receiptResult(recipient string, receipt *webex.DeliveryReceipt) (*mcp.CallToolResult, error) {
	responseData := map[string]any{
		"status":     "success",
		"message_id": receipt.ID,
		"recipient":  recipient,
	}
	jsonResponse, err := json.Marshal(responseData)
	if err != nil {
		log.Error("failed to marshal receipt", "error", err)
		return mcp.NewToolResultError("internal_error: failed to create JSON response"), nil
	}
	return mcp.NewToolResultText(string(jsonResponse)), nil
}

func sendErrorResult(err error) *mcp.CallToolResult {
	var (
		authErr     *webex.AuthError
		deliveryErr *webex.DeliveryError
	)

	switch {
	case errors.Is(err, webex.ErrInvalidRecipient), errors.Is(err, webex.ErrEmptyMessage):
		return mcp.NewToolResultError("invalid_argument: " + err.Error())
	case errors.As(err, &authErr):
		log.Error("webex send rejected", "error", err)
		return mcp.NewToolResultError("auth_error: " + err.Error())
	case errors.As(err, &deliveryErr):
		log.Error("webex send failed", "error", err)
		return mcp.NewToolResultError("delivery_error: " + err.Error())
	}

	log.Error("webex send failed", "error", err)
	return mcp.NewToolResultError("delivery_error: " + err.Error())
}
