// Package utils provides safe parameter extraction from MCP tool requests.
package utils

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// GetStringParam safely extracts a string parameter from the request
func GetStringParam(req mcp.CallToolRequest, key string, required bool) (string, error) {
	val, exists := req.Params.Arguments[key]
	if !exists || val == nil {
		if required {
			return "", fmt.Errorf("missing required parameter: '%s'", key)
		}
		return "", nil
	}

	str, ok := val.(string)
	if !ok {
		return "", fmt.Errorf("parameter '%s' must be a string", key)
	}

	return str, nil
}

// GetRequiredStringParam is a shorthand for GetStringParam with required=true
func GetRequiredStringParam(req mcp.CallToolRequest, key string) (string, error) {
	return GetStringParam(req, key, true)
}

// GetOptionalStringParam is a shorthand for GetStringParam with required=false
func GetOptionalStringParam(req mcp.CallToolRequest, key string) (string, error) {
	return GetStringParam(req, key, false)
}

// GetIntParam safely extracts an int parameter from a float64 in the request
func GetIntParam(req mcp.CallToolRequest, key string, required bool) (int, error) {
	val, exists := req.Params.Arguments[key]
	if !exists || val == nil {
		if required {
			return 0, fmt.Errorf("missing required parameter: '%s'", key)
		}
		return 0, nil
	}

	f, ok := val.(float64)
	if !ok {
		return 0, fmt.Errorf("parameter '%s' must be a number", key)
	}

	return int(f), nil
}

// GetOptionalIntParam is a shorthand for GetIntParam with required=false
func GetOptionalIntParam(req mcp.CallToolRequest, key string) (int, error) {
	return GetIntParam(req, key, false)
}

// GetBoolParam safely extracts a bool parameter from the request
func GetBoolParam(req mcp.CallToolRequest, key string, required bool) (bool, error) {
	val, exists := req.Params.Arguments[key]
	if !exists || val == nil {
		if required {
			return false, fmt.Errorf("missing required parameter: '%s'", key)
		}
		return false, nil
	}

	b, ok := val.(bool)
	if !ok {
		return false, fmt.Errorf("parameter '%s' must be a boolean", key)
	}

	return b, nil
}

// GetOptionalBoolParam is a shorthand for GetBoolParam with required=false
func GetOptionalBoolParam(req mcp.CallToolRequest, key string) (bool, error) {
	return GetBoolParam(req, key, false)
}

// HandleParameterError returns a properly formatted error response for parameter validation errors
func HandleParameterError(err error) *mcp.CallToolResult {
	return mcp.NewToolResultError("invalid_argument: " + err.Error())
}
