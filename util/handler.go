package util

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"
)

// LegacyHandler is the argument-map handler shape used before mcp-go passed
// a context and the full request.
type LegacyHandler func(arguments map[string]interface{}) (*mcp.CallToolResult, error)

// AdaptLegacyHandler lifts a LegacyHandler to the current handler signature.
func AdaptLegacyHandler(handler LegacyHandler) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		return handler(request.Params.Arguments)
	}
}

// ErrorGuard wraps a tool handler so that panics and returned errors surface
// as tool error results instead of crashing the server. It also records
// invocation and error counts per tool.
func ErrorGuard(handler server.ToolHandlerFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		tool := request.Params.Name
		toolInvocations.WithLabelValues(tool).Inc()

		defer func() {
			if r := recover(); r != nil {
				logrus.WithField("tool", tool).Errorf("recovered from panic: %v", r)
				toolErrors.WithLabelValues(tool).Inc()
				result = mcp.NewToolResultError(fmt.Sprintf("%v", r))
				err = nil
			}
		}()

		result, err = handler(ctx, request)
		if err != nil {
			logrus.WithField("tool", tool).WithError(err).Error("tool failed")
			toolErrors.WithLabelValues(tool).Inc()
			return mcp.NewToolResultError(err.Error()), nil
		}
		return result, nil
	}
}
