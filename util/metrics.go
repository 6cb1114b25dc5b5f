package util

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var toolInvocations = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "docmost_mcp_tool_invocations_total",
	Help: "Number of tool calls received, by tool name.",
}, []string{"tool"})

var toolErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "docmost_mcp_tool_errors_total",
	Help: "Number of tool calls that failed or panicked, by tool name.",
}, []string{"tool"})
