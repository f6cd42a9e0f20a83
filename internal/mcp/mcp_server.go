// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/airqc/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// filterOptions are shared by every tool.
func filterOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("airline", mcp.Description("Airline to include, or 'all'. Defaults to the server configuration.")),
		mcp.WithString("gates", mcp.Description("Comma-separated gates (e.g. 'G1,G4'), or 'all'.")),
		mcp.WithString("start", mcp.Description("Inclusive start day (YYYY-MM-DD or relative like '30 days ago').")),
		mcp.WithString("end", mcp.Description("Inclusive end day (YYYY-MM-DD or relative like '7 days ago').")),
	}
}

// NewMCPServer initializes and configures the airqc MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Airport Quality Control Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
	}

	// --- 1. Tool: get_report ---
	reportOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Compute the airport quality dashboard: turnaround limits, bag SLA CUSUM, queue EWMA, gate usage, scan-failure P-chart, passenger flow moving average and delay-cause Pareto."),
		mcp.WithNumber("alpha", mcp.Description("EWMA smoothing factor in (0, 1].")),
		mcp.WithNumber("window", mcp.Description("Moving average window in days.")),
	}, filterOptions()...)
	s.AddTool(mcp.NewTool("get_report", reportOpts...), h.handleGetReport)

	// --- 2. Tool: get_series ---
	seriesOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Aggregate one record field by a group key and apply a single SPC transform."),
		mcp.WithString("metric", mcp.Description("SPC transform. Defaults to 'ewma'."), mcp.Enum("limits", "cusum", "ewma", "pchart", "ma", "raw")),
		mcp.WithString("group_by", mcp.Description("Group key. Sequential metrics need 'date'."), mcp.Enum("date", "gate", "delay_cause", "airline")),
		mcp.WithString("field", mcp.Description("Numeric record field to aggregate."),
			mcp.Enum("turnaround_minutes", "bag_sla_minutes", "queue_minutes", "scan_failures", "total_bags", "passenger_flow")),
		mcp.WithString("reducer", mcp.Description("Per-group reduction."), mcp.Enum("sum", "mean", "count")),
		mcp.WithNumber("alpha", mcp.Description("EWMA smoothing factor in (0, 1].")),
		mcp.WithNumber("window", mcp.Description("Moving average window.")),
	}, filterOptions()...)
	s.AddTool(mcp.NewTool("get_series", seriesOpts...), h.handleGetSeries)

	// --- 3. Tool: get_pareto ---
	paretoOpts := append([]mcp.ToolOption{
		mcp.WithDescription("Rank a categorical field by frequency with cumulative percentages."),
		mcp.WithString("category", mcp.Description("Field to rank. Defaults to 'delay_cause'."), mcp.Enum("gate", "delay_cause", "airline")),
	}, filterOptions()...)
	s.AddTool(mcp.NewTool("get_pareto", paretoOpts...), h.handleGetPareto)

	return s
}

// StartMCPServer starts the airqc MCP server on stdio.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
