package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/airqc/core"
	"github.com/huangsam/airqc/internal/contract"
	"github.com/huangsam/airqc/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
}

// configFor clones the base config and applies the shared overrides of a request.
func (h *toolHandler) configFor(request mcp.CallToolRequest) (*contract.Config, error) {
	cfg := h.baseCfg.Clone()
	if err := contract.RevalidateFilter(cfg,
		request.GetString("airline", ""),
		request.GetString("gates", ""),
		request.GetString("start", ""),
		request.GetString("end", ""),
	); err != nil {
		return nil, err
	}
	if a := request.GetFloat("alpha", 0); a != 0 {
		if a < 0 || a > 1 {
			return nil, fmt.Errorf("%w: alpha must be in (0, 1] (received %v)", schema.ErrInvalidParameter, a)
		}
		cfg.Alpha = a
	}
	if w := request.GetInt("window", 0); w != 0 {
		if w < 0 {
			return nil, fmt.Errorf("%w: window must be greater than 0 (received %d)", schema.ErrInvalidParameter, w)
		}
		cfg.Window = w
	}
	return cfg, nil
}

func (h *toolHandler) handleGetReport(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid report parameters: %v", err)), nil
	}

	result, err := core.GetReportResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("report failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetSeries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err == nil {
		err = contract.RevalidateSelectors(cfg,
			request.GetString("metric", ""),
			request.GetString("group_by", ""),
			request.GetString("field", ""),
			request.GetString("reducer", ""),
			"",
		)
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid series parameters: %v", err)), nil
	}

	result, err := core.GetSeriesResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("series failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetPareto(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.configFor(request)
	if err == nil {
		err = contract.RevalidateSelectors(cfg, "", "", "", "", request.GetString("category", ""))
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid pareto parameters: %v", err)), nil
	}

	entries, err := core.GetParetoResults(ctx, cfg, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("pareto failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(entries, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
