package contract

import (
	"fmt"
	"strings"
	"time"

	"github.com/huangsam/airqc/schema"
)

// LogReportHeader prints a concise, 2-line header before a run.
func LogReportHeader(cfg *Config, sourceName, what string) {
	gates := strings.Join(cfg.Gates, ",")
	if len(cfg.Gates) == len(schema.AllGates) {
		gates = "all"
	} else if gates == "" {
		gates = "none"
	}

	if cfg.UseEmojis {
		fmt.Printf("🛫 %s: %s (Airline: %s, Gates: %s)\n", what, sourceName, cfg.Airline, gates)
		fmt.Printf("📅 Range: %s → %s\n", formatBound(cfg.StartTime), formatBound(cfg.EndTime))
		return
	}
	fmt.Printf("%s: %s (Airline: %s, Gates: %s)\n", what, sourceName, cfg.Airline, gates)
	fmt.Printf("Range: %s -> %s\n", formatBound(cfg.StartTime), formatBound(cfg.EndTime))
}

// formatBound renders an omitted bound as "*".
func formatBound(t time.Time) string {
	if t.IsZero() {
		return "*"
	}
	return t.Format(schema.DateLayout)
}
