package iocache

import (
	"fmt"
	"io"
	"strings"

	"github.com/huangsam/airqc/schema"
)

// PrintStoreStatus prints record store status information.
func PrintStoreStatus(w io.Writer, status schema.StoreStatus) {
	_, _ = fmt.Fprintf(w, "Store Backend: %s\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	_, _ = fmt.Fprintf(w, "Schema Version: %d\n", status.SchemaVersion)
	_, _ = fmt.Fprintf(w, "Total Records: %d\n", status.TotalRecords)
	if status.TotalRecords > 0 {
		_, _ = fmt.Fprintf(w, "First Day: %s\n", schema.FormatDay(status.FirstDate))
		_, _ = fmt.Fprintf(w, "Last Day: %s\n", schema.FormatDay(status.LastDate))
		_, _ = fmt.Fprintf(w, "Airlines: %s\n", strings.Join(status.Airlines, ", "))
	}
	if !status.LastImport.IsZero() {
		_, _ = fmt.Fprintf(w, "Last Import: %s\n", status.LastImport.Format("2006-01-02 15:04:05"))
	}
}
