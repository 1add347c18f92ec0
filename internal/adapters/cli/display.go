package cli

import (
	"fmt"
	"io"
	"strings"

	"minigold/internal/core"
)

func printStock(w io.Writer, stock []core.ProductStock) {
	fmt.Fprintln(w, strings.Repeat("=", 62))
	fmt.Fprintf(w, "  %-8s %-40s %10s\n", "ID", "PRODUCT", "QTY")
	fmt.Fprintln(w, strings.Repeat("-", 62))
	for _, s := range stock {
		fmt.Fprintf(w, "  %-8d %-40s %10d\n", s.ProductID, truncate(s.ProductName, 40), s.Qty)
	}
	fmt.Fprintln(w, strings.Repeat("=", 62))
}

func printMovements(w io.Writer, productID int64, moves []core.StockMovement) {
	fmt.Fprintf(w, "  Movements of product %d\n", productID)
	fmt.Fprintln(w, strings.Repeat("=", 62))
	fmt.Fprintf(w, "  %-20s %-12s %10s %10s\n", "DATE", "PACKAGING", "QTY", "AFTER")
	fmt.Fprintln(w, strings.Repeat("-", 62))
	for _, m := range moves {
		fmt.Fprintf(w, "  %-20s %-12d %10d %10d\n", m.Created.Format("2006-01-02 15:04"), m.PackagingID, m.Qty, m.QtyAfter)
	}
	fmt.Fprintln(w, strings.Repeat("=", 62))
}

func printStatuses(w io.Writer) {
	for _, s := range core.Statuses() {
		fmt.Fprintf(w, "  %d  %-20s %s\n", s.Code, s.Label, s.Color)
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
