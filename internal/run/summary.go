package run

import (
	"io"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"salespipe/internal/sales"
)

// PrintSummary renders the human-readable block the validator job prints at
// the end of a run. Counts use thousands separators so day-sized numbers stay
// readable.
func PrintSummary(w io.Writer, s sales.ValidationSummary) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "validation %s (%s)\n", s.RunDate.Format("2006-01-02"), s.RunID)
	p.Fprintf(w, "  input     %12d\n", s.Input)
	p.Fprintf(w, "  accepted  %12d\n", s.Accepted)
	p.Fprintf(w, "  rejected  %12d  (%.2f%%)\n", s.Rejected, s.RejectionRate()*100)
	for _, reason := range sales.Reasons() {
		if n := s.ByReason[reason]; n > 0 {
			p.Fprintf(w, "    %-18s %10d\n", reason, n)
		}
	}
	p.Fprintf(w, "  elapsed   %12s\n", s.Elapsed.Round(time.Millisecond))
}

// PrintReport renders the transformer job's end-of-run block.
func PrintReport(w io.Writer, r sales.RunReport) {
	p := message.NewPrinter(language.English)
	p.Fprintf(w, "enrichment %s (%s)\n", r.RunDate.Format("2006-01-02"), r.RunID)
	p.Fprintf(w, "  rows      %12d\n", r.Rows)
	p.Fprintf(w, "  columns   %d -> %d\n", r.ColumnsBefore, r.ColumnsAfter)
	p.Fprintf(w, "  revenue   %12.2f total, %.2f avg\n", r.TotalRevenue, r.AverageRevenue)
	p.Fprintf(w, "  elapsed   %12s\n", r.Elapsed.Round(time.Millisecond))
}
