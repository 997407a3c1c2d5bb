package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/peter941221/detectfetch/internal/model"
)

// WriteSummary renders a run summary as "human", "json" or "none".
func WriteSummary(s model.Summary, format string, w io.Writer) error {
	switch strings.ToLower(format) {
	case "human":
		writeHuman(s, w)
		return nil
	case "json":
		return writeJSON(s, w)
	case "none":
		return nil
	default:
		return fmt.Errorf("unsupported summary format: %s", format)
	}
}

func writeHuman(s model.Summary, w io.Writer) {
	fmt.Fprintf(w, "Run %s summary\n", s.RunID)
	if s.NoRules {
		fmt.Fprintln(w, "  No rules processed")
		return
	}
	fmt.Fprintf(w, "  Window:     %s -> %s\n", model.FormatTimestamp(s.Window.Start), model.FormatTimestamp(s.Window.End))
	fmt.Fprintf(w, "  Rules:      checked=%d listed=%d failed=%d\n", s.RulesChecked, s.RulesListed, s.RuleFailures)
	fmt.Fprintf(w, "  Detections: found=%d saved=%d failed=%d\n", s.DetectionsFound, s.DetailsSaved, s.DetailsFailed)
	if !s.StartedAt.IsZero() && !s.FinishedAt.IsZero() {
		fmt.Fprintf(w, "  Duration:   %s\n", s.FinishedAt.Sub(s.StartedAt).Round(time.Millisecond))
	}
}

func writeJSON(s model.Summary, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
