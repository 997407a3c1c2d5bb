package output

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/peter941221/detectfetch/internal/model"
)

func testSummary() model.Summary {
	end := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return model.Summary{
		RunID:           "run-1",
		Window:          model.TrailingWindow(end, 24*time.Hour),
		RulesListed:     3,
		RulesChecked:    2,
		RuleFailures:    1,
		DetectionsFound: 4,
		DetailsSaved:    3,
		DetailsFailed:   1,
		StartedAt:       end,
		FinishedAt:      end.Add(1500 * time.Millisecond),
	}
}

func TestWriteSummaryJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(testSummary(), "json", &buf); err != nil {
		t.Fatal(err)
	}
	var payload map[string]any
	if err := json.Unmarshal(buf.Bytes(), &payload); err != nil {
		t.Fatal(err)
	}
	if payload["run_id"] != "run-1" || payload["details_saved"] != float64(3) {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestWriteSummaryHumanIncludesCounts(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(testSummary(), "human", &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{
		"Run run-1 summary",
		"2024-04-30T12:00:00Z -> 2024-05-01T12:00:00Z",
		"checked=2 listed=3 failed=1",
		"found=4 saved=3 failed=1",
		"Duration:   1.5s",
	} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestWriteSummaryNoneAndUnknown(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSummary(testSummary(), "none", &buf); err != nil || buf.Len() != 0 {
		t.Fatalf("none should write nothing, err=%v out=%q", err, buf.String())
	}
	if err := WriteSummary(testSummary(), "sarif", &buf); err == nil {
		t.Fatal("expected unsupported format error")
	}
}

func TestReporterRuleBlock(t *testing.T) {
	var out, errOut bytes.Buffer
	r := NewReporter(&out, &errOut)

	r.Rule(1, 2, model.Rule{RuleID: "ru_1", RuleName: "A"})
	r.DetectionsFound(1)
	r.Detection("d1")
	r.DetailSaved("detections/detection_d1.json")
	r.RuleDone()
	r.Error(errors.New("boom"))

	want := "Checking rule 1/2:\nRule Name: A\nRule ID: ru_1\nNumber of detections found: 1\n\nDetection IDs:\nd1\nDetails saved to: detections/detection_d1.json\n\n" +
		strings.Repeat("-", 50) + "\n\n"
	if out.String() != want {
		t.Fatalf("unexpected output:\n%q\nwant\n%q", out.String(), want)
	}
	if errOut.String() != "Error: boom\n" {
		t.Fatalf("unexpected error output: %q", errOut.String())
	}
}
