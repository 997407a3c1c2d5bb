package model

import (
	"encoding/json"
	"time"
)

// TimestampLayout is the whole-second UTC form the detection API accepts.
const TimestampLayout = "2006-01-02T15:04:05Z"

type Rule struct {
	RuleID   string `json:"ruleId"`
	RuleName string `json:"ruleName"`
}

// Detection pairs a detection ID with its (normalized) owning rule.
type Detection struct {
	RuleID string `json:"rule_id"`
	ID     string `json:"id"`
}

// Detail is a detection document exactly as the API returned it.
type Detail = json.RawMessage

type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// TrailingWindow returns the lookback period ending at end, truncated to whole seconds in UTC.
func TrailingWindow(end time.Time, lookback time.Duration) Window {
	end = end.UTC().Truncate(time.Second)
	return Window{Start: end.Add(-lookback), End: end}
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Summary is the per-run result of a fetch job.
type Summary struct {
	RunID           string    `json:"run_id"`
	Window          Window    `json:"window"`
	NoRules         bool      `json:"no_rules"`
	RulesListed     int       `json:"rules_listed"`
	RulesChecked    int       `json:"rules_checked"`
	RuleFailures    int       `json:"rule_failures"`
	DetectionsFound int       `json:"detections_found"`
	DetailsSaved    int       `json:"details_saved"`
	DetailsFailed   int       `json:"details_failed"`
	StartedAt       time.Time `json:"started_at"`
	FinishedAt      time.Time `json:"finished_at"`
}
