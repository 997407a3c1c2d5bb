package job

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/peter941221/detectfetch/internal/model"
	"github.com/peter941221/detectfetch/internal/output"
)

// API is the subset of the detection API the job drives.
type API interface {
	ListRules(ctx context.Context) ([]model.Rule, error)
	FindDetections(ctx context.Context, ruleID string, w model.Window) ([]model.Detection, error)
	FetchDetail(ctx context.Context, ruleID string, detectionID string) (model.Detail, error)
}

// Saver persists one detection detail and returns where it went.
type Saver interface {
	Save(detectionID string, body []byte) (string, error)
}

const DefaultRuleDelay = 6 * time.Second

type Options struct {
	API       API
	Store     Saver
	Reporter  *output.Reporter
	Filter    RuleFilter
	RuleDelay time.Duration
	Sleep     func(time.Duration)
	Now       func() time.Time
	NewRunID  func() string
}

// Runner walks every rule, finds its detections in a window and stores each
// detection's detail. It is strictly sequential.
type Runner struct {
	api       API
	store     Saver
	report    *output.Reporter
	filter    RuleFilter
	ruleDelay time.Duration
	sleep     func(time.Duration)
	now       func() time.Time
	newRunID  func() string
}

func New(opts Options) *Runner {
	r := &Runner{
		api:       opts.API,
		store:     opts.Store,
		report:    opts.Reporter,
		filter:    opts.Filter,
		ruleDelay: opts.RuleDelay,
		sleep:     opts.Sleep,
		now:       opts.Now,
		newRunID:  opts.NewRunID,
	}
	if r.report == nil {
		r.report = output.NewReporter(nil, nil)
	}
	if r.ruleDelay <= 0 {
		r.ruleDelay = DefaultRuleDelay
	}
	if r.sleep == nil {
		r.sleep = time.Sleep
	}
	if r.now == nil {
		r.now = func() time.Time { return time.Now().UTC() }
	}
	if r.newRunID == nil {
		r.newRunID = uuid.NewString
	}
	return r
}

// Run processes every rule against w. Per-rule and per-detection failures are
// reported and counted but never stop the run; only a cancelled ctx does.
func (r *Runner) Run(ctx context.Context, w model.Window) (model.Summary, error) {
	summary := model.Summary{
		RunID:     r.newRunID(),
		Window:    w,
		StartedAt: r.now(),
	}

	r.report.FetchingRules(summary.RunID)
	rules, err := r.api.ListRules(ctx)
	if err != nil {
		r.report.Error(err)
	}
	if len(rules) == 0 {
		r.report.NoRules()
		summary.NoRules = true
		summary.FinishedAt = r.now()
		return summary, nil
	}
	summary.RulesListed = len(rules)

	selected := r.filter.Apply(rules)
	if len(selected) == 0 {
		r.report.NoRulesMatched(len(rules))
		summary.NoRules = true
		summary.FinishedAt = r.now()
		return summary, nil
	}

	r.report.Window(w)
	for i, rule := range selected {
		if err := ctx.Err(); err != nil {
			summary.FinishedAt = r.now()
			return summary, err
		}

		r.report.Rule(i+1, len(selected), rule)
		if err := r.processRule(ctx, rule, w, &summary); err != nil {
			summary.FinishedAt = r.now()
			return summary, err
		}
		summary.RulesChecked++
		r.report.RuleDone()

		if i < len(selected)-1 {
			r.sleep(r.ruleDelay)
		}
	}
	summary.FinishedAt = r.now()
	return summary, nil
}

func (r *Runner) processRule(ctx context.Context, rule model.Rule, w model.Window, summary *model.Summary) error {
	if rule.RuleID == "" {
		summary.RuleFailures++
		r.report.Error(errors.New("rule has no ruleId"))
		r.report.NoDetections()
		return nil
	}

	detections, err := r.api.FindDetections(ctx, rule.RuleID, w)
	if err != nil {
		summary.RuleFailures++
		r.report.Error(err)
	}
	if len(detections) == 0 {
		r.report.NoDetections()
		return nil
	}

	summary.DetectionsFound += len(detections)
	r.report.DetectionsFound(len(detections))
	for _, d := range detections {
		if err := ctx.Err(); err != nil {
			return err
		}
		r.report.Detection(d.ID)
		if path, ok := r.FetchAndStoreDetail(ctx, d); ok {
			summary.DetailsSaved++
			r.report.DetailSaved(path)
		} else {
			summary.DetailsFailed++
		}
	}
	return nil
}

// FetchAndStoreDetail fetches one detection's detail and writes it to the store.
// Failures are reported and turned into ok=false; no file is touched on failure.
func (r *Runner) FetchAndStoreDetail(ctx context.Context, d model.Detection) (string, bool) {
	detail, err := r.api.FetchDetail(ctx, d.RuleID, d.ID)
	if err != nil {
		r.report.Error(err)
		return "", false
	}
	path, err := r.store.Save(d.ID, detail)
	if err != nil {
		r.report.Error(err)
		return "", false
	}
	return path, true
}
