package chronicle

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/peter941221/detectfetch/internal/model"
)

const (
	RuleIDPrefix = "ru_"

	// MissingDetectionID stands in for detections listed without an id.
	MissingDetectionID = "No ID"
)

// NormalizeRuleID prepends RuleIDPrefix unless ruleID already carries it.
func NormalizeRuleID(ruleID string) string {
	if strings.HasPrefix(ruleID, RuleIDPrefix) {
		return ruleID
	}
	return RuleIDPrefix + ruleID
}

// ListRules fetches every rule in a single request. Rate limiting is not retried here.
func (c *Client) ListRules(ctx context.Context) ([]model.Rule, error) {
	const op = "fetch rules"
	resp, err := c.get(ctx, op, "/detect/rules", nil)
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusOK {
		return nil, statusError(op, resp)
	}

	var payload struct {
		Rules []model.Rule `json:"rules"`
	}
	if err := json.Unmarshal(resp.body, &payload); err != nil {
		return nil, &Error{Op: op, Kind: FailureDecode, StatusCode: resp.status, Err: err}
	}
	if payload.Rules == nil {
		return []model.Rule{}, nil
	}
	return payload.Rules, nil
}

// FindDetections lists the detections of ruleID inside w. An empty, non-nil slice
// means the rule had no detections; any failure is reported through the error.
func (c *Client) FindDetections(ctx context.Context, ruleID string, w model.Window) ([]model.Detection, error) {
	const op = "fetch detections"
	ruleID = NormalizeRuleID(ruleID)

	query := url.Values{}
	query.Set("start_time", model.FormatTimestamp(w.Start))
	query.Set("end_time", model.FormatTimestamp(w.End))

	path := fmt.Sprintf("/detect/rules/%s/detections", url.PathEscape(ruleID))
	resp, err := c.getWithRateLimitRetry(ctx, op, path, query)
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusOK {
		return nil, statusError(op, resp)
	}

	var payload struct {
		Detections []struct {
			ID *string `json:"id"`
		} `json:"detections"`
	}
	if err := json.Unmarshal(resp.body, &payload); err != nil {
		return nil, &Error{Op: op, Kind: FailureDecode, StatusCode: resp.status, Err: err}
	}

	out := make([]model.Detection, 0, len(payload.Detections))
	for _, d := range payload.Detections {
		id := MissingDetectionID
		if d.ID != nil && *d.ID != "" {
			id = *d.ID
		}
		out = append(out, model.Detection{RuleID: ruleID, ID: id})
	}
	return out, nil
}

// FetchDetail returns the raw JSON document describing one detection.
func (c *Client) FetchDetail(ctx context.Context, ruleID string, detectionID string) (model.Detail, error) {
	const op = "fetch detection details"
	path := fmt.Sprintf("/detect/rules/%s/detections/%s", url.PathEscape(ruleID), url.PathEscape(detectionID))
	resp, err := c.getWithRateLimitRetry(ctx, op, path, nil)
	if err != nil {
		return nil, err
	}
	if resp.status != http.StatusOK {
		return nil, statusError(op, resp)
	}
	if !json.Valid(resp.body) {
		return nil, &Error{Op: op, Kind: FailureDecode, StatusCode: resp.status, Err: fmt.Errorf("response is not valid JSON")}
	}
	return model.Detail(resp.body), nil
}
