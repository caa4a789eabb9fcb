package generation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/pathmint/waypoint/ports"
)

// HTTPPlanner calls the external agent service that runs the language
// model. Generation can take minutes; the client timeout is sized for
// that, and callers bound it further through ctx.
type HTTPPlanner struct {
	baseURL string
	client  *http.Client
}

// NewHTTPPlanner creates a planner client for the agent service
func NewHTTPPlanner(baseURL string) *HTTPPlanner {
	return &HTTPPlanner{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 5 * time.Minute},
	}
}

var _ ports.Planner = (*HTTPPlanner)(nil)

type planRequest struct {
	Goal string `json:"goal"`
	Days int    `json:"days"`
}

// Plan requests a course plan document for the goal
func (p *HTTPPlanner) Plan(ctx context.Context, goal string, days int) ([]byte, error) {
	body, err := json.Marshal(planRequest{Goal: goal, Days: days})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal plan request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/generate", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build plan request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("agent request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("agent returned %d: %s", resp.StatusCode, msg)
	}

	plan, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read plan: %w", err)
	}
	if len(plan) == 0 {
		return nil, fmt.Errorf("agent returned an empty plan")
	}

	return plan, nil
}
