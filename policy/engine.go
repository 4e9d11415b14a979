// Package policy gates task mutations with an OPA rego policy.
package policy

import (
	"context"
	"fmt"
	"os"

	"github.com/open-policy-agent/opa/v1/rego"
)

// Decisions returned by the policy.
const (
	DecisionAllow = "allow"
	DecisionBlock = "block"
)

// Engine is the OPA policy engine.
type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine creates a new policy engine with the given policy content.
func NewEngine(ctx context.Context, policyContent string) (*Engine, error) {
	r := rego.New(
		rego.Query("data.task_policy.decision"),
		rego.Module("task_policy.rego", policyContent),
	)

	query, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare rego: %w", err)
	}

	return &Engine{query: query}, nil
}

// NewEngineFromFile loads the policy from path, falling back to the default
// policy when path is empty.
func NewEngineFromFile(ctx context.Context, path string) (*Engine, error) {
	if path == "" {
		return NewEngine(ctx, DefaultPolicy)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read policy file: %w", err)
	}
	return NewEngine(ctx, string(content))
}

// Input describes one intended task operation.
type Input struct {
	Intent    string `json:"intent"`
	HasTaskID bool   `json:"has_task_id"`
	HasTitle  bool   `json:"has_title"`
}

// Evaluate checks the task policy. Returns allow or block; evaluation
// failures fail closed as block.
func (e *Engine) Evaluate(ctx context.Context, input Input) (string, error) {
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return DecisionBlock, fmt.Errorf("failed to evaluate policy: %w", err)
	}

	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return DecisionBlock, fmt.Errorf("policy returned no decision")
	}

	if s, ok := results[0].Expressions[0].Value.(string); ok {
		return s, nil
	}
	return DecisionBlock, fmt.Errorf("policy returned unexpected type")
}

// DefaultPolicy encodes the pipeline invariant: updates, deletions and
// completion toggles need a resolved task id, and task creation needs a
// non-empty title.
const DefaultPolicy = `
package task_policy

default decision := "allow"

decision := "block" if {
	input.intent == "add_task"
	not input.has_title
}

decision := "block" if {
	needs_id
	not input.has_task_id
}

needs_id if input.intent == "update_task"
needs_id if input.intent == "delete_task"
needs_id if input.intent == "complete_task"
`
