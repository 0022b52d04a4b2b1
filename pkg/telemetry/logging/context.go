package logging

import "context"

type contextKey string

const (
	// RunIDKey is the context key for validation run IDs.
	RunIDKey contextKey = "run_id"

	// RulesFileKey is the context key for the rule document being evaluated.
	RulesFileKey contextKey = "rules_file"

	// ModelFileKey is the context key for the model being validated.
	ModelFileKey contextKey = "model_file"
)

// WithRunID adds a run ID to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, RunIDKey, runID)
}

// GetRunID retrieves the run ID from the context.
func GetRunID(ctx context.Context) string {
	v, _ := ctx.Value(RunIDKey).(string)
	return v
}

// WithRulesFile adds the rules file name to the context.
func WithRulesFile(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, RulesFileKey, path)
}

// WithModelFile adds the model file name to the context.
func WithModelFile(ctx context.Context, path string) context.Context {
	return context.WithValue(ctx, ModelFileKey, path)
}

func extractContextFields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	var fields []any
	for _, key := range []contextKey{RunIDKey, RulesFileKey, ModelFileKey} {
		if v, ok := ctx.Value(key).(string); ok && v != "" {
			fields = append(fields, string(key), v)
		}
	}
	return fields
}
