package archive

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"mercator-hq/ifccheck/pkg/engine"
	"mercator-hq/ifccheck/pkg/report"
)

// Record is one archived validation run.
type Record struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time

	RulesFile string
	ModelFile string

	Status         engine.Status
	Rules          int
	ValidRules     int
	Instances      int
	ValidInstances int

	// Report holds the text report lines joined by newlines.
	Report string

	// Document holds the JSON form of the report.
	Document []byte
}

// NewRecord builds a record for a rendered report with a fresh ID.
func NewRecord(rep *report.Report) (*Record, error) {
	doc, err := json.Marshal(rep.Document())
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}

	summary := rep.Run.Summary()
	return &Record{
		ID:             uuid.NewString(),
		StartedAt:      rep.Run.StartedAt,
		FinishedAt:     rep.Run.FinishedAt,
		RulesFile:      rep.RulesFile,
		ModelFile:      rep.ModelFile,
		Status:         rep.Run.Result().Status,
		Rules:          summary.Rules,
		ValidRules:     summary.ValidRules,
		Instances:      summary.Instances,
		ValidInstances: summary.ValidInstances,
		Report:         strings.Join(rep.Lines(), "\n"),
		Document:       doc,
	}, nil
}

// Duration returns how long the run took.
func (r *Record) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}

// Lines splits the stored text report back into lines.
func (r *Record) Lines() []string {
	if r.Report == "" {
		return nil
	}
	return strings.Split(r.Report, "\n")
}

// Query filters archived runs. Zero fields do not filter.
type Query struct {
	Since     time.Time
	Until     time.Time
	Status    *engine.Status
	RulesFile string

	// Limit caps the number of runs returned, 0 for no limit.
	Limit  int
	Offset int
}

func (q *Query) matches(r *Record) bool {
	if q == nil {
		return true
	}
	if !q.Since.IsZero() && r.StartedAt.Before(q.Since) {
		return false
	}
	if !q.Until.IsZero() && !r.StartedAt.Before(q.Until) {
		return false
	}
	if q.Status != nil && r.Status != *q.Status {
		return false
	}
	if q.RulesFile != "" && r.RulesFile != q.RulesFile {
		return false
	}
	return true
}
