// Package report renders validation runs as text or JSON and writes them to
// the console or to report files.
package report

import (
	"fmt"
	"path/filepath"
	"time"

	"mercator-hq/ifccheck/pkg/engine"
	"mercator-hq/ifccheck/pkg/model"
)

// Report is a validation run together with the files it was produced from.
type Report struct {
	RulesFile string
	ModelFile string
	Run       *engine.Run
}

// New creates a report.
func New(rulesFile, modelFile string, run *engine.Run) *Report {
	return &Report{RulesFile: rulesFile, ModelFile: modelFile, Run: run}
}

// Title returns "validation report <rules> <model>" using base file names.
func (r *Report) Title() string {
	return fmt.Sprintf("validation report %s %s", filepath.Base(r.RulesFile), filepath.Base(r.ModelFile))
}

// FileName returns the report file name for the text format.
func (r *Report) FileName() string {
	return r.Title() + ".txt"
}

// Lines returns the title followed by the report lines of every rule.
func (r *Report) Lines() []string {
	return append([]string{r.Title()}, r.Run.Report()...)
}

// Document is the JSON form of a report.
type Document struct {
	Title      string        `json:"title"`
	RulesFile  string        `json:"rules_file"`
	ModelFile  string        `json:"model_file"`
	StartedAt  time.Time     `json:"started_at"`
	DurationMS int64         `json:"duration_ms"`
	Status     engine.Status `json:"status"`
	Message    string        `json:"message"`
	Summary    SummaryDoc    `json:"summary"`
	Rules      []RuleDoc     `json:"rules"`
	Skipped    []string      `json:"skipped,omitempty"`
}

// SummaryDoc is the JSON form of engine.Summary.
type SummaryDoc struct {
	Rules          int            `json:"rules"`
	ValidRules     int            `json:"valid_rules"`
	Instances      int            `json:"instances"`
	ValidInstances int            `json:"valid_instances"`
	Constraints    map[string]int `json:"constraints"`
}

// RuleDoc is the JSON form of a rule result.
type RuleDoc struct {
	Name      string        `json:"name"`
	Classes   []string      `json:"classes"`
	Status    engine.Status `json:"status"`
	Message   string        `json:"message"`
	Instances []InstanceDoc `json:"instances"`
}

// InstanceDoc is the JSON form of an instance result.
type InstanceDoc struct {
	Type        string         `json:"type"`
	Name        string         `json:"name,omitempty"`
	GlobalID    string         `json:"global_id,omitempty"`
	Status      engine.Status  `json:"status"`
	Message     string         `json:"message"`
	Constraints []ComponentDoc `json:"constraints"`
}

// ComponentDoc is the JSON form of an evaluated constraint component.
type ComponentDoc struct {
	Kind       string         `json:"kind"`
	Status     engine.Status  `json:"status"`
	Message    string         `json:"message"`
	PathResult string         `json:"path_result,omitempty"`
	Children   []ComponentDoc `json:"children,omitempty"`
}

// Document builds the JSON form of the report.
func (r *Report) Document() Document {
	run := r.Run
	overall := run.Result()
	summary := run.Summary()

	doc := Document{
		Title:      r.Title(),
		RulesFile:  r.RulesFile,
		ModelFile:  r.ModelFile,
		StartedAt:  run.StartedAt,
		DurationMS: run.Duration().Milliseconds(),
		Status:     overall.Status,
		Message:    overall.Message,
		Summary: SummaryDoc{
			Rules:          summary.Rules,
			ValidRules:     summary.ValidRules,
			Instances:      summary.Instances,
			ValidInstances: summary.ValidInstances,
			Constraints:    make(map[string]int, len(summary.Constraints)),
		},
		Rules:   make([]RuleDoc, 0, len(run.Rules)),
		Skipped: run.Skipped,
	}
	for status, n := range summary.Constraints {
		doc.Summary.Constraints[status.String()] = n
	}

	for _, rule := range run.Rules {
		rd := RuleDoc{
			Name:      rule.Name,
			Classes:   rule.Rule.Classes,
			Status:    rule.Result.Status,
			Message:   rule.Result.Message,
			Instances: make([]InstanceDoc, 0, len(rule.Instances)),
		}
		for _, inst := range rule.Instances {
			id := InstanceDoc{
				Type:        inst.Entity.TypeTag(),
				Status:      inst.Result.Status,
				Message:     inst.Result.Message,
				Constraints: make([]ComponentDoc, 0, len(inst.Constraints)),
			}
			id.Name, _ = model.Name(inst.Entity)
			id.GlobalID, _ = model.GlobalID(inst.Entity)
			for _, c := range inst.Constraints {
				id.Constraints = append(id.Constraints, componentDoc(c))
			}
			rd.Instances = append(rd.Instances, id)
		}
		doc.Rules = append(doc.Rules, rd)
	}
	return doc
}

func componentDoc(c engine.Component) ComponentDoc {
	d := ComponentDoc{
		Kind:    string(c.Definition().Kind),
		Status:  c.Result().Status,
		Message: c.Result().Message,
	}
	switch x := c.(type) {
	case *engine.ConstraintResult:
		if x.PathResult != nil {
			d.PathResult = engine.Display(x.PathResult)
		}
	case *engine.GroupResult:
		d.Children = make([]ComponentDoc, 0, len(x.Children))
		for _, child := range x.Children {
			d.Children = append(d.Children, componentDoc(child))
		}
	}
	return d
}
