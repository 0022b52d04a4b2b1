package engine

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"mercator-hq/ifccheck/pkg/model"
	"mercator-hq/ifccheck/pkg/rdl/ast"
)

// InstanceResult is the evaluation of one entity against a rule's constraints.
type InstanceResult struct {
	Entity      model.Entity
	Constraints []Component
	ValidCount  int
	Result      Result
}

// Report returns the instance line followed by every constraint's lines.
func (i *InstanceResult) Report() []string {
	lines := []string{i.Result.Message}
	for _, c := range i.Constraints {
		lines = append(lines, c.Report()...)
	}
	return lines
}

// RuleResult is the evaluation of a rule over all instances of its classes.
type RuleResult struct {
	Rule       *ast.Rule
	Name       string
	Instances  []*InstanceResult
	ValidCount int
	Result     Result
}

// Report returns the rule line, then for each instance a blank line and the
// instance report.
func (r *RuleResult) Report() []string {
	lines := []string{r.Result.Message}
	for _, inst := range r.Instances {
		lines = append(lines, "")
		lines = append(lines, inst.Report()...)
	}
	return lines
}

// Instances gathers the entities a rule applies to: class by class in
// declared order, then in model order within a class.
func Instances(rule *ast.Rule, m model.Model) []model.Entity {
	var entities []model.Entity
	for _, class := range rule.Classes {
		entities = append(entities, m.ByType(class)...)
	}
	return entities
}

// EvaluateInstance evaluates every top-level constraint against entity. The
// constraints form an implicit and; all are evaluated.
func (ev *Evaluator) EvaluateInstance(constraints []*ast.Component, entity model.Entity) *InstanceResult {
	inst := &InstanceResult{Entity: entity, Constraints: make([]Component, 0, len(constraints))}

	for _, def := range constraints {
		c := ev.EvaluateComponent(def, entity)
		if c.Result().IsValid() {
			inst.ValidCount++
		}
		inst.Constraints = append(inst.Constraints, c)
	}

	msg := fmt.Sprintf("%s: %d of %d constraints are valid.", describeEntity(entity), inst.ValidCount, len(inst.Constraints))
	if inst.ValidCount == len(inst.Constraints) {
		inst.Result = Valid(msg)
	} else {
		inst.Result = Failed(msg)
	}
	return inst
}

// EvaluateRule evaluates rule over the model. It returns an error only when
// ctx is cancelled; evaluation problems are reported as ERROR results.
func (ev *Evaluator) EvaluateRule(ctx context.Context, rule *ast.Rule, name string, m model.Model) (*RuleResult, error) {
	entities := Instances(rule, m)
	instances := make([]*InstanceResult, len(entities))

	if ev.config.Parallelism <= 1 || len(entities) < 2 {
		for i, e := range entities {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			instances[i] = ev.EvaluateInstance(rule.Constraints, e)
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(ev.config.Parallelism)
		for i, e := range entities {
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				instances[i] = ev.EvaluateInstance(rule.Constraints, e)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	r := &RuleResult{Rule: rule, Name: name, Instances: instances}
	for _, inst := range instances {
		if inst.Result.IsValid() {
			r.ValidCount++
		}
	}

	msg := fmt.Sprintf("Rule: %d of %d instances of types [%s] successfully validated.",
		r.ValidCount, len(instances), strings.Join(rule.Classes, ", "))
	if rule.Name != "" {
		msg = rule.Name + ": " + msg
	}
	if r.ValidCount == len(instances) {
		r.Result = Valid(msg)
	} else {
		r.Result = Failed(msg)
	}
	return r, nil
}

// describeEntity renders "<type> <Name> Global Id: <GlobalId>", leaving out
// the parts the entity does not have.
func describeEntity(e model.Entity) string {
	parts := []string{e.TypeTag()}
	if name, ok := model.Name(e); ok {
		parts = append(parts, name)
	}
	if id, ok := model.GlobalID(e); ok {
		parts = append(parts, "Global Id: "+id)
	}
	return strings.Join(parts, " ")
}
