package ast

// Visitor is called for every node during a Walk.
// Returning an error stops the traversal.
type Visitor interface {
	VisitRule(*Rule) error
	VisitComponent(*Component) error
	VisitPathStep(*PathStep) error
	VisitCheck(*Check) error
}

// Walk traverses the document depth-first in declared order.
func Walk(doc *Document, visitor Visitor) error {
	for _, rule := range doc.Rules {
		if err := visitor.VisitRule(rule); err != nil {
			return err
		}
		for _, c := range rule.Constraints {
			if err := walkComponent(c, visitor); err != nil {
				return err
			}
		}
	}
	return nil
}

func walkComponent(c *Component, visitor Visitor) error {
	if err := visitor.VisitComponent(c); err != nil {
		return err
	}

	for _, step := range c.Path {
		if err := visitor.VisitPathStep(step); err != nil {
			return err
		}
	}

	for chk := c.Check; chk != nil; chk = chk.Inner {
		if err := visitor.VisitCheck(chk); err != nil {
			return err
		}
	}

	for _, child := range c.Children {
		if err := walkComponent(child, visitor); err != nil {
			return err
		}
	}
	return nil
}

// Stats counts the nodes of a document.
type Stats struct {
	Rules       int
	Components  int
	Constraints int
	Groups      int
	PathSteps   int
	Checks      int
	MaxDepth    int
}

// Collect walks doc and returns its node counts.
func Collect(doc *Document) Stats {
	var s Stats
	_ = Walk(doc, &statsVisitor{stats: &s})
	for _, rule := range doc.Rules {
		for _, c := range rule.Constraints {
			if d := c.Depth(); d > s.MaxDepth {
				s.MaxDepth = d
			}
		}
	}
	return s
}

type statsVisitor struct {
	stats *Stats
}

func (v *statsVisitor) VisitRule(*Rule) error {
	v.stats.Rules++
	return nil
}

func (v *statsVisitor) VisitComponent(c *Component) error {
	v.stats.Components++
	if c.IsLeaf() {
		v.stats.Constraints++
	} else {
		v.stats.Groups++
	}
	return nil
}

func (v *statsVisitor) VisitPathStep(*PathStep) error {
	v.stats.PathSteps++
	return nil
}

func (v *statsVisitor) VisitCheck(*Check) error {
	v.stats.Checks++
	return nil
}
