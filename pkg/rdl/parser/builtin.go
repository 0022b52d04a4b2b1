package parser

import "mercator-hq/ifccheck/pkg/rdl/ast"

func buildAttributeStep(f *Fields) *ast.PathStep {
	return &ast.PathStep{
		Kind:     ast.StepAttribute,
		Name:     f.String("attribute"),
		Location: f.Location(),
	}
}

func buildAttributeFilterStep(f *Fields) *ast.PathStep {
	return &ast.PathStep{
		Kind:     ast.StepAttributeFilter,
		Name:     f.String("attribute"),
		Value:    f.Value("value"),
		Location: f.Location(),
	}
}

func buildTypeFilterStep(f *Fields) *ast.PathStep {
	return &ast.PathStep{
		Kind:     ast.StepTypeFilter,
		Type:     f.String("type"),
		Location: f.Location(),
	}
}

func buildListStep(f *Fields) *ast.PathStep {
	return &ast.PathStep{
		Kind:     ast.StepList,
		Name:     f.String("list"),
		Location: f.Location(),
	}
}

func buildEqualsCheck(f *Fields) *ast.Check {
	return &ast.Check{
		Kind:     ast.CheckEquals,
		Value:    f.Value("equals"),
		Location: f.Location(),
	}
}

func buildExistsCheck(f *Fields) *ast.Check {
	return &ast.Check{
		Kind:      ast.CheckExists,
		Attribute: f.String("exists"),
		Location:  f.Location(),
	}
}

func buildInCheck(f *Fields) *ast.Check {
	return &ast.Check{
		Kind:     ast.CheckIn,
		Values:   f.List("in"),
		Location: f.Location(),
	}
}

func buildNotCheck(f *Fields) *ast.Check {
	return &ast.Check{
		Kind:     ast.CheckNot,
		Inner:    f.Check("not"),
		Location: f.Location(),
	}
}

func buildTypeCheck(f *Fields) *ast.Check {
	return &ast.Check{
		Kind:     ast.CheckType,
		Type:     f.String("type"),
		Location: f.Location(),
	}
}

func buildConstraint(f *Fields) *ast.Component {
	return &ast.Component{
		Kind:     ast.ComponentConstraint,
		Path:     f.Path("path"),
		Check:    f.Check("check"),
		Location: f.Location(),
	}
}

func buildGroup(kind ast.ComponentKind) ComponentBuilder {
	return func(f *Fields) *ast.Component {
		return &ast.Component{
			Kind:     kind,
			Children: f.Components(string(kind)),
			Location: f.Location(),
		}
	}
}
