package model

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Entity graph files list entities with their attributes. A mapping with the
// single key "ref" refers to another entity by id, also inside lists:
//
//	entities:
//	  - id: "10"
//	    type: IfcWall
//	    attributes:
//	      Name: Wall-001
//	      IsDefinedBy: [{ref: "20"}]
//	  - id: "20"
//	    type: IfcRelDefinesByProperties
//	    attributes:
//	      RelatingPropertyDefinition: {ref: "30"}
type graphFile struct {
	Entities []entityRecord `yaml:"entities"`
}

type entityRecord struct {
	ID         any       `yaml:"id"`
	Type       string    `yaml:"type"`
	Attributes yaml.Node `yaml:"attributes"`
}

// LoadFile reads an entity graph file (YAML or JSON).
func LoadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model file: %w", err)
	}
	defer f.Close()

	g, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Load decodes an entity graph from r and resolves all references.
func Load(r io.Reader) (*Graph, error) {
	var file graphFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if err == io.EOF {
			return NewGraph(), nil
		}
		return nil, fmt.Errorf("failed to parse model: %w", err)
	}

	g := NewGraph()
	nodes := make([]*Node, len(file.Entities))
	for i, rec := range file.Entities {
		if rec.Type == "" {
			return nil, fmt.Errorf("entity %d: missing type", i+1)
		}
		id := ""
		if rec.ID != nil {
			id = fmt.Sprint(rec.ID)
		}
		nodes[i] = NewEntity(id, rec.Type)
		if err := g.Add(nodes[i]); err != nil {
			return nil, fmt.Errorf("entity %d: %w", i+1, err)
		}
	}

	for i, rec := range file.Entities {
		if rec.Attributes.Kind == 0 {
			continue
		}
		if rec.Attributes.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("entity %s: attributes must be a mapping", nodes[i])
		}
		content := rec.Attributes.Content
		for j := 0; j+1 < len(content); j += 2 {
			name := content[j].Value
			var raw any
			if err := content[j+1].Decode(&raw); err != nil {
				return nil, fmt.Errorf("entity %s: attribute %s: %w", nodes[i], name, err)
			}
			value, err := resolve(g, raw)
			if err != nil {
				return nil, fmt.Errorf("entity %s: attribute %s: %w", nodes[i], name, err)
			}
			nodes[i].Set(name, value)
		}
	}

	return g, nil
}

func resolve(g *Graph, raw any) (any, error) {
	switch v := raw.(type) {
	case map[string]any:
		ref, ok := v["ref"]
		if !ok || len(v) != 1 {
			return nil, fmt.Errorf("unsupported mapping value, only {ref: <id>} is allowed")
		}
		id := fmt.Sprint(ref)
		target, found := g.Get(id)
		if !found {
			return nil, fmt.Errorf("unknown entity reference %q", id)
		}
		return Entity(target), nil
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			resolved, err := resolve(g, item)
			if err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
			out[i] = resolved
		}
		return out, nil
	default:
		return v, nil
	}
}
