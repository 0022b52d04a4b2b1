package model

import (
	"fmt"
	"sort"
	"sync"
)

// Node is the in-memory Entity implementation.
type Node struct {
	id         string
	typeTag    string
	attributes map[string]any
	order      []string
}

// NewEntity creates an entity with the given type tag. Attributes are added
// with Set.
func NewEntity(id, typeTag string) *Node {
	return &Node{
		id:         id,
		typeTag:    typeTag,
		attributes: make(map[string]any),
	}
}

// ID returns the identifier the entity was created with.
func (n *Node) ID() string {
	return n.id
}

// TypeTag implements Typed.
func (n *Node) TypeTag() string {
	return n.typeTag
}

// HasAttribute implements AttributeHolder.
func (n *Node) HasAttribute(name string) bool {
	_, ok := n.attributes[name]
	return ok
}

// Attribute implements Entity.
func (n *Node) Attribute(name string) (any, bool) {
	v, ok := n.attributes[name]
	return v, ok
}

// AttributeNames returns the attribute names in insertion order.
func (n *Node) AttributeNames() []string {
	return append([]string(nil), n.order...)
}

// Set assigns an attribute and returns n for chaining.
func (n *Node) Set(name string, value any) *Node {
	if _, ok := n.attributes[name]; !ok {
		n.order = append(n.order, name)
	}
	n.attributes[name] = value
	return n
}

// String renders the entity as "#id=Type".
func (n *Node) String() string {
	if n.id == "" {
		return n.typeTag
	}
	return fmt.Sprintf("#%s=%s", n.id, n.typeTag)
}

// Graph is an in-memory Model. Entities are enumerated in insertion order.
type Graph struct {
	mu     sync.RWMutex
	byID   map[string]*Node
	byType map[string][]Entity
	size   int
}

// NewGraph creates an empty graph.
func NewGraph() *Graph {
	return &Graph{
		byID:   make(map[string]*Node),
		byType: make(map[string][]Entity),
	}
}

// Add inserts entities. Entities with an id already present are rejected.
func (g *Graph) Add(nodes ...*Node) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, n := range nodes {
		if n.id != "" {
			if _, dup := g.byID[n.id]; dup {
				return fmt.Errorf("duplicate entity id %q", n.id)
			}
			g.byID[n.id] = n
		}
		g.byType[n.typeTag] = append(g.byType[n.typeTag], n)
		g.size++
	}
	return nil
}

// MustAdd is Add that panics on error. Intended for tests and fixtures.
func (g *Graph) MustAdd(nodes ...*Node) *Graph {
	if err := g.Add(nodes...); err != nil {
		panic(err)
	}
	return g
}

// ByType implements Model.
func (g *Graph) ByType(typeName string) []Entity {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]Entity(nil), g.byType[typeName]...)
}

// Get returns the entity with the given id.
func (g *Graph) Get(id string) (*Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.byID[id]
	return n, ok
}

// Len returns the number of entities.
func (g *Graph) Len() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.size
}

// Types returns the type tags present in the graph, sorted.
func (g *Graph) Types() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	types := make([]string, 0, len(g.byType))
	for t := range g.byType {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}
