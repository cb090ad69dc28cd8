package model

import (
	"fmt"
	"io"

	"github.com/dynamite-ml/dynamite/internal/tensor"
)

// Named pairs a nested registry with the name it is attached under.
type Named[B tensor.Backend] struct {
	Name   string
	Params *Params[B]
}

// Params is a registry of named parameters and named nested registries.
// It is the introspection surface shared by every model: composite models
// attach their components' registries as nested entries, so a model tree
// is walkable from the root.
//
// Registration order is preserved; names within a registry are unique
// across both parameters and nested entries.
type Params[B tensor.Backend] struct {
	ordered []*Parameter[B]
	byName  map[string]*Parameter[B]

	nestedOrdered []Named[B]
	nestedByName  map[string]*Params[B]
}

// NewParams builds a registry from parameters and nested registries.
// Nil nested registries and nested entries with empty registries are
// dropped. Duplicate names panic.
func NewParams[B tensor.Backend](parameters []*Parameter[B], nested ...Named[B]) *Params[B] {
	p := &Params[B]{
		byName:       make(map[string]*Parameter[B]),
		nestedByName: make(map[string]*Params[B]),
	}
	for _, param := range parameters {
		p.addParameter(param)
	}
	for _, n := range nested {
		p.addNested(n)
	}
	return p
}

func (p *Params[B]) addParameter(param *Parameter[B]) {
	if param == nil {
		return
	}
	name := param.Name()
	if name == "" {
		panic("params: parameter with empty name")
	}
	if p.has(name) {
		panic(fmt.Sprintf("params: duplicate name %q", name))
	}
	p.ordered = append(p.ordered, param)
	p.byName[name] = param
}

func (p *Params[B]) addNested(n Named[B]) {
	if n.Params == nil || n.Params.Empty() {
		return
	}
	if n.Name == "" {
		panic("params: nested registry with empty name")
	}
	if p.has(n.Name) {
		panic(fmt.Sprintf("params: duplicate name %q", n.Name))
	}
	p.nestedOrdered = append(p.nestedOrdered, n)
	p.nestedByName[n.Name] = n.Params
}

func (p *Params[B]) has(name string) bool {
	if _, ok := p.byName[name]; ok {
		return true
	}
	_, ok := p.nestedByName[name]
	return ok
}

// Empty reports whether the registry holds no parameters and no nested
// registries.
func (p *Params[B]) Empty() bool {
	return len(p.ordered) == 0 && len(p.nestedOrdered) == 0
}

// Get returns the directly held parameter with the given name.
// Panics if no such parameter exists.
func (p *Params[B]) Get(name string) *Parameter[B] {
	param, ok := p.byName[name]
	if !ok {
		panic(fmt.Sprintf("params: no parameter named %q", name))
	}
	return param
}

// Nested returns the nested registry attached under the given name.
// Panics if no such registry exists.
func (p *Params[B]) Nested(name string) *Params[B] {
	sub, ok := p.nestedByName[name]
	if !ok {
		panic(fmt.Sprintf("params: no nested registry named %q", name))
	}
	return sub
}

// Own returns the directly held parameters in registration order.
func (p *Params[B]) Own() []*Parameter[B] {
	out := make([]*Parameter[B], len(p.ordered))
	copy(out, p.ordered)
	return out
}

// NestedAll returns the nested registries in registration order.
func (p *Params[B]) NestedAll() []Named[B] {
	out := make([]Named[B], len(p.nestedOrdered))
	copy(out, p.nestedOrdered)
	return out
}

// Collect gathers every parameter reachable from this registry,
// depth-first: directly held parameters first, then each nested registry
// in order. Parameters shared between branches appear once, at their
// first encounter.
func (p *Params[B]) Collect() []*Parameter[B] {
	seen := make(map[*Parameter[B]]struct{})
	var out []*Parameter[B]
	p.collect(seen, &out)
	return out
}

func (p *Params[B]) collect(seen map[*Parameter[B]]struct{}, out *[]*Parameter[B]) {
	for _, param := range p.ordered {
		if _, dup := seen[param]; dup {
			continue
		}
		seen[param] = struct{}{}
		*out = append(*out, param)
	}
	for _, n := range p.nestedOrdered {
		n.Params.collect(seen, out)
	}
}

// Log writes a human-readable dump of the registry tree to w: nested
// registries first (recursively, with dotted prefixes), then the directly
// held parameters with their shapes. As a side effect each visited
// parameter gets its fully qualified name implanted, so later diagnostics
// and checkpoints can refer to it by path.
func (p *Params[B]) Log(w io.Writer) {
	p.log(w, "")
}

func (p *Params[B]) log(w io.Writer, prefix string) {
	for _, n := range p.nestedOrdered {
		n.Params.log(w, prefix+n.Name+".")
	}
	for _, param := range p.ordered {
		qualified := prefix + param.Name()
		param.setQualified(qualified)
		fmt.Fprintf(w, "  %s : %v\n", qualified, param.Tensor().Shape())
	}
}

// numberedName is the naming scheme for anonymous sub-models attached in
// order: "[0]", "[1]", ...
func numberedName(i int) string { return fmt.Sprintf("[%d]", i) }

// Numbered wraps registries in bracketed positional names starting at the
// given offset.
func Numbered[B tensor.Backend](offset int, registries ...*Params[B]) []Named[B] {
	out := make([]Named[B], 0, len(registries))
	for i, r := range registries {
		out = append(out, Named[B]{Name: numberedName(offset + i), Params: r})
	}
	return out
}
