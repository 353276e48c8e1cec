// Package module implements the module graph (spec.md §4.F): a
// dependency-ordered collection of modules, a lookup table by id, and a
// direct-dependency set per module. The graph never resolves names or
// does semantic analysis — it is a package-agnostic bookkeeping structure
// for whatever outer layer understands module paths.
package module

import (
	"fmt"
	"sort"

	"github.com/waverly-lang/bct/srctext"
)

// ID is a module's path (e.g. "sys/std/u32").
type ID string

// Module pairs an id with its source text.
type Module struct {
	ID     ID
	Source srctext.Source
}

// Graph is a dependency-ordered collection of modules: for every module m,
// every element of Dependencies[m] appears earlier in Modules.
type Graph struct {
	Modules      []Module
	byID         map[ID]Module
	Dependencies map[ID][]ID
}

// Get looks up a module by id.
func (g *Graph) Get(id ID) (Module, bool) {
	m, ok := g.byID[id]
	return m, ok
}

// Builder accumulates modules and dependency edges in the order they are
// added, enforcing spec.md's ordering invariant as it goes rather than
// checking it after the fact.
type Builder struct {
	modules []Module
	byID    map[ID]Module
	deps    map[ID]map[ID]struct{}
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{
		byID: make(map[ID]Module),
		deps: make(map[ID]map[ID]struct{}),
	}
}

// AddModule appends a new module to the graph. Modules must be added in
// dependency order: a module's dependencies must already exist before
// AddDependency can reference them.
func (b *Builder) AddModule(id ID, source srctext.Source) ID {
	m := Module{ID: id, Source: source}
	b.modules = append(b.modules, m)
	b.byID[id] = m
	b.deps[id] = make(map[ID]struct{})
	return id
}

// AddDependency records that moduleID depends on dependsOn. It errors if
// either module is unknown, or if dependsOn was not added before
// moduleID — the graph's ordering invariant must hold by construction,
// not be checked afterward.
func (b *Builder) AddDependency(moduleID, dependsOn ID) error {
	deps, ok := b.deps[moduleID]
	if !ok {
		return fmt.Errorf("module: unknown module %q", moduleID)
	}
	if _, ok := b.byID[dependsOn]; !ok {
		return fmt.Errorf("module: %q depends on %q, which has not been added yet", moduleID, dependsOn)
	}
	position := func(id ID) int {
		for i, m := range b.modules {
			if m.ID == id {
				return i
			}
		}
		return -1
	}
	if position(dependsOn) >= position(moduleID) {
		return fmt.Errorf("module: %q depends on %q, which was not added before it", moduleID, dependsOn)
	}
	deps[dependsOn] = struct{}{}
	return nil
}

// Build finalizes the graph. The builder is left usable afterward; each
// call to Build produces an independent snapshot.
func (b *Builder) Build() *Graph {
	modules := make([]Module, len(b.modules))
	copy(modules, b.modules)

	byID := make(map[ID]Module, len(b.byID))
	for id, m := range b.byID {
		byID[id] = m
	}

	deps := make(map[ID][]ID, len(b.deps))
	for id, set := range b.deps {
		list := make([]ID, 0, len(set))
		for d := range set {
			list = append(list, d)
		}
		sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
		deps[id] = list
	}

	return &Graph{Modules: modules, byID: byID, Dependencies: deps}
}
