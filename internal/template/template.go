// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package template provides idealized standard-base geometry. The standard
// bases ship embedded; a directory of YAML files can override any of them.
package template

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/basepair-engine/pkg/geometry"
	"github.com/pdiddy/basepair-engine/pkg/types"
)

//go:embed standard.yaml
var standardYAML []byte

// Atom is one named atom of a template.
type Atom struct {
	Name string        `yaml:"name"`
	XYZ  geometry.Vec3 `yaml:"xyz"`
}

// Template is a standard base in its own reference frame.
type Template struct {
	Base  types.ResidueType `yaml:"base"`
	ID    string            `yaml:"id"`
	Atoms []Atom            `yaml:"atoms"`
}

// Position returns the coordinates of the named atom.
func (t *Template) Position(name string) (geometry.Vec3, bool) {
	for _, a := range t.Atoms {
		if a.Name == name {
			return a.XYZ, true
		}
	}
	return geometry.Vec3{}, false
}

// Provider looks up templates by base identity.
type Provider struct {
	templates map[types.ResidueType]*Template
}

// Standard returns a provider holding only the embedded standard bases.
func Standard() *Provider {
	p, err := parse(standardYAML, "embedded standard bases")
	if err != nil {
		// The embedded file is part of the build.
		panic(err)
	}
	return p
}

// Load returns the standard provider with any templates found in dir
// (*.yaml or *.yml, each holding a list of templates) replacing the
// embedded ones. An empty dir returns Standard().
func Load(dir string) (*Provider, error) {
	p := Standard()
	if dir == "" {
		return p, nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading template directory %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		ext := filepath.Ext(e.Name())
		if e.IsDir() || (ext != ".yaml" && ext != ".yml") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	for _, name := range names {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", name, err)
		}
		extra, err := parse(data, name)
		if err != nil {
			return nil, err
		}
		for base, t := range extra.templates {
			p.templates[base] = t
		}
	}
	return p, nil
}

func parse(data []byte, source string) (*Provider, error) {
	var list []*Template
	if err := yaml.Unmarshal(data, &list); err != nil {
		return nil, fmt.Errorf("parsing templates from %s: %w", source, err)
	}
	p := &Provider{templates: make(map[types.ResidueType]*Template, len(list))}
	for _, t := range list {
		if !t.Base.IsNucleotide() {
			return nil, fmt.Errorf("template %q in %s: unknown base %q", t.ID, source, t.Base)
		}
		for i := range t.Atoms {
			t.Atoms[i].Name = types.PadName(strings.Trim(t.Atoms[i].Name, " "))
		}
		if len(t.Atoms) < 3 {
			return nil, fmt.Errorf("template %q in %s: %d atoms", t.ID, source, len(t.Atoms))
		}
		p.templates[t.Base] = t
	}
	return p, nil
}

// Lookup returns the template for a base identity.
func (p *Provider) Lookup(base types.ResidueType) (*Template, error) {
	t, ok := p.templates[base]
	if !ok {
		return nil, fmt.Errorf("no standard template for base %q", base)
	}
	return t, nil
}
