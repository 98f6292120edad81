// Package catalog holds the named role profiles the analyzer can target.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/okian/skillgap/internal/domain/model"
	"github.com/okian/skillgap/internal/domain/normalize"
	"github.com/okian/skillgap/internal/domain/scoring"
)

//go:embed roles.yaml
var builtinYAML []byte

// file is the on-disk layout of a catalog.
type file struct {
	Roles []model.RoleProfile `yaml:"roles"`
}

// Catalog is an immutable set of validated role profiles keyed by canonical name.
type Catalog struct {
	roles map[string]model.RoleProfile
	order []string // canonical names, sorted
}

// New validates roles and builds a catalog. Role names must be unique after
// canonicalization.
func New(roles ...model.RoleProfile) (*Catalog, error) {
	c := &Catalog{roles: make(map[string]model.RoleProfile, len(roles))}
	for i, r := range roles {
		if err := scoring.ValidateRole(r); err != nil {
			return nil, fmt.Errorf("roles[%d]: %w", i, err)
		}
		key := normalize.Canonical(r.RoleName)
		if _, dup := c.roles[key]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateRole, r.RoleName)
		}
		c.roles[key] = clone(r)
	}
	c.index()
	return c, nil
}

// Builtin returns the catalog embedded in the binary.
func Builtin() (*Catalog, error) {
	roles, err := Parse(builtinYAML)
	if err != nil {
		return nil, fmt.Errorf("builtin catalog: %w", err)
	}
	return New(roles...)
}

// LoadFile reads and validates a YAML catalog from path.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	roles, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return New(roles...)
}

// Parse decodes a YAML catalog document without validating the roles.
// Unknown keys are rejected.
func Parse(data []byte) ([]model.RoleProfile, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f file
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFile, err)
	}
	return f.Roles, nil
}

// Merge returns a catalog with every role of base and overlay; overlay roles
// replace base roles with the same canonical name.
func Merge(base, overlay *Catalog) *Catalog {
	out := &Catalog{roles: make(map[string]model.RoleProfile)}
	for _, c := range []*Catalog{base, overlay} {
		if c == nil {
			continue
		}
		for k, r := range c.roles {
			out.roles[k] = r
		}
	}
	out.index()
	return out
}

// Get looks a role up by name, ignoring case and extra whitespace.
func (c *Catalog) Get(name string) (model.RoleProfile, error) {
	r, ok := c.roles[normalize.Canonical(name)]
	if !ok {
		return model.RoleProfile{}, fmt.Errorf("%w: %q", ErrRoleNotFound, name)
	}
	return clone(r), nil
}

// List returns every role sorted by name.
func (c *Catalog) List() []model.RoleProfile {
	out := make([]model.RoleProfile, 0, len(c.order))
	for _, k := range c.order {
		out = append(out, clone(c.roles[k]))
	}
	return out
}

// Len returns the number of roles.
func (c *Catalog) Len() int { return len(c.roles) }

func (c *Catalog) index() {
	c.order = c.order[:0]
	for k := range c.roles {
		c.order = append(c.order, k)
	}
	sort.Strings(c.order)
}

// clone copies the skill slice so callers cannot mutate catalog state.
func clone(r model.RoleProfile) model.RoleProfile {
	r.RequiredSkills = append([]model.RequiredSkill(nil), r.RequiredSkills...)
	return r
}
