package layout

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"
)

//go:embed templates.yaml
var builtinYAML []byte

var (
	builtinOnce      sync.Once
	builtinTemplates []Template
	builtinErr       error
)

// Builtin returns the templates compiled into the binary.
func Builtin() ([]Template, error) {
	builtinOnce.Do(func() {
		builtinTemplates, builtinErr = Parse(builtinYAML)
	})
	return builtinTemplates, builtinErr
}

// Registry maps template names to templates. Later additions replace earlier
// ones with the same name.
//
// Registry is safe for concurrent use.
type Registry struct {
	mu        sync.RWMutex
	templates map[string]Template
}

// NewRegistry creates a registry holding the built-in templates.
func NewRegistry() (*Registry, error) {
	builtin, err := Builtin()
	if err != nil {
		return nil, err
	}
	r := &Registry{templates: make(map[string]Template)}
	r.Add(builtin...)
	return r, nil
}

// Add registers templates.
func (r *Registry) Add(templates ...Template) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, t := range templates {
		r.templates[t.Name] = t
	}
}

// LoadFiles adds the templates from each YAML file in order.
func (r *Registry) LoadFiles(paths ...string) error {
	for _, p := range paths {
		templates, err := Load(p)
		if err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
		r.Add(templates...)
	}
	return nil
}

// Lookup returns the named template.
func (r *Registry) Lookup(name string) (Template, error) {
	r.mu.RLock()
	t, ok := r.templates[name]
	r.mu.RUnlock()
	if !ok {
		return Template{}, fmt.Errorf("%w %q (available: %s)", ErrUnknownTemplate, name, strings.Join(r.Names(), ", "))
	}
	return t, nil
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.templates))
	for name := range r.templates {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
