package ingest

import (
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/stitts-dev/dfs-dreamteam/internal/optimizer"
)

// templateEntry is one entry of a template file
type templateEntry struct {
	Name  string   `yaml:"name"`
	WK    int      `yaml:"WK"`
	BAT   int      `yaml:"BAT"`
	AR    int      `yaml:"AR"`
	BOWL  int      `yaml:"BOWL"`
	Order []string `yaml:"order,omitempty"`
}

// LoadTemplates reads a template file from disk. An empty path returns the
// default templates.
func LoadTemplates(path string) ([]optimizer.RoleTemplate, error) {
	if path == "" {
		return optimizer.DefaultTemplates(), nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open template file: %w", err)
	}
	defer f.Close()

	templates, err := ReadTemplates(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return templates, nil
}

// ReadTemplates decodes a YAML list of role quotas:
//
//	- name: batting-heavy
//	  WK: 1
//	  BAT: 5
//	  AR: 2
//	  BOWL: 3
//	  order: [BOWL, AR, BAT, WK]
//
// Quotas are not required to add up to the squad size.
func ReadTemplates(r io.Reader) ([]optimizer.RoleTemplate, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var entries []templateEntry
	if err := dec.Decode(&entries); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("template file is empty")
		}
		return nil, fmt.Errorf("failed to decode templates: %w", err)
	}
	if len(entries) == 0 {
		return nil, errors.New("template file lists no templates")
	}

	templates := make([]optimizer.RoleTemplate, 0, len(entries))
	for i, entry := range entries {
		tmpl, err := entry.template()
		if err != nil {
			return nil, fmt.Errorf("template %d: %w", i+1, err)
		}
		templates = append(templates, tmpl)
	}
	return templates, nil
}

func (e templateEntry) template() (optimizer.RoleTemplate, error) {
	if e.WK < 0 || e.BAT < 0 || e.AR < 0 || e.BOWL < 0 {
		return optimizer.RoleTemplate{}, fmt.Errorf("quotas cannot be negative: %d-%d-%d-%d", e.WK, e.BAT, e.AR, e.BOWL)
	}

	tmpl := optimizer.NewTemplate(e.WK, e.BAT, e.AR, e.BOWL)
	if e.Name != "" {
		tmpl.Name = e.Name
	}
	if len(e.Order) == 0 {
		return tmpl, nil
	}

	if len(e.Order) != len(optimizer.DefaultRoleOrder) {
		return optimizer.RoleTemplate{}, fmt.Errorf("order must list each of the %d roles once", len(optimizer.DefaultRoleOrder))
	}
	seen := make(map[optimizer.Role]bool, len(e.Order))
	for _, label := range e.Order {
		role, err := optimizer.ParseRole(label)
		if err != nil {
			return optimizer.RoleTemplate{}, err
		}
		if seen[role] {
			return optimizer.RoleTemplate{}, fmt.Errorf("order lists %s twice", role)
		}
		seen[role] = true
		tmpl.Order = append(tmpl.Order, role)
	}
	return tmpl, nil
}
