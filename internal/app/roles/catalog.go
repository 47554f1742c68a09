package roles

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lgrimaldi/plume-agent/internal/domain"
)

//go:embed templates.yaml
var templatesYAML []byte

// Catalog holds the static set of reusable role templates. It is reference
// material for the analyzer prompt and the source of the fallback pair.
type Catalog struct {
	roles []domain.RoleDefinition
	byID  map[domain.RoleID]domain.RoleDefinition
}

type catalogFile struct {
	Roles []domain.RoleDefinition `yaml:"roles"`
}

// NewCatalog parses the embedded template file.
func NewCatalog() (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(templatesYAML, &file); err != nil {
		return nil, fmt.Errorf("parsing role templates: %w", err)
	}
	if len(file.Roles) == 0 {
		return nil, fmt.Errorf("role template catalog is empty")
	}

	byID := make(map[domain.RoleID]domain.RoleDefinition, len(file.Roles))
	for _, r := range file.Roles {
		if r.ID == "" {
			return nil, fmt.Errorf("role template %q has no id", r.Name)
		}
		if _, dup := byID[r.ID]; dup {
			return nil, fmt.Errorf("duplicate role template id %q", r.ID)
		}
		byID[r.ID] = r
	}

	return &Catalog{roles: file.Roles, byID: byID}, nil
}

// All returns every template in catalog order.
func (c *Catalog) All() []domain.RoleDefinition {
	out := make([]domain.RoleDefinition, len(c.roles))
	copy(out, c.roles)
	return out
}

// Lookup finds a template by id or, failing that, by case-insensitive name.
func (c *Catalog) Lookup(key string) (domain.RoleDefinition, bool) {
	if r, ok := c.byID[domain.RoleID(key)]; ok {
		return r, true
	}
	for _, r := range c.roles {
		if strings.EqualFold(r.Name, key) {
			return r, true
		}
	}
	return domain.RoleDefinition{}, false
}

// FallbackPair returns the two generic roles used when role analysis cannot
// produce a usable result.
func (c *Catalog) FallbackPair() []domain.RoleDefinition {
	writer, _ := c.Lookup("content_writer")
	editor, _ := c.Lookup("editor")
	return []domain.RoleDefinition{writer, editor}
}
