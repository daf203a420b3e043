package mockapi

import (
	"embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"visionlink/internal/types"
)

//go:embed data/*.yaml
var defaultData embed.FS

type catalogFile struct {
	Plans []types.Plan `yaml:"plans"`
}

// DefaultPlans returns the built-in catalog.
func DefaultPlans() []types.Plan {
	b, err := defaultData.ReadFile("data/plans.yaml")
	if err != nil {
		panic(err)
	}
	plans, err := parseCatalog(b)
	if err != nil {
		panic(err)
	}
	return plans
}

// LoadPlans reads a YAML catalog from path.
func LoadPlans(path string) ([]types.Plan, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return parseCatalog(b)
}

func parseCatalog(b []byte) ([]types.Plan, error) {
	var f catalogFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	seen := make(map[string]bool, len(f.Plans))
	for i, p := range f.Plans {
		if p.ID <= 0 || p.Slug == "" {
			return nil, fmt.Errorf("plan %d: id and slug are required", i)
		}
		if !p.PlanType.Valid() {
			return nil, fmt.Errorf("plan %q: unknown plan_type %q", p.Slug, p.PlanType)
		}
		if seen[p.Slug] {
			return nil, fmt.Errorf("plan %q: duplicate slug", p.Slug)
		}
		seen[p.Slug] = true
		if f.Plans[i].Features == nil {
			f.Plans[i].Features = []string{}
		}
	}
	// Catalog order is by price, cheapest first.
	sort.SliceStable(f.Plans, func(i, j int) bool { return f.Plans[i].Price < f.Plans[j].Price })
	return f.Plans, nil
}
