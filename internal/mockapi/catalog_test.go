package mockapi

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"visionlink/internal/types"
)

func TestDefaultPlans(t *testing.T) {
	plans := DefaultPlans()
	require.Len(t, plans, 4)
	for i := 1; i < len(plans); i++ {
		require.LessOrEqual(t, plans[i-1].Price, plans[i].Price)
	}
	require.Equal(t, types.PriceFromFloat(99.9), plans[1].Price)
	require.Equal(t, "99,90", plans[1].Price.Format())
}

func TestLoadPlansRejectsBadCatalogs(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
		return p
	}

	_, err := LoadPlans(write("badtype.yaml", "plans:\n  - {id: 1, slug: a, plan_type: fiber, price: 1}\n"))
	require.Error(t, err)

	_, err = LoadPlans(write("dup.yaml", "plans:\n  - {id: 1, slug: a, plan_type: home, price: 1}\n  - {id: 2, slug: a, plan_type: home, price: 2}\n"))
	require.Error(t, err)

	_, err = LoadPlans(write("noid.yaml", "plans:\n  - {slug: a, plan_type: home, price: 1}\n"))
	require.Error(t, err)

	plans, err := LoadPlans(write("ok.yaml", "plans:\n  - {id: 1, slug: a, plan_type: home, price: 10.5}\n"))
	require.NoError(t, err)
	require.Len(t, plans, 1)
	require.NotNil(t, plans[0].Features)
}
