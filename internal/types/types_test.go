package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestPriceDecodesNumbersAndStrings(t *testing.T) {
	var p struct {
		A Price `json:"a"`
		B Price `json:"b"`
		C Price `json:"c"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"a": 99.9, "b": "149.90", "c": "0.1"}`), &p))
	require.Equal(t, Price(9990), p.A)
	require.Equal(t, Price(14990), p.B)
	require.Equal(t, Price(10), p.C)

	var bad Price
	require.Error(t, json.Unmarshal([]byte(`"abc"`), &bad))
	require.Error(t, json.Unmarshal([]byte(`true`), &bad))
}

func TestPriceFormat(t *testing.T) {
	cases := map[Price]string{
		PriceFromFloat(99.9):    "99,90",
		PriceFromFloat(0.5):     "0,50",
		PriceFromFloat(1299.9):  "1.299,90",
		PriceFromFloat(1234567): "1.234.567,00",
		PriceFromFloat(-12.3):   "-12,30",
	}
	for p, want := range cases {
		require.Equal(t, want, p.Format())
	}
	require.Equal(t, "R$ 99,90", PriceFromFloat(99.9).String())
	require.InDelta(t, 99.9, PriceFromFloat(99.9).Float64(), 1e-9)
}

func TestPriceMarshalsAsDecimalString(t *testing.T) {
	b, err := json.Marshal(PriceFromFloat(99.9))
	require.NoError(t, err)
	require.Equal(t, `"99.90"`, string(b))
}

func TestPriceFromYAML(t *testing.T) {
	var plan Plan
	require.NoError(t, yaml.Unmarshal([]byte("name: Home\nprice: 79.9\nplan_type: home\n"), &plan))
	require.Equal(t, Price(7990), plan.Price)
	require.True(t, plan.PlanType.Valid())
	require.False(t, PlanType("fiber").Valid())
}

func TestPlanListShapes(t *testing.T) {
	var bare PlanList
	require.NoError(t, json.Unmarshal([]byte(`[{"id":1,"name":"A"},{"id":2,"name":"B"}]`), &bare))
	require.Len(t, bare, 2)
	require.Equal(t, "B", bare[1].Name)

	var paged PlanList
	require.NoError(t, json.Unmarshal([]byte(`{"count":1,"results":[{"id":3,"name":"C","price":"10.00"}]}`), &paged))
	require.Len(t, paged, 1)
	require.Equal(t, Price(1000), paged[0].Price)
}

func TestChatHistoryShapes(t *testing.T) {
	var obj ChatHistory
	require.NoError(t, json.Unmarshal([]byte(`{"session_id":"s","conversations":[{"id":1,"message":"oi","response":"olá"}]}`), &obj))
	require.Equal(t, "s", obj.SessionID)
	require.Len(t, obj.Conversations, 1)

	var arr ChatHistory
	require.NoError(t, json.Unmarshal([]byte(`[{"id":1},{"id":2}]`), &arr))
	require.Len(t, arr.Conversations, 2)
	require.Empty(t, arr.SessionID)
}

func TestUserFullName(t *testing.T) {
	require.Equal(t, "Ana Silva", User{FirstName: "Ana", LastName: "Silva"}.FullName())
	require.Equal(t, "Ana", User{FirstName: "Ana"}.FullName())
	require.Equal(t, "Silva", User{LastName: "Silva"}.FullName())
}
