package types

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

type PlanType string

const (
	PlanHome    PlanType = "home"
	PlanQuality PlanType = "quality"
	PlanUltra   PlanType = "ultra"
	PlanVision  PlanType = "vision"
)

func (t PlanType) Valid() bool {
	switch t {
	case PlanHome, PlanQuality, PlanUltra, PlanVision:
		return true
	}
	return false
}

type Plan struct {
	ID          int      `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Slug        string   `json:"slug" yaml:"slug"`
	PlanType    PlanType `json:"plan_type" yaml:"plan_type"`
	Price       Price    `json:"price" yaml:"price"`
	SpeedMbps   int      `json:"speed_mbps" yaml:"speed_mbps"`
	Description string   `json:"description" yaml:"description"`
	Features    []string `json:"features" yaml:"features"`
	IsPopular   bool     `json:"is_popular" yaml:"is_popular"`
}

// PlanList accepts both a bare JSON array and a paginated {"count","results"} body.
type PlanList []Plan

func (l *PlanList) UnmarshalJSON(b []byte) error {
	trimmed := strings.TrimSpace(string(b))
	if strings.HasPrefix(trimmed, "[") {
		var plans []Plan
		if err := json.Unmarshal(b, &plans); err != nil {
			return err
		}
		*l = plans
		return nil
	}
	var page struct {
		Count   int    `json:"count"`
		Results []Plan `json:"results"`
	}
	if err := json.Unmarshal(b, &page); err != nil {
		return err
	}
	*l = page.Results
	return nil
}

type SubscribeRequest struct {
	Plan  int    `json:"plan"`
	Notes string `json:"notes"`
}

type Subscription struct {
	ID        int    `json:"id"`
	Plan      int    `json:"plan"`
	PlanName  string `json:"plan_name,omitempty"`
	Status    string `json:"status,omitempty"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
	Message   string `json:"message,omitempty"`
}

// Price is an amount in centavos. It decodes from a JSON number or a decimal string
// and encodes as a two-decimal string.
type Price int64

func ParsePrice(s string) (Price, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty price")
	}
	f, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", s, err)
	}
	return PriceFromFloat(f), nil
}

func PriceFromFloat(f float64) Price {
	return Price(math.Round(f * 100))
}

func (p Price) Float64() float64 { return float64(p) / 100 }

// Format renders the amount the Brazilian way: 1299.9 -> "1.299,90".
func (p Price) Format() string {
	cents := int64(p)
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	whole := strconv.FormatInt(cents/100, 10)
	var b strings.Builder
	for i, r := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return fmt.Sprintf("%s%s,%02d", sign, b.String(), cents%100)
}

func (p Price) String() string { return "R$ " + p.Format() }

func (p Price) MarshalJSON() ([]byte, error) {
	return json.Marshal(strconv.FormatFloat(p.Float64(), 'f', 2, 64))
}

func (p *Price) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch x := v.(type) {
	case float64:
		*p = PriceFromFloat(x)
	case string:
		parsed, err := ParsePrice(x)
		if err != nil {
			return err
		}
		*p = parsed
	case nil:
		*p = 0
	default:
		return fmt.Errorf("price: unexpected JSON %s", string(b))
	}
	return nil
}

// UnmarshalYAML lets catalog files write prices as plain numbers.
func (p *Price) UnmarshalYAML(unmarshal func(any) error) error {
	var f float64
	if err := unmarshal(&f); err != nil {
		return err
	}
	*p = PriceFromFloat(f)
	return nil
}
