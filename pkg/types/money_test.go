package types

import (
	"encoding/json"
	"testing"
)

func TestMoneyArithmetic(t *testing.T) {
	total := MoneyFromFloat(500).MulInt(2).Add(MoneyFromFloat(1200).MulInt(1))
	if !total.Equal(MoneyFromInt(2200)) {
		t.Fatalf("expected 2200, got %s", total)
	}
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	raw := []byte(`{"price":499.99}`)
	var payload struct {
		Price Money `json:"price"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !payload.Price.Equal(MoneyFromFloat(499.99)) {
		t.Fatalf("unexpected price %s", payload.Price)
	}

	out, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != `{"price":499.99}` {
		t.Fatalf("expected unquoted number, got %s", out)
	}
}

func TestMoneyUnmarshalQuoted(t *testing.T) {
	var m Money
	if err := json.Unmarshal([]byte(`"1250.5"`), &m); err != nil {
		t.Fatalf("unmarshal quoted: %v", err)
	}
	if !m.Equal(MoneyFromFloat(1250.5)) {
		t.Fatalf("unexpected amount %s", m)
	}
}
