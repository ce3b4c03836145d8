package handler

import (
	"errors"
	"testing"

	"github.com/nulln0ne/amm-estimator/pkg/amm"
	"github.com/nulln0ne/amm-estimator/pkg/u128"
)

func TestParseReserves(t *testing.T) {
	got, err := parseReserves(" 300, 1000 ,5", 8)
	if err != nil {
		t.Fatalf("parseReserves error: %v", err)
	}
	want := []u128.Uint128{u128.From64(300), u128.From64(1000), u128.From64(5)}
	if len(got) != len(want) {
		t.Fatalf("got %v want %v", got, want)
	}
	for k := range want {
		if !got[k].Eq(want[k]) {
			t.Fatalf("reserve %d: got %s want %s", k, got[k], want[k])
		}
	}

	// Oversized lists are cut at limit+1 so the service still rejects them.
	got, err = parseReserves("1,2,3,4,5,6", 2)
	if err != nil || len(got) != 3 {
		t.Fatalf("expected 3 reserves, got %v (%v)", got, err)
	}

	if _, err := parseReserves("", 8); !errors.Is(err, ErrReservesRequired) {
		t.Fatalf("expected ErrReservesRequired, got %v", err)
	}
	if _, err := parseReserves("1,,2", 8); err == nil {
		t.Fatal("expected error for empty entry")
	}
}

func TestPricingQueryParse(t *testing.T) {
	d := Defaults{Model: amm.ModelStableSwap, FeeBps: 30, Amplification: u128.From64(100)}

	p, err := pricingQuery{}.parse(d)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if p.model != amm.ModelStableSwap || p.feeBps != 30 || !p.amp.Eq(u128.From64(100)) {
		t.Fatalf("defaults not applied: %+v", p)
	}

	p, err = pricingQuery{model: "xyk", amp: "85", feeBps: "6"}.parse(d)
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	if p.model != amm.ModelConstantProduct || p.feeBps != 6 || !p.amp.Eq(u128.From64(85)) {
		t.Fatalf("overrides not applied: %+v", p)
	}

	for _, q := range []pricingQuery{{model: "curve"}, {amp: "-1"}, {feeBps: "65536"}, {feeBps: "x"}} {
		if _, err := q.parse(d); err == nil {
			t.Fatalf("expected error for %+v", q)
		}
	}
}
