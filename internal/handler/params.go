package handler

import (
	"strconv"
	"strings"

	"github.com/nulln0ne/amm-estimator/pkg/amm"
	"github.com/nulln0ne/amm-estimator/pkg/u128"
)

// Defaults fill in pricing parameters a request leaves out.
type Defaults struct {
	Model         amm.Model
	FeeBps        uint16
	Amplification u128.Uint128
}

// pricingQuery holds the raw curve parameters shared by every pricing
// endpoint.
type pricingQuery struct {
	model, amp, feeBps string
}

type pricing struct {
	model  amm.Model
	amp    u128.Uint128
	feeBps uint16
}

func (q pricingQuery) parse(d Defaults) (pricing, error) {
	p := pricing{model: d.Model, amp: d.Amplification, feeBps: d.FeeBps}

	if q.model != "" {
		m, err := amm.ParseModel(q.model)
		if err != nil {
			return p, NewInvalidParameter("model", err)
		}
		p.model = m
	}
	if q.amp != "" {
		amp, err := u128.FromDecimal(q.amp)
		if err != nil {
			return p, NewInvalidParameter("amp", err)
		}
		p.amp = amp
	}
	if q.feeBps != "" {
		fee, err := strconv.ParseUint(q.feeBps, 10, 16)
		if err != nil {
			return p, NewInvalidParameter("fee_bps", err)
		}
		p.feeBps = uint16(fee)
	}
	return p, nil
}

// parseAmount parses a positive base-10 amount.
func parseAmount(field, s string) (u128.Uint128, error) {
	if s == "" {
		return u128.Zero, ErrAmountRequired
	}
	amount, err := u128.FromDecimal(s)
	if err != nil {
		return u128.Zero, NewInvalidParameter(field, err)
	}
	return amount, nil
}

// parseReserves parses a comma-separated list of balances. At most limit+1
// entries are parsed so oversized lists fail fast in the service cap.
func parseReserves(s string, limit int) ([]u128.Uint128, error) {
	if strings.TrimSpace(s) == "" {
		return nil, ErrReservesRequired
	}
	parts := strings.Split(s, ",")
	if limit > 0 && len(parts) > limit+1 {
		parts = parts[:limit+1]
	}
	out := make([]u128.Uint128, len(parts))
	for k, part := range parts {
		v, err := u128.FromDecimal(strings.TrimSpace(part))
		if err != nil {
			return nil, NewInvalidParameter("reserves["+strconv.Itoa(k)+"]", err)
		}
		out[k] = v
	}
	return out, nil
}

func parseIndex(field, s string, def int) (int, error) {
	if s == "" {
		return def, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, NewInvalidParameter(field, err)
	}
	return v, nil
}
