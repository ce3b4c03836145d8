package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nulln0ne/amm-estimator/internal/metrics"
	"github.com/nulln0ne/amm-estimator/pkg/amm"
	"github.com/nulln0ne/amm-estimator/pkg/u128"
)

// QuoteRequest describes a swap against a pool snapshot supplied by the caller.
type QuoteRequest struct {
	Model         amm.Model
	Reserves      []u128.Uint128
	Amplification u128.Uint128
	FeeBps        uint16
	In            int
	Out           int
	AmountIn      u128.Uint128
}

// Quote is the priced result of a QuoteRequest under one model.
type Quote struct {
	Model       amm.Model     `json:"model"`
	AmountIn    u128.Uint128  `json:"amount_in"`
	AmountOut   u128.Uint128  `json:"amount_out"`
	SlippageBps int32         `json:"slippage_bps"`
	Invariant   *u128.Uint128 `json:"invariant,omitempty"`
	// Error is only set on entries of a Comparison.
	Error string `json:"error,omitempty"`
}

// Comparison prices the same swap under every registered model.
type Comparison struct {
	Reserves []u128.Uint128 `json:"reserves"`
	In       int            `json:"i"`
	Out      int            `json:"j"`
	Quotes   []Quote        `json:"quotes"`
}

// QuoteService prices swaps against in-memory pool snapshots.
type QuoteService struct {
	BaseService
	metrics   *metrics.Metrics
	maxTokens int
}

// NewQuoteService returns a QuoteService rejecting pools larger than
// maxTokens. A maxTokens of zero or less disables the cap; m may be nil.
func NewQuoteService(logger *slog.Logger, m *metrics.Metrics, maxTokens int) *QuoteService {
	return &QuoteService{
		BaseService: BaseService{logger: logger},
		metrics:     m,
		maxTokens:   maxTokens,
	}
}

// Quote prices req on its model. The invariant is reported for models that
// have one.
func (s *QuoteService) Quote(ctx context.Context, req QuoteRequest) (*Quote, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()
	q, err := s.price(req.Model, req)
	s.metrics.ObserveQuote(req.Model, err, time.Since(start))
	if err != nil {
		return nil, err
	}

	s.logger.Debug("quote computed",
		"model", q.Model, "n", len(req.Reserves), "i", req.In, "j", req.Out,
		"in", q.AmountIn.String(), "out", q.AmountOut.String(), "slippage_bps", q.SlippageBps)
	return q, nil
}

// Compare prices req under every registered model; req.Model is ignored. A
// model that cannot price the swap reports its error in place rather than
// failing the whole comparison. Malformed requests still fail it.
func (s *QuoteService) Compare(ctx context.Context, req QuoteRequest) (*Comparison, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.checkSize(req.Reserves); err != nil {
		return nil, err
	}
	if len(req.Reserves) < 2 {
		return nil, amm.ErrPoolSizeTooSmall
	}
	if err := amm.ValidateSwap(len(req.Reserves), req.In, req.Out, req.AmountIn); err != nil {
		return nil, err
	}

	out := &Comparison{Reserves: req.Reserves, In: req.In, Out: req.Out}
	for _, model := range amm.Models() {
		start := time.Now()
		q, err := s.price(model, req)
		s.metrics.ObserveQuote(model, err, time.Since(start))
		if err != nil {
			out.Quotes = append(out.Quotes, Quote{Model: model, AmountIn: req.AmountIn, Error: err.Error()})
			continue
		}
		out.Quotes = append(out.Quotes, *q)
	}

	s.logger.Debug("comparison computed", "n", len(req.Reserves), "i", req.In, "j", req.Out, "in", req.AmountIn.String())
	return out, nil
}

func (s *QuoteService) checkSize(reserves []u128.Uint128) error {
	if s.maxTokens > 0 && len(reserves) > s.maxTokens {
		return fmt.Errorf("%w: %d > %d", ErrTooManyTokens, len(reserves), s.maxTokens)
	}
	return nil
}

func (s *QuoteService) pool(model amm.Model, req QuoteRequest) (amm.Pool, error) {
	if err := s.checkSize(req.Reserves); err != nil {
		return nil, err
	}
	return amm.New(model, amm.Params{
		Reserves:      req.Reserves,
		Amplification: req.Amplification,
		FeeBps:        req.FeeBps,
	})
}

func (s *QuoteService) price(model amm.Model, req QuoteRequest) (*Quote, error) {
	pool, err := s.pool(model, req)
	if err != nil {
		return nil, err
	}
	out, err := pool.Quote(req.In, req.Out, req.AmountIn)
	if err != nil {
		return nil, err
	}
	q := &Quote{
		Model:       pool.Model(),
		AmountIn:    req.AmountIn,
		AmountOut:   out,
		SlippageBps: pool.Slippage(req.In, req.Out, req.AmountIn),
	}
	if ip, ok := pool.(amm.InvariantPool); ok {
		d, err := ip.Invariant()
		if err != nil {
			return nil, err
		}
		q.Invariant = &d
	}
	return q, nil
}
