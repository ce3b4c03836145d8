package service

import (
	"context"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"

	"github.com/nulln0ne/amm-estimator/internal/eth"
	"github.com/nulln0ne/amm-estimator/internal/metrics"
	"github.com/nulln0ne/amm-estimator/pkg/amm"
	"github.com/nulln0ne/amm-estimator/pkg/u128"
)

// PairSource loads a Uniswap V2 pair snapshot. *eth.PairReader implements it.
type PairSource interface {
	ReadPair(ctx context.Context, pool common.Address) (*eth.Pair, error)
}

var _ PairSource = (*eth.PairReader)(nil)

// EstimateRequest prices a swap against the live reserves of a pair.
type EstimateRequest struct {
	Pool          common.Address
	Src           common.Address
	Dst           common.Address
	AmountIn      u128.Uint128
	Model         amm.Model
	Amplification u128.Uint128
	FeeBps        uint16
}

// Estimate is a Quote tagged with the on-chain state it was priced from.
type Estimate struct {
	Quote
	Pool     common.Address  `json:"pool"`
	Block    uint64          `json:"block"`
	Src      common.Address  `json:"src"`
	Dst      common.Address  `json:"dst"`
	Reserves [2]u128.Uint128 `json:"reserves"`
}

// EstimateService prices swaps against Uniswap V2 pair reserves read on
// chain, on any registered curve.
type EstimateService struct {
	BaseService
	metrics *metrics.Metrics
	pairs   PairSource
	quotes  *QuoteService
}

// NewEstimateService constructs an EstimateService reading pairs from src.
// m may be nil.
func NewEstimateService(logger *slog.Logger, m *metrics.Metrics, src PairSource) *EstimateService {
	return &EstimateService{
		BaseService: BaseService{logger: logger},
		metrics:     m,
		pairs:       src,
		quotes:      NewQuoteService(logger, m, 2),
	}
}

// Estimate computes the output amount for swapping req.AmountIn of src to
// dst in the pool at the latest block. It validates the token pair, reads
// reserves from storage and prices the swap on req.Model.
func (e *EstimateService) Estimate(ctx context.Context, req EstimateRequest) (*Estimate, error) {
	e.logger.Debug("estimating swap",
		"pool", req.Pool.Hex(), "src", req.Src.Hex(), "dst", req.Dst.Hex(),
		"in", req.AmountIn.String(), "model", req.Model)

	if req.Src == req.Dst {
		return nil, ErrSameToken
	}

	pair, err := e.pairs.ReadPair(ctx, req.Pool)
	e.metrics.ObservePairRead(err)
	if err != nil {
		return nil, err
	}

	var in, out int
	switch {
	case req.Src == pair.Token0 && req.Dst == pair.Token1:
		in, out = 0, 1
	case req.Src == pair.Token1 && req.Dst == pair.Token0:
		in, out = 1, 0
	default:
		return nil, ErrPairMismatch
	}

	if pair.Reserve0.IsZero() || pair.Reserve1.IsZero() {
		return nil, ErrEmptyReserves
	}

	q, err := e.quotes.Quote(ctx, QuoteRequest{
		Model:         req.Model,
		Reserves:      []u128.Uint128{pair.Reserve0, pair.Reserve1},
		Amplification: req.Amplification,
		FeeBps:        req.FeeBps,
		In:            in,
		Out:           out,
		AmountIn:      req.AmountIn,
	})
	if err != nil {
		return nil, err
	}

	e.logger.Debug("amount out computed", "block", pair.Block, "out", q.AmountOut.String())
	return &Estimate{
		Quote:    *q,
		Pool:     pair.Address,
		Block:    pair.Block,
		Src:      req.Src,
		Dst:      req.Dst,
		Reserves: [2]u128.Uint128{pair.Reserve0, pair.Reserve1},
	}, nil
}
