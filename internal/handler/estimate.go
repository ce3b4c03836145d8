package handler

import (
	"context"
	"log/slog"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gofiber/fiber/v3"

	"github.com/nulln0ne/amm-estimator/internal/service"
)

type EstimateHandler struct {
	BaseHandler
	service  *service.EstimateService
	defaults Defaults
}

// NewEstimateHandler returns a handler for GET /estimate. A nil svc answers
// every request with 503.
func NewEstimateHandler(logger *slog.Logger, svc *service.EstimateService, defaults Defaults) *EstimateHandler {
	return &EstimateHandler{
		BaseHandler: BaseHandler{
			logger: logger,
		},
		service:  svc,
		defaults: defaults,
	}
}

type EstimateRequest struct {
	Pool     string `query:"pool" json:"pool"`
	Src      string `query:"src" json:"src"`
	Dst      string `query:"dst" json:"dst"`
	AmountIn string `query:"src_amount" json:"amount_in"`
	Model    string `query:"model" json:"model"`
	Amp      string `query:"amp" json:"amp"`
	FeeBps   string `query:"fee_bps" json:"fee_bps"`
}

func (h *EstimateHandler) Handle() fiber.Handler {
	return func(c fiber.Ctx) error {
		if h.service == nil {
			return ErrEstimatesDisabled
		}

		req, err := h.parseAndValidateRequest(c)
		if err != nil {
			return err
		}

		p, err := pricingQuery{req.Model, req.Amp, req.FeeBps}.parse(h.defaults)
		if err != nil {
			return err
		}
		amountIn, err := parseAmount("src_amount", req.AmountIn)
		if err != nil {
			return err
		}

		est, err := h.service.Estimate(context.Background(), service.EstimateRequest{
			Pool:          common.HexToAddress(req.Pool),
			Src:           common.HexToAddress(req.Src),
			Dst:           common.HexToAddress(req.Dst),
			AmountIn:      amountIn,
			Model:         p.model,
			Amplification: p.amp,
			FeeBps:        p.feeBps,
		})
		if err != nil {
			return h.handleServiceError(err)
		}

		h.logger.Debug("estimate computed", "pool", req.Pool, "src", req.Src, "dst", req.Dst,
			"in", amountIn.String(), "out", est.AmountOut.String(), "model", est.Model)
		return c.JSON(est)
	}
}

func (h *EstimateHandler) parseAndValidateRequest(c fiber.Ctx) (*EstimateRequest, error) {
	var req EstimateRequest

	if err := c.Bind().Query(&req); err != nil {
		h.logger.Debug("failed to bind query parameters", "err", err)
		return nil, ErrInvalidQueryParameters
	}

	if err := h.validateAddresses(&req); err != nil {
		return nil, err
	}

	return &req, nil
}

func (h *EstimateHandler) validateAddresses(req *EstimateRequest) error {
	fields := []struct{ name, addr string }{
		{"pool", req.Pool},
		{"src", req.Src},
		{"dst", req.Dst},
	}

	for _, f := range fields {
		if f.addr == "" {
			return NewAddressRequired(f.name)
		}
		if !common.IsHexAddress(f.addr) {
			return NewInvalidAddress(f.name)
		}
	}

	if common.HexToAddress(req.Src) == common.HexToAddress(req.Dst) {
		return ErrSameAddresses
	}

	return nil
}
