package handler

import (
	"context"
	"log/slog"

	"github.com/gofiber/fiber/v3"

	"github.com/nulln0ne/amm-estimator/internal/service"
	"github.com/nulln0ne/amm-estimator/pkg/amm"
)

type QuoteHandler struct {
	BaseHandler
	service   *service.QuoteService
	defaults  Defaults
	maxTokens int
}

func NewQuoteHandler(logger *slog.Logger, svc *service.QuoteService, defaults Defaults, maxTokens int) *QuoteHandler {
	return &QuoteHandler{
		BaseHandler: BaseHandler{
			logger: logger,
		},
		service:   svc,
		defaults:  defaults,
		maxTokens: maxTokens,
	}
}

type QuoteRequest struct {
	Model    string `query:"model" json:"model"`
	Amp      string `query:"amp" json:"amp"`
	FeeBps   string `query:"fee_bps" json:"fee_bps"`
	// Reserves is read raw so the binder never splits it on commas.
	Reserves string `query:"-" json:"reserves"`
	I        string `query:"i" json:"i"`
	J        string `query:"j" json:"j"`
	Dx       string `query:"dx" json:"dx"`
}

// Quote serves GET /quote.
func (h *QuoteHandler) Quote() fiber.Handler {
	return func(c fiber.Ctx) error {
		req, err := h.parseRequest(c)
		if err != nil {
			return err
		}

		q, err := h.service.Quote(context.Background(), *req)
		if err != nil {
			return h.handleServiceError(err)
		}
		return c.JSON(q)
	}
}

// Compare serves GET /compare: the same swap priced on every model.
func (h *QuoteHandler) Compare() fiber.Handler {
	return func(c fiber.Ctx) error {
		req, err := h.parseRequest(c)
		if err != nil {
			return err
		}

		cmp, err := h.service.Compare(context.Background(), *req)
		if err != nil {
			return h.handleServiceError(err)
		}
		return c.JSON(cmp)
	}
}

// Models serves GET /models.
func (h *QuoteHandler) Models() fiber.Handler {
	return func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"models": amm.Models()})
	}
}

func (h *QuoteHandler) parseRequest(c fiber.Ctx) (*service.QuoteRequest, error) {
	var req QuoteRequest

	if err := c.Bind().Query(&req); err != nil {
		h.logger.Debug("failed to bind query parameters", "err", err)
		return nil, ErrInvalidQueryParameters
	}
	req.Reserves = c.Query("reserves")

	p, err := pricingQuery{req.Model, req.Amp, req.FeeBps}.parse(h.defaults)
	if err != nil {
		return nil, err
	}
	reserves, err := parseReserves(req.Reserves, h.maxTokens)
	if err != nil {
		return nil, err
	}
	i, err := parseIndex("i", req.I, 0)
	if err != nil {
		return nil, err
	}
	j, err := parseIndex("j", req.J, 1)
	if err != nil {
		return nil, err
	}
	dx, err := parseAmount("dx", req.Dx)
	if err != nil {
		return nil, err
	}

	return &service.QuoteRequest{
		Model:         p.model,
		Reserves:      reserves,
		Amplification: p.amp,
		FeeBps:        p.feeBps,
		In:            i,
		Out:           j,
		AmountIn:      dx,
	}, nil
}
