package mockapi

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/constants"
	"github.com/labstack/echo/v4"
	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"
)

const defaultSlippageBps = 50

type Handlers struct {
	Catalog *Catalog
	Router  *Router
	Logger  *logrus.Logger
}

type HealthResponse struct {
	OK bool `json:"ok"`
}

func (h *Handlers) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{OK: true})
}

func missingField(field string) string {
	return fmt.Sprintf("Failed to deserialize query string: missing field `%s`", field)
}

func unparsable(field string) *apiError {
	return badRequest(fmt.Sprintf("Query parameter %s cannot be parsed", field), constants.ErrCodeInvalidQueryParams)
}

// parseMint resolves a query mint to a catalog listing.
func (h *Handlers) parseMint(c echo.Context, field string) (*listing, *apiError) {
	raw := strings.TrimSpace(c.QueryParam(field))
	if raw == "" {
		return nil, badRequest(missingField(field), constants.ErrCodeInvalidQueryParams)
	}
	if b, err := base58.Decode(raw); err != nil || len(b) != 32 {
		return nil, unparsable(field)
	}
	l, ok := h.Catalog.lookup(raw)
	if !ok {
		return nil, badRequest(fmt.Sprintf("The token %s is not tradable", raw), constants.ErrCodeTokenNotTradable)
	}
	return l, nil
}

func parseBool(c echo.Context, field string) (bool, *apiError) {
	v := strings.TrimSpace(c.QueryParam(field))
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, unparsable(field)
	}
	return b, nil
}

// parseQuote applies the validation order of the real endpoint: mints,
// amount, slippage, then the semantic checks.
func (h *Handlers) parseQuote(c echo.Context) (route, *apiError) {
	in, apiErr := h.parseMint(c, "inputMint")
	if apiErr != nil {
		return route{}, apiErr
	}
	out, apiErr := h.parseMint(c, "outputMint")
	if apiErr != nil {
		return route{}, apiErr
	}

	amountStr := strings.TrimSpace(c.QueryParam("amount"))
	if amountStr == "" {
		return route{}, badRequest(missingField("amount"), constants.ErrCodeInvalidQueryParams)
	}
	amount, err := strconv.ParseUint(amountStr, 10, 64)
	if err != nil {
		return route{}, unparsable("amount")
	}

	slippage := defaultSlippageBps
	if v := strings.TrimSpace(c.QueryParam("slippageBps")); v != "" {
		n, err := strconv.ParseUint(v, 10, 16)
		if err != nil || n > 10_000 {
			return route{}, unparsable("slippageBps")
		}
		slippage = int(n)
	}

	if mode := c.QueryParam("swapMode"); mode != "" && mode != "ExactIn" {
		return route{}, badRequest("Only ExactIn swaps are supported", constants.ErrCodeInvalidQueryParams)
	}
	direct, apiErr := parseBool(c, "onlyDirectRoutes")
	if apiErr != nil {
		return route{}, apiErr
	}
	if _, apiErr := parseBool(c, "restrictIntermediateTokens"); apiErr != nil {
		return route{}, apiErr
	}

	if in.info.ID == out.info.ID {
		return route{}, badRequest("Input and output mints are not allowed to be equal", constants.ErrCodeCircularArbitrage)
	}
	if amount == 0 {
		return route{}, badRequest("Could not find any route", constants.ErrCodeNoRoute)
	}
	return route{in: in, out: out, amount: amount, slippageBps: slippage, direct: direct}, nil
}

// Quote serves GET /swap/v1/quote.
func (h *Handlers) Quote(c echo.Context) error {
	rt, apiErr := h.parseQuote(c)
	if apiErr != nil {
		return apiErr.write(c)
	}
	q := h.Router.Quote(rt)

	h.Logger.WithFields(logrus.Fields{
		"input":  rt.in.info.Symbol,
		"output": rt.out.info.Symbol,
		"amount": rt.amount,
		"steps":  len(q.RoutePlan),
	}).Debug("mock quote")
	return c.JSON(http.StatusOK, q)
}
