package mockapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/constants"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/jupiter"
	"github.com/labstack/echo/v4"
)

const (
	maxPriceIDs      = 50
	defaultSearchMax = 20
	maxSearchLimit   = 100
)

func splitCSV(v string) []string {
	var out []string
	for _, p := range strings.Split(v, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func message(c echo.Context, status int, msg string) error {
	return c.JSON(status, MessageResponse{Status: status, Message: msg})
}

func unique(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, v := range in {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

// Price serves GET /price/v3. Unknown ids are omitted and repeated ids
// collapse to one entry before the id limit applies.
func (h *Handlers) Price(c echo.Context) error {
	ids := unique(splitCSV(c.QueryParam("ids")))
	if len(ids) == 0 {
		return message(c, http.StatusBadRequest, "Query parameter ids is required")
	}
	if len(ids) > maxPriceIDs {
		return message(c, http.StatusBadRequest, "Too many ids, at most 50 are allowed")
	}

	slot := h.Router.slot()
	out := jupiter.PriceResponse{}
	for _, id := range ids {
		l, ok := h.Catalog.lookup(id)
		if !ok {
			continue
		}
		out[id] = jupiter.TokenPrice{
			USDPrice:       l.info.USDPrice,
			BlockID:        slot,
			Decimals:       l.info.Decimals,
			PriceChange24h: l.change24h,
		}
	}
	return c.JSON(http.StatusOK, out)
}

// SearchTokens serves GET /tokens/v2/search.
func (h *Handlers) SearchTokens(c echo.Context) error {
	query := strings.TrimSpace(c.QueryParam("query"))
	if mints := c.QueryParam("mints"); mints != "" {
		query = strings.Join(append(splitCSV(query), splitCSV(mints)...), ",")
	}
	if query == "" {
		return message(c, http.StatusBadRequest, `querystring: Expected required property "query"`)
	}

	limit := defaultSearchMax
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxSearchLimit {
			return message(c, http.StatusBadRequest, "querystring/limit: Expected integer between 1 and 100")
		}
		limit = n
	}
	return c.JSON(http.StatusOK, h.Catalog.Search(query, limit))
}

// TokensByTag serves GET /tokens/v2/tag.
func (h *Handlers) TokensByTag(c echo.Context) error {
	tag := strings.TrimSpace(c.QueryParam("query"))
	if tag != constants.TagVerified && tag != constants.TagLST {
		return message(c, http.StatusBadRequest, "Invalid tag provided.")
	}
	return c.JSON(http.StatusOK, h.Catalog.Tagged(tag))
}
