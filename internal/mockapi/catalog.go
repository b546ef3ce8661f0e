package mockapi

import (
	"sort"
	"strings"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/constants"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/jupiter"
	"github.com/shopspring/decimal"
)

const MintJupSOL = "jupSoLaHXQiZZTSfEWMTRRgpnyFm8f6sZdosWBjx93v"

// listing is one tradable token with its market data.
type listing struct {
	info      jupiter.TokenInfo
	change24h float64
}

// Catalog is the static token universe served by the mock.
type Catalog struct {
	byMint map[string]*listing
	order  []*listing
}

func token(mint, symbol, name string, decimals int, usd, liquidity float64, tags ...string) *listing {
	verified := false
	for _, t := range tags {
		if t == constants.TagVerified {
			verified = true
		}
	}
	return &listing{
		info: jupiter.TokenInfo{
			ID:           mint,
			Name:         name,
			Symbol:       symbol,
			Decimals:     decimals,
			Icon:         "https://static.jup.ag/icons/" + strings.ToLower(symbol) + ".png",
			Tags:         tags,
			TokenProgram: constants.TokenProgram,
			IsVerified:   verified,
			USDPrice:     usd,
			Liquidity:    liquidity,
			OrganicScore: 90,
		},
	}
}

// DefaultCatalog returns the tokens the test fixtures trade.
func DefaultCatalog() *Catalog {
	list := []*listing{
		token(constants.MintSOL, "SOL", "Wrapped SOL", 9, 183.88092, 620_000_000, "verified", "community", "strict"),
		token(constants.MintUSDC, "USDC", "USD Coin", 6, 0.99985, 410_000_000, "verified", "strict"),
		token(constants.MintUSDT, "USDT", "USDT", 6, 1.00012, 120_000_000, "verified", "strict"),
		token(constants.MintJUP, "JUP", "Jupiter", 6, 0.4312, 35_000_000, "verified", "strict"),
		token(MintJupSOL, "JupSOL", "Jupiter Staked SOL", 9, 205.4471, 90_000_000, "verified", "lst"),
		token(constants.MintMSOL, "mSOL", "Marinade staked SOL (mSOL)", 9, 236.117, 60_000_000, "verified", "lst"),
		token(constants.MintRAY, "RAY", "Raydium", 6, 2.184, 18_000_000, "verified"),
		token(constants.MintBONK, "Bonk", "Bonk", 5, 0.00001937, 14_000_000, "verified", "community"),
	}
	changes := []float64{1.84, 0.01, -0.02, -3.1, 1.9, 1.7, 4.2, -6.5}

	c := &Catalog{byMint: make(map[string]*listing, len(list)), order: list}
	for i, l := range list {
		l.change24h = changes[i]
		c.byMint[l.info.ID] = l
	}
	return c
}

func (c *Catalog) lookup(mint string) (*listing, bool) {
	l, ok := c.byMint[mint]
	return l, ok
}

// unitPrice is the USD value of one base unit of the token.
func (l *listing) unitPrice() decimal.Decimal {
	return decimal.NewFromFloat(l.info.USDPrice).Shift(int32(-l.info.Decimals))
}

func (l *listing) hasTag(tag string) bool {
	for _, t := range l.info.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (l *listing) stable() bool {
	return l.info.ID == constants.MintUSDC || l.info.ID == constants.MintUSDT
}

// Search matches every comma separated term against mint, symbol and name.
// Exact symbol matches sort first, then verified tokens by liquidity.
func (c *Catalog) Search(query string, limit int) []jupiter.TokenInfo {
	var terms []string
	for _, t := range strings.Split(query, ",") {
		if t = strings.TrimSpace(t); t != "" {
			terms = append(terms, t)
		}
	}

	type hit struct {
		l     *listing
		exact bool
	}
	var hits []hit
	for _, l := range c.order {
		matched, exact := false, false
		for _, term := range terms {
			lower := strings.ToLower(term)
			switch {
			case l.info.ID == term:
				matched, exact = true, true
			case strings.EqualFold(l.info.Symbol, term):
				matched, exact = true, true
			case strings.Contains(strings.ToLower(l.info.Symbol), lower),
				strings.Contains(strings.ToLower(l.info.Name), lower):
				matched = true
			}
		}
		if matched {
			hits = append(hits, hit{l: l, exact: exact})
		}
	}

	sort.SliceStable(hits, func(i, j int) bool {
		if hits[i].exact != hits[j].exact {
			return hits[i].exact
		}
		if hits[i].l.info.IsVerified != hits[j].l.info.IsVerified {
			return hits[i].l.info.IsVerified
		}
		return hits[i].l.info.Liquidity > hits[j].l.info.Liquidity
	})

	out := make([]jupiter.TokenInfo, 0, len(hits))
	for _, h := range hits {
		if limit > 0 && len(out) == limit {
			break
		}
		out = append(out, h.l.info)
	}
	return out
}

// Tagged returns every token carrying tag in catalog order.
func (c *Catalog) Tagged(tag string) []jupiter.TokenInfo {
	out := []jupiter.TokenInfo{}
	for _, l := range c.order {
		if l.hasTag(tag) {
			out = append(out, l.info)
		}
	}
	return out
}
