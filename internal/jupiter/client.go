package jupiter

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/constants"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/httpclient"
)

// Doer is the transport every page object sends through.
type Doer interface {
	Get(ctx context.Context, path string, query url.Values) (*httpclient.Response, error)
	Post(ctx context.Context, path string, body any) (*httpclient.Response, error)
}

// Pages bundles one page object per endpoint over a shared transport.
type Pages struct {
	Quote            *QuotePage
	Swap             *SwapPage
	SwapInstructions *SwapInstructionsPage
	Price            *PricePage
	Token            *TokenPage
}

func NewPages(c Doer) *Pages {
	return &Pages{
		Quote:            &QuotePage{c: c},
		Swap:             &SwapPage{c: c},
		SwapInstructions: &SwapInstructionsPage{c: c},
		Price:            &PricePage{c: c},
		Token:            &TokenPage{c: c},
	}
}

type QuotePage struct{ c Doer }

func (p *QuotePage) GetQuote(ctx context.Context, req QuoteRequest) (*httpclient.Response, error) {
	return p.c.Get(ctx, constants.PathQuote, req.Query())
}

// GetQuoteParams sends params verbatim, for requests a QuoteRequest cannot
// express such as one with no inputMint at all.
func (p *QuotePage) GetQuoteParams(ctx context.Context, params map[string]string) (*httpclient.Response, error) {
	q := url.Values{}
	for k, v := range params {
		q.Set(k, v)
	}
	return p.c.Get(ctx, constants.PathQuote, q)
}

type SwapPage struct{ c Doer }

func (p *SwapPage) PostSwap(ctx context.Context, req SwapRequest) (*httpclient.Response, error) {
	return p.c.Post(ctx, constants.PathSwap, req)
}

// PostSwapRaw posts an arbitrary JSON body.
func (p *SwapPage) PostSwapRaw(ctx context.Context, body []byte) (*httpclient.Response, error) {
	return p.c.Post(ctx, constants.PathSwap, body)
}

type SwapInstructionsPage struct{ c Doer }

func (p *SwapInstructionsPage) PostSwapInstructions(ctx context.Context, req SwapInstructionsRequest) (*httpclient.Response, error) {
	return p.c.Post(ctx, constants.PathSwapInstructions, req)
}

type PricePage struct{ c Doer }

func (p *PricePage) GetPrices(ctx context.Context, req PriceRequest) (*httpclient.Response, error) {
	q := url.Values{}
	q.Set("ids", strings.Join(req.IDs, ","))
	return p.c.Get(ctx, constants.PathPrice, q)
}

type TokenPage struct{ c Doer }

// SearchTokens omits empty fields, so a zero request exercises the
// missing-query error path.
func (p *TokenPage) SearchTokens(ctx context.Context, req TokenSearchRequest) (*httpclient.Response, error) {
	q := url.Values{}
	if req.Query != "" {
		q.Set("query", req.Query)
	}
	if len(req.Mints) > 0 {
		q.Set("mints", strings.Join(req.Mints, ","))
	}
	if req.Limit > 0 {
		q.Set("limit", strconv.Itoa(req.Limit))
	}
	return p.c.Get(ctx, constants.PathTokenSearch, q)
}

func (p *TokenPage) GetTokensByTag(ctx context.Context, req TokenTagRequest) (*httpclient.Response, error) {
	q := url.Values{}
	q.Set("query", req.Tag)
	return p.c.Get(ctx, constants.PathTokenTag, q)
}
