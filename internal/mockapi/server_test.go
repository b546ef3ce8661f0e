package mockapi_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/constants"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/fixtures"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/httpclient"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/jupiter"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/mockapi"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/validate"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAPIKey = "test-api-key-mock"

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func setupMock(t *testing.T, cfg mockapi.ServerConfig) (*jupiter.Pages, *validate.Validator) {
	t.Helper()
	srv := mockapi.NewServer(cfg, quietLogger())
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	client := httpclient.New(httpclient.Config{
		BaseURL: ts.URL,
		APIKey:  cfg.APIKey,
		Timeout: 5 * time.Second,
		Logger:  quietLogger(),
	})
	return jupiter.NewPages(client), validate.New(validate.DefaultConfig(), nil)
}

func getQuote(t *testing.T, pages *jupiter.Pages, req jupiter.QuoteRequest) (*httpclient.Response, *jupiter.QuoteResponse) {
	t.Helper()
	resp, err := pages.Quote.GetQuote(context.Background(), req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.Status, string(resp.Body))
	var q jupiter.QuoteResponse
	require.NoError(t, resp.Decode(&q))
	return resp, &q
}

func TestMock_ValidQuotes(t *testing.T) {
	pages, v := setupMock(t, mockapi.ServerConfig{})

	for name, req := range fixtures.ValidQuotes() {
		t.Run(name, func(t *testing.T) {
			resp, _ := getQuote(t, pages, req)
			assert.NoError(t, v.SuccessfulQuote(resp, req))
			assert.NoError(t, v.QuoteSchema(resp))
			assert.NoError(t, v.RoutePercentages(resp))
			assert.NoError(t, v.SlippageCalculation(resp, req))
		})
	}
}

func TestMock_QuoteShapes(t *testing.T) {
	pages, v := setupMock(t, mockapi.ServerConfig{})

	stable := fixtures.UsdcToUsdtStable()
	resp, _ := getQuote(t, pages, stable)
	assert.NoError(t, v.StablecoinSwap(resp, stable))

	direct := fixtures.DirectRoutesOnly()
	resp, _ = getQuote(t, pages, direct)
	assert.NoError(t, v.DirectRoutesOnly(resp, direct))

	million := fixtures.MillionSolToUsdc()
	resp, q := getQuote(t, pages, million)
	assert.NoError(t, v.MultiRoute(resp, million))
	assert.Len(t, q.RoutePlan, 4)

	million.OnlyDirectRoutes = jupiter.Bool(true)
	_, q = getQuote(t, pages, million)
	assert.Len(t, q.RoutePlan, 1)

	basic := fixtures.SolToUsdcBasic()
	_, q = getQuote(t, pages, basic)
	usdc, err := decimalUSDC(q.OutAmount)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, usdc, constants.SOLUSDCPriceMin)
	assert.LessOrEqual(t, usdc, constants.SOLUSDCPriceMax)
}

func decimalUSDC(raw string) (float64, error) {
	f, err := strconv.ParseFloat(raw, 64)
	return f / 1e6, err
}

func TestMock_InvalidQuotes(t *testing.T) {
	pages, v := setupMock(t, mockapi.ServerConfig{})
	ctx := context.Background()

	resp, err := pages.Quote.GetQuoteParams(ctx, fixtures.MissingInputMint())
	require.NoError(t, err)
	assert.NoError(t, v.BadRequest(resp, []string{"inputMint"}, ""))

	tests := []struct {
		name     string
		req      jupiter.QuoteRequest
		keywords []string
		code     string
	}{
		{"invalid format", fixtures.InvalidTokenFormat(), []string{"Query parameter inputMint cannot be parsed"}, ""},
		{"non-existent", fixtures.NonExistentToken(), []string{"Query parameter inputMint cannot be parsed"}, ""},
		{"zero amount", fixtures.ZeroAmount(), []string{"Could not find any route"}, constants.ErrCodeNoRoute},
		{"same mints", fixtures.SameInputOutput(), []string{"not allowed to be equal"}, constants.ErrCodeCircularArbitrage},
		{"negative slippage", fixtures.NegativeSlippage(), []string{"slippageBps"}, ""},
		{"negative amount", fixtures.NegativeAmount(), []string{"amount"}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := pages.Quote.GetQuote(ctx, tt.req)
			require.NoError(t, err)
			assert.NoError(t, v.BadRequest(resp, tt.keywords, tt.code))
		})
	}
}

func TestMock_SwapAndInstructionsAgree(t *testing.T) {
	pages, v := setupMock(t, mockapi.ServerConfig{})
	ctx := context.Background()

	req := fixtures.SolToUsdcBasic()
	_, q := getQuote(t, pages, req)

	for _, level := range fixtures.PriorityLevels() {
		t.Run(level.Name, func(t *testing.T) {
			body := fixtures.PrioritySwap(q, level.Fee)
			body.DynamicComputeUnitLimit = jupiter.Bool(true)

			swap, err := pages.Swap.PostSwap(ctx, body)
			require.NoError(t, err)
			instr, err := pages.SwapInstructions.PostSwapInstructions(ctx, body)
			require.NoError(t, err)

			assert.NoError(t, v.SwapTransactionDecodes(swap, constants.UserPublicKey))
			assert.NoError(t, v.PriorityFee(swap, level.Fee))
			assert.NoError(t, v.DynamicComputeLimit(swap))
			assert.NoError(t, v.CompleteInstructions(instr, constants.UserPublicKey))
			assert.NoError(t, v.SetupInstructions(instr))
			assert.NoError(t, v.WsolCleanup(instr, constants.UserPublicKey))
			assert.NoError(t, v.EndpointConsistency(instr, swap))
		})
	}
}

func TestMock_StaticComputeLimit(t *testing.T) {
	pages, v := setupMock(t, mockapi.ServerConfig{})

	_, q := getQuote(t, pages, fixtures.UsdcToUsdtStable())
	swap, err := pages.Swap.PostSwap(context.Background(), fixtures.BasicSwap(q))
	require.NoError(t, err)
	require.NoError(t, v.SuccessfulSwap(swap))

	var out jupiter.SwapResponse
	require.NoError(t, swap.Decode(&out))
	require.NotNil(t, out.ComputeUnitLimit)
	assert.EqualValues(t, constants.MaxComputeUnitLimit, *out.ComputeUnitLimit)
	assert.Error(t, v.DynamicComputeLimit(swap))

	instr, err := pages.SwapInstructions.PostSwapInstructions(context.Background(), fixtures.BasicSwap(q))
	require.NoError(t, err)
	var ix jupiter.SwapInstructionsResponse
	require.NoError(t, instr.Decode(&ix))
	assert.Nil(t, ix.CleanupInstruction, "no wrapped SOL to close")
}

func TestMock_DynamicSlippage(t *testing.T) {
	pages, v := setupMock(t, mockapi.ServerConfig{})

	_, q := getQuote(t, pages, fixtures.SolToUsdcBasic())
	swap, err := pages.Swap.PostSwap(context.Background(), fixtures.DynamicSlippageSwap(q, 200))
	require.NoError(t, err)
	assert.NoError(t, v.DynamicSlippage(swap))

	var out jupiter.SwapResponse
	require.NoError(t, swap.Decode(&out))
	require.NotNil(t, out.DynamicSlippageReport)
	assert.LessOrEqual(t, *out.DynamicSlippageReport.SlippageBps, 200)
}

func TestMock_SwapErrors(t *testing.T) {
	pages, v := setupMock(t, mockapi.ServerConfig{})
	ctx := context.Background()
	_, q := getQuote(t, pages, fixtures.SolToUsdcBasic())

	resp, err := pages.Swap.PostSwap(ctx, fixtures.MissingQuoteSwap())
	require.NoError(t, err)
	assert.NoError(t, v.UnprocessableEntity(resp, []string{"missing field `quoteResponse`"}))

	for key, want := range fixtures.InvalidUserKeys() {
		body := fixtures.BasicSwap(q)
		body.UserPublicKey = key
		resp, err := pages.Swap.PostSwap(ctx, body)
		require.NoError(t, err)
		assert.NoError(t, v.UnprocessableEntity(resp, []string{want}), "key %q", key)
	}

	negative := fixtures.BasicSwap(fixtures.TamperedQuote(q, func(q *jupiter.QuoteResponse) { q.InAmount = "-5" }))
	resp, err = pages.Swap.PostSwap(ctx, negative)
	require.NoError(t, err)
	assert.NoError(t, v.UnprocessableEntity(resp, []string{"quoteResponse.inAmount"}))

	circular := fixtures.BasicSwap(fixtures.TamperedQuote(q, func(q *jupiter.QuoteResponse) { q.OutputMint = q.InputMint }))
	resp, err = pages.SwapInstructions.PostSwapInstructions(ctx, circular)
	require.NoError(t, err)
	assert.NoError(t, v.SwapBadRequest(resp, nil, constants.ErrCodeCircularArbitrage))

	resp, err = pages.Swap.PostSwapRaw(ctx, []byte(`{"quoteResponse":`))
	require.NoError(t, err)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
}

func TestMock_Prices(t *testing.T) {
	pages, v := setupMock(t, mockapi.ServerConfig{})
	ctx := context.Background()

	get := func(ids ...string) *httpclient.Response {
		resp, err := pages.Price.GetPrices(ctx, jupiter.PriceRequest{IDs: ids})
		require.NoError(t, err)
		return resp
	}

	single := get(constants.MintSOL)
	assert.NoError(t, v.Price(single, constants.MintSOL, 9))

	batch := get(constants.MintSOL, constants.MintUSDC, constants.MintJUP)
	assert.NoError(t, v.PriceCount(batch, 3))
	assert.NoError(t, v.PriceNear(batch, constants.MintUSDC, 1.0, 0.01))
	assert.NoError(t, v.PriceConsistency(single, batch, constants.MintSOL, 0.01))

	assert.NoError(t, v.PriceCount(get(constants.InvalidAddress), 0))
	assert.NoError(t, v.PriceCount(get(constants.MintSOL, constants.MintSOL), 1))

	many := make([]string, 51)
	for i := range many {
		many[i] = constants.MintSOL
	}
	assert.NoError(t, v.PriceCount(get(many...), 1))

	empty := get()
	assert.Equal(t, http.StatusBadRequest, empty.Status)
	f := empty.Failure()
	require.NotNil(t, f)
	assert.Equal(t, http.StatusBadRequest, f.Status)
}

func TestMock_Tokens(t *testing.T) {
	pages, v := setupMock(t, mockapi.ServerConfig{})
	ctx := context.Background()

	search := func(req jupiter.TokenSearchRequest) *httpclient.Response {
		resp, err := pages.Token.SearchTokens(ctx, req)
		require.NoError(t, err)
		return resp
	}

	sol := search(jupiter.TokenSearchRequest{Query: "SOL"})
	assert.NoError(t, v.FirstToken(sol, jupiter.TokenInfo{
		ID: constants.MintSOL, Symbol: "SOL", Name: "Wrapped SOL", Decimals: 9, IsVerified: true,
	}))
	assert.NoError(t, v.TokenCount(sol, 1, -1))

	assert.NoError(t, v.TokensContain(search(jupiter.TokenSearchRequest{Query: "Jupit"}), "jupit", 1))
	assert.NoError(t, v.TokensIncludeMints(
		search(jupiter.TokenSearchRequest{Query: constants.MintSOL + "," + constants.MintUSDC}),
		[]string{constants.MintSOL, constants.MintUSDC},
	))
	assert.NoError(t, v.TokenCount(search(jupiter.TokenSearchRequest{Query: "sol", Limit: 2}), 1, 2))
	assert.NoError(t, v.TokenCount(search(jupiter.TokenSearchRequest{Query: "definitely-not-a-token"}), 0, 0))
	assert.NoError(t, v.ErrorResponse(search(jupiter.TokenSearchRequest{}), http.StatusBadRequest, []string{"Expected required property"}, ""))

	for _, tag := range []string{constants.TagVerified, constants.TagLST} {
		resp, err := pages.Token.GetTokensByTag(ctx, jupiter.TokenTagRequest{Tag: tag})
		require.NoError(t, err)
		assert.NoError(t, v.TokensTagged(resp, tag), tag)
	}

	resp, err := pages.Token.GetTokensByTag(ctx, jupiter.TokenTagRequest{Tag: "not-a-tag"})
	require.NoError(t, err)
	assert.NoError(t, v.BadRequest(resp, []string{"Invalid tag provided."}, ""))
}

func TestMock_APIKeyAndRateLimit(t *testing.T) {
	pages, _ := setupMock(t, mockapi.ServerConfig{APIKey: testAPIKey})
	resp, err := pages.Price.GetPrices(context.Background(), jupiter.PriceRequest{IDs: []string{constants.MintSOL}})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.Status)

	srv := mockapi.NewServer(mockapi.ServerConfig{APIKey: testAPIKey, RateLimit: 1, Burst: 1}, quietLogger())
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	wrong, err := http.NewRequest(http.MethodGet, ts.URL+constants.PathPrice+"?ids="+constants.MintSOL, nil)
	require.NoError(t, err)
	wrong.Header.Set("x-api-key", "not-the-key")
	denied, err := http.DefaultClient.Do(wrong)
	require.NoError(t, err)
	_ = denied.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, denied.StatusCode)

	client := httpclient.New(httpclient.Config{BaseURL: ts.URL, APIKey: testAPIKey, Logger: quietLogger()})
	statuses := map[int]int{}
	for i := 0; i < 3; i++ {
		r, err := client.Get(context.Background(), constants.PathPrice, map[string][]string{"ids": {constants.MintSOL}})
		require.NoError(t, err)
		statuses[r.Status]++
	}
	assert.Equal(t, 1, statuses[http.StatusOK])
	assert.Equal(t, 2, statuses[http.StatusTooManyRequests])

	health, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	_ = health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}
