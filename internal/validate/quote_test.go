package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"testing"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/constants"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/httpclient"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/jupiter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newValidator() *Validator {
	return New(DefaultConfig(), nil)
}

func jsonResponse(t *testing.T, status int, body any) *httpclient.Response {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	return &httpclient.Response{Status: status, Body: b}
}

func slippageRequest() jupiter.QuoteRequest {
	return jupiter.QuoteRequest{
		InputMint:   constants.MintSOL,
		OutputMint:  constants.MintUSDC,
		Amount:      "100000000",
		SlippageBps: 100,
	}
}

func step(in, out string, percent int) map[string]any {
	return map[string]any{
		"swapInfo": map[string]any{
			"ammKey":     "HcoJqG325TTifs6jyWvRJ9ET4pDu12Xrt2EQKZGFmuKX",
			"label":      "Whirlpool",
			"inputMint":  in,
			"outputMint": out,
			"inAmount":   "100000000",
			"outAmount":  "1838809234",
			"feeAmount":  "5000",
			"feeMint":    in,
		},
		"percent": percent,
		"bps":     percent * 100,
	}
}

// quoteBody mirrors a real quote for req with the given outAmount and
// threshold.
func quoteBody(req jupiter.QuoteRequest, out, threshold string, steps ...map[string]any) map[string]any {
	if len(steps) == 0 {
		steps = []map[string]any{step(req.InputMint, req.OutputMint, 100)}
	}
	return map[string]any{
		"inputMint":            req.InputMint,
		"inAmount":             req.Amount,
		"outputMint":           req.OutputMint,
		"outAmount":            out,
		"otherAmountThreshold": threshold,
		"swapMode":             "ExactIn",
		"slippageBps":          req.SlippageBps,
		"platformFee":          nil,
		"priceImpactPct":       "0.0001",
		"routePlan":            steps,
		"contextSlot":          352000000,
		"timeTaken":            0.012,
	}
}

func TestExpectedThreshold(t *testing.T) {
	out := big.NewInt(1838809234)

	// 1838809234 - 18388092.34 = 1820421141.66
	assert.Equal(t, "1820421141", ExpectedThreshold(out, 100).String())
	assert.Equal(t, "1838809234", ExpectedThreshold(out, 0).String())
	assert.Equal(t, "0", ExpectedThreshold(out, 10_000).String())

	million, _ := new(big.Int).SetString("150000000000000000000", 10)
	assert.Equal(t, "148500000000000000000", ExpectedThreshold(million, 100).String())
}

func TestSlippageCalculation_Tolerance(t *testing.T) {
	v := newValidator()
	req := slippageRequest()

	tests := []struct {
		threshold string
		ok        bool
	}{
		{"1820421141", true},
		{"1820421142", true},
		{"1820421140", true},
		{"1820421143", false},
		{"1820421139", false},
		{"1838809234", false},
		{"not-a-number", false},
	}
	for _, tt := range tests {
		t.Run(tt.threshold, func(t *testing.T) {
			resp := jsonResponse(t, http.StatusOK, quoteBody(req, "1838809234", tt.threshold))
			err := v.SlippageCalculation(resp, req)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			viol, ok := AsViolation(err)
			require.True(t, ok)
			assert.Equal(t, "quote.otherAmountThreshold", viol.Check)
		})
	}
}

func TestSuccessfulQuote(t *testing.T) {
	v := newValidator()
	req := slippageRequest()

	resp := jsonResponse(t, http.StatusOK, quoteBody(req, "1838809234", "1820421141"))
	require.NoError(t, v.SuccessfulQuote(resp, req))
	require.NoError(t, v.QuoteSchema(resp))
	require.NoError(t, v.RoutePercentages(resp))

	tests := []struct {
		name   string
		mutate func(b map[string]any)
		check  string
	}{
		{"input mint", func(b map[string]any) { b["inputMint"] = constants.MintUSDT }, "quote.inputMint"},
		{"output mint", func(b map[string]any) { b["outputMint"] = constants.MintSOL }, "quote.outputMint"},
		{"in amount", func(b map[string]any) { b["inAmount"] = "1" }, "quote.inAmount"},
		{"slippage", func(b map[string]any) { b["slippageBps"] = 50 }, "quote.slippageBps"},
		{"slippage missing", func(b map[string]any) { delete(b, "slippageBps") }, "quote.slippageBps"},
		{"zero out amount", func(b map[string]any) { b["outAmount"] = "0" }, "quote.outAmount"},
		{"out amount missing", func(b map[string]any) { delete(b, "outAmount") }, "quote.outAmount"},
		{"empty route plan", func(b map[string]any) { b["routePlan"] = []any{} }, "quote.routePlan"},
		{"route plan missing", func(b map[string]any) { delete(b, "routePlan") }, "quote.routePlan"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := quoteBody(req, "1838809234", "1820421141")
			tt.mutate(body)
			err := v.SuccessfulQuote(jsonResponse(t, http.StatusOK, body), req)
			viol, ok := AsViolation(err)
			require.True(t, ok, "expected violation, got %v", err)
			assert.Equal(t, tt.check, viol.Check)
		})
	}
}

func TestSuccessfulQuote_WrongStatus(t *testing.T) {
	v := newValidator()
	resp := jsonResponse(t, http.StatusBadRequest, map[string]any{"error": "bad"})
	err := v.SuccessfulQuote(resp, slippageRequest())
	viol, ok := AsViolation(err)
	require.True(t, ok)
	assert.Equal(t, "quote.status", viol.Check)
	assert.Equal(t, http.StatusOK, viol.Expected)
	assert.Equal(t, http.StatusBadRequest, viol.Actual)

	assert.Error(t, v.SuccessfulQuote(nil, slippageRequest()))
}

func TestStablecoinSwap(t *testing.T) {
	v := newValidator()
	req := jupiter.QuoteRequest{
		InputMint:   constants.MintUSDC,
		OutputMint:  constants.MintUSDT,
		Amount:      "1000000000",
		SlippageBps: 10,
	}

	tests := []struct {
		name   string
		out    string
		impact string
		check  string
	}{
		{"at parity", "999800000", "0.0001", ""},
		{"upper edge", "1005000000", "0", ""},
		{"lower edge", "995000000", "0", ""},
		{"too low", "994999999", "0", "quote.ratio"},
		{"too high", "1005000001", "0", "quote.ratio"},
		{"impact at ceiling", "999800000", "0.5", "quote.priceImpactPct"},
		{"impact unparseable", "999800000", "n/a", "quote.priceImpactPct"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := quoteBody(req, tt.out, tt.out)
			body["priceImpactPct"] = tt.impact
			err := v.StablecoinSwap(jsonResponse(t, http.StatusOK, body), req)
			if tt.check == "" {
				assert.NoError(t, err)
				return
			}
			viol, ok := AsViolation(err)
			require.True(t, ok, "expected violation, got %v", err)
			assert.Equal(t, tt.check, viol.Check)
		})
	}
}

func TestDirectRoutesOnly(t *testing.T) {
	v := newValidator()
	req := slippageRequest()
	req.OnlyDirectRoutes = jupiter.Bool(true)

	direct := jsonResponse(t, http.StatusOK, quoteBody(req, "1838809234", "1820421141"))
	assert.NoError(t, v.DirectRoutesOnly(direct, req))

	hop := quoteBody(req, "1838809234", "1820421141",
		step(req.InputMint, constants.MintUSDT, 100),
		step(constants.MintUSDT, req.OutputMint, 0),
	)
	err := v.DirectRoutesOnly(jsonResponse(t, http.StatusOK, hop), req)
	viol, ok := AsViolation(err)
	require.True(t, ok)
	assert.Equal(t, "quote.routePlan", viol.Check)

	wrongMint := quoteBody(req, "1838809234", "1820421141", step(req.InputMint, constants.MintUSDT, 100))
	err = v.DirectRoutesOnly(jsonResponse(t, http.StatusOK, wrongMint), req)
	viol, ok = AsViolation(err)
	require.True(t, ok)
	assert.Equal(t, "quote.routePlan[0].swapInfo.outputMint", viol.Check)
}

func TestMultiRouteAndPercentages(t *testing.T) {
	v := newValidator()
	req := slippageRequest()

	split := quoteBody(req, "1838809234", "1820421141",
		step(req.InputMint, req.OutputMint, 40),
		step(req.InputMint, req.OutputMint, 30),
		step(req.InputMint, req.OutputMint, 20),
		step(req.InputMint, req.OutputMint, 10),
	)
	assert.NoError(t, v.MultiRoute(jsonResponse(t, http.StatusOK, split), req))

	short := quoteBody(req, "1838809234", "1820421141",
		step(req.InputMint, req.OutputMint, 60),
		step(req.InputMint, req.OutputMint, 30),
	)
	err := v.MultiRoute(jsonResponse(t, http.StatusOK, short), req)
	viol, ok := AsViolation(err)
	require.True(t, ok)
	assert.Equal(t, "quote.routePlan.percent", viol.Check)
	assert.Equal(t, 90, viol.Actual)
	assert.Error(t, v.RoutePercentages(jsonResponse(t, http.StatusOK, short)))

	single := jsonResponse(t, http.StatusOK, quoteBody(req, "1838809234", "1820421141"))
	assert.Error(t, v.MultiRoute(single, req))
}

func TestIntermediateTokenRestriction(t *testing.T) {
	v := newValidator()
	req := slippageRequest()
	ok := jsonResponse(t, http.StatusOK, quoteBody(req, "1838809234", "1820421141"))
	bad := jsonResponse(t, http.StatusBadRequest, map[string]any{"error": "x"})

	assert.NoError(t, v.IntermediateTokenRestriction(ok, ok, req))
	assert.Error(t, v.IntermediateTokenRestriction(ok, bad, req))
	assert.Error(t, v.IntermediateTokenRestriction(bad, ok, req))
}

func TestQuoteSchema_MissingSwapInfoField(t *testing.T) {
	v := newValidator()
	req := slippageRequest()
	s := step(req.InputMint, req.OutputMint, 100)
	delete(s["swapInfo"].(map[string]any), "feeMint")

	err := v.QuoteSchema(jsonResponse(t, http.StatusOK, quoteBody(req, "1", "1", s)))
	viol, ok := AsViolation(err)
	require.True(t, ok)
	assert.Equal(t, "quote.routePlan.swapInfo.feeMint", viol.Check)
}

func TestErrorResponse(t *testing.T) {
	v := newValidator()
	resp := jsonResponse(t, http.StatusBadRequest, map[string]any{
		"error":     "Input and output mints are not allowed to be equal",
		"errorCode": constants.ErrCodeCircularArbitrage,
	})

	kw := []string{"input and OUTPUT mints are not allowed"}
	assert.NoError(t, v.BadRequest(resp, kw, constants.ErrCodeCircularArbitrage))
	assert.NoError(t, v.BadRequest(resp, kw, ""))
	assert.NoError(t, v.ErrorResponse(&httpclient.HTTPError{Response: resp}, http.StatusBadRequest, kw, ""))
	assert.NoError(t, v.ErrorResponse(fmt.Errorf("quote failed: %w", resp.Err()), http.StatusBadRequest, kw, ""))

	err := v.BadRequest(resp, kw, constants.ErrCodeNoRoute)
	viol, ok := AsViolation(err)
	require.True(t, ok)
	assert.Equal(t, "error.errorCode", viol.Check)

	err = v.BadRequest(resp, []string{"route"}, "")
	viol, ok = AsViolation(err)
	require.True(t, ok)
	assert.Equal(t, "error.body", viol.Check)

	err = v.UnprocessableEntity(resp, nil)
	viol, ok = AsViolation(err)
	require.True(t, ok)
	assert.Equal(t, "error.status", viol.Check)

	assert.Error(t, v.BadRequest(nil, kw, ""))
	assert.Error(t, v.BadRequest(errors.New("dial tcp: connection refused"), kw, ""))

	// a response passed by value unwraps like a pointer
	assert.NoError(t, v.BadRequest(*resp, kw, constants.ErrCodeCircularArbitrage))
}

func TestErrorResponse_CodeIgnoresSiblingTypes(t *testing.T) {
	v := newValidator()

	tests := []struct {
		name string
		body string
		code string
	}{
		{
			name: "string status",
			body: `{"status":"Bad Request","error":"Input and output mints are not allowed to be equal","errorCode":"CIRCULAR_ARBITRAGE_IS_DISABLED"}`,
			code: constants.ErrCodeCircularArbitrage,
		},
		{
			name: "object error",
			body: `{"error":{"detail":"x"},"errorCode":"COULD_NOT_FIND_ANY_ROUTE"}`,
			code: constants.ErrCodeNoRoute,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := &httpclient.Response{Status: http.StatusBadRequest, Body: []byte(tt.body)}
			assert.NoError(t, v.BadRequest(resp, nil, tt.code))
		})
	}

	resp := &httpclient.Response{Status: http.StatusBadRequest, Body: []byte(`{"status":"Bad Request","errorCode":42}`)}
	viol, ok := AsViolation(v.BadRequest(resp, nil, constants.ErrCodeNoRoute))
	require.True(t, ok)
	assert.Equal(t, "error.errorCode", viol.Check)
	assert.Equal(t, "42", viol.Actual)

	plain := &httpclient.Response{Status: http.StatusBadRequest, Body: []byte("Bad Request")}
	viol, ok = AsViolation(v.BadRequest(plain, nil, constants.ErrCodeNoRoute))
	require.True(t, ok)
	assert.Equal(t, "error.errorCode", viol.Check)
}

func TestValidatorsAreIdempotent(t *testing.T) {
	v := newValidator()
	req := slippageRequest()
	good := jsonResponse(t, http.StatusOK, quoteBody(req, "1838809234", "1820421142"))
	bad := jsonResponse(t, http.StatusOK, quoteBody(req, "1838809234", "1820421150"))
	before := append([]byte(nil), bad.Body...)

	for i := 0; i < 3; i++ {
		assert.NoError(t, v.SlippageCalculation(good, req))
		assert.Error(t, v.SlippageCalculation(bad, req))
	}
	assert.Equal(t, before, bad.Body)
	assert.Equal(t, v.SlippageCalculation(bad, req).Error(), v.SlippageCalculation(bad, req).Error())
}
