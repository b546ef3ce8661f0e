package mockapi

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"net/http"
	"strconv"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/constants"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/jupiter"
	"github.com/gagliardetto/solana-go"
	"github.com/labstack/echo/v4"
	"github.com/mr-tron/base58"
	"github.com/sirupsen/logrus"
)

const (
	maxComputeUnits     = constants.MaxComputeUnitLimit
	baseComputeUnits    = 180_000
	computeUnitsPerStep = 30_000
	blockHeightLag      = 20_000_000
	blockhashValidity   = 150
)

const deserializeFailed = "Failed to deserialize the JSON body into the target type: "

// swapCall is a validated /swap or /swap-instructions body.
type swapCall struct {
	req   jupiter.SwapRequest
	quote jupiter.QuoteResponse
	user  solana.PublicKey
	in    *listing
	out   *listing

	inAmount  uint64
	outAmount uint64
}

func (h *Handlers) parseSwap(c echo.Context) (*swapCall, *apiError) {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return nil, unprocessable("Failed to buffer the request body")
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &apiError{status: http.StatusBadRequest, text: "Failed to parse the request body as JSON: " + err.Error()}
	}

	q, ok := raw["quoteResponse"]
	if !ok || string(q) == "null" {
		return nil, unprocessable(deserializeFailed + "missing field `quoteResponse`")
	}
	if _, ok := raw["userPublicKey"]; !ok {
		return nil, unprocessable(deserializeFailed + "missing field `userPublicKey`")
	}

	var call swapCall
	if err := json.Unmarshal(body, &call.req); err != nil {
		return nil, unprocessable(deserializeFailed + err.Error())
	}
	call.quote = *call.req.QuoteResponse

	if call.inAmount, err = strconv.ParseUint(call.quote.InAmount, 10, 64); err != nil {
		return nil, unprocessable(deserializeFailed + "quoteResponse.inAmount: invalid digit found in string")
	}
	if call.outAmount, err = strconv.ParseUint(call.quote.OutAmount, 10, 64); err != nil {
		return nil, unprocessable(deserializeFailed + "quoteResponse.outAmount: invalid digit found in string")
	}

	user, apiErr := parseUserKey(call.req.UserPublicKey)
	if apiErr != nil {
		return nil, apiErr
	}
	call.user = user

	if call.quote.InputMint == call.quote.OutputMint {
		return nil, badRequest("Input and output mints are not allowed to be equal", constants.ErrCodeCircularArbitrage)
	}
	for _, m := range []string{call.quote.InputMint, call.quote.OutputMint} {
		l, ok := h.Catalog.lookup(m)
		if !ok {
			return nil, badRequest(fmt.Sprintf("The token %s is not tradable", m), constants.ErrCodeTokenNotTradable)
		}
		if m == call.quote.InputMint {
			call.in = l
		} else {
			call.out = l
		}
	}
	if len(call.quote.RoutePlan) == 0 {
		return nil, badRequest("Quote has an empty route plan", constants.ErrCodeNoRoute)
	}
	return &call, nil
}

func parseUserKey(s string) (solana.PublicKey, *apiError) {
	if s == "" {
		return solana.PublicKey{}, unprocessable("userPublicKey: Parse error: WrongSize")
	}
	b, err := base58.Decode(s)
	if err != nil {
		return solana.PublicKey{}, unprocessable("userPublicKey: Parse error: Invalid")
	}
	if len(b) != solana.PublicKeyLength {
		return solana.PublicKey{}, unprocessable("userPublicKey: Parse error: WrongSize")
	}
	return solana.PublicKeyFromBytes(b), nil
}

// swapPlan is everything both swap endpoints derive from one request.
type swapPlan struct {
	computeBudget []solana.Instruction
	setup         []solana.Instruction
	swap          solana.Instruction
	cleanup       solana.Instruction // nil when nothing needs closing

	computeUnits uint64
	priorityFee  uint64
	lookupTables []string
}

// computeBudget returns the unit limit and the fee actually charged for
// the requested priority fee. The fee is spread as a per-unit micro-lamport
// price, so rounding may charge slightly less than asked.
func computeBudget(req jupiter.SwapRequest, steps int) (units, microLamports, fee uint64) {
	units = maxComputeUnits
	if req.DynamicComputeUnitLimit != nil && *req.DynamicComputeUnitLimit {
		units = baseComputeUnits + computeUnitsPerStep*uint64(steps)
	}
	if req.PrioritizationFeeLamports == nil || *req.PrioritizationFeeLamports == 0 {
		return units, 0, 0
	}
	microLamports = *req.PrioritizationFeeLamports * 1_000_000 / units
	fee = microLamports * units / 1_000_000
	return units, microLamports, fee
}

func (h *Handlers) plan(call *swapCall) (*swapPlan, error) {
	wrap := call.req.WrapAndUnwrapSol == nil || *call.req.WrapAndUnwrapSol
	inMint := solana.MPK(call.in.info.ID)
	outMint := solana.MPK(call.out.info.ID)

	source, err := findAssociatedTokenAddress(call.user, inMint)
	if err != nil {
		return nil, fmt.Errorf("source account: %w", err)
	}
	dest, err := findAssociatedTokenAddress(call.user, outMint)
	if err != nil {
		return nil, fmt.Errorf("destination account: %w", err)
	}

	units, price, fee := computeBudget(call.req, len(call.quote.RoutePlan))
	p := &swapPlan{computeUnits: units, priorityFee: fee}
	p.computeBudget = append(p.computeBudget, newSetComputeUnitLimitIx(uint32(units)))
	if price > 0 {
		p.computeBudget = append(p.computeBudget, newSetComputeUnitPriceIx(price))
	}

	solIn := call.in.info.ID == constants.MintSOL
	solOut := call.out.info.ID == constants.MintSOL
	switch {
	case solIn && wrap:
		p.setup = append(p.setup,
			newCreateAssociatedTokenAccountIx(call.user, source, call.user, inMint),
			newSystemTransferIx(call.user, source, call.inAmount),
			newTokenSyncNativeIx(source),
		)
		p.setup = append(p.setup, newCreateAssociatedTokenAccountIx(call.user, dest, call.user, outMint))
		p.cleanup = newTokenCloseAccountIx(source, call.user, call.user)
	case solOut && wrap:
		p.setup = append(p.setup, newCreateAssociatedTokenAccountIx(call.user, dest, call.user, outMint))
		p.cleanup = newTokenCloseAccountIx(dest, call.user, call.user)
	default:
		p.setup = append(p.setup, newCreateAssociatedTokenAccountIx(call.user, dest, call.user, outMint))
	}

	p.swap, err = h.routeIx(call, source, dest)
	if err != nil {
		return nil, err
	}

	table, _, err := solana.FindProgramAddress([][]byte{[]byte("lookup"), inMint.Bytes(), outMint.Bytes()}, h.Router.program)
	if err != nil {
		return nil, fmt.Errorf("lookup table: %w", err)
	}
	p.lookupTables = []string{table.String()}
	return p, nil
}

func (h *Handlers) routeIx(call *swapCall, source, dest solana.PublicKey) (solana.Instruction, error) {
	authority, _, err := solana.FindProgramAddress([][]byte{[]byte("authority"), {0}}, h.Router.program)
	if err != nil {
		return nil, fmt.Errorf("program authority: %w", err)
	}

	accounts := solana.AccountMetaSlice{
		{PublicKey: solana.TokenProgramID},
		{PublicKey: authority},
		{PublicKey: call.user, IsSigner: true},
		{PublicKey: source, IsWritable: true},
		{PublicKey: dest, IsWritable: true},
		{PublicKey: solana.MPK(call.in.info.ID)},
		{PublicKey: solana.MPK(call.out.info.ID)},
	}
	seen := map[string]bool{}
	for _, step := range call.quote.RoutePlan {
		key := step.SwapInfo.AmmKey
		if seen[key] {
			continue
		}
		seen[key] = true
		pk, err := solana.PublicKeyFromBase58(key)
		if err != nil {
			return nil, fmt.Errorf("amm key %q: %w", key, err)
		}
		accounts = append(accounts, &solana.AccountMeta{PublicKey: pk, IsWritable: true})
	}

	data, err := routeArgs{
		InAmount:        call.inAmount,
		QuotedOutAmount: call.outAmount,
		SlippageBps:     uint16(call.quote.SlippageBps),
		RoutePlanLen:    uint32(len(call.quote.RoutePlan)),
	}.encode()
	if err != nil {
		return nil, err
	}
	return solana.NewInstruction(h.Router.program, accounts, data), nil
}

// blockhash is a stand-in recent blockhash derived from the slot.
func blockhash(slot uint64) solana.Hash {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], slot)
	return solana.Hash(sha256.Sum256(b[:]))
}

func (p *swapPlan) instructions() []solana.Instruction {
	out := append([]solana.Instruction{}, p.computeBudget...)
	out = append(out, p.setup...)
	out = append(out, p.swap)
	if p.cleanup != nil {
		out = append(out, p.cleanup)
	}
	return out
}

// transaction builds the unsigned transaction with zeroed signatures.
func (p *swapPlan) transaction(payer solana.PublicKey, slot uint64) (string, error) {
	tx, err := solana.NewTransaction(p.instructions(), blockhash(slot), solana.TransactionPayer(payer))
	if err != nil {
		return "", fmt.Errorf("build transaction: %w", err)
	}
	tx.Signatures = make([]solana.Signature, tx.Message.Header.NumRequiredSignatures)
	raw, err := tx.MarshalBinary()
	if err != nil {
		return "", fmt.Errorf("serialize transaction: %w", err)
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

func dynamicSlippageReport(call *swapCall, maxBps int) *jupiter.DynamicSlippageReport {
	category, heuristic := "bluechip", 300
	switch {
	case call.in.stable() && call.out.stable():
		category, heuristic = "stable", 50
	case call.in.hasTag(constants.TagLST) || call.out.hasTag(constants.TagLST):
		category, heuristic = "lst", 100
	}
	bps := min(heuristic, maxBps)
	other := int64(minimumOut(new(big.Int).SetUint64(call.outAmount), bps).Uint64())
	incurred := -len(call.quote.RoutePlan)
	return &jupiter.DynamicSlippageReport{
		SlippageBps:                  &bps,
		OtherAmount:                  &other,
		SimulatedIncurredSlippageBps: &incurred,
		AmplificationRatio:           "1.5",
		CategoryName:                 category,
		HeuristicMaxSlippageBps:      &heuristic,
	}
}

// Swap serves POST /swap/v1/swap.
func (h *Handlers) Swap(c echo.Context) error {
	call, apiErr := h.parseSwap(c)
	if apiErr != nil {
		return apiErr.write(c)
	}
	p, err := h.plan(call)
	if err != nil {
		h.Logger.WithError(err).Error("mock swap plan failed")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}

	slot := h.Router.slot()
	tx, err := p.transaction(call.user, slot)
	if err != nil {
		h.Logger.WithError(err).Error("mock swap transaction failed")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}

	resp := jupiter.SwapResponse{
		SwapTransaction:           tx,
		LastValidBlockHeight:      slot - blockHeightLag + blockhashValidity,
		PrioritizationFeeLamports: &p.priorityFee,
		ComputeUnitLimit:          &p.computeUnits,
	}
	if ds := call.req.DynamicSlippage; ds != nil {
		resp.DynamicSlippageReport = dynamicSlippageReport(call, ds.MaxBps)
	}

	h.Logger.WithFields(logrus.Fields{
		"user":  call.user.String(),
		"cu":    p.computeUnits,
		"fee":   p.priorityFee,
		"steps": len(call.quote.RoutePlan),
	}).Debug("mock swap")
	return c.JSON(http.StatusOK, resp)
}

// SwapInstructions serves POST /swap/v1/swap-instructions.
func (h *Handlers) SwapInstructions(c echo.Context) error {
	call, apiErr := h.parseSwap(c)
	if apiErr != nil {
		return apiErr.write(c)
	}
	p, err := h.plan(call)
	if err != nil {
		h.Logger.WithError(err).Error("mock swap plan failed")
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}

	resp := jupiter.SwapInstructionsResponse{
		OtherInstructions:           []jupiter.Instruction{},
		AddressLookupTableAddresses: p.lookupTables,
		PrioritizationFeeLamports:   &p.priorityFee,
		ComputeUnitLimit:            &p.computeUnits,
	}
	if resp.ComputeBudgetInstructions, err = toWireAll(p.computeBudget); err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	if resp.SetupInstructions, err = toWireAll(p.setup); err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	swapIx, err := toWire(p.swap)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
	}
	resp.SwapInstruction = &swapIx
	if p.cleanup != nil {
		cleanup, err := toWire(p.cleanup)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		}
		resp.CleanupInstruction = &cleanup
	}
	return c.JSON(http.StatusOK, resp)
}
