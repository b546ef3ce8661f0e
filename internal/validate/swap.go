package validate

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/httpclient"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
)

// SuccessfulSwap checks a 200 with a base64 transaction and a positive
// lastValidBlockHeight.
func (v *Validator) SuccessfulSwap(resp *httpclient.Response) error {
	_, _, err := v.swap(resp)
	return err
}

// swap runs the shared checks on the raw body and returns it together with
// the transaction string. Typed decoding is avoided so that a mistyped field
// is reported under its own name.
func (v *Validator) swap(resp *httpclient.Response) (object, string, error) {
	if err := expectStatus("swap", resp, http.StatusOK); err != nil {
		return nil, "", err
	}
	obj, err := decode("swap", resp, nil)
	if err != nil {
		return nil, "", err
	}

	if err := obj.require("swap", "swapTransaction", kindString); err != nil {
		return nil, "", err
	}
	var tx string
	if err := json.Unmarshal(obj["swapTransaction"], &tx); err != nil {
		return nil, "", violation("swap.swapTransaction", "string", truncate(string(obj["swapTransaction"]), 40), err.Error())
	}
	if tx == "" {
		return nil, "", violation("swap.swapTransaction", "non-empty string", `""`, "")
	}
	if !base64Re.MatchString(tx) {
		return nil, "", violation("swap.swapTransaction", "base64", truncate(tx, 40), "")
	}
	if _, err := obj.positiveInt("swap", "lastValidBlockHeight"); err != nil {
		return nil, "", err
	}
	return obj, tx, nil
}

// SwapTransactionDecodes parses the transaction and checks that feePayer
// is the fee payer.
func (v *Validator) SwapTransactionDecodes(resp *httpclient.Response, feePayer string) error {
	_, encoded, err := v.swap(resp)
	if err != nil {
		return err
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return violation("swap.swapTransaction", "decodable base64", truncate(encoded, 40), err.Error())
	}
	tx, err := solana.TransactionFromDecoder(bin.NewBinDecoder(raw))
	if err != nil {
		return violation("swap.swapTransaction", "solana transaction", fmt.Sprintf("%d bytes", len(raw)), err.Error())
	}
	if len(tx.Message.Instructions) == 0 {
		return violation("swap.swapTransaction.instructions", "at least one", 0, "")
	}
	if len(tx.Message.AccountKeys) == 0 {
		return violation("swap.swapTransaction.accountKeys", "at least one", 0, "")
	}
	if payer := tx.Message.AccountKeys[0].String(); payer != feePayer {
		return violation("swap.swapTransaction.feePayer", feePayer, payer, "")
	}
	return nil
}

// PriorityFee requires prioritizationFeeLamports in [fee-margin, fee].
func (v *Validator) PriorityFee(resp *httpclient.Response, fee uint64) error {
	obj, _, err := v.swap(resp)
	if err != nil {
		return err
	}
	got, err := obj.number("swap", "prioritizationFeeLamports")
	if err != nil {
		return err
	}

	hi := decimal.NewFromUint64(fee)
	lo := decimal.Zero
	if fee > v.cfg.PriorityFeeMargin {
		lo = decimal.NewFromUint64(fee - v.cfg.PriorityFeeMargin)
	}
	if got.LessThan(lo) || got.GreaterThan(hi) {
		return violation("swap.prioritizationFeeLamports", fmt.Sprintf("[%s, %s]", lo, hi), got.String(), "")
	}
	return nil
}

// DynamicComputeLimit requires 0 < computeUnitLimit < MaxComputeUnitLimit.
func (v *Validator) DynamicComputeLimit(resp *httpclient.Response) error {
	obj, _, err := v.swap(resp)
	if err != nil {
		return err
	}
	cu, err := obj.positiveInt("swap", "computeUnitLimit")
	if err != nil {
		return err
	}
	if limit := decimal.NewFromInt(int64(v.cfg.MaxComputeUnitLimit)); !cu.LessThan(limit) {
		return violation("swap.computeUnitLimit", "< "+limit.String(), cu.String(), "dynamic limit was not applied")
	}
	return nil
}

// DynamicSlippage requires a report with a numeric slippageBps.
func (v *Validator) DynamicSlippage(resp *httpclient.Response) error {
	obj, _, err := v.swap(resp)
	if err != nil {
		return err
	}
	report, err := obj.child("swap", "dynamicSlippageReport")
	if err != nil {
		return err
	}
	return report.require("swap.dynamicSlippageReport", "slippageBps", kindNumber)
}
