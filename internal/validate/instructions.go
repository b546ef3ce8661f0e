package validate

import (
	"fmt"
	"net/http"
	"sort"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/httpclient"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/jupiter"
)

func (v *Validator) instructions(resp *httpclient.Response) (object, *jupiter.SwapInstructionsResponse, error) {
	if err := expectStatus("instructions", resp, http.StatusOK); err != nil {
		return nil, nil, err
	}
	var out jupiter.SwapInstructionsResponse
	obj, err := decode("instructions", resp, &out)
	if err != nil {
		return nil, nil, err
	}
	return obj, &out, nil
}

// SuccessfulInstructions checks every instruction container and the fee
// and compute metadata.
func (v *Validator) SuccessfulInstructions(resp *httpclient.Response) error {
	obj, _, err := v.instructions(resp)
	if err != nil {
		return err
	}
	containers := []struct {
		key  string
		want kind
	}{
		{"computeBudgetInstructions", kindArray},
		{"setupInstructions", kindArray},
		{"swapInstruction", kindObject},
		{"cleanupInstruction", kindObject},
	}
	for _, c := range containers {
		if err := obj.require("instructions", c.key, c.want); err != nil {
			return err
		}
	}
	if _, err := obj.number("instructions", "prioritizationFeeLamports"); err != nil {
		return err
	}
	_, err = obj.positiveInt("instructions", "computeUnitLimit")
	return err
}

// ComputeBudgetInstructions checks the first compute budget entry.
func (v *Validator) ComputeBudgetInstructions(resp *httpclient.Response) error {
	_, ix, err := v.instructions(resp)
	if err != nil {
		return err
	}
	if len(ix.ComputeBudgetInstructions) == 0 {
		return violation("instructions.computeBudgetInstructions", "at least one", 0, "")
	}
	cb := ix.ComputeBudgetInstructions[0]
	if cb.ProgramID != v.cfg.ComputeBudgetProgram {
		return violation("instructions.computeBudgetInstructions[0].programId", v.cfg.ComputeBudgetProgram, cb.ProgramID, "")
	}
	if !isBase64(cb.Data) {
		return violation("instructions.computeBudgetInstructions[0].data", "base64", cb.Data, "")
	}
	return nil
}

// SwapInstruction checks the router instruction and that user takes part.
func (v *Validator) SwapInstruction(resp *httpclient.Response, user string) error {
	_, ix, err := v.instructions(resp)
	if err != nil {
		return err
	}
	swap := ix.SwapInstruction
	if swap == nil {
		return violation("instructions.swapInstruction", "object", "missing", "")
	}
	if swap.ProgramID != v.cfg.JupiterProgram {
		return violation("instructions.swapInstruction.programId", v.cfg.JupiterProgram, swap.ProgramID, "")
	}
	if !isBase64(swap.Data) {
		return violation("instructions.swapInstruction.data", "base64", truncate(swap.Data, 40), "")
	}
	if !hasAccount(swap.Accounts, user, false) {
		return violation("instructions.swapInstruction.accounts", "to include "+user, len(swap.Accounts), "")
	}
	// a base58 encoded 32 byte key is at least 32 characters
	if key := swap.Accounts[0].Pubkey; len(key) <= 32 {
		return violation("instructions.swapInstruction.accounts[0].pubkey", "longer than 32 characters", key, "")
	}
	return nil
}

// CleanupInstruction checks that cleanup runs on the token program.
func (v *Validator) CleanupInstruction(resp *httpclient.Response) error {
	_, ix, err := v.instructions(resp)
	if err != nil {
		return err
	}
	return v.cleanupProgram(ix)
}

func (v *Validator) cleanupProgram(ix *jupiter.SwapInstructionsResponse) error {
	if ix.CleanupInstruction == nil {
		return violation("instructions.cleanupInstruction", "object", "missing", "")
	}
	if got := ix.CleanupInstruction.ProgramID; got != v.cfg.TokenProgram {
		return violation("instructions.cleanupInstruction.programId", v.cfg.TokenProgram, got, "")
	}
	return nil
}

// SetupInstructions requires both the system and token programs among
// the setup instructions.
func (v *Validator) SetupInstructions(resp *httpclient.Response) error {
	_, ix, err := v.instructions(resp)
	if err != nil {
		return err
	}
	programs := make(map[string]bool, len(ix.SetupInstructions))
	for _, in := range ix.SetupInstructions {
		programs[in.ProgramID] = true
	}
	for _, want := range []string{v.cfg.SystemProgram, v.cfg.TokenProgram} {
		if !programs[want] {
			return violation("instructions.setupInstructions.programId", "to include "+want, keys(programs), "")
		}
	}
	return nil
}

// WsolCleanup checks the instruction that closes the user's wrapped SOL
// account: token program, user signs, at least account and destination.
func (v *Validator) WsolCleanup(resp *httpclient.Response, user string) error {
	_, ix, err := v.instructions(resp)
	if err != nil {
		return err
	}
	if err := v.cleanupProgram(ix); err != nil {
		return err
	}
	accounts := ix.CleanupInstruction.Accounts
	if !hasAccount(accounts, user, true) {
		return violation("instructions.cleanupInstruction.accounts", user+" as signer", len(accounts), "")
	}
	if len(accounts) <= 1 {
		return violation("instructions.cleanupInstruction.accounts", "more than one account", len(accounts), "")
	}
	return nil
}

// EndpointConsistency requires /swap-instructions and /swap to agree on
// compute unit limit and priority fee for the same quote.
func (v *Validator) EndpointConsistency(instr, swap *httpclient.Response) error {
	_, ix, err := v.instructions(instr)
	if err != nil {
		return err
	}
	if err := expectStatus("swap", swap, http.StatusOK); err != nil {
		return err
	}
	var s jupiter.SwapResponse
	if _, err := decode("swap", swap, &s); err != nil {
		return err
	}

	if err := sameField("computeUnitLimit", ix.ComputeUnitLimit, s.ComputeUnitLimit); err != nil {
		return err
	}
	return sameField("prioritizationFeeLamports", ix.PrioritizationFeeLamports, s.PrioritizationFeeLamports)
}

// CompleteInstructions runs SuccessfulInstructions, ComputeBudgetInstructions,
// SwapInstruction and CleanupInstruction in that order.
func (v *Validator) CompleteInstructions(resp *httpclient.Response, user string) error {
	return first(
		func() error { return v.SuccessfulInstructions(resp) },
		func() error { return v.ComputeBudgetInstructions(resp) },
		func() error { return v.SwapInstruction(resp, user) },
		func() error { return v.CleanupInstruction(resp) },
	)
}

func sameField(name string, instr, swap *uint64) error {
	if instr == nil || swap == nil {
		return violation("consistency."+name, "present on both endpoints", fmt.Sprintf("instructions=%v swap=%v", ptr(instr), ptr(swap)), "")
	}
	if *instr != *swap {
		return violation("consistency."+name, *swap, *instr, "swap-instructions disagrees with swap")
	}
	return nil
}

func ptr(p *uint64) any {
	if p == nil {
		return "missing"
	}
	return *p
}

func hasAccount(accounts []jupiter.AccountMeta, pubkey string, signer bool) bool {
	for _, a := range accounts {
		if a.Pubkey == pubkey && (!signer || a.IsSigner) {
			return true
		}
	}
	return false
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
