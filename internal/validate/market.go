package validate

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"strings"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/constants"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/httpclient"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/jupiter"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

// IsValidAddress reports whether s is a base58 encoded 32 byte key.
func IsValidAddress(s string) bool {
	b, err := base58.Decode(s)
	if err != nil || len(b) != solana.PublicKeyLength {
		return false
	}
	return true
}

func prices(resp *httpclient.Response) (jupiter.PriceResponse, error) {
	if err := expectStatus("price", resp, http.StatusOK); err != nil {
		return nil, err
	}
	var out jupiter.PriceResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, violation("price.body", "object keyed by mint", truncate(string(resp.Body), 120), err.Error())
	}
	return out, nil
}

// Price requires a positive price for mint and, when decimals is not
// negative, the given decimals.
func (v *Validator) Price(resp *httpclient.Response, mint string, decimals int) error {
	all, err := prices(resp)
	if err != nil {
		return err
	}
	p, ok := all[mint]
	if !ok {
		return violation("price."+mint, "present", "missing", "")
	}
	if p.USDPrice <= 0 {
		return violation("price."+mint+".usdPrice", "> 0", p.USDPrice, "")
	}
	if decimals >= 0 && p.Decimals != decimals {
		return violation("price."+mint+".decimals", decimals, p.Decimals, "")
	}
	return nil
}

// PriceCount requires exactly n entries, which also proves deduplication
// when ids repeat.
func (v *Validator) PriceCount(resp *httpclient.Response, n int) error {
	all, err := prices(resp)
	if err != nil {
		return err
	}
	if len(all) != n {
		return violation("price.entries", n, len(all), "")
	}
	return nil
}

// PriceNear requires |usdPrice - target| <= tolerance.
func (v *Validator) PriceNear(resp *httpclient.Response, mint string, target, tolerance float64) error {
	all, err := prices(resp)
	if err != nil {
		return err
	}
	p, ok := all[mint]
	if !ok {
		return violation("price."+mint, "present", "missing", "")
	}
	if math.Abs(p.USDPrice-target) > tolerance {
		return violation("price."+mint+".usdPrice", fmt.Sprintf("%v ± %v", target, tolerance), p.USDPrice, "")
	}
	return nil
}

// PriceInRange requires lo <= usdPrice <= hi.
func (v *Validator) PriceInRange(resp *httpclient.Response, mint string, lo, hi float64) error {
	all, err := prices(resp)
	if err != nil {
		return err
	}
	p, ok := all[mint]
	if !ok {
		return violation("price."+mint, "present", "missing", "")
	}
	if p.USDPrice < lo || p.USDPrice > hi {
		return violation("price."+mint+".usdPrice", fmt.Sprintf("[%v, %v]", lo, hi), p.USDPrice, "")
	}
	return nil
}

// PriceConsistency compares one mint's price in a single and a batch lookup.
func (v *Validator) PriceConsistency(single, batch *httpclient.Response, mint string, tolerance float64) error {
	a, err := prices(single)
	if err != nil {
		return err
	}
	b, err := prices(batch)
	if err != nil {
		return err
	}
	pa, okA := a[mint]
	pb, okB := b[mint]
	if !okA || !okB {
		return violation("price."+mint, "present in both lookups", fmt.Sprintf("single=%t batch=%t", okA, okB), "")
	}
	if math.Abs(pa.USDPrice-pb.USDPrice) > tolerance {
		return violation("price."+mint+".usdPrice", pa.USDPrice, pb.USDPrice, "single and batch lookups disagree")
	}
	return nil
}

func tokens(resp *httpclient.Response) ([]jupiter.TokenInfo, error) {
	if err := expectStatus("tokens", resp, http.StatusOK); err != nil {
		return nil, err
	}
	var out []jupiter.TokenInfo
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, violation("tokens.body", "array of tokens", truncate(string(resp.Body), 120), err.Error())
	}
	return out, nil
}

// TokenCount requires lo <= len(tokens) <= hi and well formed entries.
// A negative hi means unbounded.
func (v *Validator) TokenCount(resp *httpclient.Response, lo, hi int) error {
	list, err := tokens(resp)
	if err != nil {
		return err
	}
	if len(list) < lo || (hi >= 0 && len(list) > hi) {
		return violation("tokens.length", fmt.Sprintf("[%d, %d]", lo, hi), len(list), "")
	}
	for i, t := range list {
		if !IsValidAddress(t.ID) {
			return violation(fmt.Sprintf("tokens[%d].id", i), "base58 address", t.ID, "")
		}
		if t.Decimals < 0 {
			return violation(fmt.Sprintf("tokens[%d].decimals", i), ">= 0", t.Decimals, "")
		}
	}
	return nil
}

// FirstToken compares the first result with want on id, symbol, name,
// decimals and verification.
func (v *Validator) FirstToken(resp *httpclient.Response, want jupiter.TokenInfo) error {
	list, err := tokens(resp)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return violation("tokens", "at least one result", 0, "")
	}
	got := list[0]
	switch {
	case got.ID != want.ID:
		return violation("tokens[0].id", want.ID, got.ID, "")
	case got.Symbol != want.Symbol:
		return violation("tokens[0].symbol", want.Symbol, got.Symbol, "")
	case got.Name != want.Name:
		return violation("tokens[0].name", want.Name, got.Name, "")
	case got.Decimals != want.Decimals:
		return violation("tokens[0].decimals", want.Decimals, got.Decimals, "")
	case got.IsVerified != want.IsVerified:
		return violation("tokens[0].isVerified", want.IsVerified, got.IsVerified, "")
	}
	return nil
}

// TokensContain requires at least n results whose symbol or name
// contains text, ignoring case.
func (v *Validator) TokensContain(resp *httpclient.Response, text string, n int) error {
	list, err := tokens(resp)
	if err != nil {
		return err
	}
	text = strings.ToLower(text)
	matched := 0
	for _, t := range list {
		if strings.Contains(strings.ToLower(t.Symbol), text) || strings.Contains(strings.ToLower(t.Name), text) {
			matched++
		}
	}
	if matched < n {
		return violation("tokens.matching", fmt.Sprintf(">= %d matching %q", n, text), matched, "")
	}
	return nil
}

// TokensIncludeMints requires every mint to appear in the results.
func (v *Validator) TokensIncludeMints(resp *httpclient.Response, mints []string) error {
	list, err := tokens(resp)
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(list))
	for _, t := range list {
		seen[t.ID] = true
	}
	for _, m := range mints {
		if !seen[m] {
			return violation("tokens.id", "to include "+m, len(list), "")
		}
	}
	return nil
}

// TokensTagged requires a non-empty result where every token carries tag.
// The verified tag is reported through isVerified.
func (v *Validator) TokensTagged(resp *httpclient.Response, tag string) error {
	list, err := tokens(resp)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		return violation("tokens", "at least one result", 0, "")
	}
	for i, t := range list {
		ok := hasTag(t.Tags, tag)
		if tag == constants.TagVerified {
			ok = t.IsVerified
		}
		if !ok {
			return violation(fmt.Sprintf("tokens[%d]", i), "tagged "+tag, t.Symbol, "")
		}
	}
	return nil
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}
