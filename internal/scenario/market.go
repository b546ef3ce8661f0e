package scenario

import (
	"context"
	"fmt"
	"net/http"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/constants"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/httpclient"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/jupiter"
)

const (
	priceTolerance     = 0.1
	duplicatePriceIDs  = 51
	searchLimit        = 5
	unknownTokenSearch = "NonExistentToken123456789"
)

func PriceScenarios() []Scenario {
	return []Scenario{
		{GroupPrice, "single_token", singlePrice},
		{GroupPrice, "multiple_tokens", multiplePrices},
		{GroupPrice, "usdc_near_one_dollar", usdcNearDollar},
		{GroupPrice, "single_batch_consistency", priceConsistency},
		{GroupPrice, "invalid_mint", invalidPriceMint},
		{GroupPrice, "empty_ids", emptyPriceIDs},
		{GroupPrice, "duplicate_ids", duplicatePrices},
	}
}

func TokenScenarios() []Scenario {
	return []Scenario{
		{GroupToken, "search_by_mint", searchByMint},
		{GroupToken, "search_by_symbol", searchBySymbol},
		{GroupToken, "search_partial_name", searchPartialName},
		{GroupToken, "search_multiple_mints", searchMultipleMints},
		{GroupToken, "search_limit", searchLimited},
		{GroupToken, "search_unknown", searchUnknown},
		{GroupToken, "search_empty_query", searchEmptyQuery},
		{GroupToken, "verified_tag", taggedTokens(constants.TagVerified)},
		{GroupToken, "lst_tag", taggedTokens(constants.TagLST)},
		{GroupToken, "invalid_tag", invalidTag},
	}
}

func (s *Suite) prices(ctx context.Context, ids ...string) (*httpclient.Response, error) {
	resp, err := s.Pages.Price.GetPrices(ctx, jupiter.PriceRequest{IDs: ids})
	if err != nil {
		return nil, fmt.Errorf("get prices: %w", err)
	}
	return resp, nil
}

func (s *Suite) search(ctx context.Context, req jupiter.TokenSearchRequest) (*httpclient.Response, error) {
	resp, err := s.Pages.Token.SearchTokens(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search tokens: %w", err)
	}
	return resp, nil
}

func singlePrice(ctx context.Context, s *Suite) error {
	resp, err := s.prices(ctx, constants.MintSOL)
	if err != nil {
		return err
	}
	return s.V.Price(resp, constants.MintSOL, 9)
}

func multiplePrices(ctx context.Context, s *Suite) error {
	mints := []string{constants.MintSOL, constants.MintUSDC, constants.MintUSDT}
	resp, err := s.prices(ctx, mints...)
	if err != nil {
		return err
	}
	if err := s.V.PriceCount(resp, len(mints)); err != nil {
		return err
	}
	for _, m := range mints {
		if err := s.V.Price(resp, m, -1); err != nil {
			return err
		}
	}
	return nil
}

func usdcNearDollar(ctx context.Context, s *Suite) error {
	resp, err := s.prices(ctx, constants.MintUSDC)
	if err != nil {
		return err
	}
	if err := s.V.Price(resp, constants.MintUSDC, 6); err != nil {
		return err
	}
	return s.V.PriceNear(resp, constants.MintUSDC, 1.0, priceTolerance)
}

func priceConsistency(ctx context.Context, s *Suite) error {
	single, err := s.prices(ctx, constants.MintSOL)
	if err != nil {
		return err
	}
	batch, err := s.prices(ctx, constants.MintSOL, constants.MintUSDC)
	if err != nil {
		return err
	}
	return s.V.PriceConsistency(single, batch, constants.MintSOL, priceTolerance)
}

func invalidPriceMint(ctx context.Context, s *Suite) error {
	resp, err := s.prices(ctx, "InvalidTokenMint123")
	if err != nil {
		return err
	}
	return s.V.PriceCount(resp, 0)
}

func emptyPriceIDs(ctx context.Context, s *Suite) error {
	resp, err := s.prices(ctx)
	if err != nil {
		return err
	}
	return s.V.ErrorResponse(resp, http.StatusBadRequest, []string{`"status":400`}, "")
}

func duplicatePrices(ctx context.Context, s *Suite) error {
	ids := make([]string, duplicatePriceIDs)
	for i := range ids {
		ids[i] = constants.MintSOL
	}
	resp, err := s.prices(ctx, ids...)
	if err != nil {
		return err
	}
	if err := s.V.PriceCount(resp, 1); err != nil {
		return err
	}
	return s.V.Price(resp, constants.MintSOL, -1)
}

func searchByMint(ctx context.Context, s *Suite) error {
	resp, err := s.search(ctx, jupiter.TokenSearchRequest{Query: constants.MintSOL})
	if err != nil {
		return err
	}
	return s.V.FirstToken(resp, jupiter.TokenInfo{
		ID:         constants.MintSOL,
		Symbol:     "SOL",
		Name:       "Wrapped SOL",
		Decimals:   9,
		IsVerified: true,
	})
}

func searchBySymbol(ctx context.Context, s *Suite) error {
	resp, err := s.search(ctx, jupiter.TokenSearchRequest{Query: "SOL"})
	if err != nil {
		return err
	}
	if err := s.V.TokenCount(resp, 1, -1); err != nil {
		return err
	}
	return s.V.TokensIncludeMints(resp, []string{constants.MintSOL})
}

func searchPartialName(ctx context.Context, s *Suite) error {
	resp, err := s.search(ctx, jupiter.TokenSearchRequest{Query: "Jupit"})
	if err != nil {
		return err
	}
	return s.V.TokensContain(resp, "jup", 2)
}

func searchMultipleMints(ctx context.Context, s *Suite) error {
	mints := []string{constants.MintSOL, constants.MintUSDC}
	resp, err := s.search(ctx, jupiter.TokenSearchRequest{Query: mints[0] + "," + mints[1]})
	if err != nil {
		return err
	}
	if err := s.V.TokenCount(resp, 2, -1); err != nil {
		return err
	}
	return s.V.TokensIncludeMints(resp, mints)
}

func searchLimited(ctx context.Context, s *Suite) error {
	resp, err := s.search(ctx, jupiter.TokenSearchRequest{Query: "token", Limit: searchLimit})
	if err != nil {
		return err
	}
	return s.V.TokenCount(resp, 0, searchLimit)
}

func searchUnknown(ctx context.Context, s *Suite) error {
	resp, err := s.search(ctx, jupiter.TokenSearchRequest{Query: unknownTokenSearch})
	if err != nil {
		return err
	}
	return s.V.TokenCount(resp, 0, 0)
}

func searchEmptyQuery(ctx context.Context, s *Suite) error {
	resp, err := s.search(ctx, jupiter.TokenSearchRequest{})
	if err != nil {
		return err
	}
	return s.V.ErrorResponse(resp, http.StatusBadRequest, []string{"Expected required property"}, "")
}

func taggedTokens(tag string) func(context.Context, *Suite) error {
	return func(ctx context.Context, s *Suite) error {
		resp, err := s.Pages.Token.GetTokensByTag(ctx, jupiter.TokenTagRequest{Tag: tag})
		if err != nil {
			return fmt.Errorf("tokens by tag: %w", err)
		}
		return s.V.TokensTagged(resp, tag)
	}
}

func invalidTag(ctx context.Context, s *Suite) error {
	resp, err := s.Pages.Token.GetTokensByTag(ctx, jupiter.TokenTagRequest{Tag: "invalidtag"})
	if err != nil {
		return fmt.Errorf("tokens by tag: %w", err)
	}
	return s.V.BadRequest(resp, []string{"Invalid tag provided."}, "")
}
