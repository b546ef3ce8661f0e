package scenario

import (
	"context"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/constants"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/fixtures"
	"github.com/aman-zulfiqar/jupiter-e2e/internal/jupiter"
)

func InstructionScenarios() []Scenario {
	return []Scenario{
		{GroupSwapInstructions, "basic_generation", basicInstructions},
		{GroupSwapInstructions, "setup_programs", setupPrograms},
		{GroupSwapInstructions, "sol_unwrap_cleanup", solUnwrapCleanup},
		{GroupSwapInstructions, "endpoint_consistency", endpointConsistency},
	}
}

func basicInstructions(ctx context.Context, s *Suite) error {
	q, err := s.quote(ctx, fixtures.SolToUsdcBasic())
	if err != nil {
		return err
	}
	req := fixtures.BasicSwap(q)
	req.UserPublicKey = s.User
	resp, err := s.postInstructions(ctx, req)
	if err != nil {
		return err
	}
	return s.V.CompleteInstructions(resp, s.User)
}

func setupPrograms(ctx context.Context, s *Suite) error {
	q, err := s.quote(ctx, fixtures.SolToUsdcBasic())
	if err != nil {
		return err
	}
	req := fixtures.BasicSwap(q)
	req.UserPublicKey = s.User
	resp, err := s.postInstructions(ctx, req)
	if err != nil {
		return err
	}
	if err := s.V.SetupInstructions(resp); err != nil {
		return err
	}
	return s.V.SwapInstruction(resp, s.User)
}

func solUnwrapCleanup(ctx context.Context, s *Suite) error {
	q, err := s.quote(ctx, fixtures.UsdcToSolReverse())
	if err != nil {
		return err
	}
	req := fixtures.WrappedSwap(q, true)
	req.UserPublicKey = s.User
	resp, err := s.postInstructions(ctx, req)
	if err != nil {
		return err
	}
	return s.V.WsolCleanup(resp, s.User)
}

// endpointConsistency sends one quote to both swap endpoints with the same
// fee and compute settings.
func endpointConsistency(ctx context.Context, s *Suite) error {
	q, err := s.quote(ctx, fixtures.SolToUsdcBasic())
	if err != nil {
		return err
	}
	req := fixtures.PrioritySwap(q, constants.PriorityFeeMedium)
	req.UserPublicKey = s.User
	req.DynamicComputeUnitLimit = jupiter.Bool(true)

	instr, err := s.postInstructions(ctx, req)
	if err != nil {
		return err
	}
	swap, err := s.postSwap(ctx, req)
	if err != nil {
		return err
	}
	if err := s.V.ComputeBudgetInstructions(instr); err != nil {
		return err
	}
	return s.V.EndpointConsistency(instr, swap)
}
