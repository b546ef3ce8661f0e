package mockapi

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"github.com/aman-zulfiqar/jupiter-e2e/internal/jupiter"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

var (
	computeBudgetProgramID   = solana.MustPublicKeyFromBase58("ComputeBudget111111111111111111111111111111")
	associatedTokenProgramID = solana.MustPublicKeyFromBase58("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")

	// anchor discriminator of the router's shared_accounts_route
	routeDiscriminator = discriminator("global:shared_accounts_route")
)

func discriminator(name string) []byte {
	sum := sha256.Sum256([]byte(name))
	return sum[:8]
}

// findAssociatedTokenAddress derives the ATA PDA for (owner, mint).
func findAssociatedTokenAddress(owner, mint solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := solana.FindProgramAddress(
		[][]byte{owner.Bytes(), solana.TokenProgramID.Bytes(), mint.Bytes()},
		associatedTokenProgramID,
	)
	return ata, err
}

// newSetComputeUnitLimitIx encodes ComputeBudget instruction 2 with a u32 limit.
func newSetComputeUnitLimitIx(units uint32) solana.Instruction {
	data := make([]byte, 1+4)
	data[0] = 2
	binary.LittleEndian.PutUint32(data[1:], units)
	return solana.NewInstruction(computeBudgetProgramID, solana.AccountMetaSlice{}, data)
}

// newSetComputeUnitPriceIx encodes ComputeBudget instruction 3 with a u64
// price in micro-lamports.
func newSetComputeUnitPriceIx(microLamports uint64) solana.Instruction {
	data := make([]byte, 1+8)
	data[0] = 3
	binary.LittleEndian.PutUint64(data[1:], microLamports)
	return solana.NewInstruction(computeBudgetProgramID, solana.AccountMetaSlice{}, data)
}

// newCreateAssociatedTokenAccountIx uses the idempotent variant (data = [1])
// so setup succeeds when the account already exists.
func newCreateAssociatedTokenAccountIx(payer, ata, owner, mint solana.PublicKey) solana.Instruction {
	accounts := solana.AccountMetaSlice{
		{PublicKey: payer, IsSigner: true, IsWritable: true},
		{PublicKey: ata, IsWritable: true},
		{PublicKey: owner},
		{PublicKey: mint},
		{PublicKey: solana.SystemProgramID},
		{PublicKey: solana.TokenProgramID},
	}
	return solana.NewInstruction(associatedTokenProgramID, accounts, []byte{1})
}

// newSystemTransferIx builds SystemProgram instruction 2 (Transfer).
func newSystemTransferIx(from, to solana.PublicKey, lamports uint64) solana.Instruction {
	data := make([]byte, 4+8)
	binary.LittleEndian.PutUint32(data[0:4], 2)
	binary.LittleEndian.PutUint64(data[4:12], lamports)

	accounts := solana.AccountMetaSlice{
		{PublicKey: from, IsSigner: true, IsWritable: true},
		{PublicKey: to, IsWritable: true},
	}
	return solana.NewInstruction(solana.SystemProgramID, accounts, data)
}

// newTokenSyncNativeIx builds SPL Token instruction 17 (SyncNative).
func newTokenSyncNativeIx(nativeAccount solana.PublicKey) solana.Instruction {
	accounts := solana.AccountMetaSlice{
		{PublicKey: nativeAccount, IsWritable: true},
	}
	return solana.NewInstruction(solana.TokenProgramID, accounts, []byte{17})
}

// newTokenCloseAccountIx builds SPL Token instruction 9 (CloseAccount).
func newTokenCloseAccountIx(account, destination, owner solana.PublicKey) solana.Instruction {
	accounts := solana.AccountMetaSlice{
		{PublicKey: account, IsWritable: true},
		{PublicKey: destination, IsWritable: true},
		{PublicKey: owner, IsSigner: true},
	}
	return solana.NewInstruction(solana.TokenProgramID, accounts, []byte{9})
}

// routeArgs is the borsh layout of the router's instruction arguments.
type routeArgs struct {
	ID              uint8
	InAmount        uint64
	QuotedOutAmount uint64
	SlippageBps     uint16
	PlatformFeeBps  uint8
	RoutePlanLen    uint32
}

func (a routeArgs) encode() ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)
	if _, err := buf.Write(routeDiscriminator); err != nil {
		return nil, err
	}
	if err := enc.Encode(a); err != nil {
		return nil, fmt.Errorf("encode route args: %w", err)
	}
	return buf.Bytes(), nil
}

// toWire converts a solana-go instruction to the JSON shape of
// /swap-instructions.
func toWire(ix solana.Instruction) (jupiter.Instruction, error) {
	data, err := ix.Data()
	if err != nil {
		return jupiter.Instruction{}, err
	}
	metas := ix.Accounts()
	accounts := make([]jupiter.AccountMeta, 0, len(metas))
	for _, m := range metas {
		accounts = append(accounts, jupiter.AccountMeta{
			Pubkey:     m.PublicKey.String(),
			IsSigner:   m.IsSigner,
			IsWritable: m.IsWritable,
		})
	}
	return jupiter.Instruction{
		ProgramID: ix.ProgramID().String(),
		Accounts:  accounts,
		Data:      base64.StdEncoding.EncodeToString(data),
	}, nil
}

func toWireAll(ixs []solana.Instruction) ([]jupiter.Instruction, error) {
	out := make([]jupiter.Instruction, 0, len(ixs))
	for _, ix := range ixs {
		w, err := toWire(ix)
		if err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, nil
}
