package wallet

import (
	"context"
	"crypto/ed25519"
	"fmt"
	"math/big"

	tonwallet "github.com/cellforge/tonwallet-go"
	"github.com/cellforge/tonwallet-go/tlb"
	"github.com/cellforge/tonwallet-go/tvm/cell"
)

type ContractStatus string

const (
	StatusActive        ContractStatus = "active"
	StatusUninitialized ContractStatus = "uninitialized"
	StatusFrozen        ContractStatus = "frozen"
)

type ContractState struct {
	Balance uint64 // nanocoins
	Status  ContractStatus
	Data    *cell.Cell
}

// StateProvider is the gateway to the chain. Calls are single-shot,
// retry and timeout policy belongs to the caller, errors come back
// unchanged apart from added context.
type StateProvider interface {
	GetState(ctx context.Context) (*ContractState, error)
	RunGetMethod(ctx context.Context, method string, params ...any) ([]any, error)
	SendExternalMessage(ctx context.Context, msg *cell.Cell) error
}

func (w *Wallet) Balance(ctx context.Context) (uint64, error) {
	if w.provider == nil {
		return 0, ErrNoProvider
	}

	state, err := w.provider.GetState(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get contract state: %w", err)
	}

	return state.Balance, nil
}

// Seqno fetches the current sequence counter, an uninitialized
// contract is always at 0.
func (w *Wallet) Seqno(ctx context.Context) (uint32, error) {
	if w.provider == nil {
		return 0, ErrNoProvider
	}

	state, err := w.provider.GetState(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get contract state: %w", err)
	}

	if state.Status != StatusActive {
		return 0, nil
	}

	return w.fetchSeqno(ctx)
}

func (w *Wallet) fetchSeqno(ctx context.Context) (uint32, error) {
	res, err := w.provider.RunGetMethod(ctx, "seqno")
	if err != nil {
		return 0, fmt.Errorf("seqno get method failed: %w", err)
	}

	if len(res) == 0 {
		return 0, fmt.Errorf("seqno get method returned an empty stack")
	}

	switch v := res[0].(type) {
	case uint32:
		return v, nil
	case uint64:
		return uint32(v), nil
	case int64:
		return uint32(v), nil
	case *big.Int:
		return uint32(v.Uint64()), nil
	}

	return 0, fmt.Errorf("unexpected seqno type %T", res[0])
}

// Send signs the messages against the current seqno and broadcasts the
// external message, attaching the state init when the contract is not
// deployed yet, so the first transfer also deploys the wallet.
func (w *Wallet) Send(ctx context.Context, secretKey ed25519.PrivateKey, messages ...*Message) error {
	if w.provider == nil {
		return ErrNoProvider
	}

	state, err := w.provider.GetState(ctx)
	if err != nil {
		return fmt.Errorf("failed to get contract state: %w", err)
	}

	var seqno uint32
	withInit := state.Status != StatusActive
	if !withInit {
		seqno, err = w.fetchSeqno(ctx)
		if err != nil {
			return err
		}
	}

	body, err := w.CreateTransfer(ctx, TransferArgs{
		Seqno:     seqno,
		SecretKey: secretKey,
		Messages:  messages,
	})
	if err != nil {
		return err
	}

	ext := &tlb.ExternalMessage{
		DstAddr: w.addr,
		Body:    body,
	}
	if withInit {
		ext.StateInit = w.StateInit()
	}

	extCell, err := ext.ToCell()
	if err != nil {
		return fmt.Errorf("failed to build external message: %w", err)
	}

	tonwallet.Logger.Debug().
		Str("addr", w.addr.String()).
		Uint32("seqno", seqno).
		Bool("state_init", withInit).
		Msg("sending external message")

	if err = w.provider.SendExternalMessage(ctx, extCell); err != nil {
		return fmt.Errorf("failed to send external message: %w", err)
	}

	return nil
}
