package tlb

import (
	"fmt"

	"github.com/cellforge/tonwallet-go/address"
	"github.com/cellforge/tonwallet-go/tvm/cell"
)

// InternalMessage is a value-carrying message between contracts.
// Amount is in nanocoins. Fees, logical time and creation time are
// filled in by validators and stay zero when building.
type InternalMessage struct {
	IHRDisabled bool
	Bounce      bool
	SrcAddr     *address.Address
	DstAddr     *address.Address
	Amount      uint64

	StateInit *StateInit
	Body      *cell.Cell
}

// ExternalMessage is an inbound message from the outside world,
// this is the envelope a signed wallet transfer is broadcast in.
type ExternalMessage struct {
	DstAddr *address.Address

	StateInit *StateInit
	Body      *cell.Cell
}

func (m *InternalMessage) ToCell() (*cell.Cell, error) {
	b := cell.BeginCell().
		MustStoreBoolBit(false). // int_msg_info$0
		MustStoreBoolBit(m.IHRDisabled).
		MustStoreBoolBit(m.Bounce).
		MustStoreBoolBit(false) // bounced

	if err := b.StoreAddr(m.SrcAddr); err != nil {
		return nil, fmt.Errorf("failed to store src addr: %w", err)
	}
	if err := b.StoreAddr(m.DstAddr); err != nil {
		return nil, fmt.Errorf("failed to store dst addr: %w", err)
	}

	if err := b.StoreCoins(m.Amount); err != nil {
		return nil, fmt.Errorf("failed to store amount: %w", err)
	}

	b.MustStoreBoolBit(false) // no extra currencies
	b.MustStoreCoins(0)       // ihr fee
	b.MustStoreCoins(0)       // fwd fee
	b.MustStoreUInt(0, 64)    // created lt
	b.MustStoreUInt(0, 32)    // created at

	if err := storeInitAndBody(b, m.StateInit, m.Body); err != nil {
		return nil, err
	}

	return b.EndCell(), nil
}

func (m *ExternalMessage) ToCell() (*cell.Cell, error) {
	b := cell.BeginCell().
		MustStoreUInt(0b10, 2). // ext_in_msg_info$10
		MustStoreAddr(nil)      // src addr none

	if err := b.StoreAddr(m.DstAddr); err != nil {
		return nil, fmt.Errorf("failed to store dst addr: %w", err)
	}

	// import fee
	b.MustStoreCoins(0)

	if err := storeInitAndBody(b, m.StateInit, m.Body); err != nil {
		return nil, err
	}

	return b.EndCell(), nil
}

// storeInitAndBody writes the maybe-either state init and the either
// body. Both always go as refs when present, which keeps the encoding
// deterministic regardless of their size.
func storeInitAndBody(b *cell.Builder, init *StateInit, body *cell.Cell) error {
	if init != nil {
		initCell, err := init.ToCell()
		if err != nil {
			return fmt.Errorf("failed to build state init: %w", err)
		}

		b.MustStoreBoolBit(true) // init present
		b.MustStoreBoolBit(true) // as ref
		if err = b.StoreRef(initCell); err != nil {
			return fmt.Errorf("failed to store state init ref: %w", err)
		}
	} else {
		b.MustStoreBoolBit(false)
	}

	if body != nil {
		b.MustStoreBoolBit(true) // body as ref
		if err := b.StoreRef(body); err != nil {
			return fmt.Errorf("failed to store body ref: %w", err)
		}
	} else {
		b.MustStoreBoolBit(false)
	}

	return nil
}
