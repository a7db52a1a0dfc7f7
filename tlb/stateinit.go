package tlb

import (
	"fmt"

	"github.com/cellforge/tonwallet-go/address"
	"github.com/cellforge/tonwallet-go/tvm/cell"
)

// StateInit is the initial state of a contract, the hash of its cell
// form is the contract address. Split depth, tick-tock and the library
// dictionary are never set for ordinary contracts.
type StateInit struct {
	Code *cell.Cell
	Data *cell.Cell
}

func (s *StateInit) ToCell() (*cell.Cell, error) {
	b := cell.BeginCell().
		MustStoreBoolBit(false). // no split depth
		MustStoreBoolBit(false)  // no tick-tock

	if err := b.StoreMaybeRef(s.Code); err != nil {
		return nil, fmt.Errorf("failed to store code ref: %w", err)
	}
	if err := b.StoreMaybeRef(s.Data); err != nil {
		return nil, fmt.Errorf("failed to store data ref: %w", err)
	}

	// empty library dict
	if err := b.StoreBoolBit(false); err != nil {
		return nil, err
	}

	return b.EndCell(), nil
}

// CalcAddress derives the deterministic contract address for the given
// workchain, same code and data always produce the same address.
func (s *StateInit) CalcAddress(workchain int8) (*address.Address, error) {
	c, err := s.ToCell()
	if err != nil {
		return nil, fmt.Errorf("failed to build state init cell: %w", err)
	}

	return address.NewAddress(0, byte(workchain), c.Hash()), nil
}

// StateInitFromCell parses the layout written by ToCell.
func StateInitFromCell(c *cell.Cell) (*StateInit, error) {
	s := c.BeginParse()

	hasDepth, err := s.LoadBoolBit()
	if err != nil {
		return nil, fmt.Errorf("failed to load split depth bit: %w", err)
	}
	if hasDepth {
		if _, err = s.LoadUInt(5); err != nil {
			return nil, fmt.Errorf("failed to load split depth: %w", err)
		}
	}

	hasTickTock, err := s.LoadBoolBit()
	if err != nil {
		return nil, fmt.Errorf("failed to load tick-tock bit: %w", err)
	}
	if hasTickTock {
		if _, err = s.LoadUInt(2); err != nil {
			return nil, fmt.Errorf("failed to load tick-tock: %w", err)
		}
	}

	code, err := s.LoadMaybeRef()
	if err != nil {
		return nil, fmt.Errorf("failed to load code ref: %w", err)
	}

	data, err := s.LoadMaybeRef()
	if err != nil {
		return nil, fmt.Errorf("failed to load data ref: %w", err)
	}

	return &StateInit{Code: code, Data: data}, nil
}
