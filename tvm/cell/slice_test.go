package cell

import (
	"bytes"
	"errors"
	"testing"

	"github.com/cellforge/tonwallet-go/address"
)

func TestSliceLoadErrors(t *testing.T) {
	c := BeginCell().MustStoreUInt(1, 8).EndCell()

	s := c.BeginParse()
	if _, err := s.LoadUInt(16); !errors.Is(err, ErrNotEnoughData) {
		t.Fatalf("expected ErrNotEnoughData, got %v", err)
	}

	// failed load must not advance the cursor
	if v := s.MustLoadUInt(8); v != 1 {
		t.Fatalf("cursor moved, got %d", v)
	}

	if _, err := s.LoadRef(); !errors.Is(err, ErrNoMoreRefs) {
		t.Fatalf("expected ErrNoMoreRefs, got %v", err)
	}
}

func TestSliceMaybeRef(t *testing.T) {
	inner := BeginCell().MustStoreUInt(42, 8).EndCell()

	b := BeginCell()
	if err := b.StoreMaybeRef(nil); err != nil {
		t.Fatal(err)
	}
	if err := b.StoreMaybeRef(inner); err != nil {
		t.Fatal(err)
	}

	s := b.EndCell().BeginParse()

	none, err := s.LoadMaybeRef()
	if err != nil {
		t.Fatal(err)
	}
	if none != nil {
		t.Fatal("expected nil for absent ref")
	}

	got, err := s.LoadMaybeRef()
	if err != nil {
		t.Fatal(err)
	}
	if got == nil || !got.Equals(inner) {
		t.Fatal("present ref not restored")
	}
}

func TestSliceAddr(t *testing.T) {
	addr := address.MustParseAddr("EQC6KV4zs8TJtSZapOrRFmqSkxzpq-oSCoxekQRKElf4nC1I")

	c := BeginCell().
		MustStoreAddr(nil). // addr_none
		MustStoreAddr(addr).
		EndCell()

	s := c.BeginParse()

	none, err := s.LoadAddr()
	if err != nil {
		t.Fatal(err)
	}
	if !none.IsAddrNone() {
		t.Fatal("expected addr none")
	}

	got, err := s.LoadAddr()
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equals(addr) {
		t.Fatalf("addr not eq: %s %s", got, addr)
	}
	if got.Workchain() != 0 {
		t.Fatalf("workchain %d", got.Workchain())
	}
}

func TestSliceToCell(t *testing.T) {
	ref := BeginCell().MustStoreUInt(9, 8).EndCell()
	c := BeginCell().
		MustStoreUInt(0xAB, 8).
		MustStoreUInt(0xCD, 8).
		MustStoreRef(ref).
		EndCell()

	s := c.BeginParse()
	s.MustLoadUInt(8)

	rest, err := s.ToCell()
	if err != nil {
		t.Fatal(err)
	}

	want := BeginCell().MustStoreUInt(0xCD, 8).MustStoreRef(ref).EndCell()
	if !rest.Equals(want) {
		t.Fatal("remainder cell not eq")
	}

	// the source cell is untouched
	if c.BitsSize() != 16 || c.RefsNum() != 1 {
		t.Fatal("source cell mutated")
	}
}

func TestSliceCopy(t *testing.T) {
	c := BeginCell().MustStoreUInt(0xBEEF, 16).EndCell()

	s := c.BeginParse()
	s.MustLoadUInt(8)

	cp := s.Copy()
	s.MustLoadUInt(8)

	if cp.BitsLeft() != 8 {
		t.Fatalf("copy advanced with the original, %d bits left", cp.BitsLeft())
	}
	if v := cp.MustLoadUInt(8); v != 0xEF {
		t.Fatalf("copy data diverged, got %x", v)
	}
}

func TestSliceRestBits(t *testing.T) {
	c := BeginCell().MustStoreUInt(0b10110, 5).EndCell()

	s := c.BeginParse()
	s.MustLoadUInt(2)

	left, data, err := s.RestBits()
	if err != nil {
		t.Fatal(err)
	}
	if left != 3 {
		t.Fatalf("left %d", left)
	}
	if !bytes.Equal(data, []byte{0b110_00000}) {
		t.Fatalf("rest bits %08b", data[0])
	}
	if s.BitsLeft() != 0 {
		t.Fatal("cursor not at the end")
	}
}
