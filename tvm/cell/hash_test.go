package cell

import (
	"bytes"
	"testing"
)

func TestHashStability(t *testing.T) {
	build := func() *Cell {
		leaf := BeginCell().MustStoreUInt(0xFFAA, 16).EndCell()
		return BeginCell().
			MustStoreUInt(7, 5).
			MustStoreRef(leaf).
			MustStoreRef(BeginCell().MustStoreRef(leaf).EndCell()).
			EndCell()
	}

	a := build()
	b := build()

	if !bytes.Equal(a.Hash(), b.Hash()) {
		t.Fatal("equal structures hash differently")
	}
	if !a.Equals(b) {
		t.Fatal("equal structures not Equals")
	}

	// repeated calls are stable too
	if !bytes.Equal(a.Hash(), a.Hash()) {
		t.Fatal("hash is not deterministic")
	}
}

func TestHashSensitivity(t *testing.T) {
	base := BeginCell().MustStoreUInt(5, 3).EndCell()

	// same numeric value in a different width is a different cell
	other := BeginCell().MustStoreUInt(5, 4).EndCell()
	if base.Equals(other) {
		t.Fatal("bit length should affect the hash")
	}

	withRef := BeginCell().MustStoreUInt(5, 3).MustStoreRef(BeginCell().EndCell()).EndCell()
	if base.Equals(withRef) {
		t.Fatal("refs should affect the hash")
	}

	if base.Equals(nil) {
		t.Fatal("nil cannot be equal")
	}
}

func TestDepth(t *testing.T) {
	leaf := BeginCell().EndCell()
	if leaf.Depth() != 0 {
		t.Fatalf("leaf depth %d", leaf.Depth())
	}

	mid := BeginCell().MustStoreRef(leaf).EndCell()
	root := BeginCell().
		MustStoreRef(leaf).
		MustStoreRef(mid).
		EndCell()

	if root.Depth() != 2 {
		t.Fatalf("root depth %d, want 2", root.Depth())
	}
}

func TestHashPaddedPayload(t *testing.T) {
	// 3 bits of zeros and 3 bits of value must still differ, the
	// completion tag only marks the end of the data
	zero := BeginCell().MustStoreUInt(0, 3).EndCell()
	some := BeginCell().MustStoreUInt(4, 3).EndCell()

	if zero.Equals(some) {
		t.Fatal("payload bits ignored")
	}
}
