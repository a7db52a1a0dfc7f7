package cell

import (
	"bytes"
	"encoding/hex"
	"errors"
	"testing"
)

// single-cell contract code bag with a crc32c checksum, taken from a
// deployed contract
const bocWithCRCHex = "B5EE9C724101010100710000DEFF0020DD2082014C97BA218201339CBAB19F71B0ED44D0D31FD31F31D70BFFE304E0A4F2608308D71820D31FD31FD31FF82313BBF263ED44D0D31FD31FD3FFD15132BAF2A15144BAF2A204F901541055F910F2A3F8009320D74A96D307D402FB00E8D101A4C8CB1FCB1FCBFFC9ED5410BD6DAD"

func TestBOCDecodeEncodeStable(t *testing.T) {
	data, err := hex.DecodeString(bocWithCRCHex)
	if err != nil {
		t.Fatal(err)
	}

	c, err := FromBOC(data)
	if err != nil {
		t.Fatal(err)
	}

	if c.BitsSize() != 888 {
		t.Fatalf("bits size %d, want 888", c.BitsSize())
	}
	if c.RefsNum() != 0 {
		t.Fatalf("refs num %d, want 0", c.RefsNum())
	}

	reenc := c.ToBOC()
	if !bytes.Equal(reenc, data) {
		t.Fatalf("re-encode differs:\n%x\n%x", reenc, data)
	}
}

func TestBOCRoundTripTree(t *testing.T) {
	shared := BeginCell().MustStoreUInt(0xCCAA, 16).EndCell()

	root := BeginCell().
		MustStoreUInt(5, 3).
		MustStoreRef(shared).
		MustStoreRef(BeginCell().
			MustStoreUInt(0xFF, 8).
			MustStoreRef(shared).
			EndCell()).
		EndCell()

	for _, withCRC := range []bool{true, false} {
		enc := root.ToBOCWithFlags(withCRC)

		dec, err := FromBOC(enc)
		if err != nil {
			t.Fatalf("withCRC=%t: %v", withCRC, err)
		}

		if !dec.Equals(root) {
			t.Fatalf("withCRC=%t: decoded cell differs", withCRC)
		}

		// encoding of the decoded graph must be stable
		if !bytes.Equal(dec.ToBOCWithFlags(withCRC), enc) {
			t.Fatalf("withCRC=%t: re-encode differs", withCRC)
		}
	}
}

func TestBOCDedupSharedCells(t *testing.T) {
	shared := BeginCell().MustStoreUInt(1, 1).EndCell()

	root := BeginCell().
		MustStoreRef(shared).
		MustStoreRef(shared).
		EndCell()

	enc := root.ToBOCWithFlags(false)

	// magic 4, flags 1, data size width 1, then the cell count, which
	// must collapse the shared cell into a single record
	if enc[6] != 2 {
		t.Fatalf("cells num %d, want 2", enc[6])
	}

	dec, err := FromBOC(enc)
	if err != nil {
		t.Fatal(err)
	}
	if !dec.Equals(root) {
		t.Fatal("decoded cell differs")
	}
}

func TestBOCOddBitsRoundTrip(t *testing.T) {
	c := BeginCell().MustStoreUInt(0b101, 3).EndCell()

	dec, err := FromBOC(c.ToBOC())
	if err != nil {
		t.Fatal(err)
	}

	if dec.BitsSize() != 3 {
		t.Fatalf("bits size %d, want 3", dec.BitsSize())
	}
	if v := dec.BeginParse().MustLoadUInt(3); v != 0b101 {
		t.Fatalf("payload %b", v)
	}
}

func TestBOCTruncated(t *testing.T) {
	c := BeginCell().
		MustStoreUInt(0xDEADBEEF, 32).
		MustStoreRef(BeginCell().MustStoreUInt(7, 8).EndCell()).
		EndCell()

	for _, withCRC := range []bool{true, false} {
		enc := c.ToBOCWithFlags(withCRC)

		for cut := 1; cut < 4; cut++ {
			if _, err := FromBOC(enc[:len(enc)-cut]); !errors.Is(err, ErrInvalidBOC) {
				t.Fatalf("withCRC=%t cut=%d: expected ErrInvalidBOC, got %v", withCRC, cut, err)
			}
		}
	}
}

func TestBOCCorrupted(t *testing.T) {
	enc := BeginCell().MustStoreUInt(0xDEADBEEF, 32).EndCell().ToBOC()

	// payload byte flip must break the checksum
	bad := append([]byte{}, enc...)
	bad[len(bad)-6] ^= 0xFF
	if _, err := FromBOC(bad); !errors.Is(err, ErrInvalidBOC) {
		t.Fatalf("expected ErrInvalidBOC, got %v", err)
	}

	// bad magic
	bad = append([]byte{}, enc...)
	bad[0] = 0x00
	if _, err := FromBOC(bad); !errors.Is(err, ErrInvalidBOC) {
		t.Fatalf("expected ErrInvalidBOC, got %v", err)
	}

	// too short for a header at all
	if _, err := FromBOC([]byte{0xB5, 0xEE}); !errors.Is(err, ErrInvalidBOC) {
		t.Fatalf("expected ErrInvalidBOC, got %v", err)
	}
}

func TestBOCMalformedRefs(t *testing.T) {
	tests := []struct {
		name string
		boc  string
	}{
		// one cell referencing itself
		{"self reference", "B5EE9C7201010101000300010000"},
		// one cell referencing index 5 of 1
		{"out of range reference", "B5EE9C7201010101000300010005"},
		// payload longer than the declared cell records
		{"stray payload bytes", "B5EE9C720101010100040000000000"},
		// declared payload cannot hold the declared cell count
		{"payload too small", "B5EE9C7201010501000300010000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := hex.DecodeString(tt.boc)
			if err != nil {
				t.Fatal(err)
			}

			if _, err = FromBOC(data); !errors.Is(err, ErrInvalidBOC) {
				t.Fatalf("expected ErrInvalidBOC, got %v", err)
			}
		})
	}
}
