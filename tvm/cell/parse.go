package cell

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"math/bits"

	"github.com/cellforge/tonwallet-go/tvm/boc"
)

// FromBOC deserializes a single-root bag of cells.
func FromBOC(data []byte) (*Cell, error) {
	roots, err := FromBOCMultiRoot(data)
	if err != nil {
		return nil, err
	}

	return roots[0], nil
}

// FromBOCMultiRoot deserializes a bag of cells and returns its roots in
// declared order. The encoding is validated before anything is built:
// magic, declared sizes against the remaining buffer, the checksum when
// present, and that every reference points forward, which rules out
// cycles by construction.
func FromBOCMultiRoot(data []byte) ([]*Cell, error) {
	if len(data) < 10 {
		return nil, fmt.Errorf("%w: %d bytes is not enough for a header", ErrInvalidBOC, len(data))
	}

	r := newReader(data)

	magic, _ := r.ReadBytes(4)
	if !bytes.Equal(magic, boc.Magic) {
		return nil, fmt.Errorf("%w: bad magic header", ErrInvalidBOC)
	}

	flagsByte, _ := r.ReadByte()
	flags, cellNumSz := boc.ParseFlags(flagsByte)

	if cellNumSz == 0 {
		return nil, fmt.Errorf("%w: zero cell count width in flags", ErrInvalidBOC)
	}

	dataSzByte, _ := r.ReadByte()
	dataSz := int(dataSzByte)
	if dataSz == 0 || dataSz > 8 {
		return nil, fmt.Errorf("%w: bad data length width %d", ErrInvalidBOC, dataSz)
	}

	cellsNumRaw, err := r.ReadBytes(cellNumSz)
	if err != nil {
		return nil, err
	}
	cellsNum := dynInt(cellsNumRaw)
	if cellsNum == 0 {
		return nil, fmt.Errorf("%w: no cells", ErrInvalidBOC)
	}

	rootsNumRaw, err := r.ReadBytes(cellNumSz)
	if err != nil {
		return nil, err
	}
	rootsNum := dynInt(rootsNumRaw)
	if rootsNum == 0 || rootsNum > cellsNum {
		return nil, fmt.Errorf("%w: roots num %d out of range for %d cells", ErrInvalidBOC, rootsNum, cellsNum)
	}

	// absent cells, always zero in complete bags
	if _, err = r.ReadBytes(cellNumSz); err != nil {
		return nil, err
	}

	dataLenRaw, err := r.ReadBytes(dataSz)
	if err != nil {
		return nil, err
	}
	dataLen := dynInt(dataLenRaw)

	// every cell record takes at least two descriptor bytes
	if cellsNum*2 > dataLen {
		return nil, fmt.Errorf("%w: %d cells cannot fit into %d payload bytes", ErrInvalidBOC, cellsNum, dataLen)
	}

	if flags.HasCRC32C {
		crc := crc32.Checksum(data[:len(data)-4], crc32.MakeTable(crc32.Castagnoli))
		if binary.LittleEndian.Uint32(data[len(data)-4:]) != crc {
			return nil, fmt.Errorf("%w: checksum does not match", ErrInvalidBOC)
		}
	}

	rootListRaw, err := r.ReadBytes(rootsNum * cellNumSz)
	if err != nil {
		return nil, err
	}

	if flags.HasIndex {
		// offset index is a lookup aid, nothing here needs it
		if _, err = r.ReadBytes(cellsNum * dataSz); err != nil {
			return nil, err
		}
	}

	payloadOffset := r.Offset()
	payload, err := r.ReadBytes(dataLen)
	if err != nil {
		return nil, fmt.Errorf("%w: want %d payload bytes at offset %d, has %d",
			ErrInvalidBOC, dataLen, payloadOffset, r.Left())
	}

	cells, err := parseCells(cellsNum, cellNumSz, payload)
	if err != nil {
		return nil, err
	}

	roots := make([]*Cell, rootsNum)
	for i := 0; i < rootsNum; i++ {
		idx := dynInt(rootListRaw[i*cellNumSz : (i+1)*cellNumSz])
		if idx >= cellsNum {
			return nil, fmt.Errorf("%w: root %d index %d is out of range", ErrInvalidBOC, i, idx)
		}
		roots[i] = cells[idx]
	}

	return roots, nil
}

type rawCell struct {
	special bool
	level   byte
	bitsSz  uint
	data    []byte
	refsIdx []int
}

func parseCells(cellsNum, cellNumSz int, payload []byte) ([]*Cell, error) {
	r := newReader(payload)

	raw := make([]rawCell, cellsNum)
	for i := 0; i < cellsNum; i++ {
		offset := r.Offset()

		d1, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: cell %d descriptor is cut at offset %d", ErrInvalidBOC, i, offset)
		}

		refsNum := int(d1 & 0b111)
		if refsNum > 4 {
			return nil, fmt.Errorf("%w: cell %d has %d refs", ErrInvalidBOC, i, refsNum)
		}

		d2, err := r.ReadByte()
		if err != nil {
			return nil, fmt.Errorf("%w: cell %d descriptor is cut at offset %d", ErrInvalidBOC, i, offset)
		}

		dataBytes, err := r.ReadBytes(int(d2/2 + d2%2))
		if err != nil {
			return nil, fmt.Errorf("%w: cell %d payload is cut at offset %d", ErrInvalidBOC, i, offset)
		}
		dataBytes = append([]byte{}, dataBytes...)

		bitsSz := uint(d2/2) * 8
		if d2%2 != 0 {
			// completion tag marks where the payload really ends
			last := dataBytes[len(dataBytes)-1]
			if last == 0 {
				return nil, fmt.Errorf("%w: cell %d has no completion tag at offset %d", ErrInvalidBOC, i, offset)
			}
			tz := bits.TrailingZeros8(last)
			bitsSz += 8 - uint(tz) - 1
			dataBytes[len(dataBytes)-1] &^= 1 << tz
		}

		refsIdx := make([]int, refsNum)
		for y := 0; y < refsNum; y++ {
			rawIdx, err := r.ReadBytes(cellNumSz)
			if err != nil {
				return nil, fmt.Errorf("%w: cell %d ref list is cut at offset %d", ErrInvalidBOC, i, offset)
			}

			idx := dynInt(rawIdx)
			if idx >= cellsNum {
				return nil, fmt.Errorf("%w: cell %d ref index %d is out of range", ErrInvalidBOC, i, idx)
			}
			if idx <= i {
				// refs must always point forward, this is what keeps the graph acyclic
				return nil, fmt.Errorf("%w: cell %d references cell %d behind it", ErrInvalidBOC, i, idx)
			}
			refsIdx[y] = idx
		}

		raw[i] = rawCell{
			special: d1&0b1000 != 0,
			level:   d1 >> 5,
			bitsSz:  bitsSz,
			data:    dataBytes,
			refsIdx: refsIdx,
		}
	}

	if r.Left() != 0 {
		return nil, fmt.Errorf("%w: %d stray bytes after the last cell record", ErrInvalidBOC, r.Left())
	}

	// refs point forward only, so building back to front resolves them in one pass
	cells := make([]*Cell, cellsNum)
	for i := cellsNum - 1; i >= 0; i-- {
		refs := make([]*Cell, len(raw[i].refsIdx))
		for y, idx := range raw[i].refsIdx {
			refs[y] = cells[idx]
		}

		cells[i] = &Cell{
			special: raw[i].special,
			level:   raw[i].level,
			bitsSz:  raw[i].bitsSz,
			data:    raw[i].data,
			refs:    refs,
		}
	}

	return cells, nil
}

func dynInt(data []byte) int {
	tmp := make([]byte, 8)
	copy(tmp[8-len(data):], data)

	return int(binary.BigEndian.Uint64(tmp))
}
