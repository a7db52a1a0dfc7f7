package cell

import (
	"encoding/binary"
	"hash/crc32"
	"math/bits"

	"github.com/cellforge/tonwallet-go/tvm/boc"
)

// ToBOC serializes the cell and everything reachable from it into the
// bag-of-cells binary form, checksummed.
func (c *Cell) ToBOC() []byte {
	return c.ToBOCWithFlags(true)
}

func (c *Cell) ToBOCWithFlags(withCRC bool) []byte {
	ordered, index := bocIndex([]*Cell{c})

	// byte width of cell counts and ref indexes
	cellSz := byteLen(uint64(len(ordered)))

	var payload []byte
	for _, item := range ordered {
		payload = append(payload, item.cell.serializeRecord(cellSz, index)...)
	}

	// byte width of the payload length field
	sizeSz := byteLen(uint64(len(payload)))

	// has_idx 1bit, has_crc32c 1bit, has_cache_bits 1bit, flags 2bit, size_bytes 3bit
	flags := byte(0b0_0_0_00_000)
	if withCRC {
		flags |= 0b0_1_0_00_000
	}
	flags |= cellSz

	data := append([]byte{}, boc.Magic...)
	data = append(data, flags, sizeSz)

	data = append(data, dynamicIntBytes(uint64(len(ordered)), uint(cellSz))...)

	// roots num, only single root is produced here
	data = append(data, dynamicIntBytes(1, uint(cellSz))...)

	// absent cells num
	data = append(data, dynamicIntBytes(0, uint(cellSz))...)

	data = append(data, dynamicIntBytes(uint64(len(payload)), uint(sizeSz))...)

	// root index list, the root is always first
	data = append(data, dynamicIntBytes(0, uint(cellSz))...)

	data = append(data, payload...)

	if withCRC {
		checksum := make([]byte, 4)
		binary.LittleEndian.PutUint32(checksum, crc32.Checksum(data, crc32.MakeTable(crc32.Castagnoli)))

		data = append(data, checksum...)
	}

	return data
}

func (c *Cell) serializeRecord(refSz byte, index map[string]*indexedCell) []byte {
	data := append(c.descriptors(), c.paddedPayload()...)

	for _, ref := range c.refs {
		data = append(data, dynamicIntBytes(index[string(ref.Hash())].index, uint(refSz))...)
	}

	return data
}

func byteLen(val uint64) byte {
	ln := byte((bits.Len64(val) + 7) / 8)
	if ln == 0 {
		ln = 1
	}
	return ln
}

func dynamicIntBytes(val uint64, sz uint) []byte {
	data := make([]byte, 8)
	binary.BigEndian.PutUint64(data, val)

	return data[8-sz:]
}
