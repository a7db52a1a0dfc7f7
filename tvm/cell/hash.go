package cell

import (
	"bytes"
	"crypto/sha256"
)

// Hash returns the sha256 content hash of the cell. It covers the two
// descriptor bytes, the payload padded with a completion tag, and the
// depths and hashes of the referenced cells, so structurally equal
// cells always hash the same no matter how they were built.
func (c *Cell) Hash() []byte {
	h := sha256.Sum256(c.repr())
	return h[:]
}

// Equals compares cells structurally, not by identity.
func (c *Cell) Equals(other *Cell) bool {
	if other == nil {
		return false
	}
	return bytes.Equal(c.Hash(), other.Hash())
}

// Depth is the length of the longest reference chain under the cell.
func (c *Cell) Depth() uint16 {
	var d uint16
	for _, ref := range c.refs {
		if rd := ref.Depth() + 1; rd > d {
			d = rd
		}
	}
	return d
}

func (c *Cell) repr() []byte {
	data := append(c.descriptors(), c.paddedPayload()...)

	for _, ref := range c.refs {
		depth := ref.Depth()
		data = append(data, byte(depth>>8), byte(depth))
	}
	for _, ref := range c.refs {
		data = append(data, ref.Hash()...)
	}

	return data
}

// descriptors are the two per-cell metadata bytes,
// d1 = refs + 8*special + 32*level, d2 = floor(bits/8) + ceil(bits/8).
func (c *Cell) descriptors() []byte {
	specBit := byte(0)
	if c.special {
		specBit = 8
	}

	d1 := byte(len(c.refs)) + specBit + c.level*32
	d2 := byte(c.bitsSz/8 + (c.bitsSz+7)/8)

	return []byte{d1, d2}
}

// paddedPayload rounds the payload up to a whole byte, marking the end
// of the data with a single 1 bit (the completion tag) when needed.
func (c *Cell) paddedPayload() []byte {
	payload := append([]byte{}, c.data...)

	if c.bitsSz%8 != 0 {
		payload[len(payload)-1] |= 0x80 >> (c.bitsSz % 8)
	}

	return payload
}
