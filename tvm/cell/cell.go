package cell

import (
	"crypto/ed25519"
	"encoding/hex"
	"fmt"
	"strings"
)

// Cell is an immutable node of a cell graph, it holds up to 1023 bits
// of payload and up to 4 ordered references to other cells. References
// may be shared between cells, so the graph is a DAG, never a tree with
// duplicated content and never cyclic.
type Cell struct {
	special bool
	level   byte
	bitsSz  uint
	data    []byte

	refs []*Cell
}

// BeginParse returns a read cursor over a copy of the cell content,
// the cell itself stays untouched.
func (c *Cell) BeginParse() *Slice {
	data := append([]byte{}, c.data...)

	refs := make([]*Cell, len(c.refs))
	copy(refs, c.refs)

	return &Slice{
		special: c.special,
		level:   c.level,
		bitsSz:  c.bitsSz,
		data:    data,
		refs:    refs,
	}
}

// ToBuilder returns a builder preloaded with the cell content,
// useful to extend an existing layout.
func (c *Cell) ToBuilder() *Builder {
	data := append([]byte{}, c.data...)

	return &Builder{
		bitsSz: c.bitsSz,
		data:   data,
		refs:   append([]*Cell{}, c.refs...),
	}
}

func (c *Cell) BitsSize() uint {
	return c.bitsSz
}

func (c *Cell) RefsNum() int {
	return len(c.refs)
}

func (c *Cell) IsSpecial() bool {
	return c.special
}

// PeekRef returns the i-th reference without consuming anything.
func (c *Cell) PeekRef(i int) (*Cell, error) {
	if i < 0 || i >= len(c.refs) {
		return nil, ErrNoMoreRefs
	}
	return c.refs[i], nil
}

// Sign signs the cell hash with the given key.
func (c *Cell) Sign(key ed25519.PrivateKey) []byte {
	return ed25519.Sign(key, c.Hash())
}

func (c *Cell) Dump() string {
	return c.dump(0, false)
}

func (c *Cell) DumpBits() string {
	return c.dump(0, true)
}

func (c *Cell) dump(deep int, bin bool) string {
	var val string
	if bin {
		for _, n := range c.data {
			val += fmt.Sprintf("%08b", n)
		}
		if c.bitsSz%8 != 0 {
			val = val[:uint(len(val))-(8-(c.bitsSz%8))]
		}
	} else {
		val = strings.ToUpper(hex.EncodeToString(c.data))
	}

	str := strings.Repeat("  ", deep) + fmt.Sprint(c.bitsSz) + "[" + val + "]"
	if len(c.refs) > 0 {
		str += " -> {"
		for i, ref := range c.refs {
			str += "\n" + ref.dump(deep+1, bin)
			if i == len(c.refs)-1 {
				str += "\n"
			} else {
				str += ","
			}
		}
		str += strings.Repeat("  ", deep)
		return str + "}"
	}
	return str
}
