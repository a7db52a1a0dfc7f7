package cell

import (
	"math/big"

	"github.com/cellforge/tonwallet-go/address"
)

// Slice is a read cursor over cell content. Loads advance the cursor,
// it never rewinds. Refs are consumed in order with LoadRef.
type Slice struct {
	special  bool
	level    byte
	bitsSz   uint
	loadedSz uint
	data     []byte

	refs []*Cell
}

func (c *Slice) MustLoadRef() *Slice {
	r, err := c.LoadRef()
	if err != nil {
		panic(err)
	}
	return r
}

func (c *Slice) LoadRef() (*Slice, error) {
	if len(c.refs) == 0 {
		return nil, ErrNoMoreRefs
	}
	ref := c.refs[0]
	c.refs = c.refs[1:]

	return ref.BeginParse(), nil
}

func (c *Slice) LoadRefCell() (*Cell, error) {
	if len(c.refs) == 0 {
		return nil, ErrNoMoreRefs
	}
	ref := c.refs[0]
	c.refs = c.refs[1:]

	return ref, nil
}

// LoadMaybeRef reads a presence bit, then a ref when the bit is set.
// Absent refs come back as nil.
func (c *Slice) LoadMaybeRef() (*Cell, error) {
	has, err := c.LoadBoolBit()
	if err != nil {
		return nil, err
	}

	if !has {
		return nil, nil
	}

	return c.LoadRefCell()
}

func (c *Slice) MustLoadUInt(sz uint) uint64 {
	res, err := c.LoadUInt(sz)
	if err != nil {
		panic(err)
	}
	return res
}

func (c *Slice) LoadUInt(sz uint) (uint64, error) {
	res, err := c.LoadBigUInt(sz)
	if err != nil {
		return 0, err
	}
	return res.Uint64(), nil
}

func (c *Slice) MustLoadInt(sz uint) int64 {
	res, err := c.LoadInt(sz)
	if err != nil {
		panic(err)
	}
	return res
}

func (c *Slice) LoadInt(sz uint) (int64, error) {
	res, err := c.LoadBigInt(sz)
	if err != nil {
		return 0, err
	}
	return res.Int64(), nil
}

func (c *Slice) MustLoadBoolBit() bool {
	res, err := c.LoadBoolBit()
	if err != nil {
		panic(err)
	}
	return res
}

func (c *Slice) LoadBoolBit() (bool, error) {
	res, err := c.LoadUInt(1)
	return res == 1, err
}

func (c *Slice) MustLoadBigUInt(sz uint) *big.Int {
	res, err := c.LoadBigUInt(sz)
	if err != nil {
		panic(err)
	}
	return res
}

func (c *Slice) LoadBigUInt(sz uint) (*big.Int, error) {
	if sz > 256 {
		return nil, ErrTooBigSize
	}

	return c.loadBigAny(sz)
}

func (c *Slice) LoadBigInt(sz uint) (*big.Int, error) {
	if sz > 257 {
		return nil, ErrTooBigSize
	}
	if sz == 0 {
		return big.NewInt(0), nil
	}

	u, err := c.loadBigAny(sz)
	if err != nil {
		return nil, err
	}

	// sign bit set means two's complement wrap
	if u.Bit(int(sz-1)) == 1 {
		u = u.Sub(u, new(big.Int).Lsh(big.NewInt(1), sz))
	}

	return u, nil
}

func (c *Slice) loadBigAny(sz uint) (*big.Int, error) {
	b, err := c.LoadSlice(sz)
	if err != nil {
		return nil, err
	}

	// right align the loaded bits
	if off := sz % 8; off != 0 {
		shift := 8 - off
		for i := len(b) - 1; i >= 0; i-- {
			b[i] >>= shift
			if i > 0 {
				b[i] |= b[i-1] << off
			}
		}
	}

	return new(big.Int).SetBytes(b), nil
}

func (c *Slice) MustLoadCoins() uint64 {
	res, err := c.LoadCoins()
	if err != nil {
		panic(err)
	}
	return res
}

func (c *Slice) LoadCoins() (uint64, error) {
	value, err := c.LoadBigCoins()
	if err != nil {
		return 0, err
	}

	return value.Uint64(), nil
}

func (c *Slice) LoadBigCoins() (*big.Int, error) {
	ln, err := c.LoadUInt(4)
	if err != nil {
		return nil, err
	}

	return c.LoadBigUInt(uint(ln) * 8)
}

func (c *Slice) MustLoadSlice(sz uint) []byte {
	res, err := c.LoadSlice(sz)
	if err != nil {
		panic(err)
	}
	return res
}

func (c *Slice) LoadSlice(sz uint) ([]byte, error) {
	if c.bitsSz-c.loadedSz < sz {
		return nil, ErrNotEnoughData
	}

	if sz == 0 {
		return []byte{}, nil
	}

	out := make([]byte, (sz+7)/8)
	for i := uint(0); i < sz; i++ {
		pos := c.loadedSz + i
		if c.data[pos/8]&(0x80>>(pos%8)) != 0 {
			out[i/8] |= 0x80 >> (i % 8)
		}
	}

	c.loadedSz += sz

	return out, nil
}

func (c *Slice) MustLoadAddr() *address.Address {
	a, err := c.LoadAddr()
	if err != nil {
		panic(err)
	}
	return a
}

func (c *Slice) LoadAddr() (*address.Address, error) {
	typ, err := c.LoadUInt(2)
	if err != nil {
		return nil, err
	}

	switch typ {
	case 0:
		return address.NewAddressNone(), nil
	case 2:
		anycast, err := c.LoadBoolBit()
		if err != nil {
			return nil, err
		}
		if anycast {
			return nil, ErrAddrType
		}

		workchain, err := c.LoadUInt(8)
		if err != nil {
			return nil, err
		}

		data, err := c.LoadSlice(256)
		if err != nil {
			return nil, err
		}

		return address.NewAddress(0, byte(workchain), data), nil
	default:
		return nil, ErrAddrType
	}
}

func (c *Slice) LoadStringSnake() (string, error) {
	data, err := c.LoadBinarySnake()
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// LoadBinarySnake reads a continuation chain written by StoreBinarySnake.
func (c *Slice) LoadBinarySnake() ([]byte, error) {
	var data []byte

	cur := c
	for cur != nil {
		left := cur.bitsSz - cur.loadedSz
		if left%8 != 0 {
			return nil, ErrNotEnoughData
		}

		chunk, err := cur.LoadSlice(left)
		if err != nil {
			return nil, err
		}
		data = append(data, chunk...)

		if len(cur.refs) == 0 {
			break
		}

		cur, err = cur.LoadRef()
		if err != nil {
			return nil, err
		}
	}

	return data, nil
}

func (c *Slice) RestBits() (uint, []byte, error) {
	left := c.bitsSz - c.loadedSz
	data, err := c.LoadSlice(left)
	return left, data, err
}

func (c *Slice) BitsLeft() uint {
	return c.bitsSz - c.loadedSz
}

func (c *Slice) RefsNum() int {
	return len(c.refs)
}

func (c *Slice) IsSpecial() bool {
	return c.special
}

func (c *Slice) Copy() *Slice {
	data := append([]byte{}, c.data...)

	return &Slice{
		special:  c.special,
		level:    c.level,
		bitsSz:   c.bitsSz,
		loadedSz: c.loadedSz,
		data:     data,
		refs:     append([]*Cell{}, c.refs...),
	}
}

// ToCell packs everything left to read back into a cell.
func (c *Slice) ToCell() (*Cell, error) {
	left := c.bitsSz - c.loadedSz
	data, err := c.LoadSlice(left)
	if err != nil {
		return nil, err
	}

	b := BeginCell()
	if err = b.StoreSlice(data, left); err != nil {
		return nil, err
	}

	for len(c.refs) > 0 {
		ref, err := c.LoadRefCell()
		if err != nil {
			return nil, err
		}
		if err = b.StoreRef(ref); err != nil {
			return nil, err
		}
	}

	return b.EndCell(), nil
}
