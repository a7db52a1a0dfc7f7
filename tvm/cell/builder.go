package cell

import (
	"encoding/binary"
	"math/big"

	"github.com/cellforge/tonwallet-go/address"
)

// Builder accumulates bits and references and produces an immutable
// Cell on EndCell. It is single-owner, don't share it between
// goroutines before finalizing.
type Builder struct {
	bitsSz uint
	data   []byte

	refs []*Cell
}

func BeginCell() *Builder {
	return &Builder{}
}

// EndCell finalizes the builder into an immutable cell. The content is
// copied out, so the builder cannot corrupt the produced cell afterwards.
func (b *Builder) EndCell() *Cell {
	data := append([]byte{}, b.data...)

	return &Cell{
		bitsSz: b.bitsSz,
		data:   data,
		refs:   append([]*Cell{}, b.refs...),
	}
}

func (b *Builder) MustStoreUInt(value uint64, sz uint) *Builder {
	err := b.StoreUInt(value, sz)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) StoreUInt(value uint64, sz uint) error {
	if sz > 64 {
		return b.StoreBigUInt(new(big.Int).SetUint64(value), sz)
	}

	if sz < 64 && value >= 1<<sz {
		return ErrTooBigValue
	}

	value <<= 64 - sz
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, value)

	return b.StoreSlice(buf, sz)
}

func (b *Builder) MustStoreInt(value int64, sz uint) *Builder {
	err := b.StoreInt(value, sz)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) StoreInt(value int64, sz uint) error {
	return b.StoreBigInt(new(big.Int).SetInt64(value), sz)
}

func (b *Builder) MustStoreBoolBit(value bool) *Builder {
	err := b.StoreBoolBit(value)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) StoreBoolBit(value bool) error {
	var i uint64
	if value {
		i = 1
	}
	return b.StoreUInt(i, 1)
}

func (b *Builder) MustStoreBigUInt(value *big.Int, sz uint) *Builder {
	err := b.StoreBigUInt(value, sz)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) StoreBigUInt(value *big.Int, sz uint) error {
	if value.Sign() == -1 {
		return ErrNegative
	}

	if sz > 256 {
		return ErrTooBigSize
	}

	if uint(value.BitLen()) > sz {
		return ErrTooBigValue
	}

	return b.storeBig(value, sz)
}

func (b *Builder) MustStoreBigInt(value *big.Int, sz uint) *Builder {
	err := b.StoreBigInt(value, sz)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) StoreBigInt(value *big.Int, sz uint) error {
	if sz > 257 {
		return ErrTooBigSize
	}

	if sz == 0 {
		if value.Sign() != 0 {
			return ErrTooBigValue
		}
		return nil
	}

	if value.Sign() >= 0 {
		// sign bit must stay clear
		if uint(value.BitLen()) >= sz {
			return ErrTooBigValue
		}
	} else {
		min := new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), sz-1))
		if value.Cmp(min) < 0 {
			return ErrTooBigValue
		}
		// two's complement of the given width
		value = new(big.Int).Add(value, new(big.Int).Lsh(big.NewInt(1), sz))
	}

	return b.storeBig(value, sz)
}

func (b *Builder) storeBig(value *big.Int, sz uint) error {
	data := value.Bytes()

	n := int((sz + 7) / 8)
	if len(data) < n {
		data = append(make([]byte, n-len(data)), data...)
	}

	// left align the value so the first of sz bits starts at the MSB
	if off := sz % 8; off != 0 {
		shift := 8 - off
		for i := 0; i < n; i++ {
			v := data[i] << shift
			if i+1 < n {
				v |= data[i+1] >> off
			}
			data[i] = v
		}
	}

	return b.StoreSlice(data, sz)
}

func (b *Builder) MustStoreCoins(value uint64) *Builder {
	err := b.StoreCoins(value)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) StoreCoins(value uint64) error {
	return b.StoreBigCoins(new(big.Int).SetUint64(value))
}

func (b *Builder) MustStoreBigCoins(value *big.Int) *Builder {
	err := b.StoreBigCoins(value)
	if err != nil {
		panic(err)
	}
	return b
}

// StoreBigCoins stores an amount as VarUInteger 16,
// 4 bits of byte length followed by that many bytes of value.
func (b *Builder) StoreBigCoins(value *big.Int) error {
	if value.Sign() == -1 {
		return ErrNegative
	}

	ln := uint((value.BitLen() + 7) / 8)
	if ln >= 16 {
		return ErrTooBigValue
	}

	if b.bitsSz+4+(ln*8) >= 1024 {
		return ErrNotFit1023
	}

	if err := b.StoreUInt(uint64(ln), 4); err != nil {
		return err
	}

	return b.StoreBigUInt(value, ln*8)
}

func (b *Builder) MustStoreAddr(addr *address.Address) *Builder {
	err := b.StoreAddr(addr)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) StoreAddr(addr *address.Address) error {
	if addr == nil || addr.IsAddrNone() {
		// addr_none$00
		return b.StoreUInt(0, 2)
	}

	if len(addr.Data()) != 32 {
		return ErrAddrType
	}

	if b.bitsSz+2+1+8+256 >= 1024 {
		return ErrNotFit1023
	}

	// addr_std$10, no anycast
	if err := b.StoreUInt(0b100, 3); err != nil {
		return err
	}

	if err := b.StoreUInt(uint64(uint8(addr.Workchain())), 8); err != nil {
		return err
	}

	return b.StoreSlice(addr.Data(), 256)
}

func (b *Builder) MustStoreRef(ref *Cell) *Builder {
	err := b.StoreRef(ref)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) StoreRef(ref *Cell) error {
	if len(b.refs) >= 4 {
		return ErrTooMuchRefs
	}

	if ref == nil {
		return ErrRefCannotBeNil
	}

	b.refs = append(b.refs, ref)

	return nil
}

func (b *Builder) MustStoreMaybeRef(ref *Cell) *Builder {
	err := b.StoreMaybeRef(ref)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) StoreMaybeRef(ref *Cell) error {
	if ref == nil {
		return b.StoreUInt(0, 1)
	}

	// check both stores upfront to keep them atomic
	if len(b.refs) >= 4 {
		return ErrTooMuchRefs
	}
	if b.bitsSz+1 >= 1024 {
		return ErrNotFit1023
	}

	b.MustStoreUInt(1, 1).MustStoreRef(ref)
	return nil
}

func (b *Builder) MustStoreSlice(bytes []byte, sz uint) *Builder {
	err := b.StoreSlice(bytes, sz)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) StoreSlice(bytes []byte, sz uint) error {
	if sz == 0 {
		return nil
	}

	if uint(len(bytes))*8 < sz {
		return ErrSmallSlice
	}

	if b.bitsSz+sz >= 1024 {
		return ErrNotFit1023
	}

	for i := uint(0); i < sz; i++ {
		if b.bitsSz%8 == 0 {
			b.data = append(b.data, 0)
		}
		if bytes[i/8]&(0x80>>(i%8)) != 0 {
			b.data[len(b.data)-1] |= 0x80 >> (b.bitsSz % 8)
		}
		b.bitsSz++
	}

	return nil
}

func (b *Builder) MustStoreBuilder(builder *Builder) *Builder {
	err := b.StoreBuilder(builder)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) StoreBuilder(builder *Builder) error {
	if len(b.refs)+len(builder.refs) > 4 {
		return ErrTooMuchRefs
	}

	if b.bitsSz+builder.bitsSz >= 1024 {
		return ErrNotFit1023
	}

	b.refs = append(b.refs, builder.refs...)
	b.MustStoreSlice(builder.data, builder.bitsSz)

	return nil
}

func (b *Builder) MustStoreStringSnake(str string) *Builder {
	err := b.StoreStringSnake(str)
	if err != nil {
		panic(err)
	}
	return b
}

func (b *Builder) StoreStringSnake(str string) error {
	return b.StoreBinarySnake([]byte(str))
}

// StoreBinarySnake stores arbitrary-length data as a chain of cells,
// each holding up to 127 bytes and a ref to the continuation.
func (b *Builder) StoreBinarySnake(data []byte) error {
	var build func(space int) (*Builder, error)
	build = func(space int) (*Builder, error) {
		if len(data) < space {
			space = len(data)
		}

		c := BeginCell()
		if err := c.StoreSlice(data, uint(space)*8); err != nil {
			return nil, err
		}

		data = data[space:]

		if len(data) > 0 {
			next, err := build(127)
			if err != nil {
				return nil, err
			}

			if err = c.StoreRef(next.EndCell()); err != nil {
				return nil, err
			}
		}

		return c, nil
	}

	snake, err := build(int(b.BitsLeft() / 8))
	if err != nil {
		return err
	}

	return b.StoreBuilder(snake)
}

func (b *Builder) RefsUsed() int {
	return len(b.refs)
}

func (b *Builder) BitsUsed() uint {
	return b.bitsSz
}

func (b *Builder) BitsLeft() uint {
	return 1023 - b.bitsSz
}

func (b *Builder) RefsLeft() int {
	return 4 - len(b.refs)
}

func (b *Builder) Copy() *Builder {
	data := append([]byte{}, b.data...)

	return &Builder{
		bitsSz: b.bitsSz,
		data:   data,
		refs:   append([]*Cell{}, b.refs...),
	}
}
