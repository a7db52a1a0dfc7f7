package address

import (
	"encoding/base64"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/sigurn/crc16"
)

// Address is a standard contract address, a workchain id plus the
// 256-bit hash of the contract's initial state. The flags only affect
// the human-readable form, not the identity of the contract.
type Address struct {
	flags     flags
	workchain int32
	data      []byte
}

type flags struct {
	bounceable bool
	testnet    bool
}

const (
	flagBounceable    byte = 0x11
	flagNonBounceable byte = 0x40
	flagTestnet       byte = 0x80
)

var crcTable = crc16.MakeTable(crc16.CRC16_XMODEM)

var ErrInvalidAddress = errors.New("invalid address")

func NewAddress(flagsByte byte, workchain byte, data []byte) *Address {
	return &Address{
		flags:     parseFlags(flagsByte),
		workchain: int32(int8(workchain)),
		data:      data,
	}
}

// NewAddressNone is the addr_none$00 placeholder, it has no data.
func NewAddressNone() *Address {
	return &Address{}
}

func MustParseAddr(addr string) *Address {
	a, err := ParseAddr(addr)
	if err != nil {
		panic(err)
	}
	return a
}

func ParseAddr(addr string) (*Address, error) {
	data, err := base64.URLEncoding.DecodeString(addr)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidAddress, err.Error())
	}

	if len(data) != 36 {
		return nil, fmt.Errorf("%w: wrong length %d", ErrInvalidAddress, len(data))
	}

	checksum := binary.BigEndian.Uint16(data[34:])
	if crc16.Checksum(data[:34], crcTable) != checksum {
		return nil, fmt.Errorf("%w: checksum does not match", ErrInvalidAddress)
	}

	return NewAddress(data[0], data[1], data[2:34]), nil
}

func parseFlags(b byte) flags {
	return flags{
		bounceable: b&flagNonBounceable == 0,
		testnet:    b&flagTestnet != 0,
	}
}

func (a *Address) FlagsToByte() byte {
	b := flagBounceable
	if !a.flags.bounceable {
		b |= flagNonBounceable
	}
	if a.flags.testnet {
		b |= flagTestnet
	}
	return b
}

func (a *Address) IsAddrNone() bool {
	return len(a.data) == 0
}

// Checksum is the crc16-XMODEM over the packed 34-byte form.
func (a *Address) Checksum() uint16 {
	return crc16.Checksum(a.packed(), crcTable)
}

func (a *Address) packed() []byte {
	buf := make([]byte, 0, 34)
	buf = append(buf, a.FlagsToByte(), byte(a.workchain))
	return append(buf, a.data...)
}

// String is the user-facing base64 form with flags and checksum.
func (a *Address) String() string {
	if a.IsAddrNone() {
		return "NONE"
	}

	buf := append(a.packed(), 0, 0)
	binary.BigEndian.PutUint16(buf[34:], crc16.Checksum(buf[:34], crcTable))

	return base64.URLEncoding.EncodeToString(buf)
}

// Dump is the verbose debug form.
func (a *Address) Dump() string {
	return fmt.Sprintf("human-readable address: %s isBounceable: %t, isTestnetOnly: %t, data.len: %d",
		a, a.flags.bounceable, a.flags.testnet, len(a.data))
}

// StringRaw is the workchain:hex form.
func (a *Address) StringRaw() string {
	return fmt.Sprintf("%d:%s", a.workchain, hex.EncodeToString(a.data))
}

func (a *Address) Workchain() int32 {
	return a.workchain
}

func (a *Address) Data() []byte {
	return a.data
}

func (a *Address) IsBounceable() bool {
	return a.flags.bounceable
}

func (a *Address) IsTestnetOnly() bool {
	return a.flags.testnet
}

// Bounce returns a copy with the bounceable display flag set as given.
func (a *Address) Bounce(bounceable bool) *Address {
	x := a.copy()
	x.flags.bounceable = bounceable
	return x
}

// Testnet returns a copy with the testnet display flag set as given.
func (a *Address) Testnet(testnet bool) *Address {
	x := a.copy()
	x.flags.testnet = testnet
	return x
}

func (a *Address) copy() *Address {
	return &Address{
		flags:     a.flags,
		workchain: a.workchain,
		data:      append([]byte{}, a.data...),
	}
}

func (a *Address) Equals(other *Address) bool {
	if other == nil {
		return false
	}
	if a.workchain != other.workchain || len(a.data) != len(other.data) {
		return false
	}
	for i := range a.data {
		if a.data[i] != other.data[i] {
			return false
		}
	}
	return true
}
