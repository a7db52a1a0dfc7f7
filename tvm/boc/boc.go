package boc

// Magic prefixes every serialized bag of cells.
var Magic = []byte{0xB5, 0xEE, 0x9C, 0x72}

type Flags struct {
	HasIndex     bool
	HasCRC32C    bool
	HasCacheBits bool
}

// ParseFlags splits the header flags byte into feature bits and
// the byte width used for cell counts and indexes.
func ParseFlags(data byte) (Flags, int) {
	return Flags{
		HasIndex:     data&(1<<7) != 0,
		HasCRC32C:    data&(1<<6) != 0,
		HasCacheBits: data&(1<<5) != 0,
	}, int(data & 0b111)
}
