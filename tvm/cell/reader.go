package cell

import (
	"fmt"
)

// bocReader walks a byte buffer and reports failures with the offset
// they happened at.
type bocReader struct {
	data   []byte
	offset int
}

func newReader(data []byte) *bocReader {
	return &bocReader{data: data}
}

func (r *bocReader) ReadBytes(num int) ([]byte, error) {
	if len(r.data)-r.offset < num {
		return nil, fmt.Errorf("%w: need %d more bytes at offset %d, has %d",
			ErrInvalidBOC, num, r.offset, len(r.data)-r.offset)
	}

	ret := r.data[r.offset : r.offset+num]
	r.offset += num
	return ret, nil
}

func (r *bocReader) ReadByte() (byte, error) {
	b, err := r.ReadBytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (r *bocReader) Offset() int {
	return r.offset
}

func (r *bocReader) Left() int {
	return len(r.data) - r.offset
}
