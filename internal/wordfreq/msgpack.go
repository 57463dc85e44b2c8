package wordfreq

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// decodeMsgpack decodes one msgpack value. Arrays decode to []any, maps to
// map[any]any, integers to int64 and binary blobs to []byte.
func decodeMsgpack(r io.Reader) (any, error) {
	dec := msgpackDecoder{r: bufio.NewReader(r)}
	return dec.value()
}

type msgpackDecoder struct {
	r *bufio.Reader
}

func (d *msgpackDecoder) value() (any, error) {
	b, err := d.r.ReadByte()
	if err != nil {
		return nil, err
	}

	switch {
	case b <= 0x7f:
		return int64(b), nil
	case b >= 0xe0:
		return int64(int8(b)), nil
	case b >= 0xa0 && b <= 0xbf:
		return d.str(int(b & 0x1f))
	case b >= 0x90 && b <= 0x9f:
		return d.array(int(b & 0x0f))
	case b >= 0x80 && b <= 0x8f:
		return d.dict(int(b & 0x0f))
	}

	switch b {
	case 0xc0:
		return nil, nil
	case 0xc2:
		return false, nil
	case 0xc3:
		return true, nil
	case 0xc4, 0xc5, 0xc6:
		n, err := d.uint(1 << (b - 0xc4))
		if err != nil {
			return nil, err
		}
		return d.bytes(int(n))
	case 0xca:
		bits, err := d.uint(4)
		if err != nil {
			return nil, err
		}
		return float64(math.Float32frombits(uint32(bits))), nil
	case 0xcb:
		bits, err := d.uint(8)
		if err != nil {
			return nil, err
		}
		return math.Float64frombits(bits), nil
	case 0xcc, 0xcd, 0xce, 0xcf:
		size := 1 << (b - 0xcc)
		v, err := d.uint(size)
		if err != nil {
			return nil, err
		}
		if size == 8 {
			return v, nil
		}
		return int64(v), nil
	case 0xd0, 0xd1, 0xd2, 0xd3:
		size := 1 << (b - 0xd0)
		v, err := d.uint(size)
		if err != nil {
			return nil, err
		}
		// Sign-extend from the encoded width.
		shift := 64 - 8*size
		return int64(v<<shift) >> shift, nil
	case 0xd9, 0xda, 0xdb:
		n, err := d.uint(1 << (b - 0xd9))
		if err != nil {
			return nil, err
		}
		return d.str(int(n))
	case 0xdc, 0xdd:
		n, err := d.uint(2 << (b - 0xdc))
		if err != nil {
			return nil, err
		}
		return d.array(int(n))
	case 0xde, 0xdf:
		n, err := d.uint(2 << (b - 0xde))
		if err != nil {
			return nil, err
		}
		return d.dict(int(n))
	default:
		return nil, fmt.Errorf("unsupported msgpack prefix 0x%x", b)
	}
}

func (d *msgpackDecoder) array(n int) ([]any, error) {
	out := make([]any, 0, n)
	for range n {
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (d *msgpackDecoder) dict(n int) (map[any]any, error) {
	out := make(map[any]any, n)
	for range n {
		k, err := d.value()
		if err != nil {
			return nil, err
		}
		switch k.(type) {
		case []any, []byte, map[any]any:
			return nil, fmt.Errorf("unsupported msgpack map key type %T", k)
		}
		v, err := d.value()
		if err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, nil
}

func (d *msgpackDecoder) str(n int) (string, error) {
	data, err := d.bytes(n)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func (d *msgpackDecoder) bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("invalid length %d", n)
	}
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return nil, err
	}
	return buf, nil
}

// uint reads a big-endian unsigned integer of size bytes.
func (d *msgpackDecoder) uint(size int) (uint64, error) {
	var buf [8]byte
	if _, err := io.ReadFull(d.r, buf[8-size:]); err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(buf[:]), nil
}
