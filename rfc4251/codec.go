package rfc4251

import (
	"encoding/binary"
	"math/big"
	"unicode/utf8"
)

// DecodeByte reads a single byte.
func DecodeByte(c *Cursor) (byte, error) {
	b, err := c.Take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// EncodeByte appends a single byte to dst.
func EncodeByte(dst []byte, v byte) []byte {
	return append(dst, v)
}

// DecodeBoolean reads one byte; zero is false, any non-zero value is true.
func DecodeBoolean(c *Cursor) (bool, error) {
	b, err := DecodeByte(c)
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

// EncodeBoolean appends 0 or 1 to dst.
func EncodeBoolean(dst []byte, v bool) []byte {
	if v {
		return append(dst, 1)
	}
	return append(dst, 0)
}

// DecodeUint32 reads a 4-byte big-endian unsigned integer.
func DecodeUint32(c *Cursor) (uint32, error) {
	b, err := c.Take(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

// EncodeUint32 appends a 4-byte big-endian unsigned integer to dst.
func EncodeUint32(dst []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(dst, b[:]...)
}

// DecodeUint64 reads an 8-byte big-endian unsigned integer.
func DecodeUint64(c *Cursor) (uint64, error) {
	b, err := c.Take(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

// EncodeUint64 appends an 8-byte big-endian unsigned integer to dst.
func EncodeUint64(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

// DecodeString reads a uint32 length prefix followed by that many bytes,
// returned as a borrowed view into the cursor's buffer.
func DecodeString(c *Cursor) ([]byte, error) {
	n, err := DecodeUint32(c)
	if err != nil {
		return nil, err
	}
	return c.Take(int(n))
}

// EncodeString appends a uint32 length prefix and then b to dst.
func EncodeString(dst []byte, b []byte) []byte {
	dst = EncodeUint32(dst, uint32(len(b)))
	return append(dst, b...)
}

// DecodeText decodes a string and additionally validates it as UTF-8.
func DecodeText(c *Cursor) (string, error) {
	b, err := DecodeString(c)
	if err != nil {
		return "", err
	}
	if !utf8.Valid(b) {
		return "", ErrInvalidUTF8
	}
	return string(b), nil
}

// EncodeText appends s as a length-prefixed string to dst.
func EncodeText(dst []byte, s string) []byte {
	return EncodeString(dst, []byte(s))
}

// DecodeMpint decodes a string whose content is a two's-complement
// big-endian signed integer.
func DecodeMpint(c *Cursor) (*big.Int, error) {
	b, err := DecodeString(c)
	if err != nil {
		return nil, err
	}
	return fromSignedBytes(b), nil
}

// EncodeMpint appends the canonical (shortest sign-preserving,
// zero-as-empty-string) mpint encoding of v to dst.
func EncodeMpint(dst []byte, v *big.Int) []byte {
	return EncodeString(dst, toSignedBytes(v))
}

// fromSignedBytes interprets b as a two's-complement big-endian signed
// integer. An empty slice is zero.
func fromSignedBytes(b []byte) *big.Int {
	v := new(big.Int)
	if len(b) == 0 {
		return v
	}
	if b[0]&0x80 == 0 {
		return v.SetBytes(b)
	}
	// Negative: two's complement. magnitude = 2^(8*len(b)) - unsigned(b)
	unsigned := new(big.Int).SetBytes(b)
	mod := new(big.Int).Lsh(big.NewInt(1), uint(8*len(b)))
	return v.Sub(unsigned, mod)
}

// toSignedBytes returns the shortest two's-complement big-endian byte
// sequence that preserves v's sign; zero encodes as an empty slice.
func toSignedBytes(v *big.Int) []byte {
	if v.Sign() == 0 {
		return nil
	}
	if v.Sign() > 0 {
		b := v.Bytes()
		if len(b) > 0 && b[0]&0x80 != 0 {
			b = append([]byte{0x00}, b...)
		}
		return b
	}
	// Negative: find the smallest byte length n such that
	// 2^(8n-1) >= -v, then encode v mod 2^(8n).
	mag := new(big.Int).Neg(v)
	n := 1
	for {
		limit := new(big.Int).Lsh(big.NewInt(1), uint(8*n-1))
		if mag.Cmp(limit) <= 0 {
			break
		}
		n++
	}
	mod := new(big.Int).Lsh(big.NewInt(1), uint(8*n))
	twos := new(big.Int).Add(mod, v)
	b := twos.Bytes()
	// twos.Bytes() strips leading zero bytes; left-pad to n bytes.
	if len(b) < n {
		padded := make([]byte, n)
		copy(padded[n-len(b):], b)
		b = padded
	}
	return b
}
