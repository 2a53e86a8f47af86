// Copyright 2024 The go-jvm Authors. All rights reserved.
// Use of this source code is governed by Apache v2 license
// license that can be found in the LICENSE file.

package classfile

import (
	"encoding/binary"
	"math"
)

// cursor reads and writes the big-endian primitives of the class-file wire
// format over a borrowed byte slice, tracking position the way every
// structure in JVMS §4 that depends on its own offset (tableswitch padding,
// StackMapTable deltas, Code's own length) needs. Callers outside this
// package never see a cursor directly; it is the shared plumbing under
// Decode and Encode.
type cursor struct {
	buf []byte
	pos int
}

func newCursor(buf []byte) *cursor {
	return &cursor{buf: buf}
}

// Pos returns the current byte offset into the cursor's buffer.
func (c *cursor) Pos() int { return c.pos }

// Len returns the total length of the cursor's buffer.
func (c *cursor) Len() int { return len(c.buf) }

// Remaining returns the number of unread bytes.
func (c *cursor) Remaining() int { return len(c.buf) - c.pos }

// sub returns a new cursor over exactly the next n bytes and advances this
// cursor past them. Used by the attribute framework to bound a sub-decoder
// to exactly its declared length.
func (c *cursor) sub(n int) (*cursor, error) {
	b, err := c.bytes(n)
	if err != nil {
		return nil, err
	}
	return newCursor(b), nil
}

func (c *cursor) need(n int) error {
	if n < 0 || c.Remaining() < n {
		return &TruncatedError{Offset: c.pos, Needed: n, Remaining: c.Remaining()}
	}
	return nil
}

func (c *cursor) bytes(n int) ([]byte, error) {
	if err := c.need(n); err != nil {
		return nil, err
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b, nil
}

func (c *cursor) u8() (uint8, error) {
	b, err := c.bytes(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (c *cursor) i8() (int8, error) {
	v, err := c.u8()
	return int8(v), err
}

func (c *cursor) u16() (uint16, error) {
	b, err := c.bytes(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(b), nil
}

func (c *cursor) i16() (int16, error) {
	v, err := c.u16()
	return int16(v), err
}

func (c *cursor) u32() (uint32, error) {
	b, err := c.bytes(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(b), nil
}

func (c *cursor) i32() (int32, error) {
	v, err := c.u32()
	return int32(v), err
}

func (c *cursor) u64() (uint64, error) {
	b, err := c.bytes(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(b), nil
}

func (c *cursor) i64() (int64, error) {
	v, err := c.u64()
	return int64(v), err
}

func (c *cursor) f32() (float32, error) {
	v, err := c.u32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(v), nil
}

func (c *cursor) f64() (float64, error) {
	v, err := c.u64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v), nil
}

// skip advances the cursor n bytes without returning them, failing the same
// way bytes(n) would if the input is too short.
func (c *cursor) skip(n int) error {
	_, err := c.bytes(n)
	return err
}

// writer accumulates the big-endian encode side; it mirrors cursor's shape
// but never fails (a Go slice append cannot run out of room the way a read
// can run out of input).
type writer struct {
	buf []byte
}

func newWriter() *writer { return &writer{} }

func (w *writer) Bytes() []byte { return w.buf }

func (w *writer) Len() int { return len(w.buf) }

func (w *writer) raw(b []byte) { w.buf = append(w.buf, b...) }

func (w *writer) u8(v uint8) { w.buf = append(w.buf, v) }

func (w *writer) i8(v int8) { w.u8(uint8(v)) }

func (w *writer) u16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	w.raw(b[:])
}

func (w *writer) i16(v int16) { w.u16(uint16(v)) }

func (w *writer) u32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	w.raw(b[:])
}

func (w *writer) i32(v int32) { w.u32(uint32(v)) }

func (w *writer) u64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	w.raw(b[:])
}

func (w *writer) i64(v int64) { w.u64(uint64(v)) }

func (w *writer) f32(v float32) { w.u32(math.Float32bits(v)) }

func (w *writer) f64(v float64) { w.u64(math.Float64bits(v)) }
