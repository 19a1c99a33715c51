// Package crc provides incremental CRC-32 and CRC-64 accumulators.
//
// An accumulator starts from the zero checksum and folds in data piece
// by piece, so a checksum can be built across several writes without
// buffering the whole input. Accumulation methods return the receiver
// to allow chaining.
package crc

import (
	"encoding/binary"
	"hash/crc32"
	"hash/crc64"
	"math"
)

var crc64Table = crc64.MakeTable(crc64.ECMA)

// CRC32 accumulates data into a running CRC-32 checksum using the
// IEEE polynomial.
type CRC32 struct {
	sum uint32
}

// NewCRC32 returns an accumulator starting from the zero checksum.
func NewCRC32() *CRC32 {
	return &CRC32{}
}

// Sum returns the checksum of everything accumulated so far.
func (c *CRC32) Sum() uint32 {
	return c.sum
}

// Reset restores the accumulator to its initial state.
func (c *CRC32) Reset() {
	c.sum = 0
}

// AccumulateBytes folds p into the checksum.
func (c *CRC32) AccumulateBytes(p []byte) *CRC32 {
	c.sum = crc32.Update(c.sum, crc32.IEEETable, p)
	return c
}

// AccumulateString folds the bytes of s into the checksum.
func (c *CRC32) AccumulateString(s string) *CRC32 {
	return c.AccumulateBytes([]byte(s))
}

// AccumulateUint32 folds the little-endian bytes of v into the checksum.
func (c *CRC32) AccumulateUint32(v uint32) *CRC32 {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return c.AccumulateBytes(buf[:])
}

// AccumulateUint64 folds the little-endian bytes of v into the checksum.
func (c *CRC32) AccumulateUint64(v uint64) *CRC32 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return c.AccumulateBytes(buf[:])
}

// AccumulateInt64 folds the little-endian bytes of v into the checksum.
func (c *CRC32) AccumulateInt64(v int64) *CRC32 {
	return c.AccumulateUint64(uint64(v))
}

// AccumulateFloat64 folds the IEEE 754 bit pattern of v into the checksum.
func (c *CRC32) AccumulateFloat64(v float64) *CRC32 {
	return c.AccumulateUint64(math.Float64bits(v))
}

// CRC64 accumulates data into a running CRC-64 checksum using the
// ECMA polynomial.
type CRC64 struct {
	sum uint64
}

// NewCRC64 returns an accumulator starting from the zero checksum.
func NewCRC64() *CRC64 {
	return &CRC64{}
}

// Sum returns the checksum of everything accumulated so far.
func (c *CRC64) Sum() uint64 {
	return c.sum
}

// Reset restores the accumulator to its initial state.
func (c *CRC64) Reset() {
	c.sum = 0
}

// AccumulateBytes folds p into the checksum.
func (c *CRC64) AccumulateBytes(p []byte) *CRC64 {
	c.sum = crc64.Update(c.sum, crc64Table, p)
	return c
}

// AccumulateString folds the bytes of s into the checksum.
func (c *CRC64) AccumulateString(s string) *CRC64 {
	return c.AccumulateBytes([]byte(s))
}

// AccumulateUint32 folds the little-endian bytes of v into the checksum.
func (c *CRC64) AccumulateUint32(v uint32) *CRC64 {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	return c.AccumulateBytes(buf[:])
}

// AccumulateUint64 folds the little-endian bytes of v into the checksum.
func (c *CRC64) AccumulateUint64(v uint64) *CRC64 {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	return c.AccumulateBytes(buf[:])
}

// AccumulateInt64 folds the little-endian bytes of v into the checksum.
func (c *CRC64) AccumulateInt64(v int64) *CRC64 {
	return c.AccumulateUint64(uint64(v))
}

// AccumulateFloat64 folds the IEEE 754 bit pattern of v into the checksum.
func (c *CRC64) AccumulateFloat64(v float64) *CRC64 {
	return c.AccumulateUint64(math.Float64bits(v))
}
