package crc

import (
	"hash/crc32"
	"hash/crc64"
	"testing"
)

func TestCRC32CheckValue(t *testing.T) {
	c := NewCRC32()
	c.AccumulateString("123456789")
	if got := c.Sum(); got != 0xCBF43926 {
		t.Errorf("Sum = %#x, want 0xCBF43926", got)
	}
}

func TestCRC64CheckValue(t *testing.T) {
	c := NewCRC64()
	c.AccumulateString("123456789")
	want := crc64.Checksum([]byte("123456789"), crc64.MakeTable(crc64.ECMA))
	if got := c.Sum(); got != want {
		t.Errorf("Sum = %#x, want %#x", got, want)
	}
}

func TestCRC32IncrementalMatchesOneShot(t *testing.T) {
	data := []byte("The quick brown fox jumps over the lazy dog")

	c := NewCRC32()
	for _, b := range data {
		c.AccumulateBytes([]byte{b})
	}
	if got, want := c.Sum(), crc32.ChecksumIEEE(data); got != want {
		t.Errorf("incremental Sum = %#x, want %#x", got, want)
	}
}

func TestCRC64IncrementalMatchesOneShot(t *testing.T) {
	data := []byte("The quick brown fox jumps over the lazy dog")

	c := NewCRC64()
	c.AccumulateBytes(data[:10]).AccumulateBytes(data[10:])
	if got, want := c.Sum(), crc64.Checksum(data, crc64.MakeTable(crc64.ECMA)); got != want {
		t.Errorf("chunked Sum = %#x, want %#x", got, want)
	}
}

func TestCRC32Chaining(t *testing.T) {
	chained := NewCRC32().AccumulateString("abc").AccumulateUint64(42).AccumulateFloat64(58.12).Sum()

	c := NewCRC32()
	c.AccumulateString("abc")
	c.AccumulateUint64(42)
	c.AccumulateFloat64(58.12)
	if chained != c.Sum() {
		t.Errorf("chained = %#x, stepwise = %#x", chained, c.Sum())
	}
}

func TestCRC32ScalarsChangeSum(t *testing.T) {
	a := NewCRC32().AccumulateUint32(1).Sum()
	b := NewCRC32().AccumulateUint32(2).Sum()
	if a == b {
		t.Error("different inputs should produce different checksums")
	}

	i := NewCRC32().AccumulateInt64(-1).Sum()
	u := NewCRC32().AccumulateUint64(0xFFFFFFFFFFFFFFFF).Sum()
	if i != u {
		t.Error("AccumulateInt64 should fold the two's complement bit pattern")
	}
}

func TestReset(t *testing.T) {
	c32 := NewCRC32()
	c32.AccumulateString("something")
	c32.Reset()
	if c32.Sum() != 0 {
		t.Error("CRC32 Reset should restore the zero checksum")
	}
	c32.AccumulateString("123456789")
	if c32.Sum() != 0xCBF43926 {
		t.Error("a reset accumulator should behave like a fresh one")
	}

	c64 := NewCRC64()
	c64.AccumulateString("something")
	c64.Reset()
	if c64.Sum() != 0 {
		t.Error("CRC64 Reset should restore the zero checksum")
	}
}
