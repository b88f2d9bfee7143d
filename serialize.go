package punchbloom

import (
	"encoding/binary"
	"fmt"

	"github.com/zeebo/xxh3"
)

// Wire format:
//
//	Version  (1 byte)
//	Side     (2 bytes, little-endian uint16)
//	Items    (8 bytes, little-endian uint64; filters only)
//	Count    (2 bytes, little-endian uint16)
//	Cells    (Count * 2 bytes: row, col – sorted ascending, deduplicated)
//	Checksum (8 bytes, little-endian xxh3 of all preceding bytes)
//
// Cells are stored in canonical row-then-column order, so equal bitmaps
// always serialize to equal bytes. Decoding rejects any non-canonical
// ordering rather than repairing it; a reordered payload indicates
// corruption or a foreign writer.
const (
	serializeVersion byte = 1

	bitmapHeaderSize = 1 + 2 + 2     // version + side + count
	filterHeaderSize = 1 + 2 + 8 + 2 // version + side + items + count
	checksumSize     = 8
)

// MarshalBinary serializes the bitmap to its canonical binary form.
func (b *Bitmap) MarshalBinary() ([]byte, error) {
	coords := b.Coords()
	if len(coords) > 0xFFFF {
		return nil, fmt.Errorf("%w: %d cells exceed the wire format's uint16 count", ErrInvalidParameter, len(coords))
	}
	buf := make([]byte, bitmapHeaderSize+2*len(coords)+checksumSize)
	buf[0] = serializeVersion
	binary.LittleEndian.PutUint16(buf[1:3], uint16(b.side))
	binary.LittleEndian.PutUint16(buf[3:5], uint16(len(coords)))
	writeCells(buf[bitmapHeaderSize:], coords)
	appendChecksum(buf)
	return buf, nil
}

// UnmarshalBitmap deserializes a bitmap, validating the version, checksum,
// cell bounds, and canonical ordering.
func UnmarshalBitmap(data []byte) (*Bitmap, error) {
	if len(data) < bitmapHeaderSize+checksumSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d",
			ErrInvalidData, len(data), bitmapHeaderSize+checksumSize)
	}
	if err := verifyChecksum(data); err != nil {
		return nil, err
	}
	if data[0] != serializeVersion {
		return nil, fmt.Errorf("%w: got version %d, expected %d",
			ErrUnsupportedVersion, data[0], serializeVersion)
	}
	side := int(binary.LittleEndian.Uint16(data[1:3]))
	count := int(binary.LittleEndian.Uint16(data[3:5]))
	if side < 1 || side > 256 {
		return nil, fmt.Errorf("%w: side %d, cells are byte pairs so side must be in [1,256]", ErrInvalidData, side)
	}
	if want := bitmapHeaderSize + 2*count + checksumSize; len(data) != want {
		return nil, fmt.Errorf("%w: %d bytes, expected %d for %d cells",
			ErrInvalidData, len(data), want, count)
	}
	b := newBitmapWithSide(side)
	if err := readCells(b, data[bitmapHeaderSize:len(data)-checksumSize], count); err != nil {
		return nil, err
	}
	return b, nil
}

// MarshalBinary serializes the filter bitmap together with its item count.
func (f *Filter) MarshalBinary() ([]byte, error) {
	coords := f.bits.Coords()
	if len(coords) > 0xFFFF {
		return nil, fmt.Errorf("%w: %d cells exceed the wire format's uint16 count", ErrInvalidParameter, len(coords))
	}
	buf := make([]byte, filterHeaderSize+2*len(coords)+checksumSize)
	buf[0] = serializeVersion
	binary.LittleEndian.PutUint16(buf[1:3], uint16(f.bits.side))
	binary.LittleEndian.PutUint64(buf[3:11], f.items)
	binary.LittleEndian.PutUint16(buf[11:13], uint16(len(coords)))
	writeCells(buf[filterHeaderSize:], coords)
	appendChecksum(buf)
	return buf, nil
}

// UnmarshalFilter deserializes a filter produced by [Filter.MarshalBinary].
func UnmarshalFilter(data []byte) (*Filter, error) {
	if len(data) < filterHeaderSize+checksumSize {
		return nil, fmt.Errorf("%w: %d bytes, need at least %d",
			ErrInvalidData, len(data), filterHeaderSize+checksumSize)
	}
	if err := verifyChecksum(data); err != nil {
		return nil, err
	}
	if data[0] != serializeVersion {
		return nil, fmt.Errorf("%w: got version %d, expected %d",
			ErrUnsupportedVersion, data[0], serializeVersion)
	}
	side := int(binary.LittleEndian.Uint16(data[1:3]))
	items := binary.LittleEndian.Uint64(data[3:11])
	count := int(binary.LittleEndian.Uint16(data[11:13]))
	if side < 1 || side > 256 {
		return nil, fmt.Errorf("%w: side %d, cells are byte pairs so side must be in [1,256]", ErrInvalidData, side)
	}
	if want := filterHeaderSize + 2*count + checksumSize; len(data) != want {
		return nil, fmt.Errorf("%w: %d bytes, expected %d for %d cells",
			ErrInvalidData, len(data), want, count)
	}
	b := newBitmapWithSide(side)
	if err := readCells(b, data[filterHeaderSize:len(data)-checksumSize], count); err != nil {
		return nil, err
	}
	return &Filter{bits: b, items: items}, nil
}

// writeCells encodes sorted coordinates as (row, col) byte pairs.
func writeCells(dst []byte, coords []Coord) {
	for i, c := range coords {
		dst[2*i] = byte(c.Row)
		dst[2*i+1] = byte(c.Col)
	}
}

// readCells decodes count (row, col) pairs into b, enforcing grid bounds
// and strict canonical ordering.
func readCells(b *Bitmap, src []byte, count int) error {
	prev := Coord{Row: -1, Col: -1}
	for i := 0; i < count; i++ {
		c := Coord{Row: int(src[2*i]), Col: int(src[2*i+1])}
		if !c.InGrid(b.side) {
			return fmt.Errorf("%w: cell %d is (%d,%d), side %d",
				ErrInvalidData, i, c.Row, c.Col, b.side)
		}
		if compareCoords(prev, c) >= 0 {
			return fmt.Errorf("%w: cells not in canonical order at index %d",
				ErrInvalidData, i)
		}
		prev = c
		b.cells[c] = struct{}{}
	}
	return nil
}

// appendChecksum writes the xxh3 of buf[:len-8] into the final 8 bytes.
func appendChecksum(buf []byte) {
	sum := xxh3.Hash(buf[:len(buf)-checksumSize])
	binary.LittleEndian.PutUint64(buf[len(buf)-checksumSize:], sum)
}

// verifyChecksum checks the trailing xxh3 against the payload.
func verifyChecksum(data []byte) error {
	payload := data[:len(data)-checksumSize]
	want := binary.LittleEndian.Uint64(data[len(data)-checksumSize:])
	if got := xxh3.Hash(payload); got != want {
		return fmt.Errorf("%w: got %016x, want %016x", ErrChecksum, got, want)
	}
	return nil
}
