package punchbloom

import "errors"

var (
	// ErrInvalidParameter is returned when a numeric parameter (k, pitch,
	// radius, side) is outside its allowed range.
	ErrInvalidParameter = errors.New("punchbloom: invalid parameter")

	// ErrInvalidCoordinate is returned when a coordinate lies outside the
	// grid it is presented against.
	ErrInvalidCoordinate = errors.New("punchbloom: coordinate outside grid")

	// ErrGridMismatch is returned when a bitmap and a supplied configuration
	// disagree about the grid side.
	ErrGridMismatch = errors.New("punchbloom: grid side mismatch")

	// ErrGeometryOverlap is returned when a hole/peg radius is too large for
	// the pitch, so adjacent features would touch.
	ErrGeometryOverlap = errors.New("punchbloom: feature radius exceeds half the pitch")

	// ErrInvalidData is returned when serialized data is invalid or corrupted.
	ErrInvalidData = errors.New("punchbloom: invalid serialized data")

	// ErrUnsupportedVersion is returned when the serialization version is not
	// supported.
	ErrUnsupportedVersion = errors.New("punchbloom: unsupported serialization version")

	// ErrChecksum is returned when the serialized payload fails its
	// integrity check.
	ErrChecksum = errors.New("punchbloom: checksum mismatch")
)
