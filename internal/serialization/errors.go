package serialization

import "errors"

// Common errors.
var (
	ErrInvalidMagic       = errors.New("invalid magic bytes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrManifestTooLarge   = errors.New("manifest exceeds maximum size")
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrTensorOutOfBounds  = errors.New("tensor extends beyond data section")
	ErrTensorSizeMismatch = errors.New("tensor size inconsistent with dtype and shape")
)
