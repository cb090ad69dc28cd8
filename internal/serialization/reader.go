package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dynamite-ml/dynamite/internal/tensor"
)

// checkMeta validates one manifest entry against the data section: the
// tensor must lie within bounds and its declared size must match what
// its dtype and shape imply.
func checkMeta(meta TensorMeta, dataSize int64) (tensor.DataType, tensor.Shape, error) {
	dtype, ok := stringToDtype(meta.DType)
	if !ok {
		return 0, nil, fmt.Errorf("unsupported dtype: %s", meta.DType)
	}
	shape := tensor.Shape(meta.Shape)
	if err := shape.Validate(); err != nil {
		return 0, nil, fmt.Errorf("invalid shape for tensor %s: %w", meta.Name, err)
	}
	if meta.Offset < 0 || meta.Size < 0 || meta.Offset+meta.Size > dataSize {
		return 0, nil, fmt.Errorf("%w: tensor %q", ErrTensorOutOfBounds, meta.Name)
	}
	if expected := int64(shape.NumElements()) * int64(dtype.Size()); meta.Size != expected {
		return 0, nil, fmt.Errorf("%w: tensor %q declares %d bytes, shape implies %d",
			ErrTensorSizeMismatch, meta.Name, meta.Size, expected)
	}
	return dtype, shape, nil
}

// Reader reads .dynm checkpoint files.
type Reader struct {
	file       *os.File
	manifest   Manifest
	dataOffset int64
	dataSize   int64
	checksum   [32]byte
	closed     bool
}

// NewReader opens a .dynm file and validates its header and checksum.
func NewReader(path string) (*Reader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	r := &Reader{file: file}
	if err := r.parseHeader(); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to parse header: %w", err)
	}
	if err := r.validate(); err != nil {
		_ = file.Close()
		return nil, err
	}
	return r, nil
}

func (r *Reader) parseHeader() error {
	fixed := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(r.file, fixed); err != nil {
		return fmt.Errorf("failed to read fixed header: %w", err)
	}

	if string(fixed[0:4]) != MagicBytes {
		return ErrInvalidMagic
	}
	version := binary.LittleEndian.Uint32(fixed[4:8])
	if version != FormatVersion {
		return fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, FormatVersion)
	}

	manifestSize := binary.LittleEndian.Uint64(fixed[8:16])
	r.dataSize = int64(binary.LittleEndian.Uint64(fixed[16:24]))
	copy(r.checksum[:], fixed[ChecksumOffset:ChecksumOffset+ChecksumSize])

	if manifestSize > maxManifestSize {
		return ErrManifestTooLarge
	}

	manifestBytes := make([]byte, manifestSize)
	if _, err := io.ReadFull(r.file, manifestBytes); err != nil {
		return fmt.Errorf("failed to read manifest: %w", err)
	}
	if err := json.Unmarshal(manifestBytes, &r.manifest); err != nil {
		return fmt.Errorf("failed to parse manifest JSON: %w", err)
	}

	pos := int64(FixedHeaderSize) + int64(manifestSize)
	r.dataOffset = pos + padding(pos)
	return nil
}

// validate checks every manifest entry against the data section and
// verifies the checksum.
func (r *Reader) validate() error {
	for _, meta := range r.manifest.Tensors {
		if _, _, err := checkMeta(meta, r.dataSize); err != nil {
			return err
		}
	}

	data := make([]byte, r.dataSize)
	if _, err := r.file.Seek(r.dataOffset, io.SeekStart); err != nil {
		return fmt.Errorf("failed to seek to tensor data: %w", err)
	}
	if _, err := io.ReadFull(r.file, data); err != nil {
		return fmt.Errorf("failed to read tensor data: %w", err)
	}
	return ValidateChecksum(ComputeChecksum(data), r.checksum)
}

// Manifest returns the parsed file manifest.
func (r *Reader) Manifest() Manifest {
	return r.manifest
}

// TensorNames returns the names of all tensors in the file, in manifest
// order.
func (r *Reader) TensorNames() []string {
	names := make([]string, len(r.manifest.Tensors))
	for i, meta := range r.manifest.Tensors {
		names[i] = meta.Name
	}
	return names
}

// TensorInfo returns the manifest entry for a named tensor.
func (r *Reader) TensorInfo(name string) (*TensorMeta, error) {
	for _, meta := range r.manifest.Tensors {
		if meta.Name == name {
			return &meta, nil
		}
	}
	return nil, fmt.Errorf("tensor %s not found", name)
}

// LoadTensor reads one tensor from the file onto the given device.
func (r *Reader) LoadTensor(name string, device tensor.Device) (*tensor.RawTensor, error) {
	if r.closed {
		return nil, fmt.Errorf("reader is closed")
	}

	meta, err := r.TensorInfo(name)
	if err != nil {
		return nil, err
	}
	dtype, shape, err := checkMeta(*meta, r.dataSize)
	if err != nil {
		return nil, err
	}

	if _, err := r.file.Seek(r.dataOffset+meta.Offset, io.SeekStart); err != nil {
		return nil, fmt.Errorf("failed to seek to tensor data: %w", err)
	}

	raw, err := tensor.NewRaw(shape, dtype, device)
	if err != nil {
		return nil, fmt.Errorf("failed to create tensor: %w", err)
	}
	if _, err := io.ReadFull(r.file, raw.Data()); err != nil {
		return nil, fmt.Errorf("failed to read tensor %s: %w", name, err)
	}
	return raw, nil
}

// ReadStateDict reads every tensor in the file onto the given device.
func (r *Reader) ReadStateDict(device tensor.Device) (map[string]*tensor.RawTensor, error) {
	if r.closed {
		return nil, fmt.Errorf("reader is closed")
	}

	stateDict := make(map[string]*tensor.RawTensor, len(r.manifest.Tensors))
	for _, meta := range r.manifest.Tensors {
		raw, err := r.LoadTensor(meta.Name, device)
		if err != nil {
			return nil, fmt.Errorf("failed to load tensor %s: %w", meta.Name, err)
		}
		stateDict[meta.Name] = raw
	}
	return stateDict, nil
}

// Close closes the underlying file.
func (r *Reader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	return r.file.Close()
}

// ReadFrom reads a state dictionary from a stream. Useful for buffers and
// network connections; checksum validation applies as for files.
func ReadFrom(reader io.Reader, device tensor.Device) (map[string]*tensor.RawTensor, Manifest, error) {
	fixed := make([]byte, FixedHeaderSize)
	if _, err := io.ReadFull(reader, fixed); err != nil {
		return nil, Manifest{}, fmt.Errorf("failed to read fixed header: %w", err)
	}
	if string(fixed[0:4]) != MagicBytes {
		return nil, Manifest{}, ErrInvalidMagic
	}
	version := binary.LittleEndian.Uint32(fixed[4:8])
	if version != FormatVersion {
		return nil, Manifest{}, fmt.Errorf("%w: got %d, expected %d", ErrUnsupportedVersion, version, FormatVersion)
	}

	manifestSize := binary.LittleEndian.Uint64(fixed[8:16])
	dataSize := int64(binary.LittleEndian.Uint64(fixed[16:24]))
	var stored [32]byte
	copy(stored[:], fixed[ChecksumOffset:ChecksumOffset+ChecksumSize])

	if manifestSize > maxManifestSize {
		return nil, Manifest{}, ErrManifestTooLarge
	}

	manifestBytes := make([]byte, manifestSize)
	if _, err := io.ReadFull(reader, manifestBytes); err != nil {
		return nil, Manifest{}, fmt.Errorf("failed to read manifest: %w", err)
	}
	var manifest Manifest
	if err := json.Unmarshal(manifestBytes, &manifest); err != nil {
		return nil, Manifest{}, fmt.Errorf("failed to parse manifest JSON: %w", err)
	}

	pos := int64(FixedHeaderSize) + int64(manifestSize)
	if pad := padding(pos); pad > 0 {
		if _, err := io.CopyN(io.Discard, reader, pad); err != nil {
			return nil, Manifest{}, fmt.Errorf("failed to skip padding: %w", err)
		}
	}

	data := make([]byte, dataSize)
	if _, err := io.ReadFull(reader, data); err != nil {
		return nil, Manifest{}, fmt.Errorf("failed to read tensor data: %w", err)
	}
	if err := ValidateChecksum(ComputeChecksum(data), stored); err != nil {
		return nil, Manifest{}, err
	}

	stateDict := make(map[string]*tensor.RawTensor, len(manifest.Tensors))
	for _, meta := range manifest.Tensors {
		dtype, shape, err := checkMeta(meta, dataSize)
		if err != nil {
			return nil, Manifest{}, err
		}

		raw, err := tensor.NewRaw(shape, dtype, device)
		if err != nil {
			return nil, Manifest{}, fmt.Errorf("failed to create tensor: %w", err)
		}
		copy(raw.Data(), data[meta.Offset:meta.Offset+meta.Size])
		stateDict[meta.Name] = raw
	}

	return stateDict, manifest, nil
}
