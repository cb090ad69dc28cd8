package serialization

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/dynamite-ml/dynamite/internal/tensor"
)

const libraryVersion = "0.1.0"

// WriteStateDict writes a state dictionary to w in .dynm format.
//
// Tensors are laid out in sorted-name order so the output is
// deterministic for a given state dictionary.
func WriteStateDict(w io.Writer, stateDict map[string]*tensor.RawTensor, modelType string, metadata map[string]string) error {
	manifest := Manifest{
		FormatVersion:  FormatVersion,
		LibraryVersion: libraryVersion,
		ModelType:      modelType,
		CreatedAt:      time.Now().UTC(),
		Tensors:        make([]TensorMeta, 0, len(stateDict)),
		Metadata:       metadata,
	}
	if manifest.Metadata == nil {
		manifest.Metadata = make(map[string]string)
	}

	names := make([]string, 0, len(stateDict))
	for name := range stateDict {
		names = append(names, name)
	}
	sort.Strings(names)

	var data []byte
	var offset int64
	for _, name := range names {
		raw := stateDict[name]
		size := int64(raw.NumElements() * raw.DType().Size())
		manifest.Tensors = append(manifest.Tensors, TensorMeta{
			Name:   name,
			DType:  dtypeToString(raw.DType()),
			Shape:  []int(raw.Shape()),
			Offset: offset,
			Size:   size,
		})
		data = append(data, raw.Data()...)
		offset += size
	}

	checksum := ComputeChecksum(data)

	manifestJSON, err := json.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	// Fixed header layout:
	//   0x00-0x03 magic "DYNM"
	//   0x04-0x07 format version
	//   0x08-0x0F manifest size
	//   0x10-0x17 data size
	//   0x20-0x3F SHA-256 checksum of the data section
	fixed := make([]byte, FixedHeaderSize)
	copy(fixed[0:4], MagicBytes)
	binary.LittleEndian.PutUint32(fixed[4:8], uint32(FormatVersion))
	binary.LittleEndian.PutUint64(fixed[8:16], uint64(len(manifestJSON)))
	binary.LittleEndian.PutUint64(fixed[16:24], uint64(len(data)))
	copy(fixed[ChecksumOffset:ChecksumOffset+ChecksumSize], checksum[:])

	if _, err := w.Write(fixed); err != nil {
		return fmt.Errorf("failed to write fixed header: %w", err)
	}
	if _, err := w.Write(manifestJSON); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	if pad := padding(int64(FixedHeaderSize) + int64(len(manifestJSON))); pad > 0 {
		if _, err := w.Write(make([]byte, pad)); err != nil {
			return fmt.Errorf("failed to write padding: %w", err)
		}
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write tensor data: %w", err)
	}

	return nil
}

// SaveStateDict writes a state dictionary to a new file at path.
func SaveStateDict(path string, stateDict map[string]*tensor.RawTensor, modelType string, metadata map[string]string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}

	if err := WriteStateDict(file, stateDict, modelType, metadata); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
