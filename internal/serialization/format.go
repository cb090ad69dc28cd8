package serialization

import (
	"time"

	"github.com/dynamite-ml/dynamite/internal/tensor"
)

// Format constants.
const (
	MagicBytes      = "DYNM"
	FormatVersion   = 1
	HeaderAlignment = 64   // tensor data starts on a 64-byte boundary
	FixedHeaderSize = 64   // fixed header size (0x40 bytes)
	ChecksumSize    = 32   // SHA-256
	ChecksumOffset  = 0x20 // checksum offset within the fixed header

	// Manifests are small; anything past this is a corrupt size field.
	maxManifestSize = 100 * 1024 * 1024
)

// Data type names used in the manifest.
const (
	DTypeFloat32 = "float32"
	DTypeFloat64 = "float64"
	DTypeInt32   = "int32"
	DTypeInt64   = "int64"
)

// Manifest is the JSON section of a .dynm file.
type Manifest struct {
	FormatVersion  int               `json:"format_version"`
	LibraryVersion string            `json:"dynamite_version"`
	ModelType      string            `json:"model_type"`
	CreatedAt      time.Time         `json:"created_at"`
	Tensors        []TensorMeta      `json:"tensors"`
	Metadata       map[string]string `json:"metadata"`
}

// TensorMeta describes one tensor in the data section.
type TensorMeta struct {
	Name   string `json:"name"`   // fully qualified parameter path
	DType  string `json:"dtype"`  // "float32", "float64", ...
	Shape  []int  `json:"shape"`
	Offset int64  `json:"offset"` // bytes from the start of the data section
	Size   int64  `json:"size"`   // bytes
}

func dtypeToString(dt tensor.DataType) string {
	switch dt {
	case tensor.Float32:
		return DTypeFloat32
	case tensor.Float64:
		return DTypeFloat64
	case tensor.Int32:
		return DTypeInt32
	case tensor.Int64:
		return DTypeInt64
	default:
		return "unknown"
	}
}

func stringToDtype(s string) (tensor.DataType, bool) {
	switch s {
	case DTypeFloat32:
		return tensor.Float32, true
	case DTypeFloat64:
		return tensor.Float64, true
	case DTypeInt32:
		return tensor.Int32, true
	case DTypeInt64:
		return tensor.Int64, true
	default:
		return 0, false
	}
}

// padding returns how many zero bytes follow a section ending at pos so
// the next section starts aligned.
func padding(pos int64) int64 {
	return (HeaderAlignment - (pos % HeaderAlignment)) % HeaderAlignment
}
