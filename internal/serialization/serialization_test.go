package serialization_test

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dynamite-ml/dynamite/internal/serialization"
	"github.com/dynamite-ml/dynamite/internal/tensor"
)

func raw(t *testing.T, shape tensor.Shape, values []float32) *tensor.RawTensor {
	t.Helper()
	r, err := tensor.NewRaw(shape, tensor.Float32, tensor.CPU)
	require.NoError(t, err)
	copy(r.AsFloat32(), values)
	return r
}

func TestWriteRead_RoundTrip(t *testing.T) {
	state := map[string]*tensor.RawTensor{
		"f.W": raw(t, tensor.Shape{2, 2}, []float32{1, 2, 3, 4}),
		"f.b": raw(t, tensor.Shape{2}, []float32{5, 6}),
	}

	var buf bytes.Buffer
	require.NoError(t, serialization.WriteStateDict(&buf, state, "Model", map[string]string{"run": "test"}))

	loaded, manifest, err := serialization.ReadFrom(&buf, tensor.CPU)
	require.NoError(t, err)

	assert.Equal(t, serialization.FormatVersion, manifest.FormatVersion)
	assert.Equal(t, "Model", manifest.ModelType)
	assert.Equal(t, "test", manifest.Metadata["run"])

	require.Len(t, loaded, 2)
	assert.Equal(t, []float32{1, 2, 3, 4}, loaded["f.W"].AsFloat32())
	assert.Equal(t, tensor.Shape{2, 2}, loaded["f.W"].Shape())
	assert.Equal(t, []float32{5, 6}, loaded["f.b"].AsFloat32())
}

func TestWrite_SortedNames(t *testing.T) {
	state := map[string]*tensor.RawTensor{
		"z": raw(t, tensor.Shape{1}, []float32{1}),
		"a": raw(t, tensor.Shape{1}, []float32{2}),
		"m": raw(t, tensor.Shape{1}, []float32{3}),
	}

	var buf bytes.Buffer
	require.NoError(t, serialization.WriteStateDict(&buf, state, "Model", nil))

	_, manifest, err := serialization.ReadFrom(&buf, tensor.CPU)
	require.NoError(t, err)

	names := make([]string, len(manifest.Tensors))
	for i, meta := range manifest.Tensors {
		names[i] = meta.Name
	}
	assert.Equal(t, []string{"a", "m", "z"}, names)
}

func TestWrite_Deterministic(t *testing.T) {
	state := map[string]*tensor.RawTensor{
		"W": raw(t, tensor.Shape{2}, []float32{1, 2}),
		"b": raw(t, tensor.Shape{1}, []float32{3}),
	}

	var first, second bytes.Buffer
	require.NoError(t, serialization.WriteStateDict(&first, state, "Model", nil))
	require.NoError(t, serialization.WriteStateDict(&second, state, "Model", nil))

	_, m1, err := serialization.ReadFrom(&first, tensor.CPU)
	require.NoError(t, err)
	_, m2, err := serialization.ReadFrom(&second, tensor.CPU)
	require.NoError(t, err)

	// Tensor layout is fixed for a given state dictionary.
	assert.Equal(t, m1.Tensors, m2.Tensors)
}

func TestRead_InvalidMagic(t *testing.T) {
	data := bytes.Repeat([]byte{0xAB}, 128)
	_, _, err := serialization.ReadFrom(bytes.NewReader(data), tensor.CPU)
	assert.ErrorIs(t, err, serialization.ErrInvalidMagic)
}

func TestRead_ChecksumMismatch(t *testing.T) {
	state := map[string]*tensor.RawTensor{
		"W": raw(t, tensor.Shape{2}, []float32{1, 2}),
	}

	var buf bytes.Buffer
	require.NoError(t, serialization.WriteStateDict(&buf, state, "Model", nil))

	// Flip a byte in the data section (the tail of the file).
	corrupted := buf.Bytes()
	corrupted[len(corrupted)-1] ^= 0xFF

	_, _, err := serialization.ReadFrom(bytes.NewReader(corrupted), tensor.CPU)
	assert.ErrorIs(t, err, serialization.ErrChecksumMismatch)
}

// rewriteManifest reparses a serialized state dictionary, applies edit to
// its manifest, and reassembles the container around the untouched data
// section.
func rewriteManifest(t *testing.T, data []byte, edit func(*serialization.Manifest)) []byte {
	t.Helper()

	manifestSize := int(binary.LittleEndian.Uint64(data[8:16]))
	manifestEnd := serialization.FixedHeaderSize + manifestSize
	var manifest serialization.Manifest
	require.NoError(t, json.Unmarshal(data[serialization.FixedHeaderSize:manifestEnd], &manifest))
	edit(&manifest)
	edited, err := json.Marshal(manifest)
	require.NoError(t, err)

	dataStart := manifestEnd + pad(manifestEnd)

	out := append([]byte(nil), data[:serialization.FixedHeaderSize]...)
	binary.LittleEndian.PutUint64(out[8:16], uint64(len(edited)))
	out = append(out, edited...)
	out = append(out, make([]byte, pad(serialization.FixedHeaderSize+len(edited)))...)
	return append(out, data[dataStart:]...)
}

func pad(pos int) int {
	return (serialization.HeaderAlignment - pos%serialization.HeaderAlignment) % serialization.HeaderAlignment
}

func TestRead_TensorSizeMismatch(t *testing.T) {
	state := map[string]*tensor.RawTensor{
		"W": raw(t, tensor.Shape{2}, []float32{1, 2}),
	}

	var buf bytes.Buffer
	require.NoError(t, serialization.WriteStateDict(&buf, state, "Model", nil))

	// Shrink the declared size without touching the data section: the
	// checksum still matches, so only the manifest check can catch it.
	doctored := rewriteManifest(t, buf.Bytes(), func(m *serialization.Manifest) {
		m.Tensors[0].Size -= 4
	})

	_, _, err := serialization.ReadFrom(bytes.NewReader(doctored), tensor.CPU)
	assert.ErrorIs(t, err, serialization.ErrTensorSizeMismatch)

	path := filepath.Join(t.TempDir(), "doctored.dynm")
	require.NoError(t, os.WriteFile(path, doctored, 0o644))
	_, err = serialization.NewReader(path)
	assert.ErrorIs(t, err, serialization.ErrTensorSizeMismatch)
}

func TestReader_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.dynm")
	state := map[string]*tensor.RawTensor{
		"f.W": raw(t, tensor.Shape{2}, []float32{7, 8}),
	}
	require.NoError(t, serialization.SaveStateDict(path, state, "Model", nil))

	reader, err := serialization.NewReader(path)
	require.NoError(t, err)
	defer func() { _ = reader.Close() }()

	assert.Equal(t, []string{"f.W"}, reader.TensorNames())

	meta, err := reader.TensorInfo("f.W")
	require.NoError(t, err)
	assert.Equal(t, serialization.DTypeFloat32, meta.DType)
	assert.Equal(t, []int{2}, meta.Shape)

	loaded, err := reader.ReadStateDict(tensor.CPU)
	require.NoError(t, err)
	assert.Equal(t, []float32{7, 8}, loaded["f.W"].AsFloat32())
}

func TestReader_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.dynm")
	state := map[string]*tensor.RawTensor{
		"W": raw(t, tensor.Shape{2}, []float32{1, 2}),
	}
	require.NoError(t, serialization.SaveStateDict(path, state, "Model", nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	data[len(data)-1] ^= 0xFF
	require.NoError(t, os.WriteFile(path, data, 0o644))

	_, err = serialization.NewReader(path)
	assert.ErrorIs(t, err, serialization.ErrChecksumMismatch)
}
