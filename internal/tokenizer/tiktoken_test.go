package tokenizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The tiktoken library fetches encoding files on first use; skip when
// they are unavailable rather than failing offline runs.
func newEncoder(t *testing.T, name string) *Encoder {
	t.Helper()
	enc, err := New(name)
	if err != nil {
		t.Skipf("tiktoken encoding %q unavailable: %v", name, err)
	}
	return enc
}

func TestNew_InvalidEncoding(t *testing.T) {
	enc, err := New("no_such_encoding")
	assert.Error(t, err)
	assert.Nil(t, enc)
}

func TestEncoder_Roundtrip(t *testing.T) {
	enc := newEncoder(t, EncodingCL100kBase)

	texts := []string{
		"hello world",
		"Dynamite composes models out of functions.",
		"",
	}
	for _, text := range texts {
		ids := enc.Encode(text)
		assert.Equal(t, text, enc.Decode(ids))
	}
}

func TestEncoder_Metadata(t *testing.T) {
	enc := newEncoder(t, EncodingCL100kBase)

	assert.Equal(t, EncodingCL100kBase, enc.Name())
	assert.Equal(t, 100256, enc.VocabSize())
	assert.Equal(t, int32(100257), enc.EOSToken())

	ids := enc.Encode("hello world")
	require.NotEmpty(t, ids)
	for _, id := range ids {
		assert.GreaterOrEqual(t, id, int32(0))
		assert.Less(t, int(id), enc.VocabSize())
	}
}
