// Package tokenizer turns text into token id sequences suitable for
// embedding lookup.
package tokenizer

import (
	"fmt"

	"github.com/pkoukk/tiktoken-go"
)

// Encoding names understood by tiktoken.
const (
	EncodingCL100kBase = "cl100k_base" // GPT-4, GPT-3.5-turbo
	EncodingP50kBase   = "p50k_base"   // GPT-3, Codex
	EncodingR50kBase   = "r50k_base"   // older GPT-3 models
)

// Encoder wraps a tiktoken BPE encoding.
type Encoder struct {
	encoding *tiktoken.Tiktoken
	name     string
}

// New creates an encoder for a named encoding, e.g. "cl100k_base".
func New(encodingName string) (*Encoder, error) {
	encoding, err := tiktoken.GetEncoding(encodingName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken encoding %q: %w", encodingName, err)
	}
	return &Encoder{encoding: encoding, name: encodingName}, nil
}

// ForModel creates an encoder for a model name, e.g. "gpt-4".
func ForModel(modelName string) (*Encoder, error) {
	encoding, err := tiktoken.EncodingForModel(modelName)
	if err != nil {
		return nil, fmt.Errorf("failed to load tiktoken for model %q: %w", modelName, err)
	}
	return &Encoder{encoding: encoding, name: modelName}, nil
}

// Encode converts text to token ids.
func (e *Encoder) Encode(text string) []int32 {
	tokens := e.encoding.Encode(text, nil, nil)
	ids := make([]int32, len(tokens))
	for i, tok := range tokens {
		ids[i] = int32(tok)
	}
	return ids
}

// Decode converts token ids back to text.
func (e *Encoder) Decode(ids []int32) string {
	tokens := make([]int, len(ids))
	for i, id := range ids {
		tokens[i] = int(id)
	}
	return e.encoding.Decode(tokens)
}

// VocabSize returns the vocabulary size of the encoding. tiktoken does
// not expose it directly, so known encodings are hard-coded.
func (e *Encoder) VocabSize() int {
	switch e.name {
	case EncodingCL100kBase:
		return 100256
	case EncodingP50kBase, EncodingR50kBase:
		return 50257
	default:
		return 100000
	}
}

// EOSToken returns the <|endoftext|> token id, or -1 if unknown.
func (e *Encoder) EOSToken() int32 {
	switch e.name {
	case EncodingCL100kBase:
		return 100257
	case EncodingP50kBase, EncodingR50kBase:
		return 50256
	default:
		return -1
	}
}

// Name returns the encoding name.
func (e *Encoder) Name() string { return e.name }
