// Copyright 2026 The Dynamite Authors. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package tokenizer provides text tokenization via tiktoken BPE
// encodings.
//
// Example:
//
//	enc, err := tokenizer.New("cl100k_base")
//	ids := enc.Encode("hello world")
package tokenizer

import "github.com/dynamite-ml/dynamite/internal/tokenizer"

// Encoding names understood by tiktoken.
const (
	EncodingCL100kBase = tokenizer.EncodingCL100kBase
	EncodingP50kBase   = tokenizer.EncodingP50kBase
	EncodingR50kBase   = tokenizer.EncodingR50kBase
)

// Encoder wraps a tiktoken BPE encoding.
type Encoder = tokenizer.Encoder

// New creates an encoder for a named encoding, e.g. "cl100k_base".
func New(encodingName string) (*Encoder, error) {
	return tokenizer.New(encodingName)
}

// ForModel creates an encoder for a model name, e.g. "gpt-4".
func ForModel(modelName string) (*Encoder, error) {
	return tokenizer.ForModel(modelName)
}
