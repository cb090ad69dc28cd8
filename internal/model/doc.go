// Package model is the composition layer of Dynamite: it bundles forward
// computations with introspectable trees of named trainable parameters.
//
// A model pairs a plain Go function with a shared *Params registry. Models
// of every arity (Unary through Quaternary, sequence and folding variants)
// carry the same registry surface: lookup by name, nested-registry lookup,
// recursive collection, diagnostic logging, and checkpoint save/restore.
//
// Combinators build bigger models out of smaller ones without any new
// numerical behavior:
//
//	embed := layers.Embedding(vocab, dim, backend)
//	head := layers.Dense(dim, classes, nil, backend)
//	m := embed.Then(head)
//	pooled := model.Sum(model.Map(m).Forward(batch))
//
// All tensor math is delegated to the engine behind tensor.Backend.
package model
