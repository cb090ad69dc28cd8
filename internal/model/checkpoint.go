package model

import (
	"fmt"

	"github.com/dynamite-ml/dynamite/internal/serialization"
	"github.com/dynamite-ml/dynamite/internal/tensor"
)

// StateDict returns every reachable parameter tensor keyed by its fully
// qualified registry path. A parameter shared between branches appears
// once, under the first path that reaches it. Qualified names are
// implanted as a side effect.
func (m *base[B]) StateDict() map[string]*tensor.RawTensor {
	state := make(map[string]*tensor.RawTensor)
	seen := make(map[*Parameter[B]]struct{})
	collectState(m.params, "", seen, state)
	return state
}

func collectState[B tensor.Backend](p *Params[B], prefix string, seen map[*Parameter[B]]struct{}, state map[string]*tensor.RawTensor) {
	for _, param := range p.ordered {
		if _, dup := seen[param]; dup {
			continue
		}
		seen[param] = struct{}{}
		qualified := prefix + param.Name()
		param.setQualified(qualified)
		state[qualified] = param.Tensor().Raw()
	}
	for _, n := range p.nestedOrdered {
		collectState(n.Params, prefix+n.Name+".", seen, state)
	}
}

// LoadStateDict copies stored tensors into the model's parameters,
// matching by qualified path. Every parameter must be present in the
// state with matching shape and dtype; unknown extra entries are an
// error.
func (m *base[B]) LoadStateDict(state map[string]*tensor.RawTensor) error {
	own := m.StateDict()

	for name, dst := range own {
		src, ok := state[name]
		if !ok {
			return fmt.Errorf("missing parameter %q in state dict", name)
		}
		if !src.Shape().Equal(dst.Shape()) {
			return fmt.Errorf("shape mismatch for %q: got %v, expected %v", name, src.Shape(), dst.Shape())
		}
		if src.DType() != dst.DType() {
			return fmt.Errorf("dtype mismatch for %q: got %s, expected %s", name, src.DType(), dst.DType())
		}
		copy(dst.Data(), src.Data())
	}

	for name := range state {
		if _, ok := own[name]; !ok {
			return fmt.Errorf("unexpected parameter %q in state dict", name)
		}
	}
	return nil
}

// Save writes all collected parameters to a .dynm checkpoint at path.
func (m *base[B]) Save(path string) error {
	if err := serialization.SaveStateDict(path, m.StateDict(), "Model", nil); err != nil {
		return fmt.Errorf("failed to save model: %w", err)
	}
	return nil
}

// Restore loads a .dynm checkpoint from path into the model's parameters.
// The model must be pre-constructed with the same architecture as when
// the checkpoint was saved.
func (m *base[B]) Restore(path string) error {
	reader, err := serialization.NewReader(path)
	if err != nil {
		return fmt.Errorf("failed to open checkpoint: %w", err)
	}
	defer func() { _ = reader.Close() }()

	// Restored tensors go wherever the model's parameters already live.
	// A parameterless model has nothing to copy into; CPU is fine.
	device := tensor.CPU
	for _, raw := range m.StateDict() {
		device = raw.Device()
		break
	}

	state, err := reader.ReadStateDict(device)
	if err != nil {
		return fmt.Errorf("failed to read checkpoint: %w", err)
	}
	return m.LoadStateDict(state)
}
