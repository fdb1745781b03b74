package nn

import (
	"fmt"
	"strconv"

	"github.com/born-ml/quickstart/internal/tensor"
)

// NamedParameter pairs a parameter with its dotted path in the module tree.
type NamedParameter[B tensor.Backend] struct {
	Name      string
	Parameter *Parameter[B]
}

// NamedParameters walks module and returns every parameter with its
// dotted name ("0.weight", "2.bias", ...) in forward order.
//
// Names match the keys of module.StateDict().
func NamedParameters[B tensor.Backend](module Module[B]) []NamedParameter[B] {
	return appendNamed(nil, "", module)
}

func appendNamed[B tensor.Backend](out []NamedParameter[B], prefix string, module Module[B]) []NamedParameter[B] {
	if seq, ok := module.(*Sequential[B]); ok {
		for i, child := range seq.modules {
			out = appendNamed(out, prefix+strconv.Itoa(i)+".", child)
		}
		return out
	}
	for _, p := range module.Parameters() {
		out = append(out, NamedParameter[B]{Name: prefix + p.Name(), Parameter: p})
	}
	return out
}

// CountParameters returns the total number of scalar parameters in module.
func CountParameters[B tensor.Backend](module Module[B]) int {
	total := 0
	for _, p := range module.Parameters() {
		total += p.NumElements()
	}
	return total
}

func stateDictOf[B tensor.Backend](params []*Parameter[B]) map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor, len(params))
	for _, p := range params {
		stateDict[p.Name()] = p.Tensor().Raw()
	}
	return stateDict
}

// stateValidator is implemented by modules that can check a state dict
// without writing to their parameters.
type stateValidator interface {
	validateStateDict(stateDict map[string]*tensor.RawTensor) error
}

// loadParameters copies each parameter's entry from stateDict after
// checking shape and dtype. Nothing is written unless every entry matches.
func loadParameters[B tensor.Backend](params []*Parameter[B], stateDict map[string]*tensor.RawTensor) error {
	if err := validateParameters(params, stateDict); err != nil {
		return err
	}
	for _, p := range params {
		copy(p.Tensor().Data(), stateDict[p.Name()].AsFloat32())
	}
	return nil
}

func validateParameters[B tensor.Backend](params []*Parameter[B], stateDict map[string]*tensor.RawTensor) error {
	for _, p := range params {
		src, ok := stateDict[p.Name()]
		if !ok {
			return fmt.Errorf("missing parameter %q in state dict", p.Name())
		}
		if src.DType() != tensor.Float32 {
			return fmt.Errorf("parameter %q: dtype %s, expected %s", p.Name(), src.DType(), tensor.Float32)
		}
		if !src.Shape().Equal(p.Shape()) {
			return fmt.Errorf("parameter %q: %w", p.Name(),
				tensor.NewShapeError("load", src.Shape(), "%v", p.Shape()))
		}
	}
	return nil
}
