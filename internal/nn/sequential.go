package nn

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/born-ml/quickstart/internal/tensor"
)

// Sequential is a container module that chains multiple modules together.
//
// Each module's output becomes the next module's input:
//
//	model := nn.NewSequential(
//	    nn.NewFlatten[B](),
//	    nn.NewLinear(784, 512, backend),
//	    nn.NewReLU[B](),
//	    nn.NewLinear(512, 10, backend),
//	)
//
// A Sequential is itself a Module, so containers nest. Splitting the module
// list at any point and running the halves one after the other produces
// the same output as running the whole list.
type Sequential[B tensor.Backend] struct {
	modules []Module[B]
}

// NewSequential creates a new Sequential container.
func NewSequential[B tensor.Backend](modules ...Module[B]) *Sequential[B] {
	return &Sequential[B]{
		modules: modules,
	}
}

// Forward applies all modules in sequence. An empty Sequential returns its
// input unchanged.
func (s *Sequential[B]) Forward(input *tensor.Tensor[float32, B]) *tensor.Tensor[float32, B] {
	output := input
	for _, module := range s.modules {
		output = module.Forward(output)
	}
	return output
}

// Parameters returns all trainable parameters from all modules, in order.
func (s *Sequential[B]) Parameters() []*Parameter[B] {
	params := []*Parameter[B]{}
	for _, module := range s.modules {
		params = append(params, module.Parameters()...)
	}
	return params
}

// Add appends a module to the sequence.
func (s *Sequential[B]) Add(module Module[B]) {
	s.modules = append(s.modules, module)
}

// Len returns the number of modules in the sequence.
func (s *Sequential[B]) Len() int {
	return len(s.modules)
}

// Module returns the module at index i. Panics if i is out of range.
func (s *Sequential[B]) Module(i int) Module[B] {
	return s.modules[i]
}

// Modules returns a copy of the module list.
func (s *Sequential[B]) Modules() []Module[B] {
	out := make([]Module[B], len(s.modules))
	copy(out, s.modules)
	return out
}

// StateDict returns parameters keyed by "<index>.<name>", e.g. "0.weight".
func (s *Sequential[B]) StateDict() map[string]*tensor.RawTensor {
	stateDict := make(map[string]*tensor.RawTensor)
	for i, module := range s.modules {
		prefix := strconv.Itoa(i) + "."
		for name, raw := range module.StateDict() {
			stateDict[prefix+name] = raw
		}
	}
	return stateDict
}

// LoadStateDict loads parameters into each module by index prefix.
//
// Every child is validated before any child is written, so a failed load
// leaves the whole container unchanged.
func (s *Sequential[B]) LoadStateDict(stateDict map[string]*tensor.RawTensor) error {
	if err := s.validateStateDict(stateDict); err != nil {
		return err
	}
	for i, module := range s.modules {
		if err := module.LoadStateDict(childStateDict(stateDict, i)); err != nil {
			return fmt.Errorf("module %d: %w", i, err)
		}
	}
	return nil
}

func (s *Sequential[B]) validateStateDict(stateDict map[string]*tensor.RawTensor) error {
	for i, module := range s.modules {
		v, ok := module.(stateValidator)
		if !ok {
			continue
		}
		if err := v.validateStateDict(childStateDict(stateDict, i)); err != nil {
			return fmt.Errorf("module %d: %w", i, err)
		}
	}
	return nil
}

// childStateDict returns the entries of stateDict under "<i>." with the
// prefix removed.
func childStateDict(stateDict map[string]*tensor.RawTensor, i int) map[string]*tensor.RawTensor {
	prefix := strconv.Itoa(i) + "."
	sub := make(map[string]*tensor.RawTensor)
	for name, raw := range stateDict {
		if rest, ok := strings.CutPrefix(name, prefix); ok {
			sub[rest] = raw
		}
	}
	return sub
}

// String renders the container the way PyTorch prints a model:
//
//	Sequential(
//	  (0): Flatten(start_dim=1, end_dim=-1)
//	  (1): Linear(in_features=784, out_features=512, bias=true)
//	)
func (s *Sequential[B]) String() string {
	var sb strings.Builder
	sb.WriteString("Sequential(\n")
	for i, module := range s.modules {
		child := strings.ReplaceAll(module.String(), "\n", "\n  ")
		fmt.Fprintf(&sb, "  (%d): %s\n", i, child)
	}
	sb.WriteString(")")
	return sb.String()
}
