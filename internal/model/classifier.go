package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/born-ml/quickstart/internal/nn"
	"github.com/born-ml/quickstart/internal/tensor"
)

// Classifier is a feed-forward network mapping a batch of images to class
// logits.
//
// Architecture (DefaultConfig):
//   - Flatten: [batch, 28, 28] → [batch, 784]
//   - Linear 784 → 512, ReLU
//   - Linear 512 → 512, ReLU
//   - Linear 512 → 10 (logits)
//
// A Classifier is safe for concurrent use: the forward pass only reads
// its parameters.
type Classifier[B tensor.Backend] struct {
	cfg     Config
	id      uuid.UUID
	network *nn.Sequential[B]
}

// NewClassifier builds a freshly initialized classifier from cfg.
func NewClassifier[B tensor.Backend](cfg Config, backend B) (*Classifier[B], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	network := nn.NewSequential[B](nn.NewFlatten[B]())
	in := cfg.InputSize
	for _, hidden := range cfg.HiddenSizes {
		network.Add(nn.NewLinear(in, hidden, backend))
		network.Add(newActivation[B](cfg.Activation))
		in = hidden
	}
	network.Add(nn.NewLinear(in, cfg.OutputSize, backend))

	return &Classifier[B]{
		cfg:     cfg,
		id:      uuid.New(),
		network: network,
	}, nil
}

func newActivation[B tensor.Backend](name string) nn.Module[B] {
	switch name {
	case ActivationSigmoid:
		return nn.NewSigmoid[B]()
	case ActivationTanh:
		return nn.NewTanh[B]()
	default:
		return nn.NewReLU[B]()
	}
}

// Config returns the architecture the classifier was built from.
func (c *Classifier[B]) Config() Config {
	return c.cfg
}

// ID identifies this set of weights. It is stored with saved models.
func (c *Classifier[B]) ID() uuid.UUID {
	return c.id
}

// Network returns the underlying module pipeline.
func (c *Classifier[B]) Network() *nn.Sequential[B] {
	return c.network
}

// NamedParameters lists the parameters in forward order with their
// state-dict names.
func (c *Classifier[B]) NamedParameters() []nn.NamedParameter[B] {
	return nn.NamedParameters[B](c.network)
}

// NumParameters returns the total number of scalar parameters.
func (c *Classifier[B]) NumParameters() int {
	return nn.CountParameters[B](c.network)
}

// Summary renders the network structure followed by its parameters:
//
//	Sequential(
//	  (0): Flatten(start_dim=1, end_dim=-1)
//	  ...
//	)
//	1.weight  [512 784]
//	...
//	Total parameters: 669706
func (c *Classifier[B]) Summary() string {
	var sb strings.Builder
	sb.WriteString(c.network.String())
	sb.WriteByte('\n')

	named := c.NamedParameters()
	width := 0
	for _, np := range named {
		width = max(width, len(np.Name))
	}
	for _, np := range named {
		fmt.Fprintf(&sb, "%-*s  %v\n", width, np.Name, np.Parameter.Shape())
	}
	fmt.Fprintf(&sb, "Total parameters: %d", c.NumParameters())
	return sb.String()
}
