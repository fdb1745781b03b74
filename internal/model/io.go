package model

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/born-ml/quickstart/internal/serialization"
	"github.com/born-ml/quickstart/internal/tensor"
)

// Metadata keys written alongside the weights.
const (
	MetaFormat = "format"
	MetaConfig = "config"
	MetaID     = "model_id"
)

// Save writes the classifier weights to path in SafeTensors format.
// The config and model ID are stored in the file metadata so Load can
// rebuild the architecture.
func (c *Classifier[B]) Save(path string) error {
	cfgJSON, err := json.Marshal(c.cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	metadata := map[string]string{
		MetaFormat: "pt",
		MetaConfig: string(cfgJSON),
		MetaID:     c.id.String(),
	}
	if err := serialization.WriteFile(path, c.network.StateDict(), metadata); err != nil {
		return fmt.Errorf("failed to save model: %w", err)
	}
	return nil
}

// Load rebuilds a classifier saved with Save.
func Load[B tensor.Backend](path string, backend B) (*Classifier[B], error) {
	f, err := serialization.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}

	rawCfg, ok := f.Metadata[MetaConfig]
	if !ok {
		return nil, fmt.Errorf("failed to load model: %s has no %q metadata", path, MetaConfig)
	}
	cfg, err := ParseConfig([]byte(rawCfg))
	if err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}

	c, err := NewClassifier(cfg, backend)
	if err != nil {
		return nil, err
	}
	if err := c.LoadWeights(f.Tensors); err != nil {
		return nil, fmt.Errorf("failed to load model: %w", err)
	}

	if rawID, ok := f.Metadata[MetaID]; ok {
		id, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("failed to load model: bad %s: %w", MetaID, err)
		}
		c.id = id
	}

	return c, nil
}

// LoadWeights copies a state dict into the classifier. The dict must
// contain exactly the classifier's parameters with matching shapes.
func (c *Classifier[B]) LoadWeights(stateDict map[string]*tensor.RawTensor) error {
	own := c.network.StateDict()
	var extra []string
	for name := range stateDict {
		if _, ok := own[name]; !ok {
			extra = append(extra, name)
		}
	}
	if len(extra) > 0 {
		sort.Strings(extra)
		return fmt.Errorf("unexpected parameters %v", extra)
	}
	return c.network.LoadStateDict(stateDict)
}
