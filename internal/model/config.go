// Package model assembles the feed-forward image classifier from nn
// modules and runs it.
package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// ErrInvalidConfig is wrapped by every Config validation error.
var ErrInvalidConfig = errors.New("invalid model config")

// Supported hidden-layer activations.
const (
	ActivationReLU    = "relu"
	ActivationSigmoid = "sigmoid"
	ActivationTanh    = "tanh"
)

// Config describes the classifier architecture:
//
//	Flatten → Linear(InputSize, HiddenSizes[0]) → act → ... → Linear(.., OutputSize)
type Config struct {
	InputSize   int    `json:"input_size"`
	HiddenSizes []int  `json:"hidden_sizes"`
	OutputSize  int    `json:"output_size"`
	Activation  string `json:"activation"`
}

// DefaultConfig returns the 28×28 grayscale, 10-class network:
// 784 → 512 → 512 → 10 with ReLU.
func DefaultConfig() Config {
	return Config{
		InputSize:   784,
		HiddenSizes: []int{512, 512},
		OutputSize:  10,
		Activation:  ActivationReLU,
	}
}

// Validate reports the first problem with c.
func (c Config) Validate() error {
	if c.InputSize <= 0 {
		return fmt.Errorf("%w: input_size must be positive, got %d", ErrInvalidConfig, c.InputSize)
	}
	if c.OutputSize <= 0 {
		return fmt.Errorf("%w: output_size must be positive, got %d", ErrInvalidConfig, c.OutputSize)
	}
	for i, h := range c.HiddenSizes {
		if h <= 0 {
			return fmt.Errorf("%w: hidden_sizes[%d] must be positive, got %d", ErrInvalidConfig, i, h)
		}
	}
	switch c.Activation {
	case ActivationReLU, ActivationSigmoid, ActivationTanh:
	default:
		return fmt.Errorf("%w: unknown activation %q", ErrInvalidConfig, c.Activation)
	}
	return nil
}

// LoadConfig reads a JSON config file. Fields absent from the file keep
// their DefaultConfig values; unknown fields are rejected.
func LoadConfig(path string) (Config, error) {
	//nolint:gosec // G304: config path is user input
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config: %w", err)
	}
	return ParseConfig(data)
}

// ParseConfig decodes and validates a JSON config.
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
