package model

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/quickstart/internal/backend/cpu"
	"github.com/born-ml/quickstart/internal/nn"
	"github.com/born-ml/quickstart/internal/serialization"
	"github.com/born-ml/quickstart/internal/tensor"
)

type backend = *cpu.CPUBackend

func newDefault(t *testing.T) *Classifier[backend] {
	t.Helper()
	c, err := NewClassifier(DefaultConfig(), cpu.New())
	require.NoError(t, err)
	return c
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, 784, cfg.InputSize)
	assert.Equal(t, []int{512, 512}, cfg.HiddenSizes)
	assert.Equal(t, 10, cfg.OutputSize)
	assert.Equal(t, ActivationReLU, cfg.Activation)
	assert.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"zero input", func(c *Config) { c.InputSize = 0 }, "input_size must be positive"},
		{"negative output", func(c *Config) { c.OutputSize = -1 }, "output_size must be positive"},
		{"zero hidden", func(c *Config) { c.HiddenSizes = []int{512, 0} }, "hidden_sizes[1]"},
		{"unknown activation", func(c *Config) { c.Activation = "gelu" }, `unknown activation "gelu"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}

	noHidden := DefaultConfig()
	noHidden.HiddenSizes = nil
	assert.NoError(t, noHidden.Validate())
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()

	t.Run("partial file keeps defaults", func(t *testing.T) {
		path := filepath.Join(dir, "partial.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"hidden_sizes": [128], "activation": "tanh"}`), 0o600))

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, Config{InputSize: 784, HiddenSizes: []int{128}, OutputSize: 10, Activation: "tanh"}, cfg)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, err := ParseConfig([]byte(`{"hidden": [128]}`))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := ParseConfig([]byte(`{"output_size": 0}`))
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadConfig(filepath.Join(dir, "missing.json"))
		assert.Error(t, err)
	})
}

func TestNewClassifier_Structure(t *testing.T) {
	c := newDefault(t)
	network := c.Network()

	require.Equal(t, 6, network.Len())
	assert.IsType(t, &nn.Flatten[backend]{}, network.Module(0))
	assert.IsType(t, &nn.ReLU[backend]{}, network.Module(2))

	fc1 := network.Module(1).(*nn.Linear[backend])
	assert.Equal(t, 784, fc1.InFeatures())
	assert.Equal(t, 512, fc1.OutFeatures())
	fc3 := network.Module(5).(*nn.Linear[backend])
	assert.Equal(t, 10, fc3.OutFeatures())

	assert.Equal(t, 784*512+512+512*512+512+512*10+10, c.NumParameters())
	assert.NotEqual(t, [16]byte{}, [16]byte(c.ID()))

	_, err := NewClassifier(Config{InputSize: 4, OutputSize: 2, Activation: "sigmoid"}, cpu.New())
	require.NoError(t, err)

	_, err = NewClassifier(Config{}, cpu.New())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestClassifier_Activations(t *testing.T) {
	for name, want := range map[string]any{
		ActivationSigmoid: &nn.Sigmoid[backend]{},
		ActivationTanh:    &nn.Tanh[backend]{},
	} {
		cfg := DefaultConfig()
		cfg.HiddenSizes = []int{16}
		cfg.Activation = name
		c, err := NewClassifier(cfg, cpu.New())
		require.NoError(t, err)
		assert.IsType(t, want, c.Network().Module(2), name)
	}
}

func TestClassifier_ZerosEndToEnd(t *testing.T) {
	b := cpu.New()
	c := newDefault(t)

	x := tensor.Zeros[float32](tensor.Shape{1, 28, 28}, b)
	pred, err := c.Predict(x)
	require.NoError(t, err)

	require.True(t, pred.Logits.Shape().Equal(tensor.Shape{1, 10}))
	require.True(t, pred.Probabilities.Shape().Equal(tensor.Shape{1, 10}))

	var sum float32
	for _, p := range pred.Probabilities.Data() {
		assert.GreaterOrEqual(t, p, float32(0))
		sum += p
	}
	assert.InDelta(t, 1.0, sum, 1e-5)

	require.Len(t, pred.Classes, 1)
	assert.Equal(t, pred.Logits.Argmax(1).Data(), pred.Classes)

	// Zero input with zero biases yields zero logits: uniform probabilities.
	for _, p := range pred.Probabilities.Data() {
		assert.InDelta(t, 0.1, p, 1e-6)
	}
}

func TestClassifier_Forward(t *testing.T) {
	b := cpu.New()
	c := newDefault(t)

	t.Run("image batch", func(t *testing.T) {
		logits, err := c.Forward(tensor.Randn[float32](tensor.Shape{5, 28, 28}, b))
		require.NoError(t, err)
		assert.True(t, logits.Shape().Equal(tensor.Shape{5, 10}))
	})

	t.Run("flat batch", func(t *testing.T) {
		logits, err := c.Forward(tensor.Randn[float32](tensor.Shape{2, 784}, b))
		require.NoError(t, err)
		assert.True(t, logits.Shape().Equal(tensor.Shape{2, 10}))
	})

	mismatches := []tensor.Shape{
		{1, 27, 28},
		{1, 10},
		{784},
	}
	for _, shape := range mismatches {
		_, err := c.Forward(tensor.Zeros[float32](shape, b))
		assert.ErrorIs(t, err, tensor.ErrShapeMismatch, "shape %v", shape)

		_, err = c.Predict(tensor.Zeros[float32](shape, b))
		assert.ErrorIs(t, err, tensor.ErrShapeMismatch, "shape %v", shape)
	}
}

func TestClassifier_PredictBatch(t *testing.T) {
	b := cpu.New()
	c := newDefault(t)
	x := tensor.Randn[float32](tensor.Shape{13, 28, 28}, b)

	want, err := c.Predict(x)
	require.NoError(t, err)

	for _, workers := range []int{1, 2, 4, 13, 32} {
		got, err := c.PredictBatch(context.Background(), x, workers)
		require.NoError(t, err, "workers=%d", workers)

		require.True(t, got.Logits.Shape().Equal(tensor.Shape{13, 10}))
		assert.InDeltaSlice(t, want.Logits.Data(), got.Logits.Data(), 1e-4, "workers=%d", workers)
		assert.InDeltaSlice(t, want.Probabilities.Data(), got.Probabilities.Data(), 1e-5, "workers=%d", workers)
		assert.Equal(t, want.Classes, got.Classes, "workers=%d", workers)
	}
}

func TestClassifier_PredictBatchErrors(t *testing.T) {
	b := cpu.New()
	c := newDefault(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.PredictBatch(ctx, tensor.Zeros[float32](tensor.Shape{8, 28, 28}, b), 4)
	assert.ErrorIs(t, err, context.Canceled)

	_, err = c.PredictBatch(context.Background(), tensor.Zeros[float32](tensor.Shape{8, 10}, b), 4)
	assert.ErrorIs(t, err, tensor.ErrShapeMismatch)
}

func TestClassifier_ConcurrentPredict(t *testing.T) {
	b := cpu.New()
	c := newDefault(t)
	x := tensor.Randn[float32](tensor.Shape{2, 28, 28}, b)

	want, err := c.Predict(x)
	require.NoError(t, err)

	results := make(chan []float32, 8)
	for i := 0; i < 8; i++ {
		go func() {
			p, err := c.Predict(x)
			if err != nil {
				results <- nil
				return
			}
			results <- p.Logits.Data()
		}()
	}
	for i := 0; i < 8; i++ {
		assert.Equal(t, want.Logits.Data(), <-results)
	}
}

func TestClassifier_Summary(t *testing.T) {
	summary := newDefault(t).Summary()

	assert.Contains(t, summary, "(0): Flatten(start_dim=1, end_dim=-1)")
	assert.Contains(t, summary, "(1): Linear(in_features=784, out_features=512, bias=true)")
	assert.Contains(t, summary, "(2): ReLU()")
	assert.Contains(t, summary, "(5): Linear(in_features=512, out_features=10, bias=true)")
	assert.Contains(t, summary, "1.weight  [512 784]")
	assert.Contains(t, summary, "5.bias    [10]")
	assert.Contains(t, summary, "Total parameters: 669706")
}

func TestClassifier_SaveLoad(t *testing.T) {
	b := cpu.New()
	path := filepath.Join(t.TempDir(), "model.safetensors")

	cfg := DefaultConfig()
	cfg.HiddenSizes = []int{64}
	cfg.Activation = ActivationTanh
	src, err := NewClassifier(cfg, b)
	require.NoError(t, err)
	require.NoError(t, src.Save(path))

	dst, err := Load(path, b)
	require.NoError(t, err)
	assert.Equal(t, cfg, dst.Config())
	assert.Equal(t, src.ID(), dst.ID())

	x := tensor.Randn[float32](tensor.Shape{3, 28, 28}, b)
	want, err := src.Forward(x)
	require.NoError(t, err)
	got, err := dst.Forward(x)
	require.NoError(t, err)
	assert.Equal(t, want.Data(), got.Data())
}

func TestLoad_Errors(t *testing.T) {
	b := cpu.New()
	dir := t.TempDir()

	t.Run("missing config", func(t *testing.T) {
		path := filepath.Join(dir, "bare.safetensors")
		require.NoError(t, serialization.WriteFile(path, newDefault(t).Network().StateDict(), nil))
		_, err := Load(path, b)
		assert.ErrorContains(t, err, `no "config" metadata`)
	})

	t.Run("unexpected tensor", func(t *testing.T) {
		c := newDefault(t)
		stateDict := c.Network().StateDict()
		stateDict["9.weight"] = tensor.Zeros[float32](tensor.Shape{1}, b).Raw()
		assert.ErrorContains(t, c.LoadWeights(stateDict), "unexpected parameters [9.weight]")
	})

	t.Run("wrong shape", func(t *testing.T) {
		small := DefaultConfig()
		small.HiddenSizes = []int{32}
		c, err := NewClassifier(small, b)
		require.NoError(t, err)
		stateDict := newDefault(t).Network().StateDict()
		assert.Error(t, c.LoadWeights(stateDict))
	})

	t.Run("bad last layer leaves weights untouched", func(t *testing.T) {
		c := newDefault(t)
		fc1 := c.Network().Module(1).(*nn.Linear[backend])
		before := append([]float32(nil), fc1.Weight().Tensor().Data()...)

		stateDict := newDefault(t).Network().StateDict()
		stateDict["5.weight"] = tensor.Zeros[float32](tensor.Shape{10, 3}, b).Raw()

		assert.ErrorIs(t, c.LoadWeights(stateDict), tensor.ErrShapeMismatch)
		assert.Equal(t, before, fc1.Weight().Tensor().Data())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "nope.safetensors"), b)
		assert.Error(t, err)
	})
}
