package nn

import (
	"math"
	"math/rand"
	"sync"

	"github.com/born-ml/quickstart/internal/tensor"
)

var (
	initMu  sync.Mutex
	initRNG = rand.New(rand.NewSource(rand.Int63())) //nolint:gosec // weight init is not security-sensitive
)

// Seed makes subsequent weight initialization reproducible.
func Seed(seed int64) {
	initMu.Lock()
	defer initMu.Unlock()
	initRNG = rand.New(rand.NewSource(seed)) //nolint:gosec // weight init is not security-sensitive
}

// uniform fills data with values drawn from U(-bound, bound).
func uniform(data []float32, bound float64) {
	initMu.Lock()
	defer initMu.Unlock()
	for i := range data {
		data[i] = float32((initRNG.Float64()*2.0 - 1.0) * bound)
	}
}

// Xavier (Glorot) initialization for weights.
//
// Values are drawn from U(-sqrt(6/(fan_in + fan_out)), sqrt(6/(fan_in + fan_out))).
func Xavier[B tensor.Backend](fanIn, fanOut int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	t := tensor.Zeros[float32](shape, backend)
	uniform(t.Data(), math.Sqrt(6.0/float64(fanIn+fanOut)))
	return t
}

// Kaiming returns a tensor drawn from U(-1/sqrt(fan_in), 1/sqrt(fan_in)),
// the default PyTorch uses for nn.Linear weights and biases.
func Kaiming[B tensor.Backend](fanIn int, shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	t := tensor.Zeros[float32](shape, backend)
	uniform(t.Data(), 1/math.Sqrt(float64(fanIn)))
	return t
}

// Zeros creates a zero tensor; used for bias initialization.
func Zeros[B tensor.Backend](shape tensor.Shape, backend B) *tensor.Tensor[float32, B] {
	return tensor.Zeros[float32](shape, backend)
}
