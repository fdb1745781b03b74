// Package main provides the quickstart CLI: it builds the feed-forward
// classifier, prints its structure and parameters, and classifies either
// IDX images or a random 28×28 batch.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"os/signal"

	"github.com/born-ml/quickstart/internal/backend/cpu"
	"github.com/born-ml/quickstart/internal/dataset"
	"github.com/born-ml/quickstart/internal/model"
	"github.com/born-ml/quickstart/internal/nn"
	"github.com/born-ml/quickstart/internal/tensor"
)

const version = "v0.1.0"

type options struct {
	configPath string
	imagesPath string
	labelsPath string
	limit      int
	batch      int
	workers    int
	savePath   string
	loadPath   string
	seed       int64
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("quickstart", flag.ContinueOnError)
	fs.StringVar(&opts.configPath, "config", "", "model config JSON (default: 784-512-512-10 ReLU)")
	fs.StringVar(&opts.imagesPath, "images", "", "IDX image file, optionally .gz (default: random batch)")
	fs.StringVar(&opts.labelsPath, "labels", "", "IDX label file matching -images, for accuracy")
	fs.IntVar(&opts.limit, "limit", 10, "number of images to classify from -images (0 = all)")
	fs.IntVar(&opts.batch, "batch", 1, "size of the random batch when -images is not set")
	fs.IntVar(&opts.workers, "workers", 0, "concurrent prediction chunks (0 = one per backend worker)")
	fs.StringVar(&opts.savePath, "save", "", "write the model weights to this SafeTensors file")
	fs.StringVar(&opts.loadPath, "load", "", "load model weights from this SafeTensors file")
	fs.Int64Var(&opts.seed, "seed", 0, "seed for weight init and the random batch (0 = random)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.batch < 1 {
		return options{}, fmt.Errorf("-batch must be at least 1, got %d", opts.batch)
	}
	return opts, nil
}

func main() {
	if len(os.Args) > 1 && os.Args[1] == "version" {
		fmt.Printf("quickstart %s\n", version)
		return
	}

	opts, err := parseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.Fatalf("quickstart: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts); err != nil {
		log.Fatalf("quickstart: %v", err)
	}
}

func run(ctx context.Context, opts options) error {
	backend := cpu.New()
	fmt.Printf("Using %s\n\n", backend)

	rng := rand.New(rand.NewSource(rand.Int63())) //nolint:gosec // inputs and init are not security-sensitive
	if opts.seed != 0 {
		nn.Seed(opts.seed)
		rng = rand.New(rand.NewSource(opts.seed)) //nolint:gosec // reproducible runs
	}

	classifier, err := buildClassifier(opts, backend)
	if err != nil {
		return err
	}

	fmt.Printf("Model %s:\n%s\n\n", classifier.ID(), classifier.Summary())

	x, labels, err := loadInputs(opts, classifier.Config().InputSize, rng, backend)
	if err != nil {
		return err
	}

	workers := opts.workers
	if workers <= 0 {
		workers = backend.Workers()
	}
	pred, err := classifier.PredictBatch(ctx, x, workers)
	if err != nil {
		return fmt.Errorf("prediction failed: %w", err)
	}
	printPredictions(pred, labels)

	if opts.savePath != "" {
		if err := classifier.Save(opts.savePath); err != nil {
			return err
		}
		fmt.Printf("\nSaved model to %s\n", opts.savePath)
	}
	return nil
}

func buildClassifier(opts options, backend *cpu.CPUBackend) (*model.Classifier[*cpu.CPUBackend], error) {
	if opts.loadPath != "" {
		if opts.configPath != "" {
			fmt.Printf("Ignoring -config: architecture comes from %s\n", opts.loadPath)
		}
		return model.Load(opts.loadPath, backend)
	}

	cfg := model.DefaultConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = model.LoadConfig(opts.configPath); err != nil {
			return nil, err
		}
	}
	return model.NewClassifier(cfg, backend)
}

func loadInputs(opts options, inputSize int, rng *rand.Rand, backend *cpu.CPUBackend) (*tensor.Tensor[float32, *cpu.CPUBackend], []uint8, error) {
	if opts.imagesPath == "" {
		// Same as torch.rand(batch, 28, 28) for the default input size.
		shape := tensor.Shape{opts.batch, inputSize}
		if inputSize == 28*28 {
			shape = tensor.Shape{opts.batch, 28, 28}
		}
		data := make([]float32, shape.NumElements())
		for i := range data {
			data[i] = rng.Float32()
		}
		x, err := tensor.FromSlice(data, shape, backend)
		return x, nil, err
	}

	images, err := dataset.OpenImages(opts.imagesPath)
	if err != nil {
		return nil, nil, err
	}
	images = images.Limit(opts.limit)
	fmt.Printf("Loaded %d images of %dx%d from %s\n", images.Count, images.Rows, images.Cols, opts.imagesPath)

	x, err := dataset.ToTensor(images, backend)
	if err != nil {
		return nil, nil, err
	}

	if opts.labelsPath == "" {
		return x, nil, nil
	}
	labels, err := dataset.OpenLabels(opts.labelsPath)
	if err != nil {
		return nil, nil, err
	}
	if len(labels) < images.Count {
		return nil, nil, fmt.Errorf("%s has %d labels for %d images", opts.labelsPath, len(labels), images.Count)
	}
	return x, labels[:images.Count], nil
}

func printPredictions(pred *model.Prediction[*cpu.CPUBackend], labels []uint8) {
	classes := pred.Probabilities.Shape()[1]
	fmt.Println("Predictions:")
	for i, class := range pred.Classes {
		confidence := pred.Probabilities.At(i, int(class))
		if labels != nil {
			fmt.Printf("  [%d] class %d (p=%.4f) label %d\n", i, class, confidence, labels[i])
		} else {
			fmt.Printf("  [%d] class %d (p=%.4f)\n", i, class, confidence)
		}
	}

	if labels != nil {
		acc, err := dataset.Accuracy(pred.Classes, labels)
		if err == nil {
			fmt.Printf("Accuracy: %.2f%% over %d samples (%d classes)\n", acc*100, len(labels), classes)
		}
	}
}
