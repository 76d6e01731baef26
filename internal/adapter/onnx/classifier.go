// Package onnx serves the rain classifier from an ONNX model exported with
// class probabilities, e.g. by skl2onnx with zipmap disabled.
package onnx

import (
	"errors"
	"fmt"
	"sync"

	"github.com/couchcryptid/rain-forecast-service/internal/artifact"
	"github.com/couchcryptid/rain-forecast-service/internal/domain"
	ort "github.com/yalue/onnxruntime_go"
)

// ortEnv manages global ONNX Runtime initialization (process-wide singleton).
var ortEnv struct {
	once sync.Once
	err  error
}

// initORT initializes the ONNX Runtime environment. Only the first call has
// any effect.
func initORT(libPath string) error {
	ortEnv.once.Do(func() {
		ort.SetSharedLibraryPath(libPath)
		ortEnv.err = ort.InitializeEnvironment()
	})
	return ortEnv.err
}

// Classifier runs a binary classifier through ONNX Runtime. Inference calls
// are serialized; loading and construction are not on the request path.
type Classifier struct {
	mu         sync.Mutex
	session    *ort.DynamicAdvancedSession
	inputName  string
	outputName string
	width      int64
	classes    int64
}

// NewDecoder returns an artifact.ClassifierDecoder that loads ONNX model bytes
// using the runtime library at libPath.
func NewDecoder(libPath string) artifact.ClassifierDecoder {
	return func(data []byte) (domain.Classifier, error) {
		return New(libPath, data)
	}
}

// New creates a Classifier from ONNX model bytes.
func New(libPath string, model []byte) (*Classifier, error) {
	if err := initORT(libPath); err != nil {
		return nil, fmt.Errorf("onnx: failed to initialize runtime: %w", err)
	}

	inputs, outputs, err := ort.GetInputOutputInfoWithONNXData(model)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to read model info: %w", err)
	}
	sig, err := selectSignature(inputs, outputs)
	if err != nil {
		return nil, err
	}

	opts, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session options: %w", err)
	}
	defer opts.Destroy()
	opts.SetIntraOpNumThreads(1)
	opts.SetInterOpNumThreads(1)

	session, err := ort.NewDynamicAdvancedSessionWithONNXData(
		model,
		[]string{sig.input},
		[]string{sig.output},
		opts,
	)
	if err != nil {
		return nil, fmt.Errorf("onnx: failed to create session: %w", err)
	}

	return &Classifier{
		session:    session,
		inputName:  sig.input,
		outputName: sig.output,
		width:      sig.width,
		classes:    sig.classes,
	}, nil
}

// Width is the feature count of the model input.
func (c *Classifier) Width() int { return int(c.width) }

// Predict returns 1 when the rain probability is above one half, matching an
// argmax over two classes.
func (c *Classifier) Predict(x domain.FeatureVector) (int, error) {
	label, _, err := c.Score(x)
	return label, err
}

// PredictProba returns the positive-class probability.
func (c *Classifier) PredictProba(x domain.FeatureVector) (float64, error) {
	_, p, err := c.Score(x)
	return p, err
}

// Score runs inference once and returns both the label and the positive-class
// probability.
func (c *Classifier) Score(x domain.FeatureVector) (int, float64, error) {
	p, err := c.run(x)
	if err != nil {
		return 0, 0, err
	}
	return scoreLabel(p), p, nil
}

func scoreLabel(p float64) int {
	if p > 0.5 {
		return 1
	}
	return 0
}

func (c *Classifier) run(x domain.FeatureVector) (float64, error) {
	if int64(len(x)) != c.width {
		return 0, &domain.ShapeMismatchError{Stage: "classifier", Got: len(x), Want: int(c.width)}
	}

	data := make([]float32, len(x))
	for i, v := range x {
		data[i] = float32(v)
	}

	in, err := ort.NewTensor(ort.NewShape(1, c.width), data)
	if err != nil {
		return 0, fmt.Errorf("onnx: failed to create input tensor: %w", err)
	}
	defer in.Destroy()

	out, err := ort.NewEmptyTensor[float32](ort.NewShape(1, c.classes))
	if err != nil {
		return 0, fmt.Errorf("onnx: failed to create output tensor: %w", err)
	}
	defer out.Destroy()

	c.mu.Lock()
	err = c.session.Run([]ort.Value{in}, []ort.Value{out})
	c.mu.Unlock()
	if err != nil {
		return 0, fmt.Errorf("onnx: inference failed: %w", err)
	}

	return positiveClassProbability(out.GetData())
}

// Close releases the ONNX session.
func (c *Classifier) Close() error {
	return c.session.Destroy()
}

type signature struct {
	input   string
	output  string
	width   int64
	classes int64
}

// selectSignature picks the single float input of shape [batch, width] and the
// float probability output of shape [batch, classes].
func selectSignature(inputs, outputs []ort.InputOutputInfo) (signature, error) {
	if len(inputs) != 1 {
		return signature{}, fmt.Errorf("onnx: expected 1 model input, got %d", len(inputs))
	}
	in := inputs[0]
	if in.DataType != ort.TensorElementDataTypeFloat {
		return signature{}, fmt.Errorf("onnx: input %q must be float32, got %v", in.Name, in.DataType)
	}
	if len(in.Dimensions) != 2 || in.Dimensions[1] <= 0 {
		return signature{}, fmt.Errorf("onnx: input %q must have shape [batch, width], got %v", in.Name, in.Dimensions)
	}

	for _, out := range outputs {
		if out.DataType != ort.TensorElementDataTypeFloat || len(out.Dimensions) != 2 {
			continue
		}
		classes := out.Dimensions[1]
		if classes <= 0 {
			classes = 2
		}
		if classes > 2 {
			return signature{}, fmt.Errorf("onnx: output %q has %d classes, expected a binary classifier", out.Name, classes)
		}
		return signature{input: in.Name, output: out.Name, width: in.Dimensions[1], classes: classes}, nil
	}
	return signature{}, errors.New("onnx: model has no float probability output of shape [batch, classes]")
}

// positiveClassProbability reads P(rain) from one output row. A single-column
// output already holds the positive class.
func positiveClassProbability(row []float32) (float64, error) {
	if len(row) == 0 {
		return 0, errors.New("onnx: empty probability output")
	}
	return float64(row[len(row)-1]), nil
}
