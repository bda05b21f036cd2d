package ml

import (
	"math"
	"sync"

	onnxruntime "github.com/yalue/onnxruntime_go"

	"bodyfat/internal/domain/bodyfat"
	"bodyfat/pkg/errors"
)

var envMu sync.Mutex

// ONNXOptions configures how a regression model is loaded
type ONNXOptions struct {
	// SharedLibraryPath points at libonnxruntime; empty uses the platform default
	SharedLibraryPath string
	// InputName and OutputName default to the skl2onnx names
	InputName  string
	OutputName string
}

func (o ONNXOptions) withDefaults() ONNXOptions {
	if o.InputName == "" {
		o.InputName = "float_input"
	}
	if o.OutputName == "" {
		o.OutputName = "variable"
	}
	return o
}

// ONNXRegressor wraps an ONNX Runtime session of a single-output regressor.
// Input is float32 [1, n], output float32 [1, 1].
type ONNXRegressor struct {
	session      *onnxruntime.DynamicAdvancedSession
	featureCount int
	path         string
}

// initEnvironment initializes the ONNX runtime once per process
func initEnvironment(libPath string) error {
	envMu.Lock()
	defer envMu.Unlock()

	if onnxruntime.IsInitialized() {
		return nil
	}
	if libPath != "" {
		onnxruntime.SetSharedLibraryPath(libPath)
	}
	if err := onnxruntime.InitializeEnvironment(); err != nil {
		return errors.Wrap(err, "failed to initialize ONNX runtime")
	}
	return nil
}

// LoadONNXRegressor loads a regression model from file
func LoadONNXRegressor(modelPath string, opts ONNXOptions) (*ONNXRegressor, error) {
	opts = opts.withDefaults()

	if err := initEnvironment(opts.SharedLibraryPath); err != nil {
		return nil, err
	}

	featureCount := -1
	inputs, _, err := onnxruntime.GetInputOutputInfo(modelPath)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to inspect ONNX model %s", modelPath)
	}
	for _, in := range inputs {
		if in.Name == opts.InputName && len(in.Dimensions) == 2 {
			featureCount = int(in.Dimensions[1])
		}
	}

	options, err := onnxruntime.NewSessionOptions()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create session options")
	}
	defer options.Destroy()

	session, err := onnxruntime.NewDynamicAdvancedSession(modelPath,
		[]string{opts.InputName}, []string{opts.OutputName}, options)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load ONNX model %s", modelPath)
	}

	return &ONNXRegressor{
		session:      session,
		featureCount: featureCount,
		path:         modelPath,
	}, nil
}

// FeatureCount returns the model's declared input width, or -1 when dynamic
func (m *ONNXRegressor) FeatureCount() int {
	return m.featureCount
}

// Predict runs inference on one ordered feature vector
func (m *ONNXRegressor) Predict(vector bodyfat.FeatureVector) (float64, error) {
	if m.session == nil {
		return 0, errors.ErrModelNotLoaded
	}

	features := make([]float32, len(vector))
	for i, v := range vector {
		features[i] = float32(v.Value)
	}

	inputTensor, err := onnxruntime.NewTensor(onnxruntime.NewShape(1, int64(len(features))), features)
	if err != nil {
		return 0, errors.Wrap(err, "failed to create input tensor")
	}
	defer inputTensor.Destroy()

	outputTensor, err := onnxruntime.NewEmptyTensor[float32](onnxruntime.NewShape(1, 1))
	if err != nil {
		return 0, errors.Wrap(err, "failed to create output tensor")
	}
	defer outputTensor.Destroy()

	err = m.session.Run([]onnxruntime.Value{inputTensor}, []onnxruntime.Value{outputTensor})
	if err != nil {
		return 0, errors.Wrap(err, "inference failed")
	}

	out := outputTensor.GetData()
	if len(out) == 0 {
		return 0, errors.New("model returned no output")
	}
	value := float64(out[0])
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, errors.Newf("model returned non-finite value %v", value)
	}
	return value, nil
}

// Close releases the ONNX session
func (m *ONNXRegressor) Close() {
	if m.session != nil {
		m.session.Destroy()
		m.session = nil
	}
}
