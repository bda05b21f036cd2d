package ml

import (
	"path/filepath"
	"strings"

	"bodyfat/internal/domain/bodyfat"
	"bodyfat/pkg/errors"
)

// LoadEstimator picks the artifact loader from the file extension:
// .onnx runs through ONNX Runtime, .json is a LinearModel.
func LoadEstimator(path string, opts ONNXOptions) (bodyfat.Estimator, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".onnx":
		return LoadONNXRegressor(path, opts)
	case ".json":
		return LoadLinearModel(path)
	}
	return nil, errors.Wrapf(errors.ErrConfiguration, "unsupported model artifact %s", path)
}
