package registry

import (
	"bodyfat/internal/domain/bodyfat"
	"bodyfat/internal/domain/importance"
	"bodyfat/internal/ml"
	"bodyfat/pkg/errors"
)

// Assets lists the startup artifacts
type Assets struct {
	ModelPaths     map[bodyfat.Variant]string
	ImportancePath string
	ONNX           ml.ONNXOptions
}

// Load reads every artifact and validates the result.
// Estimators already loaded are released when a later step fails.
func Load(assets Assets) (*Registry, error) {
	table, err := importance.Load(assets.ImportancePath)
	if err != nil {
		return nil, errors.Newf("%w: %w", errors.ErrConfiguration, err)
	}

	estimators := make(map[bodyfat.Variant]bodyfat.Estimator, len(bodyfat.Variants))
	release := func() {
		for _, est := range estimators {
			if c, ok := est.(bodyfat.Closer); ok {
				c.Close()
			}
		}
	}

	for _, v := range bodyfat.Variants {
		path, ok := assets.ModelPaths[v]
		if !ok || path == "" {
			continue
		}
		est, err := ml.LoadEstimator(path, assets.ONNX)
		if err != nil {
			release()
			return nil, errors.Newf("%w: load %q model: %w", errors.ErrConfiguration, v, err)
		}
		estimators[v] = est
	}

	reg, err := New(estimators, table)
	if err != nil {
		release()
		return nil, err
	}
	return reg, nil
}
