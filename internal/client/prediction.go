package client

import (
	"context"

	"smartsteel/pkg/api"
)

// PredictProperties requests property predictions for a composition
// snapshot. Exactly one network call; any failure is reported as a
// *PredictionError and the caller's previous results must be kept.
func (c *Client) PredictProperties(ctx context.Context, comp api.Composition) (*api.PredictedProperties, error) {
	var props api.PredictedProperties
	err := c.postJSON(ctx, "/api/predict_properties", api.PredictRequest{Composition: comp}, &props)
	if err != nil {
		return nil, &PredictionError{Err: err}
	}
	return &props, nil
}
