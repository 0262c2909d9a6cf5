package client

import (
	"context"

	"smartsteel/pkg/api"
)

// CalculateDosing requests a dosing plan for the given melt mass and
// composition. The service performs inventory lookup and substitution
// server-side. Row order in the returned breakdown is undefined; match
// rows by element, never by position. Failures are reported as a
// *DosingError.
func (c *Client) CalculateDosing(ctx context.Context, meltMassTons float64, comp api.Composition) ([]api.DosingItem, error) {
	var resp api.DosingResponse
	err := c.postJSON(ctx, "/api/calculate_dosing", api.DosingRequest{
		MeltMassTons: meltMassTons,
		Composition:  comp,
	}, &resp)
	if err != nil {
		return nil, &DosingError{Err: err}
	}
	return resp.DosingBreakdown, nil
}
