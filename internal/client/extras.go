package client

import (
	"context"
	"fmt"
	"strings"

	"smartsteel/pkg/api"
)

// OptimizeAlloy runs the server-side composition search and returns the
// best composition together with its predicted properties.
func (c *Client) OptimizeAlloy(ctx context.Context, targets, weights map[string]float64) (*api.OptimizeResponse, error) {
	var resp api.OptimizeResponse
	err := c.postJSON(ctx, "/api/optimize_alloy", api.OptimizeRequest{
		Targets: targets,
		Weights: weights,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("optimize alloy: %w", err)
	}
	return &resp, nil
}

// Inventory lists the material inventory.
func (c *Client) Inventory(ctx context.Context) ([]api.Material, error) {
	var materials []api.Material
	if err := c.getJSON(ctx, "/api/inventory", &materials); err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return materials, nil
}

// ResearchQuery asks the knowledge base a free-text question. The answer
// is the joined content of all returned chunks.
func (c *Client) ResearchQuery(ctx context.Context, query string) (string, []api.ResearchResult, error) {
	var resp api.ResearchResponse
	err := c.postJSON(ctx, "/api/research/query", api.ResearchRequest{Query: query}, &resp)
	if err != nil {
		return "", nil, fmt.Errorf("research query: %w", err)
	}

	parts := make([]string, 0, len(resp.Results))
	for _, r := range resp.Results {
		parts = append(parts, r.Content)
	}
	return strings.Join(parts, "\n\n"), resp.Results, nil
}
