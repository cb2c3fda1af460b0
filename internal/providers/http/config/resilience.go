package config

import (
	"context"

	"github.com/hafly/toolkit/internal/providers/http/client"
	"github.com/hafly/toolkit/internal/shared/types"
)

// ResilienceOps handles rate limiting and exposes breaker state
type ResilienceOps struct {
	*client.HTTPOps
}

// GetTools returns resilience tool definitions
func (r *ResilienceOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "http.setRateLimit",
			Name:        "Set Rate Limit",
			Description: "Limit outbound requests per second; zero removes the limit",
			Parameters: []types.Parameter{
				{Name: "requests_per_second", Type: "number", Description: "Max requests per second", Required: true},
			},
			Returns: "object",
		},
		{
			ID:          "http.getRateLimit",
			Name:        "Get Rate Limit",
			Description: "Get the rate limit and circuit breaker state",
			Parameters:  []types.Parameter{},
			Returns:     "object",
		},
	}
}

// SetRateLimit configures the token bucket limiter
func (r *ResilienceOps) SetRateLimit(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	rps, err := types.GetNumber(params, "requests_per_second", true)
	if err != nil {
		return types.Failure(err.Error())
	}
	if rps < 0 {
		return types.Failure("requests_per_second cannot be negative")
	}

	r.Client.SetRateLimit(rps)
	return types.Success(map[string]interface{}{
		"set":                 true,
		"requests_per_second": rps,
		"unlimited":           rps == 0,
	})
}

// GetRateLimit returns the limiter and breaker configuration
func (r *ResilienceOps) GetRateLimit(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	rps := r.Client.RateLimit()
	return types.Success(map[string]interface{}{
		"requests_per_second": rps,
		"unlimited":           rps == 0,
		"breaker_state":       r.Client.BreakerState().String(),
		"breaker_counts":      r.Client.BreakerCounts(),
	})
}
