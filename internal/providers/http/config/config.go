package config

import (
	"context"
	"fmt"
	"time"

	"github.com/hafly/toolkit/internal/providers/http/client"
	"github.com/hafly/toolkit/internal/shared/types"
)

// ConfigOps handles default headers and timeouts
type ConfigOps struct {
	*client.HTTPOps
}

// GetTools returns config tool definitions
func (c *ConfigOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "http.setHeader",
			Name:        "Set Header",
			Description: "Set default header for subsequent requests; an empty value removes it",
			Parameters: []types.Parameter{
				{Name: "key", Type: "string", Description: "Header key", Required: true},
				{Name: "value", Type: "string", Description: "Header value", Required: false},
			},
			Returns: "object",
		},
		{
			ID:          "http.getHeaders",
			Name:        "Get Settings",
			Description: "Get default headers and connection settings",
			Parameters:  []types.Parameter{},
			Returns:     "object",
		},
		{
			ID:          "http.setTimeout",
			Name:        "Set Timeout",
			Description: "Set request timeout as seconds or a duration string such as \"1m30s\"",
			Parameters: []types.Parameter{
				{Name: "seconds", Type: "any", Description: "Timeout in seconds or a duration string", Required: true},
			},
			Returns: "object",
		},
	}
}

// SetHeader sets a default HTTP header
func (c *ConfigOps) SetHeader(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	key, err := types.GetString(params, "key", true)
	if err != nil {
		return types.Failure(err.Error())
	}
	value, err := types.GetString(params, "value", false)
	if err != nil {
		return types.Failure(err.Error())
	}

	if value == "" {
		c.Client.RemoveHeader(key)
		return types.Success(map[string]interface{}{"removed": true, "key": key})
	}
	c.Client.SetHeader(key, value)
	return types.Success(map[string]interface{}{"set": true, "key": key})
}

// GetHeaders returns default headers along with the connection settings
func (c *ConfigOps) GetHeaders(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	headers := c.Client.Headers()
	return types.Success(map[string]interface{}{
		"headers":         headers,
		"count":           len(headers),
		"timeout_seconds": c.Client.Timeout().Seconds(),
		"proxy":           c.Client.Proxy(),
		"verify_tls":      c.Client.VerifyTLS(),
	})
}

// SetTimeout configures the request timeout
func (c *ConfigOps) SetTimeout(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	timeout, err := ParseTimeout(params["seconds"])
	if err != nil {
		return types.Failure(err.Error())
	}

	c.Client.SetTimeout(timeout)
	return types.Success(map[string]interface{}{
		"set":     true,
		"seconds": timeout.Seconds(),
	})
}

// ParseTimeout accepts a positive number of seconds or a duration string
func ParseTimeout(v interface{}) (time.Duration, error) {
	var d time.Duration
	switch t := v.(type) {
	case nil:
		return 0, fmt.Errorf("seconds parameter required")
	case float64:
		d = time.Duration(t * float64(time.Second))
	case int:
		d = time.Duration(t) * time.Second
	case int64:
		d = time.Duration(t) * time.Second
	case string:
		parsed, err := time.ParseDuration(t)
		if err != nil {
			return 0, fmt.Errorf("invalid timeout %q: %w", t, err)
		}
		d = parsed
	default:
		return 0, fmt.Errorf("seconds must be number or duration string")
	}
	if d <= 0 {
		return 0, fmt.Errorf("timeout must be positive")
	}
	return d, nil
}
