package config

import (
	"context"

	"github.com/hafly/toolkit/internal/providers/http/client"
	"github.com/hafly/toolkit/internal/shared/types"
)

// ConnectionOps handles proxy and TLS settings
type ConnectionOps struct {
	*client.HTTPOps
}

// GetTools returns connection tool definitions
func (c *ConnectionOps) GetTools() []types.Tool {
	return []types.Tool{
		{
			ID:          "http.setProxy",
			Name:        "Set Proxy",
			Description: "Route requests through an http, https or socks5 proxy",
			Parameters: []types.Parameter{
				{Name: "proxy_url", Type: "string", Description: "Proxy URL (http://host:port)", Required: true},
			},
			Returns: "object",
		},
		{
			ID:          "http.removeProxy",
			Name:        "Remove Proxy",
			Description: "Send requests directly",
			Parameters:  []types.Parameter{},
			Returns:     "object",
		},
		{
			ID:          "http.setVerifySSL",
			Name:        "Set SSL Verification",
			Description: "Enable/disable TLS certificate verification",
			Parameters: []types.Parameter{
				{Name: "verify", Type: "boolean", Description: "Verify certificates", Required: true},
			},
			Returns: "object",
		},
	}
}

// SetProxy configures the outbound proxy
func (c *ConnectionOps) SetProxy(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	proxyURL, err := types.GetString(params, "proxy_url", true)
	if err != nil {
		return types.Failure(err.Error())
	}

	if err := c.Client.SetProxy(proxyURL); err != nil {
		return types.Failure(err.Error())
	}
	return types.Success(map[string]interface{}{
		"set":   true,
		"proxy": proxyURL,
	})
}

// RemoveProxy removes the proxy configuration
func (c *ConnectionOps) RemoveProxy(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	c.Client.RemoveProxy()
	return types.Success(map[string]interface{}{"removed": true})
}

// SetVerifySSL configures certificate verification
func (c *ConnectionOps) SetVerifySSL(ctx context.Context, params map[string]interface{}, appCtx *types.Context) (*types.Result, error) {
	if _, ok := params["verify"]; !ok {
		return types.Failure("verify parameter required")
	}
	verify := types.GetBool(params, "verify", true)
	c.Client.SetVerifyTLS(verify)

	data := map[string]interface{}{
		"set":    true,
		"verify": verify,
	}
	if !verify {
		data["warning"] = "certificate verification disabled; connections are open to interception"
	}
	return types.Success(data)
}
