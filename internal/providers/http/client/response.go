package client

import (
	"github.com/go-resty/resty/v2"
)

// ResponseToMap converts resty response to result map
func ResponseToMap(resp *resty.Response) map[string]interface{} {
	result := map[string]interface{}{
		"status":      resp.StatusCode(),
		"status_text": resp.Status(),
		"body":        resp.String(),
		"size":        len(resp.Body()),
		"time":        resp.Time().Milliseconds(),
		"ok":          resp.IsSuccess(),
	}

	headers := make(map[string]string)
	for k, v := range resp.Header() {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}
	result["headers"] = headers

	return result
}
