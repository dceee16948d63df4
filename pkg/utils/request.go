package utils

import (
	"fmt"
	"time"

	"github.com/valyala/fasthttp"
)

func BuildRequest(req *fasthttp.Request, method string, body []byte, apiKey string, url string) {
	req.SetBody(body)
	req.Header.SetMethod(method)
	if apiKey != "" {
		req.Header.Set("API_KEY", apiKey)
	}
	req.Header.SetContentType("application/json")
	req.SetRequestURI(url)
}

// PostJSON sends body to url and returns the response body of a 2xx reply.
func PostJSON(client *fasthttp.Client, url, apiKey string, body []byte, timeout time.Duration) ([]byte, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	BuildRequest(req, fasthttp.MethodPost, body, apiKey, url)

	if err := client.DoTimeout(req, resp, timeout); err != nil {
		return nil, fmt.Errorf("request to %s failed: %w", url, err)
	}

	if status := resp.StatusCode(); status < 200 || status > 299 {
		return nil, fmt.Errorf("request to %s returned status %d", url, status)
	}

	return append([]byte(nil), resp.Body()...), nil
}
