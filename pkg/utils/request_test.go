package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
)

func TestBuildRequest(t *testing.T) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)

	BuildRequest(req, fasthttp.MethodPost, []byte(`{"a":1}`), "secret", "http://adapter:3006/reputation/mint")

	assert.Equal(t, "POST", string(req.Header.Method()))
	assert.Equal(t, "secret", string(req.Header.Peek("API_KEY")))
	assert.Equal(t, "application/json", string(req.Header.ContentType()))
	assert.Equal(t, "http://adapter:3006/reputation/mint", req.URI().String())
	assert.Equal(t, `{"a":1}`, string(req.Body()))
}

func TestBuildRequestWithoutKey(t *testing.T) {
	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)

	BuildRequest(req, fasthttp.MethodGet, nil, "", "http://adapter/health")
	assert.Empty(t, req.Header.Peek("API_KEY"))
}
