package discovery

import (
	"matchos/internal/config"
	"testing"

	"github.com/hashicorp/consul/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestPickInstance(t *testing.T) {
	grpcOnly := &api.ServiceEntry{Service: &api.AgentService{ID: "a", Meta: map[string]string{"protocol": "grpc"}}}
	byMeta := &api.ServiceEntry{Service: &api.AgentService{ID: "b", Meta: map[string]string{"protocol": "http"}}}
	byTag := &api.ServiceEntry{Service: &api.AgentService{ID: "c", Tags: []string{"http"}}}

	assert.Same(t, byMeta, pickInstance([]*api.ServiceEntry{grpcOnly, byMeta, byTag}, "http"))
	assert.Same(t, byTag, pickInstance([]*api.ServiceEntry{grpcOnly, {}, byTag}, "http"))
	assert.Nil(t, pickInstance([]*api.ServiceEntry{grpcOnly}, "http"))
}

func TestRegistration(t *testing.T) {
	cfg := &config.Config{
		Server: config.ServerConfig{
			Port:           "3001",
			ServiceName:    "user-service",
			ServiceAddress: "user-service",
			ServiceID:      "user-service-user",
		},
		Consul: config.ConsulConfig{Address: "localhost:8500"},
	}
	sr, err := NewServiceRegistry(cfg, zap.NewNop())
	require.NoError(t, err)

	reg, err := sr.registration()
	require.NoError(t, err)
	assert.Equal(t, "user-service-user-http", reg.ID)
	assert.Equal(t, 3001, reg.Port)
	assert.Equal(t, "http://user-service:3001/health", reg.Check.HTTP)

	sr.server.Port = "not-a-port"
	_, err = sr.registration()
	assert.Error(t, err)
}
