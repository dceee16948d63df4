package discovery

import (
	"fmt"
	"matchos/internal/config"
	"slices"
	"strconv"

	"github.com/hashicorp/consul/api"
	"go.uber.org/zap"
)

type ServiceRegistry struct {
	client *api.Client
	server config.ServerConfig
	logger *zap.Logger
}

func NewServiceRegistry(cfg *config.Config, logger *zap.Logger) (*ServiceRegistry, error) {
	consulConfig := api.DefaultConfig()
	consulConfig.Address = cfg.Consul.Address

	client, err := api.NewClient(consulConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create Consul client: %w", err)
	}

	return &ServiceRegistry{
		client: client,
		server: cfg.Server,
		logger: logger,
	}, nil
}

func (sr *ServiceRegistry) registrationID() string {
	return sr.server.ServiceID + "-http"
}

func (sr *ServiceRegistry) registration() (*api.AgentServiceRegistration, error) {
	httpPort, err := strconv.Atoi(sr.server.Port)
	if err != nil {
		return nil, fmt.Errorf("invalid service port %q: %w", sr.server.Port, err)
	}

	return &api.AgentServiceRegistration{
		ID:      sr.registrationID(),
		Name:    sr.server.ServiceName,
		Port:    httpPort,
		Address: sr.server.ServiceAddress,
		Check: &api.AgentServiceCheck{
			HTTP:     fmt.Sprintf("http://%s:%s/health", sr.server.ServiceAddress, sr.server.Port),
			Interval: "10s",
			Timeout:  "5s",
		},
		Tags: []string{"users", "privacy", "http"},
		Meta: map[string]string{
			"protocol": "http",
		},
	}, nil
}

func (sr *ServiceRegistry) Register() error {
	reg, err := sr.registration()
	if err != nil {
		return err
	}

	if err := sr.client.Agent().ServiceRegister(reg); err != nil {
		return fmt.Errorf("failed to register HTTP service with Consul: %w", err)
	}

	sr.logger.Info("registered with Consul", zap.String("service_id", reg.ID))
	return nil
}

func (sr *ServiceRegistry) Deregister() error {
	if err := sr.client.Agent().ServiceDeregister(sr.registrationID()); err != nil {
		return fmt.Errorf("failed to deregister HTTP service: %w", err)
	}
	return nil
}

// GetServiceAddress returns host:port of the first healthy instance of
// serviceName that speaks protocol (http when empty).
func (sr *ServiceRegistry) GetServiceAddress(serviceName string, protocol string) (string, error) {
	if protocol == "" {
		protocol = "http"
	}

	services, meta, err := sr.client.Health().Service(serviceName, "", true, &api.QueryOptions{})
	if err != nil {
		return "", fmt.Errorf("failed to find service %s: %w", serviceName, err)
	}

	sr.logger.Debug("found service instances",
		zap.String("service", serviceName),
		zap.Int("count", len(services)),
		zap.Uint64("consul_index", meta.LastIndex))

	entry := pickInstance(services, protocol)
	if entry == nil {
		return "", fmt.Errorf("no healthy instances of service %s with protocol %s found", serviceName, protocol)
	}

	address := entry.Service.Address
	if address == "" && entry.Node != nil {
		address = entry.Node.Address
	}

	return fmt.Sprintf("%s:%d", address, entry.Service.Port), nil
}

func pickInstance(services []*api.ServiceEntry, protocol string) *api.ServiceEntry {
	for _, service := range services {
		if service.Service == nil {
			continue
		}
		if proto, ok := service.Service.Meta["protocol"]; ok && proto == protocol {
			return service
		}
		if slices.Contains(service.Service.Tags, protocol) {
			return service
		}
	}
	return nil
}
