// Package consul registers the server with a Consul agent so deployments
// that use service discovery can find it. Registration is optional.
package consul

import (
	"fmt"

	consulapi "github.com/hashicorp/consul/api"
)

// Client wraps the Consul API client.
type Client struct {
	api *consulapi.Client
}

// Registration describes the service entry and its health check.
type Registration struct {
	ID      string
	Name    string
	Address string
	Port    int
	Tags    []string
	Health  string // health check URL
}

// NewClient creates a Consul client, optionally authenticated by token.
func NewClient(addr, token string) (*Client, error) {
	cfg := consulapi.DefaultConfig()
	cfg.Address = addr
	if token != "" {
		cfg.Token = token
	}

	client, err := consulapi.NewClient(cfg)
	if err != nil {
		return nil, err
	}

	return &Client{api: client}, nil
}

// Register adds the service to the local agent with an HTTP health check.
func (c *Client) Register(reg Registration) error {
	entry := &consulapi.AgentServiceRegistration{
		ID:      reg.ID,
		Name:    reg.Name,
		Address: reg.Address,
		Port:    reg.Port,
		Tags:    reg.Tags,
	}

	if reg.Health != "" {
		entry.Check = &consulapi.AgentServiceCheck{
			HTTP:     reg.Health,
			Interval: "10s",
			Timeout:  "3s",
		}
	}

	if err := c.api.Agent().ServiceRegister(entry); err != nil {
		return fmt.Errorf("failed to register service: %w", err)
	}

	return nil
}

// Deregister removes the service from the agent.
func (c *Client) Deregister(serviceID string) error {
	if err := c.api.Agent().ServiceDeregister(serviceID); err != nil {
		return fmt.Errorf("failed to deregister service: %w", err)
	}

	return nil
}
