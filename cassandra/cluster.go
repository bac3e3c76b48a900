// Package cassandra opens Cassandra sessions for a Cradle keyspace.
package cassandra

import (
	"context"
	"fmt"
	"strings"

	"github.com/gocql/gocql"
	"go.uber.org/zap"

	"github.com/jacentio/cradleconf/cradle"
	"github.com/jacentio/cradleconf/provider"
)

// NewCluster builds the driver configuration for s.
//
// Host may hold a comma-separated list of seed nodes. Credentials, timeout and
// page size are only applied when set, otherwise the driver defaults stay.
func NewCluster(s cradle.Settings) *gocql.ClusterConfig {
	cluster := gocql.NewCluster(splitHosts(s.Host)...)
	cluster.Keyspace = s.Keyspace
	cluster.Consistency = gocql.LocalQuorum

	if s.Port > 0 {
		cluster.Port = s.Port
	}
	if s.Username != "" {
		cluster.Authenticator = gocql.PasswordAuthenticator{
			Username: s.Username,
			Password: s.Password,
		}
	}
	if s.Timeout > 0 {
		cluster.Timeout = s.Timeout
		cluster.ConnectTimeout = s.Timeout
	}
	if s.ResultPageSize > 0 {
		cluster.PageSize = s.ResultPageSize
	}
	if s.DataCenter != "" {
		cluster.PoolConfig.HostSelectionPolicy = gocql.TokenAwareHostPolicy(
			gocql.DCAwareRoundRobinPolicy(s.DataCenter),
		)
	}
	return cluster
}

func splitHosts(host string) []string {
	var hosts []string
	for _, h := range strings.Split(host, ",") {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	return hosts
}

// Client is an open session together with the settings it was built from.
type Client struct {
	Session  *gocql.Session
	Settings cradle.Settings
}

// Close closes the session.
func (c *Client) Close() {
	c.Session.Close()
}

// Open loads both Cradle records from p and connects to the keyspace.
func Open(ctx context.Context, p provider.Provider, logger *zap.Logger) (*Client, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	settings, err := provider.LoadSettings(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("cannot create Cradle session: %w", err)
	}

	session, err := NewCluster(settings).CreateSession()
	if err != nil {
		return nil, fmt.Errorf("cannot create Cradle session: %w", err)
	}

	logger.Info("connected to Cradle storage",
		zap.String("host", settings.Host),
		zap.String("keyspace", settings.Keyspace),
		zap.String("instance", settings.Instance),
	)
	return &Client{Session: session, Settings: settings}, nil
}
