// internal/common/database/elasticsearch.go
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"cockpit-fit-workers/internal/common/config"

	"github.com/elastic/go-elasticsearch/v8"
)

var ErrNoElasticsearchAddress = errors.New("elasticsearch: no address configured")

// ElasticsearchClient serves frame search and indexing.
type ElasticsearchClient struct {
	Client *elasticsearch.Client
}

func NewElasticsearch(cfg config.ElasticsearchConfig) (*ElasticsearchClient, error) {
	addresses := cfg.Addresses
	if len(addresses) == 0 && cfg.URL != "" {
		addresses = []string{cfg.URL}
	}
	if len(addresses) == 0 {
		return nil, ErrNoElasticsearchAddress
	}

	es, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("elasticsearch client: %w", err)
	}
	return &ElasticsearchClient{Client: es}, nil
}

// Ping asks for cluster health and fails while the cluster is red, since
// frame search cannot be served then.
func (c *ElasticsearchClient) Ping(ctx context.Context) error {
	res, err := c.Client.Cluster.Health(c.Client.Cluster.Health.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return fmt.Errorf("elasticsearch: %s", res.Status())
	}

	var health struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(res.Body).Decode(&health); err != nil {
		return fmt.Errorf("elasticsearch: decode cluster health: %w", err)
	}
	if health.Status == "red" {
		return fmt.Errorf("elasticsearch: cluster status red")
	}
	return nil
}
