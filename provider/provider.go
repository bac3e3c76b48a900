// Package provider loads configuration records by configuration id.
//
// A [Provider] resolves an id such as "cradle_confidential" to a stored
// document and decodes it strictly into a record. Implementations:
//
//   - [Dir] - files in a directory (JSON, YAML or TOML)
//   - [S3] - objects in an S3 bucket
//   - store.Store - items in a DynamoDB table
//
// Every provider reports a missing document with cradle.ErrResourceNotFound
// and a shape mismatch with a *cradle.MappingError.
package provider

import (
	"context"
	"fmt"

	"github.com/jacentio/cradleconf/cradle"
)

// Provider loads a configuration document into a record.
type Provider interface {
	Load(ctx context.Context, id string, rec cradle.Record) error
}

// LoadSettings loads both Cradle records from p and derives the connection settings.
func LoadSettings(ctx context.Context, p Provider) (cradle.Settings, error) {
	var conf cradle.ConfidentialConfig
	if err := p.Load(ctx, cradle.ConfidentialKind, &conf); err != nil {
		return cradle.Settings{}, fmt.Errorf("load %s: %w", cradle.ConfidentialKind, err)
	}

	var tuning cradle.NonConfidentialConfig
	if err := p.Load(ctx, cradle.NonConfidentialKind, &tuning); err != nil {
		return cradle.Settings{}, fmt.Errorf("load %s: %w", cradle.NonConfidentialKind, err)
	}

	return cradle.NewSettings(conf, tuning), nil
}
