package provider

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/jacentio/cradleconf/codec"
	"github.com/jacentio/cradleconf/cradle"
	"github.com/jacentio/cradleconf/fixture"
)

// Extensions lists the file extensions Dir looks for, in order.
var Extensions = []string{".json", ".yaml", ".yml", ".toml"}

// Dir loads documents named <id><ext> from a directory.
type Dir struct {
	root   string
	logger *zap.Logger
}

// NewDir creates a Dir provider rooted at root. A nil logger disables logging.
func NewDir(root string, logger *zap.Logger) *Dir {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dir{root: root, logger: logger}
}

// Load decodes the first of <id>.json, <id>.yaml, <id>.yml or <id>.toml that exists.
func (d *Dir) Load(ctx context.Context, id string, rec cradle.Record) error {
	for _, ext := range Extensions {
		if err := ctx.Err(); err != nil {
			return err
		}

		loader := fixture.NewLoader(d.root, fixture.Config{Ext: ext})
		text, err := loader.Load(id)
		if errors.Is(err, cradle.ErrResourceNotFound) {
			continue
		}
		if err != nil {
			return err
		}

		c, _ := codec.ForExtension(ext)
		d.logger.Debug("loading configuration",
			zap.String("id", id),
			zap.String("format", c.Name()),
			zap.String("root", d.root),
		)
		return c.Unmarshal([]byte(text), rec)
	}
	return fmt.Errorf("%w: no %s document for %q in %s", cradle.ErrResourceNotFound, rec.Kind(), id, d.root)
}
