// Package stream provides a DynamoDB Streams handler for configuration document changes.
package stream

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"github.com/jacentio/cradleconf/codec"
	"github.com/jacentio/cradleconf/cradle"
	"github.com/jacentio/cradleconf/internal/digest"
)

// Change describes a configuration document that was written or removed.
type Change struct {
	ID      string
	Kind    string
	Version int64

	// Record is the decoded document. Nil when Removed is set.
	Record cradle.Record

	// Removed is set when the document was deleted (TTL set or item removed).
	Removed bool
}

// ChangeFunc is called once per effective change.
type ChangeFunc func(ctx context.Context, change Change) error

// Handler processes DynamoDB stream events from the configuration table.
type Handler struct {
	registry *cradle.Registry
	codec    codec.JSON
	onChange ChangeFunc
	logger   *zap.Logger
}

// NewHandler creates a new stream handler. A nil registry means
// cradle.DefaultRegistry and a nil logger disables logging.
func NewHandler(registry *cradle.Registry, onChange ChangeFunc, logger *zap.Logger) *Handler {
	if registry == nil {
		registry = cradle.DefaultRegistry()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		registry: registry,
		onChange: onChange,
		logger:   logger,
	}
}

// HandleConfigChange decodes every changed document strictly and reports it.
// This function is designed to be used as an AWS Lambda handler.
func (h *Handler) HandleConfigChange(ctx context.Context, event events.DynamoDBEvent) error {
	for _, record := range event.Records {
		if err := h.processRecord(ctx, record); err != nil {
			h.logger.Error("failed to process record",
				zap.String("eventID", record.EventID),
				zap.Error(err),
			)
			return err // Will retry, eventually DLQ
		}
	}
	return nil
}

// processRecord processes a single DynamoDB stream record.
func (h *Handler) processRecord(ctx context.Context, record events.DynamoDBEventRecord) error {
	change := record.Change
	id := getStringAttr(change.Keys, "id")

	switch record.EventName {
	case "REMOVE":
		// A soft-deleted item was already reported when its TTL was set
		if getNumberAttr(change.OldImage, "ttl") != 0 {
			return nil
		}
		return h.notify(ctx, Change{
			ID:      id,
			Kind:    getStringAttr(change.OldImage, "kind"),
			Version: getNumberAttr(change.OldImage, "version"),
			Removed: true,
		})
	case "INSERT", "MODIFY":
	default:
		return nil
	}

	kind := getStringAttr(change.NewImage, "kind")
	body := getStringAttr(change.NewImage, "body")
	version := getNumberAttr(change.NewImage, "version")
	oldTTL := getNumberAttr(change.OldImage, "ttl")
	newTTL := getNumberAttr(change.NewImage, "ttl")

	if newTTL != 0 {
		// Only report the delete when TTL is newly set
		if oldTTL != 0 {
			return nil
		}
		return h.notify(ctx, Change{ID: id, Kind: kind, Version: version, Removed: true})
	}

	if record.EventName == "MODIFY" && oldTTL == 0 {
		oldSum := digest.Document(getStringAttr(change.OldImage, "kind"), getStringAttr(change.OldImage, "body"))
		if oldSum == digest.Document(kind, body) {
			h.logger.Debug("skipping unchanged document",
				zap.String("id", id),
				zap.Int64("version", version),
			)
			return nil
		}
	}

	rec, err := h.registry.New(kind)
	if err != nil {
		return fmt.Errorf("document %q: %w", id, err)
	}
	if err := h.codec.Unmarshal([]byte(body), rec); err != nil {
		return fmt.Errorf("document %q: %w", id, err)
	}

	h.logger.Info("configuration changed",
		zap.String("id", id),
		zap.String("kind", kind),
		zap.Int64("version", version),
	)
	return h.notify(ctx, Change{ID: id, Kind: kind, Version: version, Record: rec})
}

func (h *Handler) notify(ctx context.Context, change Change) error {
	if h.onChange == nil {
		return nil
	}
	return h.onChange(ctx, change)
}

// getStringAttr extracts a string attribute from a DynamoDB stream image.
func getStringAttr(image map[string]events.DynamoDBAttributeValue, key string) string {
	if v, ok := image[key]; ok {
		if v.DataType() == events.DataTypeString {
			return v.String()
		}
	}
	return ""
}

// getNumberAttr extracts a number attribute from a DynamoDB stream image.
func getNumberAttr(image map[string]events.DynamoDBAttributeValue, key string) int64 {
	if v, ok := image[key]; ok {
		if v.DataType() == events.DataTypeNumber {
			n, _ := strconv.ParseInt(v.Number(), 10, 64)
			return n
		}
	}
	return 0
}
