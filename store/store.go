package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"github.com/jacentio/cradleconf/codec"
	"github.com/jacentio/cradleconf/cradle"
)

// API is the subset of the DynamoDB client used by the Store.
type API interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
}

// Document is a stored configuration document.
type Document struct {
	// ID is the configuration id and partition key.
	ID string `dynamodbav:"id"`

	// Kind is the record kind the body decodes into.
	Kind string `dynamodbav:"kind"`

	// Body is the record encoded with the strict JSON codec.
	Body string `dynamodbav:"body"`

	// Version is the optimistic lock version. Starts at 1.
	Version int64 `dynamodbav:"version"`

	// CreatedAt is the ISO 8601 creation timestamp.
	CreatedAt string `dynamodbav:"created_at"`

	// UpdatedAt is the ISO 8601 last update timestamp.
	UpdatedAt string `dynamodbav:"updated_at"`

	// TTL is the deletion time in Unix seconds. Zero means active.
	TTL int64 `dynamodbav:"ttl,omitempty"`
}

// Store keeps configuration documents in a DynamoDB table.
type Store struct {
	client API
	config Config
	codec  codec.JSON
	logger *zap.Logger
	now    func() time.Time
}

// New creates a new Store instance. A nil logger disables logging.
func New(client API, config Config, logger *zap.Logger) *Store {
	config.validate()
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		client: client,
		config: config,
		logger: logger,
		now:    time.Now,
	}
}

// Table returns the configured table name.
func (s *Store) Table() string {
	return s.config.Table
}

func (s *Store) key(id string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		"id": &types.AttributeValueMemberS{Value: id},
	}
}

// Save stores rec under id and returns the new version.
//
// With expectedVersion 0 the document is created and ErrAlreadyExists is
// returned if the id is taken. Otherwise the stored version must equal
// expectedVersion and the document must not be deleted, or
// ErrConcurrentModification is returned.
func (s *Store) Save(ctx context.Context, id string, rec cradle.Record, expectedVersion int64) (int64, error) {
	body, err := s.codec.Marshal(rec)
	if err != nil {
		return 0, fmt.Errorf("encode %s: %w", rec.Kind(), err)
	}

	if expectedVersion == 0 {
		if err := s.create(ctx, id, rec.Kind(), string(body)); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err := s.update(ctx, id, rec.Kind(), string(body), expectedVersion); err != nil {
		return 0, err
	}
	return expectedVersion + 1, nil
}

func (s *Store) create(ctx context.Context, id, kind, body string) error {
	nowISO := s.now().UTC().Format(time.RFC3339)
	item, err := attributevalue.MarshalMap(Document{
		ID:        id,
		Kind:      kind,
		Body:      body,
		Version:   1,
		CreatedAt: nowISO,
		UpdatedAt: nowISO,
	})
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	// A soft-deleted document may be replaced before DynamoDB expires it
	_, err = s.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:                aws.String(s.config.Table),
		Item:                     item,
		ConditionExpression:      aws.String(createCond),
		ExpressionAttributeNames: map[string]string{"#ttl": "ttl"},
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": nowValue(s.now()),
		},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return fmt.Errorf("%w: %s", cradle.ErrAlreadyExists, id)
		}
		return err
	}

	s.logger.Debug("created configuration document",
		zap.String("id", id),
		zap.String("kind", kind),
	)
	return nil
}

func (s *Store) update(ctx context.Context, id, kind, body string, expectedVersion int64) error {
	exprNames := ttlNames()
	exprNames["#body"] = "body"
	exprNames["#kind"] = "kind"
	exprNames["#updated_at"] = "updated_at"

	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(s.config.Table),
		Key:                      s.key(id),
		UpdateExpression:         aws.String(updateExpr),
		ConditionExpression:      aws.String("#version = :expected_version AND attribute_not_exists(#ttl)"),
		ExpressionAttributeNames: exprNames,
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":body":             &types.AttributeValueMemberS{Value: body},
			":kind":             &types.AttributeValueMemberS{Value: kind},
			":updated_at":       &types.AttributeValueMemberS{Value: s.now().UTC().Format(time.RFC3339)},
			":one":              &types.AttributeValueMemberN{Value: "1"},
			":expected_version": &types.AttributeValueMemberN{Value: strconv.FormatInt(expectedVersion, 10)},
		},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return fmt.Errorf("%w: %s", cradle.ErrConcurrentModification, id)
		}
		return err
	}

	s.logger.Debug("updated configuration document",
		zap.String("id", id),
		zap.String("kind", kind),
		zap.Int64("version", expectedVersion+1),
	)
	return nil
}

const (
	createCond = "attribute_not_exists(id) OR (attribute_exists(#ttl) AND #ttl <= :now)"
	updateExpr = "SET #body = :body, #kind = :kind, #updated_at = :updated_at, #version = #version + :one"
	deleteExpr = "SET #ttl = :now, #version = #version + :one"
)

// Get retrieves a document by id, returning ErrResourceNotFound if deleted or missing.
func (s *Store) Get(ctx context.Context, id string) (*Document, error) {
	result, err := s.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(s.config.Table),
		Key:            s.key(id),
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		return nil, err
	}
	if result.Item == nil || isExpired(result.Item, s.now()) {
		return nil, fmt.Errorf("%w: document %q in table %s", cradle.ErrResourceNotFound, id, s.config.Table)
	}

	var doc Document
	if err := attributevalue.UnmarshalMap(result.Item, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal document %q: %w", id, err)
	}
	return &doc, nil
}

// Load decodes the document stored under id into rec.
func (s *Store) Load(ctx context.Context, id string, rec cradle.Record) error {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if doc.Kind != rec.Kind() {
		return &cradle.MappingError{
			Kind:   rec.Kind(),
			Reason: fmt.Sprintf("document %q holds kind %q", id, doc.Kind),
		}
	}
	if err := s.codec.Unmarshal([]byte(doc.Body), rec); err != nil {
		s.logger.Warn("stored configuration does not match record shape",
			zap.String("id", id),
			zap.Error(err),
		)
		return err
	}
	return nil
}

// Delete marks a document for deletion by setting its TTL to now.
// This also increments the version to fail concurrent updates.
func (s *Store) Delete(ctx context.Context, id string) error {
	_, err := s.client.UpdateItem(ctx, &dynamodb.UpdateItemInput{
		TableName:                aws.String(s.config.Table),
		Key:                      s.key(id),
		UpdateExpression:         aws.String(deleteExpr),
		ConditionExpression:      aws.String("attribute_exists(id) AND attribute_not_exists(#ttl)"),
		ExpressionAttributeNames: ttlNames(),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":now": nowValue(s.now()),
			":one": &types.AttributeValueMemberN{Value: "1"},
		},
	})

	// Ignore condition failure - missing or already deleted
	var condErr *types.ConditionalCheckFailedException
	if errors.As(err, &condErr) {
		return nil
	}
	if err == nil {
		s.logger.Debug("deleted configuration document", zap.String("id", id))
	}
	return err
}
