//go:build e2e

// Package e2e contains end-to-end integration tests using a real DynamoDB table.
// Run with: go test -tags=e2e -v ./e2e/...
package e2e

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jacentio/cradleconf/cradle"
	"github.com/jacentio/cradleconf/provider"
	"github.com/jacentio/cradleconf/roundtrip"
	"github.com/jacentio/cradleconf/store"
)

const tablePrefix = "cradleconf-e2e-test"

var (
	testID    string
	tableName string

	ddbClient *dynamodb.Client
	testStore *store.Store

	confidential = cradle.ConfidentialConfig{
		DataCenter: "data center",
		Host:       "host",
		Keyspace:   "keyspace",
		Port:       1234,
		Username:   "user",
		Password:   "pass",
		Instance:   "instance",
	}
	nonConfidential = cradle.NonConfidentialConfig{
		PageSizeBytes:   888,
		BatchSizeLimit:  111,
		ResultPageSize:  123,
		TimeoutSeconds:  321,
		DisableBatching: false,
	}
)

func TestMain(m *testing.M) {
	testID = uuid.New().String()[:8]
	tableName = fmt.Sprintf("%s-%s", tablePrefix, testID)
	fmt.Printf("Test ID: %s\nTable: %s\n", testID, tableName)

	// AWS_PROFILE / AWS_REGION select the account.
	ctx := context.Background()
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		fmt.Printf("Failed to load AWS config: %v\n", err)
		os.Exit(1)
	}
	ddbClient = dynamodb.NewFromConfig(cfg)

	if err := createTable(ctx); err != nil {
		fmt.Printf("Failed to create table: %v\n", err)
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	testStore = store.New(ddbClient, store.Config{Table: tableName}, logger)

	code := m.Run()

	if _, err := ddbClient.DeleteTable(ctx, &dynamodb.DeleteTableInput{TableName: aws.String(tableName)}); err != nil {
		fmt.Printf("Failed to delete table: %v\n", err)
	}
	os.Exit(code)
}

func createTable(ctx context.Context) error {
	_, err := ddbClient.CreateTable(ctx, &dynamodb.CreateTableInput{
		TableName: aws.String(tableName),
		KeySchema: []types.KeySchemaElement{
			{AttributeName: aws.String("id"), KeyType: types.KeyTypeHash},
		},
		AttributeDefinitions: []types.AttributeDefinition{
			{AttributeName: aws.String("id"), AttributeType: types.ScalarAttributeTypeS},
		},
		BillingMode: types.BillingModePayPerRequest,
	})
	if err != nil {
		return fmt.Errorf("create table %s: %w", tableName, err)
	}

	waiter := dynamodb.NewTableExistsWaiter(ddbClient)
	if err := waiter.Wait(ctx, &dynamodb.DescribeTableInput{TableName: aws.String(tableName)}, 2*time.Minute); err != nil {
		return fmt.Errorf("wait for table %s: %w", tableName, err)
	}
	return nil
}

func uniqueID(name string) string {
	return name + "-" + uuid.New().String()[:8]
}

func TestSaveAndLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	id := uniqueID(cradle.ConfidentialKind)

	c := confidential
	version, err := testStore.Save(ctx, id, &c, 0)
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if version != 1 {
		t.Errorf("expected version 1, got %d", version)
	}

	var got cradle.ConfidentialConfig
	if err := testStore.Load(ctx, id, &got); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got != confidential {
		t.Errorf("expected %+v, got %+v", confidential, got)
	}

	// The stored body is the canonical document.
	doc, err := testStore.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if err := roundtrip.VerifyDeserialize(roundtrip.New(nil), []byte(doc.Body), confidential); err != nil {
		t.Error(err)
	}
}

func TestSave_DuplicateCreate(t *testing.T) {
	ctx := context.Background()
	id := uniqueID(cradle.NonConfidentialKind)

	n := nonConfidential
	if _, err := testStore.Save(ctx, id, &n, 0); err != nil {
		t.Fatalf("first Save failed: %v", err)
	}
	_, err := testStore.Save(ctx, id, &n, 0)
	if !errors.Is(err, cradle.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}

func TestSave_UpdateAndStaleVersion(t *testing.T) {
	ctx := context.Background()
	id := uniqueID(cradle.NonConfidentialKind)

	n := nonConfidential
	if _, err := testStore.Save(ctx, id, &n, 0); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	n.DisableBatching = true
	version, err := testStore.Save(ctx, id, &n, 1)
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if version != 2 {
		t.Errorf("expected version 2, got %d", version)
	}

	n.TimeoutSeconds = 1
	_, err = testStore.Save(ctx, id, &n, 1)
	if !errors.Is(err, cradle.ErrConcurrentModification) {
		t.Errorf("expected ErrConcurrentModification, got %v", err)
	}

	var got cradle.NonConfidentialConfig
	if err := testStore.Load(ctx, id, &got); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !got.DisableBatching || got.TimeoutSeconds != 321 {
		t.Errorf("expected the version 2 document, got %+v", got)
	}
}

func TestDelete_SoftDelete(t *testing.T) {
	ctx := context.Background()
	id := uniqueID(cradle.ConfidentialKind)

	c := confidential
	if _, err := testStore.Save(ctx, id, &c, 0); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := testStore.Delete(ctx, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	// The item stays until DynamoDB expires it, with the TTL attribute set.
	raw, err := ddbClient.GetItem(ctx, &dynamodb.GetItemInput{
		TableName:      aws.String(tableName),
		Key:            map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: id}},
		ConsistentRead: aws.Bool(true),
	})
	if err != nil {
		t.Fatalf("GetItem failed: %v", err)
	}
	if !store.IsDeleted(raw.Item) {
		t.Errorf("expected ttl to be set, got %v", raw.Item)
	}

	var got cradle.ConfidentialConfig
	if err := testStore.Load(ctx, id, &got); !errors.Is(err, cradle.ErrResourceNotFound) {
		t.Errorf("expected ErrResourceNotFound after delete, got %v", err)
	}

	// Deleting again is a no-op.
	if err := testStore.Delete(ctx, id); err != nil {
		t.Errorf("second Delete failed: %v", err)
	}
	// Updates to a deleted document fail.
	if _, err := testStore.Save(ctx, id, &c, 2); !errors.Is(err, cradle.ErrConcurrentModification) {
		t.Errorf("expected ErrConcurrentModification, got %v", err)
	}

	// A create replaces the soft-deleted item before DynamoDB expires it.
	version, err := testStore.Save(ctx, id, &c, 0)
	if err != nil {
		t.Fatalf("create after delete failed: %v", err)
	}
	if version != 1 {
		t.Errorf("expected version 1, got %d", version)
	}
	if err := testStore.Load(ctx, id, &got); err != nil {
		t.Errorf("Load after recreate failed: %v", err)
	}
}

func TestLoadSettings_FromStore(t *testing.T) {
	ctx := context.Background()

	// The table is unique to this run, so the fixed configuration ids are free.
	c, n := confidential, nonConfidential
	if _, err := testStore.Save(ctx, cradle.ConfidentialKind, &c, 0); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := testStore.Save(ctx, cradle.NonConfidentialKind, &n, 0); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	settings, err := provider.LoadSettings(ctx, testStore)
	if err != nil {
		t.Fatalf("LoadSettings failed: %v", err)
	}
	if settings.Host != "host" || settings.Timeout != 321*time.Second || !settings.Batching {
		t.Errorf("unexpected settings: %s", settings)
	}
}
