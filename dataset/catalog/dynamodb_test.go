package catalog

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/hupe1980/tabgo/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockDynamoDBClient is an in-memory DynamoDB mock for testing.
type mockDynamoDBClient struct {
	mu    sync.RWMutex
	items map[string]map[string]types.AttributeValue // namespace:name -> item
}

func newMockDynamoDBClient() *mockDynamoDBClient {
	return &mockDynamoDBClient{
		items: make(map[string]map[string]types.AttributeValue),
	}
}

func itemKey(namespace, name string) string {
	return namespace + ":" + name
}

func (m *mockDynamoDBClient) GetItem(_ context.Context, params *dynamodb.GetItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	namespace := params.Key["catalog_id"].(*types.AttributeValueMemberS).Value
	name := params.Key["name"].(*types.AttributeValueMemberS).Value

	if item, ok := m.items[itemKey(namespace, name)]; ok {
		return &dynamodb.GetItemOutput{Item: item}, nil
	}
	return &dynamodb.GetItemOutput{}, nil
}

func (m *mockDynamoDBClient) PutItem(_ context.Context, params *dynamodb.PutItemInput, _ ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	namespace := params.Item["catalog_id"].(*types.AttributeValueMemberS).Value
	name := params.Item["name"].(*types.AttributeValueMemberS).Value
	key := itemKey(namespace, name)

	// Check conditional expression
	if params.ConditionExpression != nil && strings.HasPrefix(*params.ConditionExpression, "attribute_not_exists") {
		if _, exists := m.items[key]; exists {
			return nil, &types.ConditionalCheckFailedException{Message: aws.String("condition failed")}
		}
	}

	m.items[key] = params.Item
	return &dynamodb.PutItemOutput{}, nil
}

func (m *mockDynamoDBClient) Query(_ context.Context, params *dynamodb.QueryInput, _ ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	namespace := params.ExpressionAttributeValues[":ns"].(*types.AttributeValueMemberS).Value

	var items []map[string]types.AttributeValue
	for _, item := range m.items {
		if item["catalog_id"].(*types.AttributeValueMemberS).Value == namespace {
			items = append(items, item)
		}
	}

	return &dynamodb.QueryOutput{Items: items}, nil
}

func TestDynamoDB_PutGet(t *testing.T) {
	ctx := context.Background()
	c := NewDynamoDB(newMockDynamoDBClient(), "tabgo-catalog", "prod")

	want := Descriptor{
		Name:        "trades-2026-08",
		Object:      "daily/trades-2026-08.bin.zst",
		Format:      dataset.FormatBinary,
		Compression: dataset.CompressionZstd,
		NumCols:     4,
		NumRows:     250000,
	}
	require.NoError(t, c.Put(ctx, want))

	got, err := c.Get(ctx, "trades-2026-08")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDynamoDB_PutGet_MinimalDescriptor(t *testing.T) {
	ctx := context.Background()
	c := NewDynamoDB(newMockDynamoDBClient(), "tabgo-catalog", "prod")

	want := Descriptor{Name: "trades", Object: "trades.csv", Format: dataset.FormatCSV}
	require.NoError(t, c.Put(ctx, want))

	got, err := c.Get(ctx, "trades")
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDynamoDB_Get_NotFound(t *testing.T) {
	c := NewDynamoDB(newMockDynamoDBClient(), "tabgo-catalog", "prod")

	_, err := c.Get(context.Background(), "missing")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDynamoDB_Put_AlreadyExists(t *testing.T) {
	ctx := context.Background()
	c := NewDynamoDB(newMockDynamoDBClient(), "tabgo-catalog", "prod")

	d := Descriptor{Name: "trades", Object: "trades.csv", Format: dataset.FormatCSV}
	require.NoError(t, c.Put(ctx, d))

	err := c.Put(ctx, Descriptor{Name: "trades", Object: "other.csv", Format: dataset.FormatCSV})
	require.ErrorIs(t, err, ErrAlreadyExists)
}

func TestDynamoDB_List(t *testing.T) {
	ctx := context.Background()
	c := NewDynamoDB(newMockDynamoDBClient(), "tabgo-catalog", "prod")

	for _, name := range []string{"zebra", "alpha", "mid"} {
		require.NoError(t, c.Put(ctx, Descriptor{Name: name, Object: name + ".csv", Format: dataset.FormatCSV}))
	}

	names, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alpha", "mid", "zebra"}, names)
}

func TestDynamoDB_IsolatedNamespaces(t *testing.T) {
	ctx := context.Background()
	client := newMockDynamoDBClient()

	prod := NewDynamoDB(client, "tabgo-catalog", "prod")
	staging := NewDynamoDB(client, "tabgo-catalog", "staging")

	require.NoError(t, prod.Put(ctx, Descriptor{Name: "trades", Object: "prod/trades.csv", Format: dataset.FormatCSV}))
	require.NoError(t, staging.Put(ctx, Descriptor{Name: "trades", Object: "staging/trades.csv", Format: dataset.FormatCSV}))

	got, err := prod.Get(ctx, "trades")
	require.NoError(t, err)
	assert.Equal(t, "prod/trades.csv", got.Object)

	got, err = staging.Get(ctx, "trades")
	require.NoError(t, err)
	assert.Equal(t, "staging/trades.csv", got.Object)
}
