package catalog

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// DynamoDBClient is the interface for DynamoDB operations.
type DynamoDBClient interface {
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
}

// Compile-time check to ensure DynamoDB satisfies the Catalog interface.
var _ Catalog = (*DynamoDB)(nil)

// DynamoDB is a Catalog backed by a DynamoDB table. This enables sharing a
// dataset registry across hosts without running a coordination service.
//
// Conditional writes give Put the same register-once semantics as the file
// catalog, so two hosts cannot silently register different objects under
// the same name.
//
// Table schema:
//   - Partition key: catalog_id (string) - the catalog namespace
//   - Sort key: name (string) - the dataset name
//
// Create table with:
//
//	aws dynamodb create-table \
//	  --table-name tabgo-catalog \
//	  --attribute-definitions AttributeName=catalog_id,AttributeType=S AttributeName=name,AttributeType=S \
//	  --key-schema AttributeName=catalog_id,KeyType=HASH AttributeName=name,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
type DynamoDB struct {
	client    DynamoDBClient
	tableName string
	namespace string
}

// NewDynamoDB creates a new DynamoDB catalog scoped to the given namespace.
func NewDynamoDB(client DynamoDBClient, tableName, namespace string) *DynamoDB {
	return &DynamoDB{
		client:    client,
		tableName: tableName,
		namespace: namespace,
	}
}

// Get returns the descriptor registered under name.
func (c *DynamoDB) Get(ctx context.Context, name string) (Descriptor, error) {
	resp, err := c.client.GetItem(ctx, &dynamodb.GetItemInput{
		TableName: aws.String(c.tableName),
		Key: map[string]types.AttributeValue{
			"catalog_id": &types.AttributeValueMemberS{Value: c.namespace},
			"name":       &types.AttributeValueMemberS{Value: name},
		},
	})
	if err != nil {
		return Descriptor{}, fmt.Errorf("failed to get item from DynamoDB: %w", err)
	}

	if len(resp.Item) == 0 {
		return Descriptor{}, fmt.Errorf("%w: %s", ErrNotFound, name)
	}

	return decodeItem(resp.Item)
}

// Put registers a descriptor under its name using a conditional write.
func (c *DynamoDB) Put(ctx context.Context, d Descriptor) error {
	if d.Name == "" {
		return errors.New("catalog: descriptor name must not be empty")
	}

	item := map[string]types.AttributeValue{
		"catalog_id": &types.AttributeValueMemberS{Value: c.namespace},
		"name":       &types.AttributeValueMemberS{Value: d.Name},
		"object":     &types.AttributeValueMemberS{Value: d.Object},
		"format":     &types.AttributeValueMemberS{Value: d.Format},
	}
	if d.Compression != "" {
		item["compression"] = &types.AttributeValueMemberS{Value: d.Compression}
	}
	if d.NumCols > 0 {
		item["num_cols"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(d.NumCols, 10)}
	}
	if d.NumRows > 0 {
		item["num_rows"] = &types.AttributeValueMemberN{Value: strconv.FormatInt(d.NumRows, 10)}
	}

	// Conditional put: only succeed if the name is not registered yet.
	// "name" is a DynamoDB reserved word, hence the placeholder.
	_, err := c.client.PutItem(ctx, &dynamodb.PutItemInput{
		TableName:           aws.String(c.tableName),
		Item:                item,
		ConditionExpression: aws.String("attribute_not_exists(#n)"),
		ExpressionAttributeNames: map[string]string{
			"#n": "name",
		},
	})
	if err != nil {
		var condErr *types.ConditionalCheckFailedException
		if errors.As(err, &condErr) {
			return fmt.Errorf("%w: %s", ErrAlreadyExists, d.Name)
		}
		return fmt.Errorf("failed to put item to DynamoDB: %w", err)
	}

	return nil
}

// List returns the registered names in ascending order.
func (c *DynamoDB) List(ctx context.Context) ([]string, error) {
	var names []string

	paginator := dynamodb.NewQueryPaginator(c.client, &dynamodb.QueryInput{
		TableName:              aws.String(c.tableName),
		KeyConditionExpression: aws.String("catalog_id = :ns"),
		ExpressionAttributeValues: map[string]types.AttributeValue{
			":ns": &types.AttributeValueMemberS{Value: c.namespace},
		},
		ProjectionExpression: aws.String("#n"),
		ExpressionAttributeNames: map[string]string{
			"#n": "name",
		},
	})

	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query DynamoDB: %w", err)
		}
		for _, item := range page.Items {
			attr, ok := item["name"].(*types.AttributeValueMemberS)
			if !ok {
				return nil, errors.New("invalid name attribute in DynamoDB")
			}
			names = append(names, attr.Value)
		}
	}

	sort.Strings(names)

	return names, nil
}

func decodeItem(item map[string]types.AttributeValue) (Descriptor, error) {
	nameAttr, ok := item["name"].(*types.AttributeValueMemberS)
	if !ok {
		return Descriptor{}, errors.New("invalid name attribute in DynamoDB")
	}
	objectAttr, ok := item["object"].(*types.AttributeValueMemberS)
	if !ok {
		return Descriptor{}, errors.New("invalid object attribute in DynamoDB")
	}
	formatAttr, ok := item["format"].(*types.AttributeValueMemberS)
	if !ok {
		return Descriptor{}, errors.New("invalid format attribute in DynamoDB")
	}

	d := Descriptor{
		Name:   nameAttr.Value,
		Object: objectAttr.Value,
		Format: formatAttr.Value,
	}

	var err error
	if attr, ok := item["compression"].(*types.AttributeValueMemberS); ok {
		d.Compression = attr.Value
	}
	if attr, ok := item["num_cols"].(*types.AttributeValueMemberN); ok {
		if d.NumCols, err = strconv.ParseInt(attr.Value, 10, 64); err != nil {
			return Descriptor{}, fmt.Errorf("failed to parse num_cols: %w", err)
		}
	}
	if attr, ok := item["num_rows"].(*types.AttributeValueMemberN); ok {
		if d.NumRows, err = strconv.ParseInt(attr.Value, 10, 64); err != nil {
			return Descriptor{}, fmt.Errorf("failed to parse num_rows: %w", err)
		}
	}

	return d, nil
}
