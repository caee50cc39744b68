package dynamodb

import (
	"context"
	"errors"

	apperrors "contentforge-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/expression"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"go.uber.org/zap"

	"contentforge-backend/pkg/utils"
)

// Item is the flat storage representation of a record
type Item = map[string]types.AttributeValue

// ErrItemNotFound is the normal, non-error outcome of a point read that
// finds nothing. Transport failures are reported separately as typed
// backend errors so callers can decide per-call whether to retry.
var ErrItemNotFound = errors.New("item not found")

// API is the subset of the DynamoDB client the store depends on
type API interface {
	PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error)
	GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error)
	Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error)
	UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error)
	DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
}

// Store is the sole point of contact with the key-value backend. All other
// components are forbidden from talking to the store directly; it owns
// nothing domain-specific.
type Store struct {
	client    API
	tableName string
	gsi1Name  string
	logger    *zap.Logger
}

// NewStore creates a new Store
func NewStore(client API, tableName, gsi1Name string, logger *zap.Logger) *Store {
	return &Store{
		client:    client,
		tableName: tableName,
		gsi1Name:  gsi1Name,
		logger:    logger,
	}
}

// Put unconditionally upserts a fully-formed item
func (s *Store) Put(ctx context.Context, item Item) error {
	input := &dynamodb.PutItemInput{
		TableName: aws.String(s.tableName),
		Item:      item,
	}

	if _, err := s.client.PutItem(ctx, input); err != nil {
		s.logger.Error("Failed to put item",
			zap.Error(err),
			zap.String("PK", stringAttr(item, AttrPK)),
			zap.String("SK", stringAttr(item, AttrSK)),
		)
		return apperrors.NewDatabaseError("put", err)
	}

	return nil
}

// Get performs a point lookup. Returns ErrItemNotFound when the item does
// not exist and a DATABASE error when the backend call itself failed.
func (s *Store) Get(ctx context.Context, pk, sk string) (Item, error) {
	input := &dynamodb.GetItemInput{
		TableName: aws.String(s.tableName),
		Key:       itemKey(pk, sk),
	}

	out, err := s.client.GetItem(ctx, input)
	if err != nil {
		s.logger.Error("Failed to get item",
			zap.Error(err),
			zap.String("PK", pk),
			zap.String("SK", sk),
		)
		return nil, apperrors.NewDatabaseError("get", err)
	}

	if len(out.Item) == 0 {
		return nil, ErrItemNotFound
	}

	return out.Item, nil
}

// QueryOptions bound and resume a partition query
type QueryOptions struct {
	// SortKeyPrefix restricts results to sort keys starting with the
	// prefix; empty matches the whole partition.
	SortKeyPrefix string
	// Limit bounds the page; zero or negative falls back to the backend's
	// default page size.
	Limit int32
	// Cursor resumes a prior query. Only valid for the same partition and
	// prefix it was issued from.
	Cursor string
	// UseGSI1 routes the query through the secondary index, matching on
	// GSI1PK/GSI1SK instead of the primary key pair.
	UseGSI1 bool
}

// QueryPage is one page of query results
type QueryPage struct {
	Items []Item
	// NextCursor is non-empty iff more matching items exist beyond this page
	NextCursor string
}

// Query returns items whose partition key matches exactly and whose sort key
// starts with the given prefix, in store-native order.
func (s *Store) Query(ctx context.Context, pk string, opts QueryOptions) (*QueryPage, error) {
	pkName, skName := AttrPK, AttrSK
	if opts.UseGSI1 {
		pkName, skName = AttrGSI1PK, AttrGSI1SK
	}

	keyCond := expression.Key(pkName).Equal(expression.Value(pk))
	if opts.SortKeyPrefix != "" {
		keyCond = keyCond.And(expression.Key(skName).BeginsWith(opts.SortKeyPrefix))
	}

	expr, err := expression.NewBuilder().WithKeyCondition(keyCond).Build()
	if err != nil {
		return nil, apperrors.NewDatabaseError("query", err)
	}

	input := &dynamodb.QueryInput{
		TableName:                 aws.String(s.tableName),
		KeyConditionExpression:    expr.KeyCondition(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}
	if opts.UseGSI1 {
		input.IndexName = aws.String(s.gsi1Name)
	}
	if opts.Limit > 0 {
		input.Limit = aws.Int32(opts.Limit)
	}
	if opts.Cursor != "" {
		startKey, err := DecodeCursor(opts.Cursor)
		if err != nil {
			return nil, apperrors.NewValidationError("invalid pagination token").WithCause(err)
		}
		input.ExclusiveStartKey = startKey
	}

	out, err := s.client.Query(ctx, input)
	if err != nil {
		s.logger.Error("Failed to query items",
			zap.Error(err),
			zap.String("PK", pk),
			zap.String("prefix", opts.SortKeyPrefix),
		)
		return nil, apperrors.NewDatabaseError("query", err)
	}

	page := &QueryPage{Items: make([]Item, 0, len(out.Items))}
	for _, item := range out.Items {
		page.Items = append(page.Items, item)
	}

	if len(out.LastEvaluatedKey) > 0 {
		cursor, err := EncodeCursor(out.LastEvaluatedKey)
		if err != nil {
			return nil, apperrors.NewDatabaseError("query", err)
		}
		page.NextCursor = cursor
	}

	return page, nil
}

// FieldUpdate assigns a new value to one attribute of an existing item.
// Updates are assembled in order and rendered through the expression
// builder, which handles aliasing of store-reserved attribute names.
type FieldUpdate struct {
	Name  string
	Value interface{}
}

// Update applies a partial update without rewriting untouched fields. The
// update timestamp is always stamped, so an empty update list advances only
// UpdatedAt.
func (s *Store) Update(ctx context.Context, pk, sk string, updates []FieldUpdate) error {
	upd := expression.Set(
		expression.Name(AttrUpdatedAt),
		expression.Value(utils.FormatRFC3339(utils.NowUTC())),
	)
	for _, f := range updates {
		upd = upd.Set(expression.Name(f.Name), expression.Value(f.Value))
	}

	expr, err := expression.NewBuilder().WithUpdate(upd).Build()
	if err != nil {
		return apperrors.NewDatabaseError("update", err)
	}

	input := &dynamodb.UpdateItemInput{
		TableName:                 aws.String(s.tableName),
		Key:                       itemKey(pk, sk),
		UpdateExpression:          expr.Update(),
		ExpressionAttributeNames:  expr.Names(),
		ExpressionAttributeValues: expr.Values(),
	}

	if _, err := s.client.UpdateItem(ctx, input); err != nil {
		s.logger.Error("Failed to update item",
			zap.Error(err),
			zap.String("PK", pk),
			zap.String("SK", sk),
			zap.Int("fields", len(updates)),
		)
		return apperrors.NewDatabaseError("update", err)
	}

	return nil
}

// Delete unconditionally removes one item. Deleting a non-existent item is
// success.
func (s *Store) Delete(ctx context.Context, pk, sk string) error {
	input := &dynamodb.DeleteItemInput{
		TableName: aws.String(s.tableName),
		Key:       itemKey(pk, sk),
	}

	if _, err := s.client.DeleteItem(ctx, input); err != nil {
		s.logger.Error("Failed to delete item",
			zap.Error(err),
			zap.String("PK", pk),
			zap.String("SK", sk),
		)
		return apperrors.NewDatabaseError("delete", err)
	}

	return nil
}

// ItemKey identifies one item for batch outcome reporting
type ItemKey struct {
	PK string
	SK string
}

// batchWriteChunk is the backend's per-call batch limit
const batchWriteChunk = 25

// BatchPut writes multiple items. The backend is not transactional: the
// returned slice lists items it left unprocessed, so callers see per-item
// outcomes instead of a single all-or-nothing signal.
func (s *Store) BatchPut(ctx context.Context, items []Item) ([]ItemKey, error) {
	var unprocessed []ItemKey

	for start := 0; start < len(items); start += batchWriteChunk {
		end := start + batchWriteChunk
		if end > len(items) {
			end = len(items)
		}

		requests := make([]types.WriteRequest, 0, end-start)
		for _, item := range items[start:end] {
			requests = append(requests, types.WriteRequest{
				PutRequest: &types.PutRequest{Item: item},
			})
		}

		input := &dynamodb.BatchWriteItemInput{
			RequestItems: map[string][]types.WriteRequest{
				s.tableName: requests,
			},
		}

		out, err := s.client.BatchWriteItem(ctx, input)
		if err != nil {
			s.logger.Error("Failed to batch write items",
				zap.Error(err),
				zap.Int("count", end-start),
			)
			return unprocessed, apperrors.NewDatabaseError("batch_put", err)
		}

		for _, reqs := range out.UnprocessedItems {
			for _, req := range reqs {
				if req.PutRequest == nil {
					continue
				}
				unprocessed = append(unprocessed, ItemKey{
					PK: stringAttr(req.PutRequest.Item, AttrPK),
					SK: stringAttr(req.PutRequest.Item, AttrSK),
				})
			}
		}
	}

	if len(unprocessed) > 0 {
		s.logger.Error("Batch write left items unprocessed",
			zap.Int("unprocessed", len(unprocessed)),
			zap.Int("total", len(items)),
		)
	}

	return unprocessed, nil
}

// itemKey builds the primary key attribute map for point operations
func itemKey(pk, sk string) map[string]types.AttributeValue {
	return map[string]types.AttributeValue{
		AttrPK: &types.AttributeValueMemberS{Value: pk},
		AttrSK: &types.AttributeValueMemberS{Value: sk},
	}
}

// stringAttr reads a string attribute for logging; missing attributes
// render as empty
func stringAttr(item Item, name string) string {
	if attr, ok := item[name]; ok {
		if s, ok := attr.(*types.AttributeValueMemberS); ok {
			return s.Value
		}
	}
	return ""
}
