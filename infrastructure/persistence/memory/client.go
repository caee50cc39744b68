package memory

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
)

// Client is an in-memory stand-in for the DynamoDB API used in tests. It
// understands the expression shapes the store emits (aliased key conditions
// and SET-only update expressions) and honors Limit, ExclusiveStartKey and
// LastEvaluatedKey the way the real backend does, so pagination behavior can
// be exercised without a table.
type Client struct {
	mu    sync.Mutex
	items map[string]map[string]map[string]types.AttributeValue // pk -> sk -> item

	failures map[string]error
}

// NewClient creates an empty in-memory client
func NewClient() *Client {
	return &Client{
		items:    make(map[string]map[string]map[string]types.AttributeValue),
		failures: make(map[string]error),
	}
}

// FailWith makes the next call of the named operation (put, get, query,
// update, delete, batch) return err instead of executing
func (c *Client) FailWith(operation string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failures[operation] = err
}

func (c *Client) takeFailure(operation string) error {
	if err, ok := c.failures[operation]; ok {
		delete(c.failures, operation)
		return err
	}
	return nil
}

// Len reports the total number of stored items
func (c *Client) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, part := range c.items {
		n += len(part)
	}
	return n
}

func stringValue(av types.AttributeValue) string {
	if s, ok := av.(*types.AttributeValueMemberS); ok {
		return s.Value
	}
	return ""
}

func cloneItem(item map[string]types.AttributeValue) map[string]types.AttributeValue {
	out := make(map[string]types.AttributeValue, len(item))
	for k, v := range item {
		out[k] = v
	}
	return out
}

func (c *Client) PutItem(ctx context.Context, params *dynamodb.PutItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.PutItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeFailure("put"); err != nil {
		return nil, err
	}

	c.store(params.Item)
	return &dynamodb.PutItemOutput{}, nil
}

// store must be called with the lock held
func (c *Client) store(item map[string]types.AttributeValue) {
	pk := stringValue(item["PK"])
	sk := stringValue(item["SK"])
	part, ok := c.items[pk]
	if !ok {
		part = make(map[string]map[string]types.AttributeValue)
		c.items[pk] = part
	}
	part[sk] = cloneItem(item)
}

func (c *Client) GetItem(ctx context.Context, params *dynamodb.GetItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.GetItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeFailure("get"); err != nil {
		return nil, err
	}

	pk := stringValue(params.Key["PK"])
	sk := stringValue(params.Key["SK"])
	item, ok := c.items[pk][sk]
	if !ok {
		return &dynamodb.GetItemOutput{}, nil
	}
	return &dynamodb.GetItemOutput{Item: cloneItem(item)}, nil
}

var (
	aliasAssignRe   = regexp.MustCompile(`(#\w+) = (:\w+)`)
	keyBeginsWithRe = regexp.MustCompile(`begins_with \((#\w+), (:\w+)\)`)
)

func (c *Client) Query(ctx context.Context, params *dynamodb.QueryInput, optFns ...func(*dynamodb.Options)) (*dynamodb.QueryOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeFailure("query"); err != nil {
		return nil, err
	}

	cond := *params.KeyConditionExpression
	pkAttr, skAttr := "PK", "SK"
	if params.IndexName != nil {
		pkAttr, skAttr = "GSI1PK", "GSI1SK"
	}

	var wantPK, skPrefix string
	for _, m := range aliasAssignRe.FindAllStringSubmatch(cond, -1) {
		if params.ExpressionAttributeNames[m[1]] == pkAttr {
			wantPK = stringValue(params.ExpressionAttributeValues[m[2]])
		}
	}
	if m := keyBeginsWithRe.FindStringSubmatch(cond); m != nil {
		if params.ExpressionAttributeNames[m[1]] == skAttr {
			skPrefix = stringValue(params.ExpressionAttributeValues[m[2]])
		}
	}

	type entry struct {
		sortKey string
		item    map[string]types.AttributeValue
	}
	var matched []entry
	for _, part := range c.items {
		for _, item := range part {
			if stringValue(item[pkAttr]) != wantPK {
				continue
			}
			sk := stringValue(item[skAttr])
			if skPrefix != "" && !strings.HasPrefix(sk, skPrefix) {
				continue
			}
			matched = append(matched, entry{sortKey: sk, item: item})
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].sortKey < matched[j].sortKey })

	// Resume strictly after the last evaluated sort key
	if start := params.ExclusiveStartKey; len(start) > 0 {
		after := stringValue(start[skAttr])
		idx := sort.Search(len(matched), func(i int) bool { return matched[i].sortKey > after })
		matched = matched[idx:]
	}

	out := &dynamodb.QueryOutput{}
	limit := len(matched)
	if params.Limit != nil && int(*params.Limit) < limit {
		limit = int(*params.Limit)
	}
	for _, e := range matched[:limit] {
		out.Items = append(out.Items, cloneItem(e.item))
	}
	if limit < len(matched) {
		last := matched[limit-1].item
		out.LastEvaluatedKey = map[string]types.AttributeValue{
			"PK": last["PK"],
			"SK": last["SK"],
		}
		if params.IndexName != nil {
			out.LastEvaluatedKey["GSI1PK"] = last["GSI1PK"]
			out.LastEvaluatedKey["GSI1SK"] = last["GSI1SK"]
		}
	}

	return out, nil
}

func (c *Client) UpdateItem(ctx context.Context, params *dynamodb.UpdateItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.UpdateItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeFailure("update"); err != nil {
		return nil, err
	}

	pk := stringValue(params.Key["PK"])
	sk := stringValue(params.Key["SK"])
	item, ok := c.items[pk][sk]
	if !ok {
		// An update against a missing key upserts a bare item, matching
		// the real backend
		item = map[string]types.AttributeValue{
			"PK": params.Key["PK"],
			"SK": params.Key["SK"],
		}
	} else {
		item = cloneItem(item)
	}

	expr := strings.TrimSpace(*params.UpdateExpression)
	expr = strings.TrimPrefix(expr, "SET ")
	for _, m := range aliasAssignRe.FindAllStringSubmatch(expr, -1) {
		name := params.ExpressionAttributeNames[m[1]]
		item[name] = params.ExpressionAttributeValues[m[2]]
	}
	c.store(item)

	return &dynamodb.UpdateItemOutput{}, nil
}

func (c *Client) DeleteItem(ctx context.Context, params *dynamodb.DeleteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.DeleteItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeFailure("delete"); err != nil {
		return nil, err
	}

	pk := stringValue(params.Key["PK"])
	sk := stringValue(params.Key["SK"])
	if part, ok := c.items[pk]; ok {
		delete(part, sk)
		if len(part) == 0 {
			delete(c.items, pk)
		}
	}

	return &dynamodb.DeleteItemOutput{}, nil
}

func (c *Client) BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.takeFailure("batch"); err != nil {
		return nil, err
	}

	for _, requests := range params.RequestItems {
		for _, req := range requests {
			switch {
			case req.PutRequest != nil:
				c.store(req.PutRequest.Item)
			case req.DeleteRequest != nil:
				pk := stringValue(req.DeleteRequest.Key["PK"])
				sk := stringValue(req.DeleteRequest.Key["SK"])
				if part, ok := c.items[pk]; ok {
					delete(part, sk)
				}
			}
		}
	}

	return &dynamodb.BatchWriteItemOutput{}, nil
}
