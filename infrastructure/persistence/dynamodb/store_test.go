package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"contentforge-backend/infrastructure/persistence/memory"
	apperrors "contentforge-backend/pkg/errors"
)

func newTestStore() (*Store, *memory.Client) {
	client := memory.NewClient()
	store := NewStore(client, "contentforge", "GSI1", zap.NewNop())
	return store, client
}

func testItem(pk, sk string, extra map[string]string) Item {
	item := Item{
		AttrPK: &types.AttributeValueMemberS{Value: pk},
		AttrSK: &types.AttributeValueMemberS{Value: sk},
	}
	for k, v := range extra {
		item[k] = &types.AttributeValueMemberS{Value: v}
	}
	return item
}

func TestStorePutGet(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testItem("USER#u-1", "PROJECT#p-1", map[string]string{"Name": "Weekly Vlog"})))

	item, err := store.Get(ctx, "USER#u-1", "PROJECT#p-1")
	require.NoError(t, err)
	assert.Equal(t, "Weekly Vlog", item["Name"].(*types.AttributeValueMemberS).Value)
}

func TestStoreGetDistinguishesAbsenceFromFailure(t *testing.T) {
	store, client := newTestStore()
	ctx := context.Background()

	_, err := store.Get(ctx, "USER#u-1", "PROJECT#missing")
	assert.ErrorIs(t, err, ErrItemNotFound)
	assert.False(t, apperrors.IsDatabase(err))

	client.FailWith("get", errors.New("connection reset"))
	_, err = store.Get(ctx, "USER#u-1", "PROJECT#missing")
	assert.True(t, apperrors.IsDatabase(err))
	assert.NotErrorIs(t, err, ErrItemNotFound)
}

func TestStoreQueryPrefix(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		sk := fmt.Sprintf("SCRIPT#s-%d", i)
		require.NoError(t, store.Put(ctx, testItem("PROJECT#p-1", sk, nil)))
	}
	require.NoError(t, store.Put(ctx, testItem("PROJECT#p-1", "VIDEO#v-1", nil)))
	require.NoError(t, store.Put(ctx, testItem("PROJECT#p-2", "SCRIPT#s-9", nil)))

	page, err := store.Query(ctx, "PROJECT#p-1", QueryOptions{SortKeyPrefix: ScriptPrefix})
	require.NoError(t, err)
	assert.Len(t, page.Items, 3)
	assert.Empty(t, page.NextCursor)
	for _, item := range page.Items {
		assert.Contains(t, item[AttrSK].(*types.AttributeValueMemberS).Value, "SCRIPT#")
	}
}

func TestStoreQueryPaginationCoversAllItems(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	const total = 7
	for i := 0; i < total; i++ {
		sk := fmt.Sprintf("SCRIPT#s-%02d", i)
		require.NoError(t, store.Put(ctx, testItem("PROJECT#p-1", sk, nil)))
	}

	seen := make(map[string]bool)
	cursor := ""
	pages := 0
	for {
		page, err := store.Query(ctx, "PROJECT#p-1", QueryOptions{
			SortKeyPrefix: ScriptPrefix,
			Limit:         3,
			Cursor:        cursor,
		})
		require.NoError(t, err)
		pages++
		for _, item := range page.Items {
			sk := item[AttrSK].(*types.AttributeValueMemberS).Value
			assert.False(t, seen[sk], "item %s returned twice", sk)
			seen[sk] = true
		}
		if page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	assert.Len(t, seen, total)
	assert.Equal(t, 3, pages)
}

func TestStoreQueryGSI1(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	item := testItem("USER#u-1", "PROJECT#p-1", map[string]string{"Name": "Weekly Vlog"})
	item[AttrGSI1PK] = &types.AttributeValueMemberS{Value: "PROJECT#p-1"}
	item[AttrGSI1SK] = &types.AttributeValueMemberS{Value: GSI1MetadataSK}
	require.NoError(t, store.Put(ctx, item))

	page, err := store.Query(ctx, "PROJECT#p-1", QueryOptions{UseGSI1: true})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Weekly Vlog", page.Items[0]["Name"].(*types.AttributeValueMemberS).Value)
}

func TestStoreQueryInvalidCursor(t *testing.T) {
	store, _ := newTestStore()

	_, err := store.Query(context.Background(), "PROJECT#p-1", QueryOptions{Cursor: "!!not-a-cursor!!"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
	assert.False(t, apperrors.IsDatabase(err))
}

func TestStoreUpdateLeavesOtherFieldsIntact(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	item := testItem("USER#u-1", "PROJECT#p-1", map[string]string{
		"Name":      "Weekly Vlog",
		"Niche":     "travel",
		"UpdatedAt": "2024-01-01T00:00:00Z",
	})
	require.NoError(t, store.Put(ctx, item))

	err := store.Update(ctx, "USER#u-1", "PROJECT#p-1", []FieldUpdate{
		{Name: "Name", Value: "Daily Vlog"},
	})
	require.NoError(t, err)

	got, err := store.Get(ctx, "USER#u-1", "PROJECT#p-1")
	require.NoError(t, err)
	assert.Equal(t, "Daily Vlog", got["Name"].(*types.AttributeValueMemberS).Value)
	assert.Equal(t, "travel", got["Niche"].(*types.AttributeValueMemberS).Value)
	assert.NotEqual(t, "2024-01-01T00:00:00Z", got["UpdatedAt"].(*types.AttributeValueMemberS).Value)
}

func TestStoreUpdateAlwaysAdvancesTimestamp(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	item := testItem("USER#u-1", "PROJECT#p-1", map[string]string{
		"UpdatedAt": "2024-01-01T00:00:00Z",
	})
	require.NoError(t, store.Put(ctx, item))

	require.NoError(t, store.Update(ctx, "USER#u-1", "PROJECT#p-1", nil))

	got, err := store.Get(ctx, "USER#u-1", "PROJECT#p-1")
	require.NoError(t, err)
	updatedAt := got["UpdatedAt"].(*types.AttributeValueMemberS).Value
	assert.Greater(t, updatedAt, "2024-01-01T00:00:00Z")
}

func TestStoreDeleteIdempotent(t *testing.T) {
	store, _ := newTestStore()
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, testItem("USER#u-1", "PROJECT#p-1", nil)))

	require.NoError(t, store.Delete(ctx, "USER#u-1", "PROJECT#p-1"))
	require.NoError(t, store.Delete(ctx, "USER#u-1", "PROJECT#p-1"))

	_, err := store.Get(ctx, "USER#u-1", "PROJECT#p-1")
	assert.ErrorIs(t, err, ErrItemNotFound)
}

func TestStoreBatchPutChunks(t *testing.T) {
	store, client := newTestStore()
	ctx := context.Background()

	items := make([]Item, 0, 60)
	for i := 0; i < 60; i++ {
		items = append(items, testItem("PROJECT#p-1", fmt.Sprintf("SCRIPT#s-%03d", i), nil))
	}

	unprocessed, err := store.BatchPut(ctx, items)
	require.NoError(t, err)
	assert.Empty(t, unprocessed)
	assert.Equal(t, 60, client.Len())
}

func TestStoreBatchPutReportsFailure(t *testing.T) {
	store, client := newTestStore()
	ctx := context.Background()

	client.FailWith("batch", errors.New("throughput exceeded"))
	_, err := store.BatchPut(ctx, []Item{testItem("PROJECT#p-1", "SCRIPT#s-1", nil)})
	assert.True(t, apperrors.IsDatabase(err))
}
