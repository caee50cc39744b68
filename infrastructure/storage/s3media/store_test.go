package s3media

import (
	"context"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "contentforge-backend/pkg/errors"
)

type fakeObjectAPI struct {
	headObject   func(*s3.HeadObjectInput) (*s3.HeadObjectOutput, error)
	deleteObject func(*s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error)
}

func (f *fakeObjectAPI) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	return f.headObject(params)
}

func (f *fakeObjectAPI) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	return f.deleteObject(params)
}

type fakePresignAPI struct {
	putKey string
	getKey string
}

func (f *fakePresignAPI) PresignPutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.putKey = aws.ToString(params.Key)
	return &v4.PresignedHTTPRequest{
		URL:    "https://bucket.example.com/" + f.putKey + "?signed=put",
		Method: "PUT",
	}, nil
}

func (f *fakePresignAPI) PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	f.getKey = aws.ToString(params.Key)
	return &v4.PresignedHTTPRequest{
		URL:    "https://bucket.example.com/" + f.getKey + "?signed=get",
		Method: "GET",
	}, nil
}

func newTestStore(objects *fakeObjectAPI, presign *fakePresignAPI) *Store {
	return NewStore(objects, presign, "media-bucket", 15*time.Minute, zap.NewNop())
}

func TestVideoKeyEscapesFilename(t *testing.T) {
	key := VideoKey("u-1", "p-1", "v-1", "my vlog/take 2.mp4")
	assert.Equal(t, "videos/u-1/p-1/v-1/my%20vlog%2Ftake%202.mp4", key)
}

func TestTranscriptKey(t *testing.T) {
	assert.Equal(t, "transcripts/u-1/p-1/v-1.json", TranscriptKey("u-1", "p-1", "v-1"))
}

func TestPresignUpload(t *testing.T) {
	presign := &fakePresignAPI{}
	store := newTestStore(&fakeObjectAPI{}, presign)

	url, err := store.PresignUpload(context.Background(), "videos/u-1/p-1/v-1/take.mp4", "video/mp4")
	require.NoError(t, err)
	assert.Contains(t, url, "signed=put")
	assert.Equal(t, "videos/u-1/p-1/v-1/take.mp4", presign.putKey)
}

func TestPresignDownload(t *testing.T) {
	presign := &fakePresignAPI{}
	store := newTestStore(&fakeObjectAPI{}, presign)

	url, err := store.PresignDownload(context.Background(), "videos/u-1/p-1/v-1/take.mp4")
	require.NoError(t, err)
	assert.Contains(t, url, "signed=get")
}

func TestExists(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		store := newTestStore(&fakeObjectAPI{
			headObject: func(*s3.HeadObjectInput) (*s3.HeadObjectOutput, error) {
				return &s3.HeadObjectOutput{}, nil
			},
		}, &fakePresignAPI{})

		ok, err := store.Exists(context.Background(), "videos/u-1/p-1/v-1/take.mp4")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("absent", func(t *testing.T) {
		store := newTestStore(&fakeObjectAPI{
			headObject: func(*s3.HeadObjectInput) (*s3.HeadObjectOutput, error) {
				return nil, &s3types.NotFound{}
			},
		}, &fakePresignAPI{})

		ok, err := store.Exists(context.Background(), "videos/u-1/p-1/v-1/take.mp4")
		require.NoError(t, err)
		assert.False(t, ok)
	})
}

func TestMetadata(t *testing.T) {
	now := time.Now()
	store := newTestStore(&fakeObjectAPI{
		headObject: func(in *s3.HeadObjectInput) (*s3.HeadObjectOutput, error) {
			assert.Equal(t, "media-bucket", aws.ToString(in.Bucket))
			return &s3.HeadObjectOutput{
				ContentLength: aws.Int64(2048),
				ContentType:   aws.String("video/mp4"),
				LastModified:  &now,
			}, nil
		},
	}, &fakePresignAPI{})

	meta, err := store.Metadata(context.Background(), "videos/u-1/p-1/v-1/take.mp4")
	require.NoError(t, err)
	assert.Equal(t, int64(2048), meta.Size)
	assert.Equal(t, "video/mp4", meta.ContentType)
	assert.Equal(t, now, meta.LastModified)
}

func TestMetadataMissingObject(t *testing.T) {
	store := newTestStore(&fakeObjectAPI{
		headObject: func(*s3.HeadObjectInput) (*s3.HeadObjectOutput, error) {
			return nil, &s3types.NotFound{}
		},
	}, &fakePresignAPI{})

	_, err := store.Metadata(context.Background(), "videos/gone.mp4")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestDelete(t *testing.T) {
	deleted := ""
	store := newTestStore(&fakeObjectAPI{
		deleteObject: func(in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
			deleted = aws.ToString(in.Key)
			return &s3.DeleteObjectOutput{}, nil
		},
	}, &fakePresignAPI{})

	require.NoError(t, store.Delete(context.Background(), "videos/u-1/p-1/v-1/take.mp4"))
	assert.Equal(t, "videos/u-1/p-1/v-1/take.mp4", deleted)
}
