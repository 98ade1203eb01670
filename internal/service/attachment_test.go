package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/inkpost/internal/model"
	"github.com/templui/inkpost/internal/testutil"
)

func TestAttachmentUpload(t *testing.T) {
	store := testutil.NewMemoryStorage()
	svc := NewAttachmentService(store, 0)
	owner := uuid.New().String()

	url, err := svc.Upload(context.Background(), Namespace{Kind: KindPost, OwnerID: owner}, model.NewPendingAttachment("Photo.PNG", testutil.PNG))
	require.NoError(t, err)

	keys := store.Keys("posts/" + owner + "/")
	require.Len(t, keys, 1)
	assert.True(t, strings.HasSuffix(keys[0], ".png"))
	assert.Equal(t, "image/png", store.Types[keys[0]])
	assert.Equal(t, "https://storage.test/"+keys[0], url)
}

func TestAttachmentUpload_UniqueKeys(t *testing.T) {
	store := testutil.NewMemoryStorage()
	svc := NewAttachmentService(store, 0)
	ns := Namespace{Kind: KindComment, OwnerID: uuid.New().String()}
	att := model.NewPendingAttachment("a.png", testutil.PNG)

	first, err := svc.Upload(context.Background(), ns, att)
	require.NoError(t, err)
	second, err := svc.Upload(context.Background(), ns, att)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestAttachmentUpload_Rejected(t *testing.T) {
	owner := uuid.New().String()

	tests := []struct {
		name string
		att  *model.PendingAttachment
	}{
		{"wrong extension", model.NewPendingAttachment("notes.txt", testutil.PNG)},
		{"not an image", model.NewPendingAttachment("fake.png", []byte("plain text"))},
		{"too large", &model.PendingAttachment{Name: "big.png", Size: 10 << 20, Open: model.NewPendingAttachment("big.png", testutil.PNG).Open}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := testutil.NewMemoryStorage()
			svc := NewAttachmentService(store, 0)

			_, err := svc.Upload(context.Background(), Namespace{Kind: KindPost, OwnerID: owner}, tt.att)
			require.ErrorIs(t, err, ErrValidation)
			assert.Equal(t, 0, store.UploadCount())
		})
	}
}

func TestAttachmentUpload_InvalidOwner(t *testing.T) {
	store := testutil.NewMemoryStorage()
	svc := NewAttachmentService(store, 0)

	_, err := svc.Upload(context.Background(), Namespace{Kind: KindPost, OwnerID: "../etc"}, model.NewPendingAttachment("a.png", testutil.PNG))
	require.ErrorIs(t, err, ErrUpload)
	assert.Equal(t, 0, store.UploadCount())
}

func TestAttachmentUpload_StorageFailure(t *testing.T) {
	store := testutil.NewMemoryStorage()
	store.Fail = errors.New("bucket unavailable")
	svc := NewAttachmentService(store, 0)

	url, err := svc.Upload(context.Background(), Namespace{Kind: KindPost, OwnerID: uuid.New().String()}, model.NewPendingAttachment("a.png", testutil.PNG))
	require.ErrorIs(t, err, ErrUpload)
	assert.Empty(t, url)
	assert.Contains(t, err.Error(), "bucket unavailable")
}

func TestAttachmentUpload_URLFailure(t *testing.T) {
	store := testutil.NewMemoryStorage()
	store.FailURL = errors.New("endpoint unreachable")
	svc := NewAttachmentService(store, 0)

	url, err := svc.Upload(context.Background(), Namespace{Kind: KindPost, OwnerID: uuid.New().String()}, model.NewPendingAttachment("a.png", testutil.PNG))
	require.ErrorIs(t, err, ErrUpload)
	assert.Empty(t, url)
}

func TestAttachmentService_MaxSize(t *testing.T) {
	svc := NewAttachmentService(testutil.NewMemoryStorage(), 8)

	err := svc.Validate(model.NewPendingAttachment("a.png", testutil.PNG))
	assert.ErrorIs(t, err, ErrValidation)
}
