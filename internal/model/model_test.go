package model

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPage(t *testing.T) {
	p := FirstPage(0)
	assert.Equal(t, Page{Number: 1, Size: DefaultPageSize}, p)

	from, to := p.Range()
	assert.Equal(t, 0, from)
	assert.Equal(t, 4, to)

	next := p.Next()
	assert.Equal(t, 5, next.Offset())
	from, to = next.Range()
	assert.Equal(t, 5, from)
	assert.Equal(t, 9, to)

	assert.Equal(t, 1, p.Prev().Number)
	assert.Equal(t, 1, next.Prev().Number)

	assert.True(t, p.HasMore(5))
	assert.False(t, p.HasMore(4))
	assert.False(t, p.HasMore(0))
}

func TestPost_Excerpt(t *testing.T) {
	short := &Post{Content: "short"}
	assert.Equal(t, "short", short.Excerpt(ExcerptLength))

	long := &Post{Content: strings.Repeat("é", 150)}
	excerpt := long.Excerpt(ExcerptLength)
	assert.Equal(t, strings.Repeat("é", 100)+"...", excerpt)
}

func TestPost_OwnedBy(t *testing.T) {
	p := &Post{AuthorID: "u1"}
	assert.True(t, p.OwnedBy("u1"))
	assert.False(t, p.OwnedBy("u2"))
	assert.False(t, (&Post{}).OwnedBy(""))
}

func TestPost_LastUpdated(t *testing.T) {
	p := &Post{CreatedAt: time.Now()}
	_, ok := p.LastUpdated()
	assert.False(t, ok)

	edited := time.Now().Add(time.Hour)
	p.UpdatedAt = &edited
	got, ok := p.LastUpdated()
	assert.True(t, ok)
	assert.Equal(t, edited, got)
}

func TestIdentity_Equal(t *testing.T) {
	var none *Identity
	a := &Identity{ID: "1", Email: "a@example.com"}

	assert.True(t, none.Equal(nil))
	assert.False(t, none.Equal(a))
	assert.False(t, a.Equal(nil))
	assert.True(t, a.Equal(&Identity{ID: "1", Email: "a@example.com"}))
	assert.False(t, a.Equal(&Identity{ID: "1", Email: "b@example.com"}))
}

func TestPendingAttachment_Reopen(t *testing.T) {
	att := NewPendingAttachment("a.png", []byte("data"))
	assert.Equal(t, int64(4), att.Size)

	for range 2 {
		rc, err := att.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		assert.Equal(t, "data", string(data))
	}
}

func TestPendingAttachmentFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "photo.jpg")
	require.NoError(t, os.WriteFile(path, []byte("jpeg"), 0o600))

	att, err := PendingAttachmentFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, "photo.jpg", att.Name)
	assert.Equal(t, int64(4), att.Size)

	_, err = PendingAttachmentFromFile(filepath.Join(t.TempDir(), "missing.jpg"))
	assert.Error(t, err)
}
