package objectstore

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/mesto-api/pkg/validation"
)

func TestObjectPath(t *testing.T) {
	p := ObjectPath("u1", "Me.PNG")
	assert.True(t, strings.HasPrefix(p, "avatars/u1/"), p)
	assert.True(t, strings.HasSuffix(p, ".png"), p)
	assert.NotEqual(t, p, ObjectPath("u1", "Me.PNG"))
}

func TestPublicURLIsWebLink(t *testing.T) {
	url := PublicURL("mesto-avatars", ObjectPath("u1", "a.jpg"))
	assert.True(t, strings.HasPrefix(url, "https://storage.googleapis.com/mesto-avatars/avatars/u1/"))
	assert.True(t, validation.IsWebLink(url), url)
}

type fakeObject struct {
	ctx       context.Context
	buf       bytes.Buffer
	committed bool
}

func (o *fakeObject) Write(p []byte) (int, error) { return o.buf.Write(p) }

func (o *fakeObject) Close() error {
	if err := o.ctx.Err(); err != nil {
		return err
	}
	o.committed = true
	return nil
}

func fakeStore(objects map[string]*fakeObject) *AvatarStore {
	s := &AvatarStore{Bucket: "mesto-avatars"}
	s.open = func(ctx context.Context, name, _, _ string) io.WriteCloser {
		o := &fakeObject{ctx: ctx}
		objects[name] = o
		return o
	}
	return s
}

func TestUpload_Commits(t *testing.T) {
	objects := map[string]*fakeObject{}
	url, err := fakeStore(objects).Upload(context.Background(), "u1", "a.png", "image/png", strings.NewReader("png"))
	require.NoError(t, err)

	require.Len(t, objects, 1)
	for name, o := range objects {
		assert.True(t, o.committed)
		assert.Equal(t, "png", o.buf.String())
		assert.Equal(t, PublicURL("mesto-avatars", name), url)
	}
}

func TestUpload_ReadFailureAbandonsObject(t *testing.T) {
	objects := map[string]*fakeObject{}
	broken := io.MultiReader(strings.NewReader("partial"), iotest.ErrReader(errors.New("client went away")))

	_, err := fakeStore(objects).Upload(context.Background(), "u1", "a.png", "image/png", broken)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "client went away")

	require.Len(t, objects, 1)
	for _, o := range objects {
		assert.False(t, o.committed)
	}
}
