package storage

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// fakeS3 implements S3API over a map.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: make(map[string][]byte)}
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.objects[*in.Key]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[*in.Key] = data
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3BackendRoundTrip(t *testing.T) {
	fake := newFakeS3()
	backend := NewS3Backend(fake, "bucket", "state/")
	ctx := context.Background()

	data, err := backend.GetValue(ctx, "missing")
	if err != nil || data != nil {
		t.Errorf("expected (nil, nil) for absent key, got (%v, %v)", data, err)
	}

	if err := backend.SetValue(ctx, "theme", []byte(`"dark"`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Objects land under the configured prefix
	fake.mu.Lock()
	_, ok := fake.objects["state/theme"]
	fake.mu.Unlock()
	if !ok {
		t.Error("expected object stored under prefixed key")
	}

	data, err = backend.GetValue(ctx, "theme")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(data) != `"dark"` {
		t.Errorf("expected stored bytes, got %s", data)
	}

	if err := backend.SetValue(ctx, "theme", nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	data, _ = backend.GetValue(ctx, "theme")
	if data != nil {
		t.Errorf("expected key removed, got %s", data)
	}
}

func TestS3BackendWithValue(t *testing.T) {
	backend := NewS3Backend(newFakeS3(), "bucket", "state/")

	v := New(backend, "volume", 50)
	v.Set(80)
	v.Flush()
	v.Stop()

	restored := New(backend, "volume", 50)
	defer restored.Stop()
	if restored.Get() != 80 {
		t.Errorf("expected persisted value 80, got %d", restored.Get())
	}
}
