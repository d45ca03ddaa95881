package archive

import (
	"context"
	"io"
	"strings"
	"testing"
)

func TestS3StoreRoundTripAgainstMock(t *testing.T) {
	ctx := context.Background()
	store := NewS3MockForTests()
	if store.Driver() != DriverS3 {
		t.Fatalf("expected s3 driver, got %s", store.Driver())
	}

	payload := `{"contacts":[]}`
	info, err := store.Put(ctx, "snapshots/x.json", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if info.Key != "snapshots/x.json" {
		t.Fatalf("unexpected info %+v", info)
	}

	got, body, err := store.Get(ctx, "snapshots/x.json")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	defer func() { _ = body.Close() }()
	data, err := io.ReadAll(body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(data) != payload {
		t.Fatalf("wrong payload %q", data)
	}
	if got.ContentType != "application/json" {
		t.Fatalf("content type lost: %+v", got)
	}
}

func TestS3StorePutIsCreateOnly(t *testing.T) {
	ctx := context.Background()
	store := NewS3MockForTests()
	if _, err := store.Put(ctx, "k", "", strings.NewReader("first")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := store.Put(ctx, "k", "", strings.NewReader("second")); err == nil {
		t.Fatalf("expected create-only rejection")
	}
}

func TestS3StoreListByPrefix(t *testing.T) {
	ctx := context.Background()
	store := NewS3MockForTests()
	for _, key := range []string{"snapshots/b.json", "snapshots/a.json", "other/c.json"} {
		if _, err := store.Put(ctx, key, "", strings.NewReader("x")); err != nil {
			t.Fatalf("Put %s: %v", key, err)
		}
	}
	infos, err := store.List(ctx, "snapshots/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 2 || infos[0].Key != "snapshots/a.json" || infos[1].Key != "snapshots/b.json" {
		t.Fatalf("wrong listing: %+v", infos)
	}
}

func TestS3StoreDelete(t *testing.T) {
	ctx := context.Background()
	store := NewS3MockForTests()
	if _, err := store.Put(ctx, "k", "", strings.NewReader("x")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	deleted, err := store.Delete(ctx, "k")
	if err != nil || !deleted {
		t.Fatalf("Delete: deleted=%v err=%v", deleted, err)
	}
	if _, _, err := store.Get(ctx, "k"); err == nil {
		t.Fatalf("expected failure after delete")
	}
}

func TestNewS3RequiresBucket(t *testing.T) {
	if _, err := NewS3(context.Background(), S3Config{}); err == nil {
		t.Fatalf("expected bucket requirement")
	}
}
