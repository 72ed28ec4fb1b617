package redis

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
)

func TestNewClientInvalidURL(t *testing.T) {
	if _, err := NewClient(context.Background(), "not-a-url"); err == nil {
		t.Fatalf("expected error for invalid redis URL")
	}
}

func TestNewClientConnects(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewClient(context.Background(), "redis://"+mr.Addr())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer client.Close()

	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Fatalf("ping failed: %v", err)
	}
}
