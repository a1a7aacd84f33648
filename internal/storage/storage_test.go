package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"inventoryapi/internal/config"
)

func TestDisabled(t *testing.T) {
	var s Storage = Disabled{}
	ctx := context.Background()

	_, err := s.Put(ctx, "k", strings.NewReader("x"), PutObjectOptions{Size: 1})
	assert.ErrorIs(t, err, ErrDisabled)
	assert.ErrorIs(t, s.Delete(ctx, "k"), ErrDisabled)
	_, err = s.PresignGet(ctx, "k", time.Minute)
	assert.ErrorIs(t, err, ErrDisabled)
}

func TestNewMinIO_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.MinIOConfig
		want string
	}{
		{"missing endpoint", config.MinIOConfig{AccessKey: "a", SecretKey: "b", Bucket: "c"}, "endpoint is required"},
		{"missing credentials", config.MinIOConfig{Endpoint: "localhost:9000", Bucket: "c"}, "credentials are required"},
		{"missing bucket", config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "b"}, "bucket is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMinIO(context.Background(), tt.cfg)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}
