package secrets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUnwrapSecret(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"plain text", "s3cr3t", "s3cr3t"},
		{"single key json", `{"password":"s3cr3t"}`, "s3cr3t"},
		{"multi key json", `{"username":"u","password":"p"}`, `{"username":"u","password":"p"}`},
		{"non string json", `{"port":5432}`, `{"port":5432}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, unwrapSecret(tt.raw))
		})
	}
}

func TestResolvePassword_NoARN(t *testing.T) {
	assert.Equal(t, "fallback", ResolvePassword(context.Background(), "", "", "fallback"))
}
