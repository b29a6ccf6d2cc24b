package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharedSecret(t *testing.T) {
	hash, err := HashSecret("s3cret")
	require.NoError(t, err)

	tests := []struct {
		name     string
		secret   string
		password string
		ok       bool
	}{
		{name: "plain match", secret: "s3cret", password: "s3cret", ok: true},
		{name: "plain mismatch", secret: "s3cret", password: "s3cre", ok: false},
		{name: "hash match", secret: hash, password: "s3cret", ok: true},
		{name: "hash mismatch", secret: hash, password: "wrong", ok: false},
		{name: "hash not usable as password", secret: hash, password: hash, ok: false},
		{name: "empty secret rejects empty password", secret: "", password: "", ok: false},
		{name: "empty secret rejects anything", secret: "", password: "x", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewSharedSecret(tt.secret).Authorize(tt.password)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrUnauthorized)
		})
	}
}
