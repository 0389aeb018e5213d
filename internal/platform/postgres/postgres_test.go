package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactDSN(t *testing.T) {
	tests := []struct {
		name string
		dsn  string
		want string
	}{
		{"with credentials", "postgres://reader:secret@db:5432/library?sslmode=require", "postgres://***@db:5432/library?sslmode=require"},
		{"no credentials", "postgres://db:5432/library", "postgres://db:5432/library"},
		{"keyword form", "host=db user=reader", "host=db user=reader"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RedactDSN(tt.dsn))
		})
	}
}
