package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTTLSeconds(t *testing.T) {
	assert.InDelta(t, 86400, ttlSeconds(time.Now().Add(24*time.Hour)), 2)
	assert.Equal(t, 1, ttlSeconds(time.Now().Add(-time.Hour)))
}
