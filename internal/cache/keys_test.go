package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateCacheKey(t *testing.T) {
	assert.Equal(t, "mathquiz:report:class:t-room1", GenerateCacheKey("report", "class", "t-room1"))
	assert.Equal(t, "mathquiz:report:class:t-room1:p1_p2", GenerateCacheKey("report", "class", "t-room1", "p1", "p2"))
}
