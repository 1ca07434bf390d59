package mask

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	assert.Equal(t, "a****", Name("alice"))
	assert.Equal(t, "x", Name("x"))
	assert.Equal(t, "", Name(""))
}

func TestEmail(t *testing.T) {
	assert.Equal(t, "a***e@example.com", Email("alice@example.com"))
	assert.Equal(t, "a***@example.com", Email("ab@example.com"))
	assert.Equal(t, "not-an-email", Email("not-an-email"))
}

func TestMobile(t *testing.T) {
	assert.Equal(t, "138****5678", Mobile("13812345678"))
	assert.Equal(t, "1234567", Mobile("1234567"))
}
