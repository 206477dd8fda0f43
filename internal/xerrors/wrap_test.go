package xerrors

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessages(t *testing.T) {
	assert.Empty(t, Messages(nil))
	assert.Equal(t, []string{"boom"}, Messages(errors.New("boom")))
	assert.Equal(t, []string{"a", "b"}, Messages(errors.Join(errors.New("a"), errors.New("b"))))
}
