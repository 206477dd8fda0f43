package xtime

import (
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDurationDecodesFromTOML(t *testing.T) {
	var cfg struct {
		Debounce Duration `toml:"debounce"`
	}
	_, err := toml.Decode(`debounce = "3s"`, &cfg)
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Debounce.Std())
	assert.Equal(t, "3s", cfg.Debounce.String())
}
