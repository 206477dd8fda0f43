package omit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type userUpdate struct {
	Verified Omit[bool]   `json:"isVerified,omitzero"`
	Role     Omit[string] `json:"role,omitzero"`
}

func TestOmitZeroFieldsAreDropped(t *testing.T) {
	data, err := json.Marshal(userUpdate{Verified: New(false)})
	require.NoError(t, err)
	assert.JSONEq(t, `{"isVerified":false}`, string(data))
}

func TestOmitUnmarshalSetsOK(t *testing.T) {
	var update userUpdate
	require.NoError(t, json.Unmarshal([]byte(`{"role":"admin"}`), &update))

	assert.True(t, update.Role.OK)
	assert.Equal(t, "admin", update.Role.Value)
	assert.False(t, update.Verified.OK)
	assert.True(t, update.Verified.Or(true))
}
