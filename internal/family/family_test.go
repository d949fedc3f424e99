package family

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInviteCodeShape(t *testing.T) {
	re := regexp.MustCompile(`^fam-\d{5}-\d{4}$`)
	for i := 0; i < 20; i++ {
		code, err := NewInviteCode("fam")
		require.NoError(t, err)
		assert.Regexp(t, re, code)
	}
}

func TestValidRole(t *testing.T) {
	assert.True(t, ValidRole(RoleAdmin))
	assert.True(t, ValidRole(RoleParent))
	assert.True(t, ValidRole(RoleChild))
	assert.False(t, ValidRole("owner"))
	assert.False(t, ValidRole(""))
}
