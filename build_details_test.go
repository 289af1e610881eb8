package specdex

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVersion(t *testing.T) {
	v := Version()
	assert.NotEmpty(t, v)
	// Development builds report "dev"; release builds inject semver via ldflags.
	if v != "dev" {
		assert.True(t, strings.Count(v, ".") >= 1, "release version should look like semver: %s", v)
	}
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent()
	assert.True(t, strings.HasPrefix(ua, "specdex/"))
	assert.Contains(t, ua, Version())
}
