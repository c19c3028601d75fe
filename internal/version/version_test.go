package version_test

import (
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ludo-technologies/prosim/internal/version"
)

func TestShort(t *testing.T) {
	assert.NotEmpty(t, version.Short())
	assert.Equal(t, version.Version, version.Short())
}

func TestInfo(t *testing.T) {
	info := version.Info()

	assert.True(t, strings.HasPrefix(info, "prosim "))
	assert.Contains(t, info, runtime.Version())
	assert.Contains(t, info, runtime.GOOS+"/"+runtime.GOARCH)
	assert.Contains(t, info, "Commit: "+version.Commit)
}

func TestGet_LdflagsOverride(t *testing.T) {
	saved := version.Version
	t.Cleanup(func() { version.Version = saved })

	version.Version = "v1.2.3"
	info := version.Get()

	assert.Equal(t, "v1.2.3", info.Version)
	assert.Equal(t, runtime.Version(), info.GoVersion)
	assert.Contains(t, version.Info(), "prosim v1.2.3")
}
