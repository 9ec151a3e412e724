package version

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFullVersion(t *testing.T) {
	version, commit, meta := Version, GitCommit, BuildMeta
	t.Cleanup(func() { Version, GitCommit, BuildMeta = version, commit, meta })

	for _, tc := range []struct {
		version, commit, meta string
		want                  string
	}{
		{"v1.2.3", "", "", "v1.2.3"},
		{"v1.2.3", "abcdef1", "", "v1.2.3+abcdef1"},
		{"v1.2.3", "abcdef1", "rc1", "v1.2.3-rc1+abcdef1"},
		{"v1.2.3", "", "dev", "v1.2.3-dev"},
	} {
		Version, GitCommit, BuildMeta = tc.version, tc.commit, tc.meta
		assert.Equal(t, tc.want, FullVersion())
	}
}

func TestUserAgent(t *testing.T) {
	ua := UserAgent()
	assert.True(t, strings.HasPrefix(ua, "fichaje/"+FullVersion()+" "), ua)
	assert.Contains(t, ua, ProjectURL)
}
