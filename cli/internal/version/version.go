package version

import (
	"fmt"
	"runtime"
)

var (
	// Version is set at build time.
	Version = "0.1.0"
	// GitCommit is the git commit hash, set at build time.
	GitCommit = "unknown"
)

// Info holds build information.
type Info struct {
	Version   string
	GitCommit string
	GoVersion string
	Platform  string
}

func Get() Info {
	return Info{
		Version:   Version,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
		Platform:  fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH),
	}
}

func (i Info) String() string {
	return fmt.Sprintf("%s (%s %s)", i.Version, i.Platform, i.GoVersion)
}
