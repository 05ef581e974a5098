package version

import (
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	"github.com/kbukum/iocboot/errors"
)

var (
	// These variables are set at build time using -ldflags
	Version   = "dev"
	GitCommit = ""
	GitBranch = ""
	BuildTime = ""
)

// readBuildInfo is replaced in tests; test binaries carry no main module path.
var readBuildInfo = debug.ReadBuildInfo

// Info represents version information.
type Info struct {
	Version    string    `json:"version"`
	GitCommit  string    `json:"git_commit,omitempty"`
	GitBranch  string    `json:"git_branch,omitempty"`
	BuildTime  string    `json:"build_time,omitempty"`
	GoVersion  string    `json:"go_version"`
	MainModule string    `json:"main_module,omitempty"`
	BuildDate  time.Time `json:"build_date"`
	IsRelease  bool      `json:"is_release"`
	IsDirty    bool      `json:"is_dirty"`
}

// ModuleRef is one module linked into the running binary.
type ModuleRef struct {
	Path    string `json:"path"`
	Version string `json:"version,omitempty"`
	Main    bool   `json:"main,omitempty"`
}

// GetVersionInfo returns the version of the running binary.
func GetVersionInfo() *Info {
	info := &Info{
		Version:   Version,
		GitCommit: GitCommit,
		GitBranch: GitBranch,
		BuildTime: BuildTime,
		IsRelease: Version != "dev" && !strings.Contains(Version, "dirty"),
	}
	if BuildTime != "" {
		if t, err := time.Parse(time.RFC3339, BuildTime); err == nil {
			info.BuildDate = t
		}
	}

	if bi, ok := readBuildInfo(); ok {
		info.GoVersion = bi.GoVersion
		info.MainModule = bi.Main.Path
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				if info.GitCommit == "" {
					info.GitCommit = shortCommit(s.Value)
				}
			case "vcs.modified":
				info.IsDirty = s.Value == "true"
			case "vcs.time":
				if info.BuildTime == "" {
					if t, err := time.Parse(time.RFC3339, s.Value); err == nil {
						info.BuildDate = t
						info.BuildTime = s.Value
					}
				}
			}
		}
	}
	return info
}

// GetShortVersion returns "<version>[-<commit>][-dirty]".
func GetShortVersion() string {
	info := GetVersionInfo()
	if info.GitCommit == "" {
		return info.Version
	}
	s := fmt.Sprintf("%s-%s", info.Version, info.GitCommit)
	if info.IsDirty {
		s += "-dirty"
	}
	return s
}

// BuildModules lists the main module followed by every dependency recorded in
// the binary's build info, with replacements resolved to the module actually
// linked. It fails when the binary was built without module support.
func BuildModules() ([]ModuleRef, error) {
	bi, ok := readBuildInfo()
	if !ok {
		return nil, errors.New(errors.ErrCodeEnumerationFailed,
			"Build information is not available for this binary.", 500)
	}

	refs := make([]ModuleRef, 0, len(bi.Deps)+1)
	if bi.Main.Path != "" {
		refs = append(refs, ModuleRef{Path: bi.Main.Path, Version: bi.Main.Version, Main: true})
	}
	for _, dep := range bi.Deps {
		m := dep
		if m.Replace != nil {
			m = m.Replace
		}
		refs = append(refs, ModuleRef{Path: dep.Path, Version: m.Version})
	}
	return refs, nil
}

func shortCommit(rev string) string {
	if len(rev) > 7 {
		return rev[:7]
	}
	return rev
}
