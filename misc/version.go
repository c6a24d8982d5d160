// Package misc holds build time information.
package misc

// set by the linker: -X github.com/yudalvi/whirlp-da/misc.version=...
var (
	version = "dev"
	githash = "unknown"
)

// GetAppName returns the program name used for log, report and panic file names.
func GetAppName() string {
	return "whirlp"
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return githash
}
