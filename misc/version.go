// Package misc keeps build time information about the program.
package misc

// Set by the linker: -ldflags "-X skel/misc.version=... -X skel/misc.gitHash=..."
var (
	appName = "skel"
	version = "dev"
	gitHash = "unknown"
)

func GetAppName() string {
	return appName
}

func GetVersion() string {
	return version
}

func GetGitHash() string {
	return gitHash
}
