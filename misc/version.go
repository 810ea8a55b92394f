// Package misc holds build time information.
package misc

// Values are set with -ldflags "-X osis2html/misc.version=... -X osis2html/misc.gitHash=..."
var (
	appName = "osis2html"
	version = "dev"
	gitHash = "unknown"
)

// GetAppName returns application name used for logs, temporary files and reports.
func GetAppName() string {
	return appName
}

// GetVersion returns program version.
func GetVersion() string {
	return version
}

// GetGitHash returns git commit the program was built from.
func GetGitHash() string {
	return gitHash
}
