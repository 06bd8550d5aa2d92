package common

// Build metadata injected at release time using -ldflags
var (
	VERSION = "dev"
	COMMIT  = "unknown"
	BRANCH  = "unknown"
)

// GetVersion returns the release version. Builds straight from source
// report a dev placeholder, with the commit hash when one is known.
func GetVersion() string {
	if VERSION != "dev" {
		return VERSION
	}
	if COMMIT != "unknown" {
		return "0.1.0-dev+" + COMMIT
	}
	return "0.1.0-dev"
}
