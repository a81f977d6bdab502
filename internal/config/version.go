package config

// Set at build time via -ldflags "-X .../internal/config.Version=..."
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func SetBuildFlags(version, commit, date string) {
	Version = version
	Commit = commit
	Date = date
}
