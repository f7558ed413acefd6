package version

// Build information set by ldflags
var (
	Version = "dev"     // -X github.com/icon-manager/iconman/internal/version.Version={{.Version}}
	Commit  = "unknown" // -X github.com/icon-manager/iconman/internal/version.Commit={{.Commit}}
	Date    = "unknown" // -X github.com/icon-manager/iconman/internal/version.Date={{.Date}}
)
