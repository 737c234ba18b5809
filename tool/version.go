package tool

// Version is overridden at build time with -ldflags "-X .../tool.Version=...".
var Version = "dev"

// UserAgent identifies this build in logs and the version command.
func UserAgent() string {
	return "cisco-client-portal/" + Version
}
