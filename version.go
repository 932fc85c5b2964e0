package departures

// Overridden at build time with -ldflags "-X tidbyt.dev/departures.Version=...".
var Version = "dev"
