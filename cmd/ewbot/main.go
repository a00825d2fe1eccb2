// Package main is the entry point for ewbot.
package main

import (
	"os"

	"github.com/jsamuelsen/ewbot/internal/bot"
	"github.com/jsamuelsen/ewbot/internal/cli"
)

// Build-time variables, injected via ldflags.
// Example: go build -ldflags "-X main.Version=1.0.0 -X main.Commit=$(git rev-parse HEAD) -X main.BuildTime=$(date -u +%Y-%m-%dT%H:%M:%SZ)" ./cmd/ewbot
var (
	// Version is the semantic version of the bot.
	Version = "dev"

	// Commit is the git commit SHA.
	Commit = "unknown"

	// BuildTime is the timestamp when the binary was built.
	BuildTime = "unknown"
)

func main() {
	os.Exit(cli.Execute(bot.BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
	}))
}
