package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"ponte/internal/cmd"
	"ponte/internal/config"
	"ponte/version"
)

func main() {
	settings, err := config.LoadSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		settings = &config.Settings{}
	}

	var cli cmd.CLI
	cli.SetSettings(settings)

	ctx := kong.Parse(&cli,
		kong.Name("ponte"),
		kong.Description(version.Tagline),
		kong.UsageOnError(),
		kong.Vars{"version": version.Info()},
	)
	defer cli.Close()

	if err := ctx.Run(cli.Container); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
