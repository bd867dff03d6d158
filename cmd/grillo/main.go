package main

import (
	"os"

	clay "github.com/go-go-golems/clay/pkg"
	"github.com/go-go-golems/glazed/pkg/cli"
	"github.com/go-go-golems/glazed/pkg/help"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/go-go-golems/grillo/cmd/grillo/cmds"
)

var rootCmd = &cobra.Command{
	Use:   "grillo",
	Short: "Replay agent conversation transcripts through grillo memory stores",
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if isatty.IsTerminal(os.Stderr.Fd()) {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}

	err := clay.InitViper("grillo", rootCmd)
	cobra.CheckErr(err)

	if levelStr := viper.GetString("log-level"); levelStr != "" {
		if level, err := zerolog.ParseLevel(levelStr); err == nil {
			zerolog.SetGlobalLevel(level)
		}
	}

	helpSystem := help.NewHelpSystem()
	helpSystem.SetupCobraRootCommand(rootCmd)

	foldCmd, err := cmds.NewFoldCommand()
	cobra.CheckErr(err)
	foldCobra, err := cli.BuildCobraCommandFromWriterCommand(foldCmd)
	cobra.CheckErr(err)
	rootCmd.AddCommand(foldCobra)

	cobra.CheckErr(rootCmd.Execute())
}
