package cmds

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-go-golems/glazed/pkg/cmds"
	"github.com/go-go-golems/glazed/pkg/cmds/layers"
	"github.com/go-go-golems/glazed/pkg/cmds/parameters"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	input "github.com/tcnksm/go-input"

	"github.com/go-go-golems/grillo/pkg/memory"
	"github.com/go-go-golems/grillo/pkg/memory/serde"
	"github.com/go-go-golems/grillo/pkg/memory/toolfold"
)

// FoldCommand replays a transcript through a tool-fold decorated buffer
// store and prints the resulting history.
type FoldCommand struct {
	*cmds.CommandDescription
}

type FoldSettings struct {
	Transcript           string   `glazed.parameter:"transcript"`
	Position             string   `glazed.parameter:"position"`
	Joiner               string   `glazed.parameter:"joiner"`
	MaxObservationLength int      `glazed.parameter:"max-observation-length"`
	IncludeTools         []string `glazed.parameter:"include-tools"`
	ExcludeTools         []string `glazed.parameter:"exclude-tools"`
	OutputKey            string   `glazed.parameter:"output-key"`
	Out                  string   `glazed.parameter:"out"`
	Force                bool     `glazed.parameter:"force"`
}

var _ cmds.WriterCommand = (*FoldCommand)(nil)

func NewFoldCommand() (*FoldCommand, error) {
	description := cmds.NewCommandDescription(
		"fold",
		cmds.WithShort("Replay a transcript with tool calls folded into the saved answers"),
		cmds.WithArguments(
			parameters.NewParameterDefinition(
				"transcript",
				parameters.ParameterTypeString,
				parameters.WithHelp("Transcript YAML file"),
				parameters.WithRequired(true),
			),
		),
		cmds.WithFlags(
			parameters.NewParameterDefinition(
				"position",
				parameters.ParameterTypeChoice,
				parameters.WithHelp("Where the tool summary goes relative to the answer"),
				parameters.WithChoices("prepend", "append", "replace"),
				parameters.WithDefault("prepend"),
			),
			parameters.NewParameterDefinition(
				"joiner",
				parameters.ParameterTypeString,
				parameters.WithHelp(`Separator between summary and answer (\n is expanded)`),
				parameters.WithDefault(`\n\n`),
			),
			parameters.NewParameterDefinition(
				"max-observation-length",
				parameters.ParameterTypeInteger,
				parameters.WithHelp("Cap on rendered observation length"),
				parameters.WithDefault(toolfold.DefaultMaxObservationLength),
			),
			parameters.NewParameterDefinition(
				"include-tools",
				parameters.ParameterTypeStringList,
				parameters.WithHelp("Only summarize these tools (globs allowed)"),
			),
			parameters.NewParameterDefinition(
				"exclude-tools",
				parameters.ParameterTypeStringList,
				parameters.WithHelp("Leave these tools out of the summary (globs allowed)"),
			),
			parameters.NewParameterDefinition(
				"output-key",
				parameters.ParameterTypeString,
				parameters.WithHelp("Output field holding the answer text"),
				parameters.WithDefault(memory.DefaultOutputKey),
			),
			parameters.NewParameterDefinition(
				"out",
				parameters.ParameterTypeString,
				parameters.WithHelp("Write the folded transcript to this YAML file"),
				parameters.WithDefault(""),
			),
			parameters.NewParameterDefinition(
				"force",
				parameters.ParameterTypeBool,
				parameters.WithHelp("Overwrite --out without asking"),
				parameters.WithDefault(false),
			),
		),
	)
	return &FoldCommand{CommandDescription: description}, nil
}

func (c *FoldCommand) RunIntoWriter(ctx context.Context, parsedLayers *layers.ParsedLayers, w io.Writer) error {
	s := &FoldSettings{}
	if err := parsedLayers.InitializeStruct(layers.DefaultSlug, s); err != nil {
		return errors.Wrap(err, "failed to initialize settings")
	}

	transcript, err := serde.LoadYAML(s.Transcript)
	if err != nil {
		return err
	}
	log.Debug().Str("transcript", s.Transcript).Int("turns", len(transcript.Turns)).Msg("loaded transcript")

	buffer := memory.NewBufferStore(memory.WithOutputKey(s.OutputKey))
	opts := []toolfold.Option{
		toolfold.WithPosition(toolfold.Position(s.Position)),
		toolfold.WithJoiner(expandEscapes(s.Joiner)),
		toolfold.WithMaxObservationLength(s.MaxObservationLength),
	}
	if len(s.IncludeTools) > 0 {
		opts = append(opts, toolfold.WithIncludeTools(s.IncludeTools...))
	}
	if len(s.ExcludeTools) > 0 {
		opts = append(opts, toolfold.WithExcludeTools(s.ExcludeTools...))
	}
	folded, err := toolfold.Wrap(buffer, opts...)
	if err != nil {
		return err
	}

	for i, turn := range transcript.Turns {
		if err := folded.SaveContext(ctx, turn.Inputs, turn.Outputs); err != nil {
			return errors.Wrapf(err, "failed to save turn %d", i)
		}
	}

	vars, err := buffer.LoadMemoryVariables(ctx, nil)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, vars["history"])

	if s.Out == "" {
		return nil
	}
	return writeFoldedTranscript(s.Out, transcript.ID, buffer.Turns(), s.Force)
}

func writeFoldedTranscript(path string, id string, turns []memory.SavedTurn, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		ok, err := confirmOverwrite(path)
		if err != nil {
			return err
		}
		if !ok {
			log.Info().Str("path", path).Msg("not overwriting")
			return nil
		}
	}

	out := &serde.Transcript{ID: id}
	for _, turn := range turns {
		out.Turns = append(out.Turns, serde.TurnRecord{
			Inputs:  turn.Inputs,
			Outputs: turn.Outputs,
		})
	}
	return serde.SaveYAML(path, out)
}

func confirmOverwrite(path string) (bool, error) {
	ui := &input.UI{
		Writer: os.Stderr,
		Reader: os.Stdin,
	}
	answer, err := ui.Ask(fmt.Sprintf("%s exists, overwrite? [y/n]", path), &input.Options{
		Default:  "n",
		Required: true,
		Loop:     true,
		ValidateFunc: func(answer string) error {
			switch answer {
			case "y", "Y", "n", "N":
				return nil
			default:
				return errors.New("please enter 'y' or 'n'")
			}
		},
	})
	if err != nil {
		return false, err
	}
	return strings.EqualFold(answer, "y"), nil
}

// expandEscapes lets shell users pass joiners like `\n---\n`.
func expandEscapes(s string) string {
	s = strings.ReplaceAll(s, `\n`, "\n")
	s = strings.ReplaceAll(s, `\t`, "\t")
	return s
}
