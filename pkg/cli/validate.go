package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockevent/pkg/config"
)

var validatePrint string

var validateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a handler file without playing it",
	Long: `Validate a handler file without playing it.

This command checks:
  - YAML/JSON syntax
  - Schema validation (required fields, one URL pattern per handler)
  - Regular expressions, globs and generator expressions compile

With --print the parsed file is written back out as yaml or json, which also
converts between the two formats.`,
	Example: `  # Check a file
  mockevent validate handlers.yaml

  # Convert a YAML handler file to JSON
  mockevent validate --print json handlers.yaml > handlers.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		f, err := config.Load(args[0])
		if err != nil {
			var serr *config.SchemaError
			if errors.As(err, &serr) {
				for _, fe := range serr.Errors {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s\n", fe)
				}
			}
			return err
		}

		if _, err := f.HandlerConfigs(); err != nil {
			return err
		}

		if validatePrint == "" {
			fmt.Fprintf(out, "%s: %d handler(s) ok\n", args[0], len(f.Handlers))
			return nil
		}

		var data []byte
		switch config.Format(validatePrint) {
		case config.FormatYAML:
			data, err = config.ToYAML(f)
		case config.FormatJSON:
			data, err = config.ToJSON(f)
		default:
			return fmt.Errorf("unknown print format %q (want yaml or json)", validatePrint)
		}
		if err != nil {
			return err
		}
		_, err = out.Write(data)
		return err
	},
}

func init() {
	validateCmd.Flags().StringVar(&validatePrint, "print", "", "Print the parsed file as yaml or json")
	rootCmd.AddCommand(validateCmd)
}
