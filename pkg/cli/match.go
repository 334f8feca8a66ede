package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/getmockd/mockevent/pkg/config"
	"github.com/getmockd/mockevent/pkg/mockevent"
)

var matchCmd = &cobra.Command{
	Use:   "match <file> <url>",
	Short: "Show which handler serves a URL",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		file, url := args[0], args[1]

		f, err := config.Load(file)
		if err != nil {
			return err
		}

		reg := mockevent.NewRegistry(append(f.RegistryOptions(), mockevent.WithLogger(newLogger(cmd.ErrOrStderr())))...)
		defer reg.Close()

		if _, err := config.Register(reg, f); err != nil {
			return err
		}

		h := reg.Match(url)
		if h == nil {
			return fmt.Errorf("%w: %s", ErrNoMatch, url)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\n", h.ID(), h.URL())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)
}
