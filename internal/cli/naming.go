package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/leonwong282/mdimgup/internal/naming"
)

func (a *App) namingCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "naming",
		Short: "Work with object naming patterns",
	}
	cmd.AddCommand(
		a.namingTemplatesCommand(),
		a.namingCheckCommand(),
	)
	return cmd
}

func (a *App) namingTemplatesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List the predefined naming patterns",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(a.out, 2, 4, 2, ' ', 0)
			for _, t := range naming.Templates {
				fmt.Fprintf(w, "%s\t%s\n", t.Pattern, t.Description)
			}
			return w.Flush()
		},
	}
}

func (a *App) namingCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check <pattern>",
		Short: "Validate a naming pattern and show an example rendering",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := naming.Validate(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "OK: %s\n", naming.NewRenderer().Example(args[0]))
			return nil
		},
	}
}
