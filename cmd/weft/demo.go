package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/weft/internal/demo"
)

func demoCmd(flags *globalFlags) *cobra.Command {
	var (
		list  bool
		ticks int
	)

	cmd := &cobra.Command{
		Use:   "demo [name]",
		Short: "Render a demo application",
		Long: `Build a demo application and print its markup.

--ticks simulates interactions before rendering: clicks on the counter,
new items on the todo list, route changes on the nav shell.

Examples:
  weft demo --list
  weft demo counter
  weft demo todo --ticks 3`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			if list {
				for _, name := range demo.Names() {
					fmt.Fprintln(w, name)
				}
				return nil
			}
			if len(args) == 0 {
				return fmt.Errorf("demo name required (one of %s)", strings.Join(demo.Names(), ", "))
			}

			cfg, err := flags.loadConfig()
			if err != nil {
				return err
			}
			app, err := demo.New(args[0], cfg, flags.logger(cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			for i := 0; i < ticks; i++ {
				app.Tick()
			}
			fmt.Fprintln(w, app.HTML())
			return nil
		},
	}

	cmd.Flags().BoolVarP(&list, "list", "l", false, "List available demos")
	cmd.Flags().IntVarP(&ticks, "ticks", "t", 0, "Simulated interactions before rendering")

	return cmd
}
