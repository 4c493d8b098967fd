package cmd

import (
	"github.com/spf13/cobra"

	"github.com/mouse-blink/mdsift/internal/domain"
)

const listLongDescription = `List the files a search would cover.

For each file the table shows how many headings it has and how many blocks
it is split into. Directories are walked recursively; hidden directories are
skipped and only files with the configured extensions are kept.`

// listCmd represents the list command.
var listCmd = newListCmd()

func newListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list [paths...]",
		Short: "List markdown files and their block counts",
		Long:  listLongDescription,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			wf := workflowFactory(cmd, useColor(cmd, cfg), newLogger(cmd, cfg))

			return wf.List(domain.ListArgs{
				Paths:      parsePaths(args, cfg.Root),
				Extensions: cfg.Extensions,
			})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(listCmd)
}
