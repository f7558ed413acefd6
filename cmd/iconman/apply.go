package main

import (
	"github.com/spf13/cobra"

	"github.com/icon-manager/iconman/pkg/pipeline"
)

func newApplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "apply",
		Short: "Match folders against the icon library and tag them",
		Long: `Crawls every configured search folder, matches the folders against
the icon library's rule configs, and writes a desktop.ini marker into
each matched folder.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := loadApp()
			if err != nil {
				return err
			}
			results := pipeline.RunAll(application.configs, application.opts,
				func(p *pipeline.Pipeline) pipeline.Result { return p.Run() })
			return printResults(cmd, "apply", results)
		},
	}
}

func newReapplyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reapply",
		Short: "Rewrite markers for folders already carrying an icon",
		Long: `Finds folders whose icon subfolder still holds a library icon and
rewrites their desktop.ini marker, without re-running the rule match.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := loadApp()
			if err != nil {
				return err
			}
			results := pipeline.RunAll(application.configs, application.opts,
				func(p *pipeline.Pipeline) pipeline.Result { return p.Reapply() })
			return printResults(cmd, "reapply", results)
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete",
		Short: "Remove every marker and icon folder this app wrote",
		Long: `Removes app-owned desktop.ini markers and __icon__ folders under
every configured search folder. Marker files written by anything else
are left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := loadApp()
			if err != nil {
				return err
			}
			results := pipeline.RunAll(application.configs, application.opts,
				func(p *pipeline.Pipeline) pipeline.Result { return p.Delete() })
			return printResults(cmd, "delete", results)
		},
	}
}
