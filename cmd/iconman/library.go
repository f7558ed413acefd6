package main

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/icon-manager/iconman/pkg/icons"
)

func newTemplateCmd() *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Create starter rule configs for icons lacking one",
		Long: `Scans every configured icon library and writes a template rule
config next to each icon that has none. With --overwrite, existing
configs are rewritten from the template too.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := loadApp()
			if err != nil {
				return err
			}
			total := 0
			for _, cfg := range application.configs {
				library, err := icons.ScanLibrary(cfg.IconsPath)
				if err != nil {
					return err
				}
				created, err := icons.CreateTemplates(library, overwrite)
				if err != nil {
					return err
				}
				total += created
			}
			pterm.Success.Printfln("Created %d template configs", total)
			return nil
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false,
		"Rewrite existing configs from the template")
	return cmd
}

func newArchiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "archive",
		Short: "Move icons with empty rule configs into the archive",
		Long: `Moves every library icon whose rule config has no usable rules into
the library's __archive__ folder, together with its config and any
sibling artwork.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			application, err := loadApp()
			if err != nil {
				return err
			}
			total := 0
			for _, cfg := range application.configs {
				library, err := icons.ScanLibrary(cfg.IconsPath)
				if err != nil {
					return err
				}
				archived, err := icons.ArchiveEmpty(library)
				if err != nil {
					return err
				}
				total += archived
			}
			pterm.Success.Printfln("Archived %d icons", total)
			return nil
		},
	}
}
