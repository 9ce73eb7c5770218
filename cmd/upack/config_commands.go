package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/limenVTech/UDCS-Packer/internal/config"
)

func newConfigCommand(cctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand())
	configCmd.AddCommand(newConfigShowCommand(cctx))

	return configCmd
}

func newConfigInitCommand() *cobra.Command {
	var targetPath string

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a commented sample configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			target := strings.TrimSpace(targetPath)
			if target == "" {
				defaultPath, err := config.DefaultConfigPath()
				if err != nil {
					return fmt.Errorf("determine default config path: %w", err)
				}
				target = defaultPath
			}
			if err := config.WriteSample(target); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote sample configuration to %s\n", target)
			return nil
		},
	}

	cmd.Flags().StringVarP(&targetPath, "path", "p", "", "Destination for the configuration file")
	return cmd
}

func newConfigShowCommand(cctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "identifier.namespace    = %s\n", cfg.Identifier.Namespace)
			authority := cfg.Identifier.AuthorityURL
			if authority == "" {
				authority = "(local random generation)"
			}
			fmt.Fprintf(out, "identifier.authority    = %s\n", authority)
			fmt.Fprintf(out, "manifest.fast_digest    = %s\n", cfg.Manifest.FastDigest)
			fmt.Fprintf(out, "manifest.strong_digest  = %s\n", cfg.Manifest.StrongDigest)
			fmt.Fprintf(out, "packaging.digests       = %s\n", strings.Join(cfg.Packaging.Digests, ", "))
			fmt.Fprintf(out, "archive.compress        = %t\n", cfg.Archive.Compress)
			fmt.Fprintf(out, "walker.artifact_names   = %s\n", strings.Join(cfg.Walker.ArtifactNames, ", "))
			fmt.Fprintf(out, "logging.format          = %s\n", cfg.Logging.Format)
			fmt.Fprintf(out, "logging.level           = %s\n", cfg.Logging.Level)
			return nil
		},
	}
	return cmd
}
