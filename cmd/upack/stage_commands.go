package main

import (
	"github.com/spf13/cobra"

	"github.com/limenVTech/UDCS-Packer/internal/pipeline"
)

// newStageCommands builds one subcommand per pipeline stage for running a
// single stage in isolation.
func newStageCommands(cctx *commandContext) []*cobra.Command {
	return []*cobra.Command{
		newMetadataCommand(cctx),
		newSingleStageCommand(cctx, "register", "Assign system identifiers and rename objects"),
		newSingleStageCommand(cctx, "inventory", "Write per-object fixity manifests"),
		newSingleStageCommand(cctx, "bag", "Package objects in BagIt structure"),
		newArchiveCommand(cctx),
		newTransferCommand(cctx),
		newSingleStageCommand(cctx, "prepack", "Restructure objects into nested directories"),
	}
}

func newSingleStageCommand(cctx *commandContext, name, short string) *cobra.Command {
	return &cobra.Command{
		Use:   name + " <batch-root>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stage, _ := stageByName(name)
			return cctx.runStages(cmd, args[0], []pipeline.Stage{stage}, nil)
		},
	}
}

func newMetadataCommand(cctx *commandContext) *cobra.Command {
	var ledgerPath string
	var idColumn string

	cmd := &cobra.Command{
		Use:   "metadata <batch-root>",
		Short: "Write metadata records from the master ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stage, _ := stageByName("metadata")
			return cctx.runStages(cmd, args[0], []pipeline.Stage{stage}, func(b *pipeline.Batch) {
				b.LedgerPath = ledgerPath
				b.IDColumn = idColumn
			})
		},
	}
	cmd.Flags().StringVarP(&ledgerPath, "ledger", "l", "", "Master metadata ledger CSV")
	cmd.Flags().StringVar(&idColumn, "id-column", "Local ID", "Ledger column holding local identifiers")
	return cmd
}

func newArchiveCommand(cctx *commandContext) *cobra.Command {
	var gzipArchives bool

	cmd := &cobra.Command{
		Use:   "archive <batch-root>",
		Short: "Tar each object into the sibling -archived directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stage, _ := stageByName("archive")
			return cctx.runStages(cmd, args[0], []pipeline.Stage{stage}, func(b *pipeline.Batch) {
				if gzipArchives {
					b.Cfg.Archive.Compress = true
				}
			})
		},
	}
	cmd.Flags().BoolVar(&gzipArchives, "gzip", false, "Gzip-compress the tar archives")
	return cmd
}

func newTransferCommand(cctx *commandContext) *cobra.Command {
	var transferDir string

	cmd := &cobra.Command{
		Use:   "transfer <batch-root>",
		Short: "Write the transfer ledger for finished archives",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stage, _ := stageByName("transfer")
			return cctx.runStages(cmd, args[0], []pipeline.Stage{stage}, func(b *pipeline.Batch) {
				b.TransferDir = transferDir
			})
		},
	}
	cmd.Flags().StringVar(&transferDir, "dir", "", "Directory the ledger covers (default <batch-root>-archived)")
	return cmd
}
