package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/limenVTech/UDCS-Packer/internal/pipeline"
	"github.com/limenVTech/UDCS-Packer/internal/stages/archive"
	"github.com/limenVTech/UDCS-Packer/internal/stages/inventory"
	"github.com/limenVTech/UDCS-Packer/internal/stages/metadata"
	"github.com/limenVTech/UDCS-Packer/internal/stages/packing"
	"github.com/limenVTech/UDCS-Packer/internal/stages/prepack"
	"github.com/limenVTech/UDCS-Packer/internal/stages/register"
	"github.com/limenVTech/UDCS-Packer/internal/stages/transfer"
)

// stageOrder is the canonical pipeline sequence; --stages selects a subset
// but never reorders it.
var stageOrder = []string{"metadata", "register", "inventory", "bag", "archive", "transfer"}

func stageByName(name string) (pipeline.Stage, bool) {
	switch name {
	case "metadata":
		return metadata.New(), true
	case "register":
		return register.New(), true
	case "inventory":
		return inventory.New(), true
	case "bag":
		return packing.New(), true
	case "archive":
		return archive.New(), true
	case "transfer":
		return transfer.New(), true
	case "prepack":
		return prepack.New(), true
	}
	return nil, false
}

func newRunCommand(cctx *commandContext) *cobra.Command {
	var ledgerPath string
	var idColumn string
	var stageNames []string
	var withPrepack bool
	var transferDir string
	var gzipArchives bool

	cmd := &cobra.Command{
		Use:   "run <batch-root>",
		Short: "Run the packaging pipeline over a batch of objects",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, err := selectStages(stageNames)
			if err != nil {
				return err
			}
			stages := make([]pipeline.Stage, 0, len(selected)+1)
			if withPrepack {
				stages = append(stages, prepack.New())
			}
			stages = append(stages, selected...)

			return cctx.runStages(cmd, args[0], stages, func(b *pipeline.Batch) {
				b.LedgerPath = ledgerPath
				b.IDColumn = idColumn
				b.TransferDir = transferDir
				if gzipArchives {
					b.Cfg.Archive.Compress = true
				}
			})
		},
	}

	cmd.Flags().StringVarP(&ledgerPath, "ledger", "l", "", "Master metadata ledger CSV")
	cmd.Flags().StringVar(&idColumn, "id-column", "Local ID", "Ledger column holding local identifiers")
	cmd.Flags().StringSliceVar(&stageNames, "stages", nil,
		"Stages to run (subset of "+strings.Join(stageOrder, ",")+"; default all)")
	cmd.Flags().BoolVar(&withPrepack, "prepack", false, "Restructure objects before the first stage")
	cmd.Flags().StringVar(&transferDir, "transfer-dir", "", "Directory the transfer ledger covers (default <batch-root>-archived)")
	cmd.Flags().BoolVar(&gzipArchives, "gzip", false, "Gzip-compress the tar archives")
	return cmd
}

// selectStages resolves --stages to stage instances in canonical order.
func selectStages(names []string) ([]pipeline.Stage, error) {
	if len(names) == 0 {
		names = stageOrder
	}
	wanted := make(map[string]bool, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		found := false
		for _, known := range stageOrder {
			if name == known {
				found = true
				break
			}
		}
		if !found {
			return nil, fmt.Errorf("unknown stage %q (choose from %s)", name, strings.Join(stageOrder, ", "))
		}
		wanted[name] = true
	}

	var stages []pipeline.Stage
	for _, name := range stageOrder {
		if !wanted[name] {
			continue
		}
		stage, _ := stageByName(name)
		stages = append(stages, stage)
	}
	return stages, nil
}
