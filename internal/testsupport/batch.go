package testsupport

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/limenVTech/UDCS-Packer/internal/bagit"
	"github.com/limenVTech/UDCS-Packer/internal/config"
	"github.com/limenVTech/UDCS-Packer/internal/confirm"
	"github.com/limenVTech/UDCS-Packer/internal/identifier"
	"github.com/limenVTech/UDCS-Packer/internal/logging"
	"github.com/limenVTech/UDCS-Packer/internal/pipeline"
	"github.com/limenVTech/UDCS-Packer/internal/record"
)

// NewBatch builds a pipeline batch over root with default config, a no-op
// logger, the non-interactive confirmer, and local identifier generation.
func NewBatch(t testing.TB, root string) *pipeline.Batch {
	t.Helper()
	cfg := config.Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config: %v", err)
	}
	return &pipeline.Batch{
		Root:      root,
		IDColumn:  "Local ID",
		Cfg:       &cfg,
		Logger:    logging.NewNop(),
		Confirm:   confirm.Batch{},
		Decisions: confirm.NewDecisions(),
		Generator: identifier.Local{Namespace: cfg.Identifier.Namespace},
		Packager:  bagit.New(),
	}
}

// WriteLedger writes a master ledger with the standard header and the given
// rows, returning its path.
func WriteLedger(t testing.TB, dir string, rows ...record.Record) string {
	t.Helper()
	path := filepath.Join(dir, "master.csv")
	var b strings.Builder
	b.WriteString(strings.Join(record.Fields, ","))
	b.WriteString("\n")
	for _, r := range rows {
		b.WriteString(strings.Join([]string{
			r.SystemUUID, r.LocalID, r.Department, r.Person,
			r.Collection, r.Description, r.ObjectURI, r.CollectionURI,
		}, ","))
		b.WriteString("\n")
	}
	WriteFile(t, path, b.String())
	return path
}

// LedgerRow returns a plausible ledger row for the given local identifier.
// Field values avoid commas so WriteLedger can join them naively.
func LedgerRow(localID string) record.Record {
	return record.Record{
		LocalID:       localID,
		Department:    "Digital Imaging",
		Person:        "jdoe",
		Collection:    "Test Collection",
		Description:   "Fixture object " + localID,
		ObjectURI:     "https://objects.example/" + localID,
		CollectionURI: "https://collections.example/test",
	}
}

// ScriptedConfirmer answers prompts by substring match against Answers,
// falling back to the prompt's own default, and records every prompt asked.
type ScriptedConfirmer struct {
	Answers map[string]bool
	Asked   []string
}

func (s *ScriptedConfirmer) Confirm(prompt string, def bool) (bool, error) {
	s.Asked = append(s.Asked, prompt)
	for fragment, answer := range s.Answers {
		if strings.Contains(prompt, fragment) {
			return answer, nil
		}
	}
	return def, nil
}

func (s *ScriptedConfirmer) Acknowledge(msg string) {
	s.Asked = append(s.Asked, msg)
}
