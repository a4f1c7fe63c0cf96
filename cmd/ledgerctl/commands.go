package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/placementdesk/backend/internal/models"
	"github.com/placementdesk/backend/internal/services"
)

// Register the subcommands.
func Register(c *subcommands.Commander) {
	c.Register(&balanceCmd{}, "ledger")
	c.Register(&duesCmd{}, "ledger")
	c.Register(&arrearsCmd{}, "ledger")
	c.Register(&reportCmd{}, "reports")
	c.Register(&verifyCmd{}, "backup")
}

var (
	backupFile = flag.String("backup", "ledger-backup.json", "Path to the ledger backup file (JSON)")
	currency   = flag.String("currency", "INR", "Currency used to display amounts")

	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// DecodeBackup reads and checks the backup file. Warnings are printed to stderr.
func DecodeBackup() (*models.Snapshot, error) {
	_, snap, err := readBackup()
	return snap, err
}

func readBackup() ([]byte, *models.Snapshot, error) {
	raw, err := os.ReadFile(*backupFile)
	if err != nil {
		return nil, nil, err
	}
	snap, err := services.DecodeSnapshot(raw)
	if err != nil {
		return nil, nil, err
	}
	warnings, err := services.CheckSnapshot(snap)
	if err != nil {
		return nil, nil, err
	}
	for _, w := range warnings {
		fmt.Fprintf(stderr, "warning: %s\n", w)
	}
	return raw, snap, nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// participant finds an entity by id or case-insensitive name.
type participant struct {
	id   string
	kind models.EntityKind
	name string
}

func findParticipants(snap *models.Snapshot, kind models.EntityKind, key string) []participant {
	match := func(id, name string) bool {
		return id == key || strings.EqualFold(name, key)
	}
	var out []participant
	if kind == "" || kind == models.EntityAccount {
		for _, a := range snap.Accounts {
			if match(a.ID, a.Name) {
				out = append(out, participant{a.ID, models.EntityAccount, a.Name})
			}
		}
	}
	if kind == "" || kind == models.EntityCandidate {
		for _, c := range snap.Candidates {
			if match(c.ID, c.Name) {
				out = append(out, participant{c.ID, models.EntityCandidate, c.Name})
			}
		}
	}
	if kind == "" || kind == models.EntityStaff {
		for _, s := range snap.Staff {
			if match(s.ID, s.Name) {
				out = append(out, participant{s.ID, models.EntityStaff, s.Name})
			}
		}
	}
	return out
}
