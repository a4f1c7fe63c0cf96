package main

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"sort"
	"time"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type verifyCmd struct{}

func (*verifyCmd) Name() string     { return "verify" }
func (*verifyCmd) Synopsis() string { return "check that a backup restores without loss" }
func (*verifyCmd) Usage() string {
	return `ledgerctl verify

  Validates the backup and compares the file with what a restore keeps. Every
  field that would be dropped or altered is listed and the command fails.
  Numbers are compared by value, timestamps by instant.
`
}

func (*verifyCmd) SetFlags(*flag.FlagSet) {}

func (*verifyCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	raw, snap, err := readBackup()
	if err != nil {
		fmt.Fprintf(stderr, "Error loading backup: %v\n", err)
		return subcommands.ExitFailure
	}

	restored, err := json.Marshal(snap)
	if err != nil {
		fmt.Fprintf(stderr, "Error encoding backup: %v\n", err)
		return subcommands.ExitFailure
	}
	var before, after any
	if err := decodeGeneric(raw, &before); err != nil {
		fmt.Fprintf(stderr, "Error loading backup: %v\n", err)
		return subcommands.ExitFailure
	}
	if err := decodeGeneric(restored, &after); err != nil {
		fmt.Fprintf(stderr, "Error decoding restored backup: %v\n", err)
		return subcommands.ExitFailure
	}

	if lost := lostPaths("", before, after); len(lost) > 0 {
		fmt.Fprintf(stderr, "Backup does not restore without loss (%d fields):\n", len(lost))
		for _, p := range lost {
			fmt.Fprintf(stderr, "  lost: %s\n", p)
		}
		return subcommands.ExitFailure
	}

	fmt.Fprintf(stdout, "ok: %d accounts, %d candidates, %d staff, %d transactions, %d obligations\n",
		len(snap.Accounts), len(snap.Candidates), len(snap.Staff), len(snap.Transactions), len(snap.Obligations))
	return subcommands.ExitSuccess
}

func decodeGeneric(raw []byte, v *any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

// lostPaths walks the backup as written and reports every path whose value the
// restored document does not carry. Fields only present after a restore are
// not losses.
func lostPaths(path string, before, after any) []string {
	switch b := before.(type) {
	case nil:
		return nil
	case map[string]any:
		a, ok := after.(map[string]any)
		if !ok {
			return []string{pathOrRoot(path)}
		}
		keys := make([]string, 0, len(b))
		for k := range b {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var lost []string
		for _, k := range keys {
			child := k
			if path != "" {
				child = path + "." + k
			}
			v, present := a[k]
			if !present {
				if !isEmptyValue(b[k]) {
					lost = append(lost, child)
				}
				continue
			}
			lost = append(lost, lostPaths(child, b[k], v)...)
		}
		return lost
	case []any:
		a, ok := after.([]any)
		if !ok || len(a) != len(b) {
			return []string{pathOrRoot(path)}
		}
		var lost []string
		for i := range b {
			lost = append(lost, lostPaths(fmt.Sprintf("%s[%d]", path, i), b[i], a[i])...)
		}
		return lost
	case json.Number:
		if sameNumber(string(b), after) {
			return nil
		}
		return []string{pathOrRoot(path)}
	case string:
		if a, ok := after.(string); ok && (a == b || sameInstant(b, a)) {
			return nil
		}
		// Amounts may be written as quoted decimals and restored as numbers.
		if sameNumber(b, after) {
			return nil
		}
		return []string{pathOrRoot(path)}
	default:
		if before == after {
			return nil
		}
		return []string{pathOrRoot(path)}
	}
}

func pathOrRoot(path string) string {
	if path == "" {
		return "(document)"
	}
	return path
}

func sameNumber(before string, after any) bool {
	a, ok := after.(json.Number)
	if !ok {
		return false
	}
	x, err := decimal.NewFromString(before)
	if err != nil {
		return false
	}
	y, err := decimal.NewFromString(string(a))
	return err == nil && x.Equal(y)
}

func sameInstant(before, after string) bool {
	x, err := time.Parse(time.RFC3339Nano, before)
	if err != nil {
		return false
	}
	y, err := time.Parse(time.RFC3339Nano, after)
	return err == nil && x.Equal(y)
}

// isEmptyValue reports values that omitempty fields leave out on re-encoding.
func isEmptyValue(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	case bool:
		return !x
	case json.Number:
		d, err := decimal.NewFromString(string(x))
		return err == nil && d.IsZero()
	case []any:
		return len(x) == 0
	case map[string]any:
		return len(x) == 0
	}
	return false
}
