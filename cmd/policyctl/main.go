package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/omniagent/cognition/internal/policy"
	_ "modernc.org/sqlite"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to policy.db")
	target := flag.String("target", "", "target actor GUID")
	last := flag.Int("last", 20, "show N most recent policy versions")
	active := flag.Bool("active", false, "show only the active resolved policy")
	prune := flag.Bool("prune", false, "delete expired policies and exit")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: policyctl --db path/to/policy.db [--target guid] [--last N] [--active] [--prune] [--json]")
		os.Exit(2)
	}

	store, err := policy.NewStore(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	switch {
	case *prune:
		err = runPrune(store)
	case *active:
		err = runActive(store, *target, *jsonOut)
	default:
		err = runHistory(store, *target, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region modes

func runPrune(store *policy.Store) error {
	n, err := store.PruneExpired(policy.NowWorldSeconds())
	if err != nil {
		return err
	}
	fmt.Printf("pruned %d expired policies\n", n)
	return nil
}

func runActive(store *policy.Store, target string, jsonOut bool) error {
	if target == "" {
		return fmt.Errorf("--active requires --target")
	}
	p, err := store.Active(target)
	if err != nil {
		return err
	}
	if jsonOut {
		return printJSON(p)
	}
	printHeader()
	printRow(p)
	return nil
}

func runHistory(store *policy.Store, target string, last int, jsonOut bool) error {
	if target == "" {
		return fmt.Errorf("--target is required")
	}
	history, err := store.History(target, last)
	if err != nil {
		return err
	}
	if len(history) == 0 {
		fmt.Fprintln(os.Stderr, "no policies found")
		return nil
	}
	if jsonOut {
		return printJSON(history)
	}
	printHeader()
	for _, p := range history {
		printRow(p)
	}
	return nil
}

// #endregion modes

// #region output

func printHeader() {
	fmt.Printf("%-8s  %10s  %10s  %6s  %6s  %6s  %8s  %s\n",
		"Version", "IssuedAt", "TTL", "Aggr", "Fear", "Vigil", "Flags", "Trace")
	fmt.Printf("%-8s+-%10s+-%10s+-%6s+-%6s+-%6s+-%8s+-%s\n",
		"--------", "----------", "----------", "------", "------", "------", "--------", "------------")
}

func printRow(p policy.BehaviorPolicy) {
	fmt.Printf("%-8d  %10.1f  %10.1f  %6.2f  %6.2f  %6.2f  %8d  %s\n",
		p.PolicyVersion, p.IssuedAt, p.TTL, p.Aggression, p.Fear, p.Vigilance, p.PolicyFlags, p.TraceID)
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// #endregion output
