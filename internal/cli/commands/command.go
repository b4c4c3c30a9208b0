package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"sort"
)

// Command is one leavectl subcommand
type Command interface {
	Execute(ctx context.Context) error
}

type factory func(config Config, args []string) (Command, error)

var registry = map[string]factory{
	"entitlement-run": newEntitlementRunFromArgs,
	"allocations":     newAllocationsFromArgs,
	"policy-create":   newPolicyCreateFromArgs,
	"leave-create":    newLeaveCreateFromArgs,
}

// NewCommand resolves a subcommand by name and parses its flags
func NewCommand(name string, args []string, config Config) (Command, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown command %q", name)
	}
	return f(config, args)
}

// Usage lists the available subcommands
func Usage(w io.Writer) {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintln(w, "Usage: leavectl <command> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", name)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment: HRMS_BASE_URL, HRMS_TOKEN, HRMS_COMPANY_ID")
}

func newFlagSet(name string, config Config) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(config.Err)
	return fs
}
