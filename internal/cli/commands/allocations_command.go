package commands

import (
	"context"
	"fmt"
	"text/tabwriter"

	"adaptix-hrms/internal/workflow"
)

// AllocationsCommand lists allocations and optionally approves every draft
type AllocationsCommand struct {
	config     Config
	approveAll bool
}

func NewAllocationsCommand(config Config, approveAll bool) *AllocationsCommand {
	return &AllocationsCommand{config: config, approveAll: approveAll}
}

func newAllocationsFromArgs(config Config, args []string) (Command, error) {
	fs := newFlagSet("allocations", config)
	approveAll := fs.Bool("approve-all", false, "Approve every listed DRAFT allocation")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return NewAllocationsCommand(config, *approveAll), nil
}

func (c *AllocationsCommand) Execute(ctx context.Context) error {
	client, err := c.config.client()
	if err != nil {
		return err
	}

	review := workflow.NewAllocationReview(client.Allocations(), NewConsoleNotifier(c.config.Out, c.config.Err))
	if err := review.Load(ctx); err != nil {
		return err
	}

	c.printTable(review)

	if !c.approveAll {
		return nil
	}

	review.SelectAll()
	_, err = review.Approve(ctx)
	return err
}

func (c *AllocationsCommand) printTable(review *workflow.AllocationReview) {
	w := tabwriter.NewWriter(c.config.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tEMPLOYEE\tLEAVE TYPE\tYEAR\tDAYS\tSTATUS")
	for _, a := range review.Rows() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s (%s)\n",
			a.ID, a.EmployeeName, a.LeaveTypeName, a.PeriodYear, a.TotalAllocated,
			a.Status, workflow.Classify(a.Status))
	}
	_ = w.Flush()
}
