package commands

import (
	"context"
	"fmt"

	"adaptix-hrms/internal/workflow"
)

// LeaveCreateCommand files a leave application
type LeaveCreateCommand struct {
	config Config
	form   workflow.LeaveForm
}

func NewLeaveCreateCommand(config Config, form workflow.LeaveForm) *LeaveCreateCommand {
	return &LeaveCreateCommand{config: config, form: form}
}

func newLeaveCreateFromArgs(config Config, args []string) (Command, error) {
	fs := newFlagSet("leave-create", config)
	var form workflow.LeaveForm
	fs.StringVar(&form.Employee, "employee", "", "Employee id")
	fs.StringVar(&form.LeaveType, "leave-type", "", "Leave type id")
	fs.StringVar(&form.StartDate, "start", "", "Start date (YYYY-MM-DD)")
	fs.StringVar(&form.EndDate, "end", "", "End date (YYYY-MM-DD)")
	fs.StringVar(&form.Reason, "reason", "", "Reason (optional)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return NewLeaveCreateCommand(config, form), nil
}

func (c *LeaveCreateCommand) Execute(ctx context.Context) error {
	client, err := c.config.client()
	if err != nil {
		return err
	}

	leave, err := c.form.Submit(ctx, client.Leaves(), NewConsoleNotifier(c.config.Out, c.config.Err))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.config.Out, "Leave ID: %s (%d days, %s)\n", leave.ID, leave.TotalDays, leave.Status)
	return nil
}
