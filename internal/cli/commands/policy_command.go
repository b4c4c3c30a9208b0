package commands

import (
	"context"
	"fmt"

	"adaptix-hrms/internal/workflow"
)

// PolicyCreateCommand creates a leave policy from flags
type PolicyCreateCommand struct {
	config Config
	form   workflow.PolicyForm
}

func NewPolicyCreateCommand(config Config, form workflow.PolicyForm) *PolicyCreateCommand {
	return &PolicyCreateCommand{config: config, form: form}
}

func newPolicyCreateFromArgs(config Config, args []string) (Command, error) {
	fs := newFlagSet("policy-create", config)
	var form workflow.PolicyForm
	fs.StringVar(&form.Name, "name", "", "Policy name")
	fs.StringVar(&form.LeaveType, "leave-type", "", "Leave type id")
	fs.StringVar(&form.AllocationDays, "days", "0", "Days allocated per period")
	fs.StringVar(&form.TenureMonthsRequired, "tenure", "0", "Months of tenure required")
	fs.StringVar(&form.GenderRequirement, "gender", "ALL", "Gender requirement: ALL, MALE, FEMALE")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return NewPolicyCreateCommand(config, form), nil
}

func (c *PolicyCreateCommand) Execute(ctx context.Context) error {
	client, err := c.config.client()
	if err != nil {
		return err
	}

	policy, err := c.form.Submit(ctx, client.Policies(), NewConsoleNotifier(c.config.Out, c.config.Err))
	if err != nil {
		return err
	}
	fmt.Fprintf(c.config.Out, "Policy ID: %s\n", policy.ID)
	return nil
}
