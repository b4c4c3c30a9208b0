package commands

import (
	"context"

	"adaptix-hrms/internal/workflow"
)

// EntitlementRunCommand triggers a server-side entitlement run for the session company
type EntitlementRunCommand struct {
	config Config
}

func NewEntitlementRunCommand(config Config) *EntitlementRunCommand {
	return &EntitlementRunCommand{config: config}
}

func newEntitlementRunFromArgs(config Config, args []string) (Command, error) {
	fs := newFlagSet("entitlement-run", config)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return NewEntitlementRunCommand(config), nil
}

func (c *EntitlementRunCommand) Execute(ctx context.Context) error {
	client, err := c.config.client()
	if err != nil {
		return err
	}

	trigger := workflow.NewEntitlementTrigger(client.Entitlement(), NewConsoleNotifier(c.config.Out, c.config.Err))
	_, err = trigger.Run(ctx)
	return err
}
