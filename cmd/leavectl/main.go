package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"adaptix-hrms/internal/cli/commands"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	_ = godotenv.Load()
	logger, err := zap.NewDevelopment(zap.IncreaseLevel(zap.WarnLevel))
	if err != nil {
		panic(err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	if len(os.Args) < 2 || os.Args[1] == "-h" || os.Args[1] == "help" {
		commands.Usage(os.Stderr)
		os.Exit(2)
	}

	config := commands.Config{
		BaseURL:   os.Getenv("HRMS_BASE_URL"),
		Token:     os.Getenv("HRMS_TOKEN"),
		CompanyID: os.Getenv("HRMS_COMPANY_ID"),
		Out:       os.Stdout,
		Err:       os.Stderr,
	}

	cmd, err := commands.NewCommand(os.Args[1], os.Args[2:], config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		commands.Usage(os.Stderr)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cmd.Execute(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
