package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/shuleplus/ukaguzi/rest"
	"github.com/shuleplus/ukaguzi/store"
)

// runModeration drives one pending queue: list its items or move one of
// them out with approve/decline.
func runModeration[T store.Entity](ctx context.Context, cli *commandLine, m *store.Moderation[T], args []string, print func([]T, int)) error {
	if len(args) < 1 {
		cli.printUsage()
		return errHelp
	}

	switch args[0] {
	case "list":
		if err := m.GetItems(ctx, rest.ListOptions{}); err != nil {
			return err
		}
		print(m.Items, m.TotalItems)
		return nil

	case "approve", "decline":
		cmd := flag.NewFlagSet(args[0], flag.ExitOnError)
		id := cmd.String("id", "", "The pending record's id.")
		if err := cmd.Parse(args[1:]); err != nil {
			return err
		}
		if *id == "" {
			cmd.Usage()
			return errHelp
		}
		if args[0] == "approve" {
			return m.Approve(ctx, *id)
		}
		return m.Decline(ctx, *id)

	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) listActivities(ctx context.Context, limit int) error {
	opts := rest.ListOptions{PerPage: limit}
	if err := cli.activities.GetItems(ctx, opts); err != nil {
		return err
	}
	for _, a := range cli.activities.Items {
		fmt.Printf("%-20s %-28s target=%-6s by %s\n", a.CreatedAt, a.ActivityType, a.TargetID, a.Admin.Email)
	}
	fmt.Printf("%d of %d\n", len(cli.activities.Items), cli.activities.TotalItems)
	return nil
}
