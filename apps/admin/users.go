package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/shuleplus/ukaguzi/core/filter"
	"github.com/shuleplus/ukaguzi/rest"
	"github.com/shuleplus/ukaguzi/store"
)

func (cli *commandLine) runUsers(ctx context.Context, args []string) error {
	if len(args) < 1 {
		cli.printUsage()
		return errHelp
	}

	switch args[0] {
	case "list":
		listCmd := flag.NewFlagSet("users list", flag.ExitOnError)
		page := listCmd.Int("page", 1, "Page to fetch.")
		limit := listCmd.Int("limit", 10, "Items per page.")
		search := listCmd.String("search", "", "Free-text search.")
		status := listCmd.String("status", "", "Filter on account status.")
		if err := listCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *status != "" {
			set := filter.NewSet()
			set.SetFilters([]filter.Filter{{Key: "status", Kind: filter.KindRadio}})
			set.SetSelected("status", filter.Radio(*status))
			cli.users.UseFilters(set)
		}
		opts := rest.ListOptions{Page: *page, PerPage: *limit, Search: *search}
		if err := cli.users.GetItems(ctx, opts); err != nil {
			return err
		}
		printUsers(cli.users.Items, cli.users.TotalItems)
		return nil

	case "add":
		addCmd := flag.NewFlagSet("users add", flag.ExitOnError)
		name := addCmd.String("name", "", "The user's full name.")
		email := addCmd.String("email", "", "The user's email.")
		studentType := addCmd.String("type", "student", "Account type: student or alumni.")
		faculty := addCmd.String("faculty", "", "The user's faculty.")
		if err := addCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *name == "" || *email == "" {
			addCmd.Usage()
			return errHelp
		}
		err := cli.users.AddItem(ctx, store.User{
			Name:        *name,
			Email:       *email,
			StudentType: *studentType,
			Faculty:     *faculty,
			Status:      "active",
		})
		if err != nil {
			return err
		}
		fmt.Printf("created user %s\n", cli.users.Items[0].EntityID())
		return nil

	case "delete":
		delCmd := flag.NewFlagSet("users delete", flag.ExitOnError)
		ids := delCmd.String("id", "", "Comma-separated user ids.")
		if err := delCmd.Parse(args[1:]); err != nil {
			return err
		}
		if *ids == "" {
			delCmd.Usage()
			return errHelp
		}
		return cli.users.DeleteItems(ctx, splitIDs(*ids))

	default:
		cli.printUsage()
		return errHelp
	}
}

func printUsers(users []store.User, total int) {
	for _, u := range users {
		fmt.Printf("%-4s %-24s %-28s %-8s %-8s %s\n", u.EntityID(), u.Name, u.Email, u.StudentType, u.Status, u.Faculty)
	}
	fmt.Printf("%d of %d\n", len(users), total)
}

func printPosts(posts []store.Post, total int) {
	for _, p := range posts {
		fmt.Printf("%-4s %-32s %-24s %s\n", p.EntityID(), p.Title, p.Author, p.Status)
	}
	fmt.Printf("%d of %d\n", len(posts), total)
}

func printReports(reports []store.Report, total int) {
	for _, r := range reports {
		fmt.Printf("%-4s target=%-6s %-24s %s\n", r.EntityID(), r.TargetID, r.Reason, r.Status)
	}
	fmt.Printf("%d of %d\n", len(reports), total)
}
