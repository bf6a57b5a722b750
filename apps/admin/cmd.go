package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/shuleplus/ukaguzi/store"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	auth           *store.Auth
	users          *store.Store[store.User]
	accounts       *store.Moderation[store.User]
	posts          *store.Moderation[store.Post]
	accountReports *store.Moderation[store.Report]
	postReports    *store.Moderation[store.Report]
	activities     *store.Store[store.Activity]
}

func (cli *commandLine) printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  login -email EMAIL                            - log in; the password is prompted next")
	fmt.Println("  logout                                        - log out and clear the stored session")
	fmt.Println("  users list [-page N] [-limit N] [-search S] [-status S]")
	fmt.Println("  users add -name NAME -email EMAIL [-type student|alumni] [-faculty F]")
	fmt.Println("  users delete -id ID[,ID...]")
	fmt.Println("  accounts list|approve|decline [-id ID]        - pending account audits")
	fmt.Println("  posts list|approve|decline [-id ID]           - pending post audits")
	fmt.Println("  reports -kind account|post list|approve|decline [-id ID]")
	fmt.Println("  activities [-limit N]                         - recent admin activity")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}
	ctx := context.Background()

	switch args[1] {
	case "login":
		loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
		email := loginCmd.String("email", "", "The admin's email. The password will be prompted next.")
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *email == "" {
			loginCmd.Usage()
			return errHelp
		}
		fmt.Print("Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Println()
		if err != nil {
			return err
		}
		if len(pwd) == 0 {
			loginCmd.Usage()
			return errHelp
		}
		return cli.login(ctx, *email, string(pwd))

	case "logout":
		return cli.auth.Logout()

	case "users":
		return cli.runUsers(ctx, args[2:])

	case "accounts":
		return runModeration(ctx, cli, cli.accounts, args[2:], printUsers)

	case "posts":
		return runModeration(ctx, cli, cli.posts, args[2:], printPosts)

	case "reports":
		reportsCmd := flag.NewFlagSet("reports", flag.ExitOnError)
		kind := reportsCmd.String("kind", "account", "Report kind: account or post.")
		if err := reportsCmd.Parse(args[2:]); err != nil {
			return err
		}
		switch *kind {
		case "account":
			return runModeration(ctx, cli, cli.accountReports, reportsCmd.Args(), printReports)
		case "post":
			return runModeration(ctx, cli, cli.postReports, reportsCmd.Args(), printReports)
		default:
			reportsCmd.Usage()
			return errHelp
		}

	case "activities":
		activitiesCmd := flag.NewFlagSet("activities", flag.ExitOnError)
		limit := activitiesCmd.Int("limit", 20, "Number of entries to show.")
		if err := activitiesCmd.Parse(args[2:]); err != nil {
			return err
		}
		return cli.listActivities(ctx, *limit)

	default:
		cli.printUsage()
		return errHelp
	}
}

func splitIDs(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
