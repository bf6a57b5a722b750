package main

import (
	"log"
	"os"

	"github.com/shuleplus/ukaguzi/core"
	"github.com/shuleplus/ukaguzi/core/session"
	"github.com/shuleplus/ukaguzi/rest"
	"github.com/shuleplus/ukaguzi/services/logger"
	"github.com/shuleplus/ukaguzi/store"
)

func main() {
	std := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)

	var appLogger core.Logger
	if core.Conf.Debug || core.Conf.RollbarToken == "" {
		appLogger = core.NewConsoleLogger(std)
	} else {
		appLogger = logsvc.NewRollbarLogger(std, core.Conf)
	}

	sess, err := session.New(session.NewFileStorage(core.Conf.SessionFile))
	if err != nil {
		std.Fatal(err)
	}

	client := rest.NewClient(rest.Options{
		BaseURL: core.Conf.API.BaseURL,
		Session: sess,
		Logger:  appLogger,
		OnForcedLogout: func() {
			std.Println("session expired, please log in again")
		},
	})
	notifier := store.NewLoggerNotifier(appLogger)
	activity := store.NewActivityLog(client, sess)
	validate, translator := core.NewValidator()

	cli := commandLine{
		auth:           store.NewAuth(client, sess, notifier, validate, translator, nil),
		users:          store.NewUserStore(client, activity, notifier),
		accounts:       store.NewAuditAccountStore(client, activity, notifier),
		posts:          store.NewAuditPostStore(client, activity, notifier),
		accountReports: store.NewAccountViolationStore(client, activity, notifier),
		postReports:    store.NewPostViolationStore(client, activity, notifier),
		activities:     store.NewActivityStore(client, notifier),
	}
	if err := cli.run(os.Args); err != nil {
		if err != errHelp {
			std.Printf("\nerror: %s\n", err)
		}
		os.Exit(1)
	}
}
