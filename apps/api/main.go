package main

import (
	"log"

	"github.com/shuleplus/ukaguzi/core"
	"github.com/shuleplus/ukaguzi/services/mockapi"
)

// Development backend: the in-memory API the dashboard tooling talks to.
func main() {
	srv := mockapi.NewServer(&mockapi.Options{Addr: core.Conf.Server.Addr})
	if err := srv.Seed(); err != nil {
		log.Fatal(err)
	}
	srv.Start()
}
