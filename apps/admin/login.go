package main

import (
	"context"
	"fmt"

	"github.com/shuleplus/ukaguzi/store"
)

func (cli *commandLine) login(ctx context.Context, email, pwd string) error {
	if err := cli.auth.Login(ctx, store.Credentials{Email: email, Password: pwd}); err != nil {
		return err
	}
	fmt.Printf("logged in as %s\n", cli.auth.User().Email)
	return nil
}
