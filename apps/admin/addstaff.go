package main

import (
	"context"

	"github.com/univxyz/transkrip/core/staff"
)

// addStaff creates a registrar account that can authenticate against the API.
func (cli *commandLine) addStaff(name, uname, pwd string) error {
	ctx := context.Background()

	if _, err := cli.stfSvc.Create(ctx, staff.NewStaff{
		Name:            name,
		Username:        uname,
		Password:        pwd,
		PasswordConfirm: pwd,
	}); err != nil {
		return err
	}
	logger.Printf("staff account %q created", uname)
	return nil
}
