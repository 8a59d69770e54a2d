package main

import (
	"fmt"

	"github.com/trezcool/goose"

	appfs "github.com/univxyz/transkrip/fs"
)

// mockable
var (
	gooseUpFunc   = goose.Up
	gooseDownFunc = goose.Down
	gooseRedoFunc = goose.Redo
)

func (cli *commandLine) migrate(direction string) error {
	switch direction {
	case "up":
		return gooseUpFunc(cli.db, appfs.FS, "migrations")
	case "down":
		return gooseDownFunc(cli.db, appfs.FS, "migrations")
	case "redo":
		return gooseRedoFunc(cli.db, appfs.FS, "migrations")
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
}
