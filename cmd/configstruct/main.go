package main

import (
	"os"

	"github.com/pterm/pterm"

	"github.com/teranos/configstruct/cmd/configstruct/commands"
	"github.com/teranos/configstruct/errors"
	"github.com/teranos/configstruct/logger"
)

func main() {
	err := commands.RootCmd.Execute()
	logger.Cleanup()
	if err != nil {
		pterm.Error.Println(err)
		for _, hint := range errors.GetAllHints(err) {
			pterm.Info.Println(hint)
		}
		os.Exit(1)
	}
}
