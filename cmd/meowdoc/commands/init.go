package commands

import (
	"fmt"
	"path/filepath"

	"git.home.luguber.info/inful/meowdoc/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force  bool   `help:"Overwrite existing configuration file"`
	Output string `short:"o" name:"output" help:"Output directory for generated config file"`
}

func (i *InitCmd) Run(_ *Global, root *CLI) error {
	cfgPath := root.Config
	if i.Output != "" {
		cfgPath = filepath.Join(i.Output, "meowdoc.yaml")
	}
	return RunInit(cfgPath, i.Force)
}

func RunInit(configPath string, force bool) error {
	// Friendly user-facing messages on stdout; logs stay on stderr.
	fmt.Println("Initializing meowdoc project")
	fmt.Printf("Writing configuration to %s\n", configPath)
	if err := config.Init(configPath, force); err != nil {
		fmt.Println("Initialization failed")
		return err
	}
	fmt.Println("initialized successfully")
	return nil
}
