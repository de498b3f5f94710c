package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"platformer/game"
)

var levelCmd = &cobra.Command{
	Use:   "level",
	Short: "Validate and summarise the level serve would run",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		lvl, err := game.LoadLevel(cfg.Level)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "level:     %s\n", lvl.Name)
		fmt.Fprintf(out, "size:      %gx%g\n", lvl.Width, lvl.Height)
		fmt.Fprintf(out, "platforms: %d\n", len(lvl.Platforms))
		fmt.Fprintf(out, "enemies:   %d\n", len(lvl.Enemies))
		fmt.Fprintf(out, "coins:     %d\n", len(lvl.Coins))
		fmt.Fprintf(out, "gravity:   %g\n", lvl.Physics.Gravity)
		return nil
	},
}
