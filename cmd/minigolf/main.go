package main

import (
	"fmt"
	"os"

	"github.com/minigolfstudio/backend/internal/config"
	"github.com/minigolfstudio/backend/internal/tui"
)

func main() {
	cfg, err := config.ParseClientArgs(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		printUsage()
		os.Exit(1)
	}

	screen, err := tui.InitScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	application := tui.NewApp(cfg, screen)
	err = application.Run()
	screen.Fini()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Usage:")
	fmt.Fprintln(os.Stderr, "  minigolf [options]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Options:")
	fmt.Fprintln(os.Stderr, "  --level <n>          Level to start on (default: 1)")
	fmt.Fprintln(os.Stderr, "  --fps <n>            Frames per second (default: 60)")
	fmt.Fprintln(os.Stderr, "  --sound=false        Mute sound effects")
	fmt.Fprintln(os.Stderr, "  --preview <mode>     Aim preview: straight or simulated")
	fmt.Fprintln(os.Stderr, "  --max-delta <ms>     Longest frame step (default: 100)")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Controls:")
	fmt.Fprintln(os.Stderr, "  Drag away from the ball with the mouse and release to putt.")
	fmt.Fprintln(os.Stderr, "  r restarts the hole, m opens the level menu, q quits.")
}
