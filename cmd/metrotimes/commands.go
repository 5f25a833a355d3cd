package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/LISSConsulting/LISSTech.MetroTimes/internal/config"
)

func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Register with the collaborator and show the board",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := runOptions{}
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.noTUI, _ = cmd.Flags().GetBool("no-tui")
			opts.logFile, _ = cmd.Flags().GetString("log-file")
			opts.record, _ = cmd.Flags().GetString("record")
			opts.identifier, _ = cmd.Flags().GetString("identifier")
			return executeRun(opts)
		},
	}
	cmd.Flags().Bool("no-tui", false, "print plain-text renders to stdout instead of the TUI")
	cmd.Flags().String("log-file", "", "write logs to this file (overrides log.file)")
	cmd.Flags().String("record", "", "append every received event to this JSONL file")
	cmd.Flags().String("identifier", "", "instance identifier (overrides instance.identifier)")
	return cmd
}

func replayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay <file>",
		Short: "Replay a recorded JSONL event log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := replayOptions{file: args[0]}
			opts.configPath, _ = cmd.Flags().GetString("config")
			opts.noTUI, _ = cmd.Flags().GetBool("no-tui")
			opts.logFile, _ = cmd.Flags().GetString("log-file")
			opts.identifier, _ = cmd.Flags().GetString("identifier")
			opts.speed, _ = cmd.Flags().GetFloat64("speed")
			opts.publish, _ = cmd.Flags().GetBool("publish")
			if opts.speed < 0 {
				return fmt.Errorf("--speed must not be negative")
			}
			return executeReplay(opts)
		},
	}
	cmd.Flags().Bool("no-tui", false, "print plain-text renders to stdout instead of the TUI")
	cmd.Flags().String("log-file", "", "write logs to this file (overrides log.file)")
	cmd.Flags().String("identifier", "", "board identifier (default: first identifier in the file)")
	cmd.Flags().Float64("speed", 0, "replay speed relative to recorded timestamps (0 = as fast as possible)")
	cmd.Flags().Bool("publish", false, "publish the events to the events channel instead of showing them")
	return cmd
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the configuration and show the startup plan",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, _ := cmd.Flags().GetString("config")
			cfg, err := loadConfig(path)
			if err != nil {
				return err
			}
			fmt.Print(describeConfig(cfg, resolveIdentifier(cfg.Instance.Identifier)))
			return nil
		},
	}
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create metrotimes.toml in the current directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := os.Getwd()
			if err != nil {
				return fmt.Errorf("get working directory: %w", err)
			}
			path, err := config.InitFile(dir)
			if err != nil {
				return err
			}
			fmt.Printf("Created %s\n", path)
			return nil
		},
	}
}
