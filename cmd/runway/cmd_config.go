package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/rpgo/retirement-runway/internal/config"
	"github.com/rpgo/retirement-runway/internal/domain"
	"github.com/rpgo/retirement-runway/internal/storage"
)

func newConfigCmd(root *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the stored retirement settings",
	}

	importCmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Validate a configuration file and store it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewInputParser().LoadFromFile(args[0])
			if err != nil {
				return err
			}
			store, err := root.store()
			if err != nil {
				return err
			}
			if err := store.Save(storage.KeyRetirementConfig, cfg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Stored settings from %s in %s\n", args[0], store.Dir())
			return nil
		},
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the stored settings as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := root.store()
			if err != nil {
				return err
			}
			var cfg domain.Configuration
			if err := store.Load(storage.KeyRetirementConfig, &cfg); err != nil {
				if errors.Is(err, storage.ErrNotFound) {
					return errors.New("no settings stored; run \"runway config import <file>\" first")
				}
				return err
			}
			data, err := yaml.Marshal(&cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}

	clearCmd := &cobra.Command{
		Use:   "clear",
		Short: "Delete the stored settings",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := root.store()
			if err != nil {
				return err
			}
			return store.Delete(storage.KeyRetirementConfig)
		},
	}

	cmd.AddCommand(importCmd, showCmd, clearCmd)
	return cmd
}

func newExampleConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "example-config [file]",
		Short: "Write an example configuration",
		Long:  "Writes an example configuration to file, or to stdout when no file is given",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser := config.NewInputParser()
			example := parser.CreateExampleConfiguration()
			if len(args) == 1 {
				if err := parser.SaveToFile(example, args[0]); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Example configuration written to %s\n", args[0])
				return nil
			}
			data, err := yaml.Marshal(example)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
