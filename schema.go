package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"platformer/protocol"
)

var flagSchemaOut string

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the websocket protocol JSON schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := protocol.MarshalSchemas()
		if err != nil {
			return err
		}
		if flagSchemaOut == "" {
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		return writeFileAtomic(flagSchemaOut, data)
	},
}

func init() {
	schemaCmd.Flags().StringVar(&flagSchemaOut, "out", "", "Write the schema to this file instead of stdout")
}

func writeFileAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create schema directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp schema: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace schema: %w", err)
	}
	return nil
}
