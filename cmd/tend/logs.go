package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"tools.zach/dev/tend/internal/logger"
)

var logLines int

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Print the tail of the daemon log",
	RunE: func(cmd *cobra.Command, args []string) error {
		tail, err := logger.ReadTail(dataPaths().Log(), logLines)
		if err != nil {
			return fmt.Errorf("read log: %w", err)
		}
		fmt.Println(tail)
		return nil
	},
}

func init() {
	logsCmd.Flags().IntVarP(&logLines, "lines", "n", 50, "Number of lines to print")
	rootCmd.AddCommand(logsCmd)
}
