package main

import (
	"fmt"
	"os"

	"github.com/aretw0/arbor"
	"github.com/spf13/cobra"
)

var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export a tree document as a Mermaid flowchart",
	Run: func(cmd *cobra.Command, args []string) {
		file, _ := cmd.Flags().GetString("file")

		data, err := os.ReadFile(file)
		if err != nil {
			fmt.Printf("Error reading tree document: %v\n", err)
			os.Exit(1)
		}

		engine, err := arbor.FromYAML(data)
		if err != nil {
			fmt.Printf("Error assembling tree: %v\n", err)
			os.Exit(1)
		}

		fmt.Print(engine.Graph())
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
