package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "tree23",
		Short: "Workload tools for the 2-3 tree ordered map.",
	}
	root.AddCommand(genCommand(), runCommand(), graphCommand())

	if err := root.Execute(); err != nil {
		fmt.Printf("Error: %s\n", err.Error())
		os.Exit(1)
	}
}
