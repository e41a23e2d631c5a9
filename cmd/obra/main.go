package main

import "os"

func main() {
	rootCmd.AddCommand(adminCmd)
	rootCmd.AddCommand(seedCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
