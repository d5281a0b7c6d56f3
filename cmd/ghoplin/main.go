package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	token      string
	port       int
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "ghoplin",
	Short: "Sync Ghost blog posts into Joplin notebooks",
	Long: `Ghoplin fetches new posts from Ghost blogs and stores each one as a
note in a Joplin notebook, tagging it with the post's tags and the blog's
auto tags. The list of tracked blogs and how far each has been read is kept
in a reserved Joplin note, or in Postgres when configured.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "ghoplin.yaml", "path to config file")
	rootCmd.PersistentFlags().StringVarP(&token, "token", "t", "", "Joplin Web Clipper token")
	rootCmd.PersistentFlags().IntVarP(&port, "port", "p", 0, "Joplin Web Clipper port")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(syncCmd, addCmd, watchCmd, writeConfigCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
