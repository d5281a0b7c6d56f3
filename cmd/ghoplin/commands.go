package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"ghoplin/internal/config"
	"ghoplin/internal/scheduler"
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Fetch new posts of every enabled blog",
	RunE:  runSync,
}

var (
	addURL      string
	addAPIKey   string
	addNotebook string
	addAutoTags string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Start tracking a Ghost blog",
	Long: `Add checks that the notebook exists (by id, or else by title) and that
the blog answers with the given Content API key, then stores the blog in the
sync state. The first sync imports every post of the blog.`,
	RunE: runAdd,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Sync repeatedly on the configured interval",
	RunE:  runWatch,
}

var writeConfigCmd = &cobra.Command{
	Use:   "write-config",
	Short: "Store the Joplin token and port in the config file",
	RunE:  runWriteConfig,
}

func init() {
	addCmd.Flags().StringVarP(&addURL, "url", "u", "", "blog URL")
	addCmd.Flags().StringVarP(&addAPIKey, "apiKey", "k", "", "Ghost Content API key")
	addCmd.Flags().StringVarP(&addNotebook, "notebook", "n", "", "notebook id or title")
	addCmd.Flags().StringVar(&addAutoTags, "auto-tags", "", "comma separated tags added to every note")
	_ = addCmd.MarkFlagRequired("url")
	_ = addCmd.MarkFlagRequired("apiKey")
	_ = addCmd.MarkFlagRequired("notebook")
}

func runSync(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext(a.logger)
	defer cancel()

	stats, err := a.service.Sync(ctx)
	if err != nil {
		return fmt.Errorf("sync: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "synced %d blogs: %d new notes, %d errors, %d failed blogs\n",
		stats.Blogs, stats.New, stats.Errors, stats.Failed)
	return nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext(a.logger)
	defer cancel()

	blog, err := a.service.AddBlog(ctx, addAPIKey, addURL, addNotebook, splitTags(addAutoTags))
	if err != nil {
		return fmt.Errorf("add blog: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "added %q (%s) to notebook %s\n", blog.Title, blog.BlogURL, blog.NotebookID)
	return nil
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, cancel := signalContext(a.logger)
	defer cancel()

	sched := scheduler.NewScheduler(a.service, a.cfg.Sync.Interval, a.cfg.Sync.RunTimeout, a.logger)
	if err := sched.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("scheduler: %w", err)
	}
	return nil
}

func runWriteConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Joplin.Token == "" {
		return errors.New("no token given: pass --token or set JOPLIN_TOKEN")
	}

	overwritten, err := config.Write(configPath, config.JoplinConfig{
		Host:  cfg.Joplin.Host,
		Port:  cfg.Joplin.Port,
		Token: cfg.Joplin.Token,
	})
	if err != nil {
		return err
	}
	if overwritten {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: updated joplin settings in existing config file %s\n", configPath)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", configPath)
	return nil
}

func splitTags(raw string) []string {
	var tags []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
