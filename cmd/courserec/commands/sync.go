// ABOUTME: Sync commands for sharing embedded catalogs through Charm cloud
// ABOUTME: Push and pull corpus snapshots per model, show status and keys
package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	syncModel string
)

// NewSyncCmd creates the sync command group
func NewSyncCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Share embedded catalogs through Charm cloud",
		Long: `Share embedded catalogs through Charm cloud.

The catalog and vectors live in a local SQLite database. push publishes
one model's corpus snapshot to Charm KV, pull replaces the local catalog
and that model's vectors with the published snapshot. Authentication uses
your Charm SSH keys.`,
	}

	cmd.PersistentFlags().StringVar(&syncModel, "model", "", "Embedding model (default from config)")

	cmd.AddCommand(newSyncPushCmd())
	cmd.AddCommand(newSyncPullCmd())
	cmd.AddCommand(newSyncStatusCmd())
	cmd.AddCommand(newSyncKeysCmd())

	return cmd
}

func newSyncPushCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "push",
		Short: "Publish the local corpus snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			model := syncModel
			if model == "" {
				model = app.Config.EmbeddingModel
			}

			c, err := app.Store.LoadCorpus(model)
			if err != nil {
				return fmt.Errorf("loading corpus for %s: %w", model, err)
			}

			client, err := app.Charm()
			if err != nil {
				return fmt.Errorf("failed to connect to Charm: %w", err)
			}

			manifest, err := client.PushSnapshot(cmd.Context(), c.Snapshot())
			if err != nil {
				return fmt.Errorf("push failed: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Pushed %d course(s) for %s\n", len(manifest.Codes), manifest.Model)
			return nil
		},
	}
}

func newSyncPullCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pull",
		Short: "Replace the local corpus with the published snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			model := syncModel
			if model == "" {
				model = app.Config.EmbeddingModel
			}

			client, err := app.Charm()
			if err != nil {
				return fmt.Errorf("failed to connect to Charm: %w", err)
			}

			snap, err := client.PullSnapshot(cmd.Context(), model)
			if err != nil {
				return fmt.Errorf("pull failed: %w", err)
			}

			if err := app.Store.RestoreSnapshot(snap); err != nil {
				return fmt.Errorf("restoring snapshot: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Pulled %d course(s) for %s\n", len(snap.Entries), snap.Model)
			return nil
		},
	}
}

func newSyncStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show connection info and published snapshots",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			client, err := app.Charm()
			if err != nil {
				return fmt.Errorf("failed to connect to Charm: %w", err)
			}

			out := cmd.OutOrStdout()
			id, err := client.ID()
			if err != nil {
				fmt.Fprintln(out, "Status: Not connected")
				fmt.Fprintln(out, "Run 'courserec sync keys' to check your SSH keys")
				return nil
			}

			fmt.Fprintln(out, "Status: Connected")
			fmt.Fprintf(out, "User ID: %s\n", id)
			fmt.Fprintf(out, "Host: %s\n", app.Config.CharmHost)

			manifests, err := client.Manifests()
			if err != nil {
				return err
			}
			if len(manifests) == 0 {
				fmt.Fprintln(out, "No snapshots published")
				return nil
			}

			fmt.Fprintln(out)
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "MODEL\tCOURSES\tDIM\tPUSHED\n")
			for _, m := range manifests {
				fmt.Fprintf(w, "%s\t%d\t%d\t%s\n", m.Model, len(m.Codes), m.Dimension, formatTime(m.PushedAt))
			}
			return w.Flush()
		},
	}
}

func newSyncKeysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List authorized SSH keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := openApp(cmd)
			if err != nil {
				return err
			}
			defer func() { _ = app.Close() }()

			client, err := app.Charm()
			if err != nil {
				return fmt.Errorf("failed to connect to Charm: %w", err)
			}

			keys, err := client.AuthorizedKeys()
			if err != nil {
				return fmt.Errorf("failed to get authorized keys: %w", err)
			}

			if keys == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "No authorized keys found")
				return nil
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Authorized SSH keys:")
			fmt.Fprintln(cmd.OutOrStdout(), keys)
			return nil
		},
	}
}
