package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/framecut/framecut/internal/config"
	"github.com/framecut/framecut/internal/export"
	"github.com/framecut/framecut/internal/logging"
	"github.com/framecut/framecut/internal/media"
	"github.com/framecut/framecut/internal/persist"
	"github.com/framecut/framecut/internal/timeline"
)

var Version = "0.1.0"

func main() {
	// Load .env file if it exists; system environment wins otherwise.
	godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "framecut",
		Short:         "Inspect, validate and export framecut timeline documents",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newValidateCmd(), newInfoCmd(), newExportCmd(), newDocsCmd())
	return root
}

func loadDocumentFile(path string) (*timeline.Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := timeline.Decode(data)
	if err != nil {
		return nil, err
	}
	return doc, nil
}

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <document.json>",
		Short: "Validate a serialized timeline document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocumentFile(args[0])
			if err != nil {
				return err
			}
			if err := doc.CheckInvariants(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d tracks, %d items, %d assets\n",
				len(doc.Tracks), len(doc.Items), len(doc.Assets))
			return nil
		},
	}
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info <document.json>",
		Short: "Print a summary of a timeline document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocumentFile(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "composition: %dx%d @ %g fps\n",
				doc.CompositionWidth, doc.CompositionHeight, doc.FPS)
			fmt.Fprintf(out, "duration:    %d frames\n", doc.DurationInFrames())
			fmt.Fprintf(out, "tracks:      %d\n", len(doc.Tracks))
			fmt.Fprintf(out, "items:       %d\n", len(doc.Items))
			fmt.Fprintf(out, "assets:      %d (%d retired)\n", len(doc.Assets), len(doc.DeletedAssets))
			for i, tr := range doc.Tracks {
				fmt.Fprintf(out, "  track %d: %d items", i, len(tr.ItemIDs))
				if tr.Hidden {
					fmt.Fprint(out, " hidden")
				}
				if tr.Muted {
					fmt.Fprint(out, " muted")
				}
				fmt.Fprintln(out)
			}
			return nil
		},
	}
}

func newExportCmd() *cobra.Command {
	var outputDir string
	var title string

	cmd := &cobra.Command{
		Use:   "export <document.json>",
		Short: "Flatten a document's video lanes into a CMX3600 EDL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocumentFile(args[0])
			if err != nil {
				return err
			}
			if err := export.ValidateOutputDir(outputDir); err != nil {
				return err
			}

			resolve := func(asset *timeline.Asset) (string, bool) {
				if asset.RemoteURL == "" {
					return "", false
				}
				return asset.RemoteURL, true
			}
			clips, unresolved := export.Flatten(doc, resolve)
			for _, id := range unresolved {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: asset %s has no exportable location\n", id)
			}
			if len(clips) == 0 {
				return fmt.Errorf("document has no exportable video clips")
			}

			edl := export.GenerateEDL(clips, export.SanitizeName(title, 64), doc.FPS)
			outPath := filepath.Join(outputDir, export.SanitizeName(title, 64)+".edl")
			if err := os.WriteFile(outPath, []byte(edl), 0644); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d events)\n", outPath, len(clips))
			return nil
		},
	}
	cmd.Flags().StringVarP(&outputDir, "output-dir", "o", ".", "directory the EDL is written to")
	cmd.Flags().StringVar(&title, "title", "framecut export", "EDL title")
	return cmd
}

func newDocsCmd() *cobra.Command {
	docs := &cobra.Command{
		Use:   "docs",
		Short: "Work with the local document store",
	}

	docs.AddCommand(&cobra.Command{
		Use:   "ls",
		Short: "List stored documents",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, closeDB, err := openStore()
			if err != nil {
				return err
			}
			defer closeDB()

			infos, err := store.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(infos) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no documents")
				return nil
			}
			for _, info := range infos {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s\n",
					info.UpdatedAt.Format("2006-01-02 15:04:05"), info.ID)
			}
			return nil
		},
	})

	docs.AddCommand(&cobra.Command{
		Use:   "rm <document-id>",
		Short: "Delete a stored document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, _, closeDB, err := openStore()
			if err != nil {
				return err
			}
			defer closeDB()
			return store.Delete(cmd.Context(), args[0])
		},
	})

	docs.AddCommand(&cobra.Command{
		Use:   "import <document-id> <document.json>",
		Short: "Store a document file under the given id",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocumentFile(args[1])
			if err != nil {
				return err
			}
			store, _, closeDB, err := openStore()
			if err != nil {
				return err
			}
			defer closeDB()
			return store.Save(context.Background(), doc, nil, args[0])
		},
	})

	docs.AddCommand(&cobra.Command{
		Use:   "cleanup <document-id>",
		Short: "Remove remote files recorded in a document's deleted-asset ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, logger, closeDB, err := openStore()
			if err != nil {
				return err
			}
			defer closeDB()

			doc, err := store.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if doc == nil {
				return fmt.Errorf("document %s not found", args[0])
			}

			doc, cleared, cleanErr := media.CleanupDeletedAssets(cmd.Context(), doc, media.NewStubCleaner(logger))
			if cleared > 0 {
				if err := store.Save(cmd.Context(), doc, nil, args[0]); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "cleared %d ledger entries\n", cleared)
			return cleanErr
		},
	})

	return docs
}

func openStore() (*persist.Store, *slog.Logger, func(), error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger := logging.NewLogger(cfg.LogLevel())

	db, err := persist.NewDB(cfg.DBPath(), logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to open document store: %w", err)
	}
	return persist.NewStore(db.Conn(), logger), logger, func() { db.Close() }, nil
}
