package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"
	"icebreaker-service/internal/app"
	"icebreaker-service/internal/config"
)

// NewSeedCmd imports profiles from a JSON file of drafts, e.g. collected on paper
// before the event.
func NewSeedCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <profiles.json>",
		Short: "Import profiles from a JSON array",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), *configPath, args[0])
		},
	}
}

func runSeed(ctx context.Context, configPath, file string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return err
	}
	var drafts []app.ProfileDraft
	if err := json.Unmarshal(data, &drafts); err != nil {
		return fmt.Errorf("parse %s: %w", file, err)
	}

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg); err != nil {
			return err
		}
	}
	d, err := buildDeps(ctx, cfg)
	if err != nil {
		return err
	}
	defer d.cleanup()

	imported, err := importDrafts(ctx, d.profiles, drafts)
	log.Printf("imported %d of %d profiles", imported, len(drafts))
	return err
}

func importDrafts(ctx context.Context, profiles *app.ProfileService, drafts []app.ProfileDraft) (int, error) {
	imported := 0
	for i, draft := range drafts {
		if _, err := profiles.Create(ctx, draft); err != nil {
			return imported, fmt.Errorf("profile %d (%s): %w", i, draft.Name, err)
		}
		imported++
	}
	return imported, nil
}
