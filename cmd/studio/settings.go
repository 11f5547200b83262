package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/phrazzld/creator-api/internal/settings"
	"github.com/spf13/cobra"
)

// modules maps command-line module names to storage keys.
var modules = map[string]string{
	"write":         settings.KeyWriteStory,
	"rewrite":       settings.KeyRewrite,
	"batch-rewrite": settings.KeyBatchRewrite,
	"edit":          settings.KeyEditStory,
}

func moduleNames() []string {
	names := make([]string, 0, len(modules))
	for name := range modules {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func moduleKeys(names []string) ([]string, error) {
	keys := make([]string, 0, len(names))
	for _, name := range names {
		key, ok := modules[name]
		if !ok {
			return nil, fmt.Errorf("unknown module %q (known: %s)", name, strings.Join(moduleNames(), ", "))
		}
		keys = append(keys, key)
	}
	return keys, nil
}

func newSettingsCmd(s *studio) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or reset saved module settings",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show [module...]",
		Short: "Print saved settings as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				args = moduleNames()
			}
			keys, err := moduleKeys(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return s.withStore(ctx, func(store *settings.Store) error {
				for i, key := range keys {
					raw, err := store.Raw(ctx, key)
					if err != nil {
						return err
					}
					if raw == nil {
						s.printf("%s: (not saved)\n", args[i])
						continue
					}
					var buf bytes.Buffer
					if err := json.Indent(&buf, raw, "", "  "); err != nil {
						return fmt.Errorf("stored %s is not valid JSON: %w", args[i], err)
					}
					s.printf("%s: %s\n", args[i], buf.String())
				}
				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset [module...]",
		Short: "Delete saved settings (all modules when none given)",
		RunE: func(cmd *cobra.Command, args []string) error {
			keys, err := moduleKeys(args)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			return s.withStore(ctx, func(store *settings.Store) error {
				n, err := store.Reset(ctx, keys...)
				if err != nil {
					return err
				}
				s.printf("removed %d saved module(s)\n", n)
				return nil
			})
		},
	})
	return cmd
}
