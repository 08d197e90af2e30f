package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"hypnagogic/internal/recipe"
)

// runValidate loads and resolves every renderable recipe under recipeDir
// without rendering, reporting each failure before returning an error if any occurred.
func runValidate(recipeDir string, log zerolog.Logger) error {
	paths, err := recipePaths(recipeDir)
	if err != nil {
		return fmt.Errorf("glob recipes: %w", err)
	}

	loader := recipe.NewLoader(os.DirFS(recipeDir), "templates")

	failures := 0
	for _, p := range paths {
		r, err := loader.Load(p)
		if err != nil {
			log.Error().Str("recipe", p).Err(err).Msg("invalid")
			failures++
			continue
		}
		entry := log.Info().Str("recipe", p)
		if r.Group != "" {
			entry = entry.Str("group", r.Group)
		}
		entry.Msg("ok")
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d recipes failed validation", failures, len(paths))
	}
	return nil
}
