package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"

	"hypnagogic/internal/pipeline"
	"hypnagogic/internal/recipe"
)

// runRender discovers every (recipe, source) pair under recipeDir/sourceDir,
// renders them across a bounded worker pool, and writes each result into
// outDir. The first error encountered is returned after all in-flight
// workers finish; no partial .dmi file is left for a failed recipe.
func runRender(recipeDir, sourceDir, outDir string, workers int, log zerolog.Logger) error {
	if workers < 1 {
		workers = 1
	}

	jobs, err := discoverJobs(recipeDir, sourceDir)
	if err != nil {
		return err
	}
	log.Info().Int("recipes", len(jobs)).Msg("discovered recipes")

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("create out dir: %w", err)
	}

	loader := recipe.NewLoader(os.DirFS(recipeDir), "templates")

	jobCh := make(chan job)
	errCh := make(chan error, len(jobs))

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobCh {
				if err := renderOne(loader, j, outDir, log); err != nil {
					errCh <- err
				}
			}
		}()
	}

	for _, j := range jobs {
		jobCh <- j
	}
	close(jobCh)
	wg.Wait()
	close(errCh)

	var firstErr error
	failures := 0
	for err := range errCh {
		failures++
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return fmt.Errorf("%d of %d recipes failed, first error: %w", failures, len(jobs), firstErr)
	}
	return nil
}

func renderOne(loader *recipe.Loader, j job, outDir string, log zerolog.Logger) error {
	r, err := loader.Load(j.recipePath)
	if err != nil {
		return fmt.Errorf("load %s: %w", j.recipePath, err)
	}

	if r.Group != "" {
		log = log.With().Str("group", r.Group).Logger()
	}

	src, err := os.ReadFile(j.sourcePath)
	if err != nil {
		return fmt.Errorf("read %s: %w", j.sourcePath, err)
	}

	result, err := pipeline.Run(r, src, log)
	if err != nil {
		return fmt.Errorf("render %s: %w", j.recipePath, err)
	}

	outPath := outDir + string(os.PathSeparator) + result.Filename
	if err := os.WriteFile(outPath, result.Bytes, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", outPath, err)
	}

	log.Info().Str("recipe", j.recipePath).Str("output", outPath).Msg("rendered")
	return nil
}
