package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// job pairs one recipe file with its resolved source image path.
type job struct {
	recipePath string
	sourcePath string
}

// recipePaths glob-matches every *.yaml recipe under recipeDir, excluding
// the templates/ subdirectory (template fragments are not renderable on
// their own).
func recipePaths(recipeDir string) ([]string, error) {
	matches, err := doublestar.Glob(os.DirFS(recipeDir), "**/*.yaml")
	if err != nil {
		return nil, err
	}

	var out []string
	for _, m := range matches {
		if strings.HasPrefix(m, "templates/") || strings.Contains(m, "/templates/") {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

// discoverJobs pairs each renderable recipe under recipeDir with a same-stem
// *.png in sourceDir.
func discoverJobs(recipeDir, sourceDir string) ([]job, error) {
	paths, err := recipePaths(recipeDir)
	if err != nil {
		return nil, fmt.Errorf("glob recipes: %w", err)
	}

	var jobs []job
	for _, m := range paths {
		stem := strings.TrimSuffix(filepath.Base(m), filepath.Ext(m))
		source := filepath.Join(sourceDir, stem+".png")
		if _, err := os.Stat(source); err != nil {
			return nil, fmt.Errorf("recipe %s: no matching source %s: %w", m, source, err)
		}

		jobs = append(jobs, job{recipePath: m, sourcePath: source})
	}
	return jobs, nil
}
