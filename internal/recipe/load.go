package recipe

import (
	"fmt"
	"io/fs"
	"path"
	"strings"

	"gopkg.in/yaml.v3"

	"hypnagogic/internal/dmierr"
)

// Loader resolves recipe files, recursively merging template: references
// against a templates/ directory rooted in fsys.
type Loader struct {
	fsys         fs.FS
	templatesDir string
}

// NewLoader builds a Loader that reads recipes and templates from fsys.
// templatesDir is resolved relative to fsys's root, per spec.md §6.
func NewLoader(fsys fs.FS, templatesDir string) *Loader {
	return &Loader{fsys: fsys, templatesDir: templatesDir}
}

// Load reads and resolves a single recipe file into a fully-typed Recipe.
func (l *Loader) Load(recipePath string) (Recipe, error) {
	tree, doc, err := l.resolve(recipePath, make(map[string]bool))
	if err != nil {
		return Recipe{}, err
	}

	r, err := decode(tree, doc, recipePath)
	if err != nil {
		return Recipe{}, err
	}
	r.sourcePath = recipePath
	if r.OutputName == "" {
		r.OutputName = stem(recipePath)
	}
	return r, nil
}

// resolve loads a single document and recursively merges its template
// ancestor(s), returning the merged tree and the document's own parsed Node
// (passed on to decode, which does not read it).
func (l *Loader) resolve(p string, visited map[string]bool) (map[string]any, *yaml.Node, error) {
	if visited[p] {
		return nil, nil, fmt.Errorf("%w: %s reappears in template chain", dmierr.ErrRecipeCycle, p)
	}
	visited[p] = true

	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read %s: %v", dmierr.ErrIO, p, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("%w: %s: %v", dmierr.ErrRecipeParse, p, err)
	}

	var tree map[string]any
	if len(doc.Content) > 0 {
		if err := doc.Content[0].Decode(&tree); err != nil {
			return nil, nil, fmt.Errorf("%w: %s: %v", dmierr.ErrRecipeParse, p, err)
		}
	}
	if tree == nil {
		tree = map[string]any{}
	}

	templateName, hasTemplate := tree["template"].(string)
	delete(tree, "template")

	if !hasTemplate || templateName == "" {
		return tree, &doc, nil
	}

	parentPath := path.Join(l.templatesDir, templateName)
	parentTree, _, err := l.resolve(parentPath, visited)
	if err != nil {
		return nil, nil, err
	}

	merged, ok := deepMerge(parentTree, tree).(map[string]any)
	if !ok {
		merged = tree
	}
	return merged, &doc, nil
}

func stem(p string) string {
	base := path.Base(p)
	if i := strings.LastIndexByte(base, '.'); i >= 0 {
		base = base[:i]
	}
	return base
}
