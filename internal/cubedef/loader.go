package cubedef

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"cubedeck/internal/catalog"
	"cubedeck/internal/domain"
)

// LoadDirectory reads every *.yaml / *.yml file in dir (non-recursive, sorted
// by file name) and returns the declared cube definitions. The directory must
// exist; an empty directory yields no definitions.
func LoadDirectory(dir string) ([]*domain.CubeDefinition, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("cube definition directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cube definition directory: %s is not a directory", dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read cube definition directory: %w", err)
	}

	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(e.Name()))
		if ext == ".yaml" || ext == ".yml" {
			files = append(files, e.Name())
		}
	}
	sort.Strings(files)

	var defs []*domain.CubeDefinition
	for _, name := range files {
		path := filepath.Join(dir, name)
		def, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// LoadFile reads one cube definition document.
func LoadFile(path string) (*domain.CubeDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	var envelope Document
	if err := yaml.Unmarshal(data, &envelope); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if envelope.Kind != KindCubeDefinition {
		return nil, fmt.Errorf("%s: unsupported kind %q (want %q)", path, envelope.Kind, KindCubeDefinition)
	}

	var doc CubeDoc
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return doc.Cube.toDomain(), nil
}

// RegisterDirectory loads dir and registers every definition into the
// catalog. Registration stops at the first invalid or duplicate cube.
func RegisterDirectory(dir string, cat *catalog.Catalog) error {
	defs, err := LoadDirectory(dir)
	if err != nil {
		return err
	}
	for _, def := range defs {
		if err := cat.Register(def); err != nil {
			return fmt.Errorf("register cube %q: %w", def.Name, err)
		}
	}
	return nil
}
