package schema

import (
	"fmt"
	"io/fs"
	"os"
	"path"
	"strings"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

// LoadFS walks the provided filesystem and parses every JSON/YAML file as one
// schema definition. When fsys is nil the returned catalog is empty.
func LoadFS(fsys fs.FS) (*Catalog, error) {
	catalog := &Catalog{definitions: make(map[string]Definition)}
	if fsys == nil {
		return catalog, nil
	}

	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if entry.IsDir() || !isSchemaFile(p) {
			return nil
		}

		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("schema: read %s: %w", p, err)
		}

		def, err := parseDefinition(data, p)
		if err != nil {
			return err
		}
		if def.Key == "" {
			def.Key = strings.ToLower(strings.TrimSuffix(path.Base(p), path.Ext(p)))
		}
		if err := normaliseDefinition(&def, p); err != nil {
			return err
		}
		if _, exists := catalog.definitions[def.Key]; exists {
			return fmt.Errorf("schema: duplicate definition %q (file %s)", def.Key, p)
		}
		catalog.definitions[def.Key] = def
		return nil
	})
	if err != nil {
		return nil, err
	}

	return catalog, nil
}

// LoadDir parses every definition file below dir.
func LoadDir(dir string) (*Catalog, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("schema: catalog dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("schema: catalog dir %s is not a directory", dir)
	}
	return LoadFS(os.DirFS(dir))
}

func parseDefinition(data []byte, source string) (Definition, error) {
	var def Definition
	if len(strings.TrimSpace(string(data))) == 0 {
		return Definition{}, fmt.Errorf("schema: file %s is empty", source)
	}

	if err := json.Unmarshal(data, &def); err == nil {
		return def, nil
	}

	def = Definition{}
	if err := yaml.Unmarshal(data, &def); err == nil {
		return def, nil
	}

	return Definition{}, fmt.Errorf("schema: parse %s: invalid JSON or YAML", source)
}

func normaliseDefinition(def *Definition, source string) error {
	def.Key = strings.TrimSpace(def.Key)
	if def.Key == "" {
		return fmt.Errorf("schema: file %s defines an empty key", source)
	}
	if strings.TrimSpace(def.Type) == "" {
		return fmt.Errorf("schema: definition %q (file %s) has no type", def.Key, source)
	}
	if def.TypeField != "" {
		if _, ok := def.Field(def.TypeField); !ok {
			return fmt.Errorf("schema: definition %q (file %s) type field %q is not declared", def.Key, source, def.TypeField)
		}
	}
	if err := normaliseFields(def.Fields, def.Key, "", source); err != nil {
		return err
	}

	seen := make(map[string]struct{}, len(def.Templates))
	for _, tpl := range def.Templates {
		id := strings.TrimSpace(tpl.ID)
		if id == "" {
			return fmt.Errorf("schema: definition %q (file %s) defines a template without id", def.Key, source)
		}
		if _, exists := seen[id]; exists {
			return fmt.Errorf("schema: definition %q (file %s) defines duplicate template %q", def.Key, source, id)
		}
		seen[id] = struct{}{}
	}
	return nil
}

func normaliseFields(fields []Field, key, parent, source string) error {
	seen := make(map[string]struct{}, len(fields))
	for idx := range fields {
		field := &fields[idx]
		field.ID = strings.TrimSpace(field.ID)
		if field.ID == "" {
			return fmt.Errorf("schema: definition %q (file %s) field %d under %q has no id", key, source, idx, parent)
		}
		if _, exists := seen[field.ID]; exists {
			return fmt.Errorf("schema: definition %q (file %s) defines duplicate field %q", key, source, joinPath(parent, field.ID))
		}
		seen[field.ID] = struct{}{}

		if field.Type == "" {
			field.Type = FieldTypeText
		}
		if !field.Type.Valid() {
			return fmt.Errorf("schema: definition %q (file %s) field %q has unknown type %q", key, source, joinPath(parent, field.ID), field.Type)
		}
		if len(field.Nested) > 0 {
			if field.Type != FieldTypeObject {
				return fmt.Errorf("schema: definition %q (file %s) field %q declares nested fields but is %s", key, source, joinPath(parent, field.ID), field.Type)
			}
			if err := normaliseFields(field.Nested, key, joinPath(parent, field.ID), source); err != nil {
				return err
			}
		}
	}
	return nil
}

func joinPath(parent, id string) string {
	if parent == "" {
		return id
	}
	return parent + "." + id
}

func isSchemaFile(p string) bool {
	switch strings.ToLower(path.Ext(p)) {
	case ".json", ".yaml", ".yml":
		return true
	default:
		return false
	}
}
