// Package defaults merges a variant's default settings fragments into
// a single TOML document. The fragments live in a defaults.d directory
// and are merged in filename order, so variants can layer overrides by
// prefixing filenames.
package defaults

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

// Merge reads every *.toml file directly inside dir, in filename
// order, and merges them into one document. Tables merge recursively,
// lists append, scalars override. Conflicting types for the same key
// are errors.
func Merge(dir string) (map[string]any, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot list defaults dir: %w", err)
	}

	merged := map[string]any{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".toml") {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		logrus.Debugf("merging defaults fragment %s", path)

		var fragment map[string]any
		if _, err := toml.DecodeFile(path, &fragment); err != nil {
			return nil, fmt.Errorf("cannot parse defaults fragment %q: %w", path, err)
		}
		if err := mergeInto(merged, fragment); err != nil {
			return nil, fmt.Errorf("cannot merge defaults fragment %q: %w", path, err)
		}
	}

	return merged, nil
}

// MergeFile merges dir like Merge and writes the result to path.
func MergeFile(dir, path string) error {
	merged, err := Merge(dir)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(merged); err != nil {
		return fmt.Errorf("cannot serialize merged defaults: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("cannot write merged defaults: %w", err)
	}
	return nil
}

func mergeInto(a, b map[string]any) error {
	for key, value := range b {
		existing, ok := a[key]
		if !ok {
			a[key] = value
			continue
		}

		if reflect.TypeOf(existing) != reflect.TypeOf(value) {
			return fmt.Errorf("type mismatch for key %q", key)
		}

		switch v := value.(type) {
		case map[string]any:
			if err := mergeInto(existing.(map[string]any), v); err != nil {
				return fmt.Errorf("%w in table %q", err, key)
			}
		case []any:
			a[key] = append(existing.([]any), v...)
		default:
			a[key] = value
		}
	}
	return nil
}
