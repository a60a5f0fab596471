// Package refdata loads the wanted-stage set and stage translation table.
package refdata

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

// fillers are removed from untranslated stage ids after the path prefix is cut.
var fillers = []string{"Bounty", "Eidolon", "Jobs", "Job"}

// Tables holds the read-only reference lookups.
type Tables struct {
	wanted      map[string]struct{}
	translation map[string]string
}

// Result reports which files were missing so callers can warn about them.
type Result struct {
	Tables        Tables
	MissingWanted bool
	MissingNames  bool
}

// New builds Tables from in-memory values.
func New(wanted []string, translation map[string]string) Tables {
	t := Tables{
		wanted:      make(map[string]struct{}, len(wanted)),
		translation: make(map[string]string, len(translation)),
	}
	for _, id := range wanted {
		t.wanted[id] = struct{}{}
	}
	for k, v := range translation {
		t.translation[k] = v
	}
	return t
}

// Load reads the wanted set (a JSON array) and the translation table (a JSON
// object). A missing file yields an empty table; malformed JSON is an error.
func Load(wantedPath, translationPath string) (Result, error) {
	var res Result

	var wanted []string
	missing, err := readJSON(wantedPath, &wanted)
	if err != nil {
		return Result{}, fmt.Errorf("load wanted stages: %w", err)
	}
	res.MissingWanted = missing

	var translation map[string]string
	missing, err = readJSON(translationPath, &translation)
	if err != nil {
		return Result{}, fmt.Errorf("load stage translation: %w", err)
	}
	res.MissingNames = missing

	res.Tables = New(wanted, translation)
	return res, nil
}

func readJSON(path string, dest any) (bool, error) {
	if strings.TrimSpace(path) == "" {
		return true, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return true, nil
		}
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", path, err)
	}
	return false, nil
}

// IsWanted reports whether the stage id is in the wanted set.
func (t Tables) IsWanted(id string) bool {
	_, ok := t.wanted[id]
	return ok
}

// AllWanted reports whether every id is wanted. An empty list is wanted.
func (t Tables) AllWanted(ids []string) bool {
	for _, id := range ids {
		if !t.IsWanted(id) {
			return false
		}
	}
	return true
}

// Translate returns the display name for a stage id.
func (t Tables) Translate(id string) string {
	if name, ok := t.translation[id]; ok {
		return name
	}
	name := id
	if idx := strings.LastIndex(name, "/"); idx >= 0 {
		name = name[idx+1:]
	}
	for _, f := range fillers {
		name = strings.ReplaceAll(name, f, "")
	}
	if name == "" {
		return id
	}
	return name
}

// Len returns the sizes of the wanted set and the translation table.
func (t Tables) Len() (wanted, names int) {
	return len(t.wanted), len(t.translation)
}
