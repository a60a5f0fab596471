package refdata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoad_ReadsBothFiles(t *testing.T) {
	dir := t.TempDir()
	wantedPath := filepath.Join(dir, "wanted.json")
	namesPath := filepath.Join(dir, "translation.json")
	if err := os.WriteFile(wantedPath, []byte(`["/Lotus/Jobs/CapA","/Lotus/Jobs/ResA"]`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := os.WriteFile(namesPath, []byte(`{"/Lotus/Jobs/CapA":"Capture"}`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	res, err := Load(wantedPath, namesPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if res.MissingWanted || res.MissingNames {
		t.Fatalf("missing flags = %v/%v, want false", res.MissingWanted, res.MissingNames)
	}
	if !res.Tables.IsWanted("/Lotus/Jobs/ResA") || res.Tables.IsWanted("/Lotus/Jobs/Other") {
		t.Fatal("IsWanted mismatch")
	}
	if got := res.Tables.Translate("/Lotus/Jobs/CapA"); got != "Capture" {
		t.Fatalf("Translate = %q, want Capture", got)
	}
}

func TestLoad_MissingFilesGiveEmptyTables(t *testing.T) {
	dir := t.TempDir()
	res, err := Load(filepath.Join(dir, "a.json"), filepath.Join(dir, "b.json"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !res.MissingWanted || !res.MissingNames {
		t.Fatal("expected both files reported missing")
	}
	if w, n := res.Tables.Len(); w != 0 || n != 0 {
		t.Fatalf("Len = %d/%d, want 0/0", w, n)
	}
}

func TestLoad_MalformedJSONFails(t *testing.T) {
	dir := t.TempDir()
	wantedPath := filepath.Join(dir, "wanted.json")
	if err := os.WriteFile(wantedPath, []byte(`{not json`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(wantedPath, "")
	if err == nil || !strings.Contains(err.Error(), "load wanted stages") {
		t.Fatalf("Load error = %v, want load wanted stages error", err)
	}
}

func TestTranslate_Fallback(t *testing.T) {
	tables := New(nil, nil)
	tests := []struct {
		in, want string
	}{
		{"/Lotus/Types/Gameplay/Eidolon/Jobs/AssassinateBountyAss", "AssassinateAss"},
		{"/Lotus/Types/Gameplay/Eidolon/Jobs/RescueBountyResc", "RescueResc"},
		{"PlainName", "PlainName"},
		{"/Lotus/Jobs/Bounty", "/Lotus/Jobs/Bounty"},
	}
	for _, tt := range tests {
		if got := tables.Translate(tt.in); got != tt.want {
			t.Errorf("Translate(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAllWanted(t *testing.T) {
	tables := New([]string{"a", "b"}, nil)
	if !tables.AllWanted([]string{"a", "b"}) {
		t.Fatal("AllWanted(a,b) = false, want true")
	}
	if tables.AllWanted([]string{"a", "c"}) {
		t.Fatal("AllWanted(a,c) = true, want false")
	}
	if !tables.AllWanted(nil) {
		t.Fatal("AllWanted(nil) = false, want true")
	}
}
