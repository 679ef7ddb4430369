package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pixil98/go-mudsession/internal/game"
	"github.com/pixil98/go-testutil"
)

func testSkill(name, command string) *game.Skill {
	return &game.Skill{
		Name:     name,
		Command:  command,
		Level:    1,
		Points:   2,
		Cooldown: game.Duration(500 * time.Millisecond),
		Effects:  []game.Effect{{Kind: game.EffectDamage, Amount: 5}},
	}
}

func testSave(name string, userId int64) *game.Save {
	return &game.Save{
		UserId: userId,
		Name:   name,
		Level:  1,
		Stats:  game.Stats{MaxHP: 50, CurrentHP: 50, SkillPoints: 10},
		RoomId: "square",
	}
}

func writeAsset[T ValidatingSpec](t *testing.T, dir, file, id string, spec T) {
	t.Helper()

	data, err := json.Marshal(Asset[T]{
		Version:    1,
		Identifier: Identifier(id),
		Spec:       spec,
	})
	if err != nil {
		t.Fatalf("marshalling asset: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, file), data, 0644); err != nil {
		t.Fatalf("writing asset file: %v", err)
	}
}

func TestNewFileStoreEmptyDirectory(t *testing.T) {
	store, err := NewFileStore[*game.Skill](t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "records", len(store.GetAll()), 0)
}

func TestNewFileStoreMissingDirectory(t *testing.T) {
	_, err := NewFileStore[*game.Skill]("/does/not/exist")
	if err == nil {
		t.Error("expected error for missing directory")
	}
}

func TestNewFileStoreLoadsSkills(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "slash.json", "slash", testSkill("Slash", "slash"))
	writeAsset(t, dir, "heal.json", "heal", testSkill("Heal", "heal"))

	store, err := NewFileStore[*game.Skill](dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "records", len(store.GetAll()), 2)

	slash := store.Get("slash")
	if slash == nil {
		t.Fatal("expected slash to be loaded")
	}
	testutil.AssertEqual(t, "name", slash.Name, "Slash")
	testutil.AssertEqual(t, "cooldown", slash.Cooldown.Std(), 500*time.Millisecond)
	testutil.AssertEqual(t, "effects", len(slash.Effects), 1)
}

func TestNewFileStoreInvalidJSON(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.json"), []byte(`{nope`), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	_, err := NewFileStore[*game.Skill](dir)
	if err == nil {
		t.Error("expected error for invalid json")
	}
}

func TestNewFileStoreRejectsInvalidSpec(t *testing.T) {
	dir := t.TempDir()
	// A skill without a command keyword fails spec validation at load time.
	broken := testSkill("Slash", "")
	writeAsset(t, dir, "slash.json", "slash", broken)

	_, err := NewFileStore[*game.Skill](dir)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "command is required") {
		t.Errorf("error %q does not name the spec failure", err)
	}
}

func TestNewFileStoreDuplicateId(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "extra")
	if err := os.Mkdir(sub, 0755); err != nil {
		t.Fatalf("creating subdir: %v", err)
	}

	// Same asset id in two files, walk covers subdirectories.
	writeAsset(t, dir, "one.json", "slash", testSkill("Slash", "slash"))
	writeAsset(t, sub, "two.json", "slash", testSkill("Slash", "slash"))

	_, err := NewFileStore[*game.Skill](dir)
	if err == nil {
		t.Fatal("expected duplicate key error")
	}
	if !strings.Contains(err.Error(), "duplicate key") {
		t.Errorf("error %q does not name the duplicate", err)
	}
}

func TestNewFileStoreIgnoresNonJSON(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "slash.json", "slash", testSkill("Slash", "slash"))
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0644); err != nil {
		t.Fatalf("writing file: %v", err)
	}

	store, err := NewFileStore[*game.Skill](dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	testutil.AssertEqual(t, "records", len(store.GetAll()), 1)
}

func TestGetMissing(t *testing.T) {
	store, err := NewFileStore[*game.Skill](t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := store.Get("nope"); got != nil {
		t.Errorf("expected nil for missing id, got %v", got)
	}
}

func TestGetAllReturnsCopy(t *testing.T) {
	dir := t.TempDir()
	writeAsset(t, dir, "slash.json", "slash", testSkill("Slash", "slash"))

	store, err := NewFileStore[*game.Skill](dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	all := store.GetAll()
	delete(all, "slash")
	if store.Get("slash") == nil {
		t.Error("mutating the GetAll result must not touch the store")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore[*game.Save](dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Save("alice", testSave("Alice", 7)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cached := store.Get("alice")
	if cached == nil {
		t.Fatal("expected cached save")
	}
	testutil.AssertEqual(t, "user id", cached.UserId, int64(7))

	// The write lands in an asset envelope under <id>.json.
	data, err := os.ReadFile(filepath.Join(dir, "alice.json"))
	if err != nil {
		t.Fatalf("reading saved file: %v", err)
	}
	var asset Asset[*game.Save]
	if err := json.Unmarshal(data, &asset); err != nil {
		t.Fatalf("unmarshalling saved file: %v", err)
	}
	testutil.AssertEqual(t, "version", asset.Version, uint(1))
	testutil.AssertEqual(t, "id", asset.Id(), "alice")
	testutil.AssertEqual(t, "name", asset.Spec.Name, "Alice")
	testutil.AssertEqual(t, "room", asset.Spec.RoomId, "square")
}

func TestSaveOverwrites(t *testing.T) {
	store, err := NewFileStore[*game.Save](t.TempDir())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := store.Save("alice", testSave("Alice", 7)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	updated := testSave("Alice", 7)
	updated.Level = 3
	if err := store.Save("alice", updated); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	testutil.AssertEqual(t, "level", store.Get("alice").Level, 3)
}

func TestSaveSurvivesReload(t *testing.T) {
	dir := t.TempDir()
	store, err := NewFileStore[*game.Save](dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := store.Save("alice", testSave("Alice", 7)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reloaded, err := NewFileStore[*game.Save](dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := reloaded.Get("alice")
	if got == nil {
		t.Fatal("expected save to survive a reload")
	}
	testutil.AssertEqual(t, "user id", got.UserId, int64(7))
}
