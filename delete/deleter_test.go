package delete

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/tinyland-lab/reclaim/model"
)

func mkArtifact(t *testing.T, dir string, n int) model.Artifact {
	t.Helper()
	path := filepath.Join(dir, "victim")
	if err := os.MkdirAll(path, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(path, "file"), make([]byte, n), 0o644); err != nil {
		t.Fatal(err)
	}
	return model.Artifact{Path: path, ProjectPath: dir, Bytes: int64(n), Safety: model.SafetyAlwaysSafe}
}

func TestDeleteRefusesAdvisoryArtifact(t *testing.T) {
	dir := t.TempDir()
	artifact := mkArtifact(t, dir, 10)
	artifact.Advisory = true

	d := New(nil, nil)
	if err := d.Delete(context.Background(), artifact, MethodPermanent, nil); err == nil {
		t.Fatal("expected Delete to refuse an advisory artifact")
	}
	if _, err := os.Stat(artifact.Path); err != nil {
		t.Error("advisory artifact's path must remain untouched on disk")
	}
}

func TestDeleteDryRunDoesNotMutateFilesystem(t *testing.T) {
	dir := t.TempDir()
	artifact := mkArtifact(t, dir, 1000)

	prog := &model.Progress{}
	d := New(nil, nil)
	if err := d.Delete(context.Background(), artifact, MethodDryRun, prog); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(artifact.Path); err != nil {
		t.Error("dry-run must not remove the artifact from disk")
	}
	if prog.Snapshot().BytesFreed != 1000 {
		t.Errorf("BytesFreed = %d, want 1000 (dry-run still reports what would be freed)", prog.Snapshot().BytesFreed)
	}
}

func TestDeleteTrashMovesAndRecords(t *testing.T) {
	dir := t.TempDir()
	trashDir := t.TempDir()
	artifact := mkArtifact(t, dir, 500)

	store, err := NewTrashStore(trashDir)
	if err != nil {
		t.Fatal(err)
	}
	prog := &model.Progress{}
	d := New(store, nil)
	if err := d.Delete(context.Background(), artifact, MethodTrash, prog); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(artifact.Path); !os.IsNotExist(err) {
		t.Error("trash method must remove the artifact from its original path")
	}
	records := store.All()
	if len(records) != 1 {
		t.Fatalf("len(All()) = %d, want 1", len(records))
	}
	if records[0].OriginalPath != artifact.Path {
		t.Errorf("record.OriginalPath = %q, want %q", records[0].OriginalPath, artifact.Path)
	}
	if _, err := os.Stat(records[0].TrashPath); err != nil {
		t.Error("trashed content must exist at TrashPath")
	}
	if prog.Snapshot().BytesFreed != 500 {
		t.Errorf("BytesFreed = %d, want 500", prog.Snapshot().BytesFreed)
	}
}

func TestDeleteTrashRequiresStore(t *testing.T) {
	dir := t.TempDir()
	artifact := mkArtifact(t, dir, 10)

	d := New(nil, nil)
	if err := d.Delete(context.Background(), artifact, MethodTrash, nil); err == nil {
		t.Fatal("expected an error when MethodTrash is used without a configured TrashStore")
	}
}

func TestDeletePermanentRemovesFromDisk(t *testing.T) {
	dir := t.TempDir()
	artifact := mkArtifact(t, dir, 10)

	prog := &model.Progress{}
	d := New(nil, nil)
	if err := d.Delete(context.Background(), artifact, MethodPermanent, prog); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(artifact.Path); !os.IsNotExist(err) {
		t.Error("permanent delete must remove the artifact from disk")
	}
	if prog.Snapshot().BytesFreed != 10 {
		t.Errorf("BytesFreed = %d, want 10", prog.Snapshot().BytesFreed)
	}
}

func TestTrashStoreRestoreRoundTrip(t *testing.T) {
	dir := t.TempDir()
	trashDir := t.TempDir()
	artifact := mkArtifact(t, dir, 20)

	store, err := NewTrashStore(trashDir)
	if err != nil {
		t.Fatal(err)
	}
	record, err := store.Add(artifact.Path, artifact.ProjectPath, artifact.Bytes)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Restore(record.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(artifact.Path); err != nil {
		t.Error("Restore must move the artifact back to its original path")
	}
	if len(store.All()) != 0 {
		t.Error("Restore must remove the record from the store")
	}
}

func TestTrashStoreRemovePurgesRecordAndContent(t *testing.T) {
	dir := t.TempDir()
	trashDir := t.TempDir()
	artifact := mkArtifact(t, dir, 20)

	store, err := NewTrashStore(trashDir)
	if err != nil {
		t.Fatal(err)
	}
	record, err := store.Add(artifact.Path, artifact.ProjectPath, artifact.Bytes)
	if err != nil {
		t.Fatal(err)
	}
	if err := store.Remove(record.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(record.TrashPath); !os.IsNotExist(err) {
		t.Error("Remove must delete the trashed content from disk")
	}
	if len(store.All()) != 0 {
		t.Error("Remove must drop the record from the store")
	}
}

func TestTrashStorePersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()
	trashDir := t.TempDir()
	artifact := mkArtifact(t, dir, 20)

	store, err := NewTrashStore(trashDir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := store.Add(artifact.Path, artifact.ProjectPath, artifact.Bytes); err != nil {
		t.Fatal(err)
	}

	reopened, err := NewTrashStore(trashDir)
	if err != nil {
		t.Fatal(err)
	}
	if len(reopened.All()) != 1 {
		t.Fatalf("len(All()) after reopen = %d, want 1", len(reopened.All()))
	}
}

func TestTrashStoreTotalSize(t *testing.T) {
	dir := t.TempDir()
	trashDir := t.TempDir()
	store, err := NewTrashStore(trashDir)
	if err != nil {
		t.Fatal(err)
	}
	a1 := mkArtifact(t, dir, 100)
	a2 := mkArtifact(t, filepath.Join(dir, "sub"), 200)
	if _, err := store.Add(a1.Path, a1.ProjectPath, a1.Bytes); err != nil {
		t.Fatal(err)
	}
	if _, err := store.Add(a2.Path, a2.ProjectPath, a2.Bytes); err != nil {
		t.Fatal(err)
	}
	if got := store.TotalSize(); got != 300 {
		t.Errorf("TotalSize() = %d, want 300", got)
	}
}

func TestRemoveAllSameDeviceRemovesPlainTree(t *testing.T) {
	// Without root privileges we can't create a real bind mount in this
	// environment, so this test exercises the same-device path only: a
	// plain tree with no mount boundary must be fully removed.
	dir := t.TempDir()
	artifact := mkArtifact(t, dir, 10)
	if err := removeAllSameDevice(artifact.Path); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(artifact.Path); !os.IsNotExist(err) {
		t.Error("expected the artifact tree to be fully removed")
	}
}
