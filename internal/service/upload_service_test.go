package service

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/paveworks/paveworks-api/internal/config"
	"github.com/paveworks/paveworks-api/internal/constants"
)

func TestNormalizeScene(t *testing.T) {
	if scene, err := normalizeScene(""); err != nil || scene != constants.UploadSceneCommon {
		t.Fatalf("empty scene want common got %q err %v", scene, err)
	}
	if scene, err := normalizeScene("  Projects "); err != nil || scene != constants.UploadSceneProjects {
		t.Fatalf("trimmed scene want projects got %q err %v", scene, err)
	}
	if _, err := normalizeScene("secrets"); !errors.Is(err, ErrUploadBadScene) {
		t.Fatalf("unknown scene want ErrUploadBadScene got %v", err)
	}
}

func TestDeleteLocalFile(t *testing.T) {
	dir := t.TempDir()
	svc := NewUploadService(&config.UploadConfig{LocalDir: dir})

	sceneDir := filepath.Join(dir, constants.UploadSceneProjects)
	if err := os.MkdirAll(sceneDir, 0o755); err != nil {
		t.Fatalf("mkdir failed: %v", err)
	}
	path := filepath.Join(sceneDir, "photo.jpg")
	if err := os.WriteFile(path, []byte("jpeg"), 0o644); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if err := svc.Delete(context.Background(), constants.UploadSceneProjects, "photo.jpg"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("file should be gone, stat err %v", err)
	}

	if err := svc.Delete(context.Background(), constants.UploadSceneProjects, "photo.jpg"); !errors.Is(err, ErrUploadNotFound) {
		t.Fatalf("missing file want ErrUploadNotFound got %v", err)
	}
	if err := svc.Delete(context.Background(), "secrets", "photo.jpg"); !errors.Is(err, ErrUploadBadScene) {
		t.Fatalf("bad scene want ErrUploadBadScene got %v", err)
	}
	if err := svc.Delete(context.Background(), constants.UploadSceneProjects, "../photo.jpg"); !errors.Is(err, ErrUploadNotFound) {
		t.Fatalf("traversal name want ErrUploadNotFound got %v", err)
	}
}
