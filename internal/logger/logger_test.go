package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestResolveLogFilePathDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("get wd failed: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldWD)
	})
	if err := os.Chdir(tmpDir); err != nil {
		t.Fatalf("chdir failed: %v", err)
	}

	got, err := resolveLogFilePath(Options{})
	if err != nil {
		t.Fatalf("resolve default log path failed: %v", err)
	}
	if filepath.Base(got) != defaultLogFilename {
		t.Fatalf("default filename want %s got %s", defaultLogFilename, filepath.Base(got))
	}

	// t.TempDir 在 macOS 上可能是符号链接，比较前先解引用
	realTmpDir, err := filepath.EvalSymlinks(tmpDir)
	if err != nil {
		t.Fatalf("resolve tmp dir symlink failed: %v", err)
	}
	realGotDir, err := filepath.EvalSymlinks(filepath.Dir(got))
	if err != nil {
		t.Fatalf("resolve log dir symlink failed: %v", err)
	}
	if realGotDir != filepath.Join(realTmpDir, defaultLogDirName) {
		t.Fatalf("log dir want %s got %s", filepath.Join(realTmpDir, defaultLogDirName), realGotDir)
	}
}

func TestReleaseModeWritesRotatingFile(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("release", Options{Dir: tmpDir, Filename: "shop.log"})
	log.Info("restock-dispatch-logged")
	_ = log.Sync()

	content, err := os.ReadFile(filepath.Join(tmpDir, "shop.log"))
	if err != nil {
		t.Fatalf("read log file failed: %v", err)
	}
	if !strings.Contains(string(content), "restock-dispatch-logged") {
		t.Fatalf("log file should contain message, got=%s", string(content))
	}
}

func TestDebugModeSkipsFile(t *testing.T) {
	tmpDir := t.TempDir()
	log := New("debug", Options{Dir: tmpDir, Filename: "debug.log"})
	log.Info("console-only")
	_ = log.Sync()

	if _, err := os.Stat(filepath.Join(tmpDir, "debug.log")); !os.IsNotExist(err) {
		t.Fatalf("debug mode should not create a log file")
	}
}

func TestNormalizePositiveInt(t *testing.T) {
	if got := normalizePositiveInt(0, 7); got != 7 {
		t.Fatalf("zero should fall back, got %d", got)
	}
	if got := normalizePositiveInt(-3, 7); got != 7 {
		t.Fatalf("negative should fall back, got %d", got)
	}
	if got := normalizePositiveInt(12, 7); got != 12 {
		t.Fatalf("positive should pass through, got %d", got)
	}
}
