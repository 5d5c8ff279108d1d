package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

func TestDiscoverWorkspace_Found(t *testing.T) {
	tmpDir := t.TempDir()
	wsDir := filepath.Join(tmpDir, WorkspaceDirName)
	if err := os.MkdirAll(wsDir, 0755); err != nil {
		t.Fatalf("failed to create workspace dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(wsDir, WorkspaceConfigFile), []byte("server:\n  name: test\n"), 0644); err != nil {
		t.Fatalf("failed to write workspace config: %v", err)
	}

	result, err := DiscoverWorkspace(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != tmpDir {
		t.Errorf("expected %q, got %q", tmpDir, result)
	}
}

func TestDiscoverWorkspace_WalkUp(t *testing.T) {
	tmpDir := t.TempDir()
	wsDir := filepath.Join(tmpDir, WorkspaceDirName)
	if err := os.MkdirAll(wsDir, 0755); err != nil {
		t.Fatalf("failed to create workspace dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(wsDir, WorkspaceConfigFile), []byte("server:\n  name: test\n"), 0644); err != nil {
		t.Fatalf("failed to write workspace config: %v", err)
	}

	nested := filepath.Join(tmpDir, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("failed to create nested dirs: %v", err)
	}

	result, err := DiscoverWorkspace(nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != tmpDir {
		t.Errorf("expected %q, got %q", tmpDir, result)
	}
}

func TestDiscoverWorkspace_NotFound(t *testing.T) {
	tmpDir := t.TempDir()

	result, err := DiscoverWorkspace(tmpDir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "" {
		t.Errorf("expected empty string, got %q", result)
	}
}

func TestDiscoverWorkspace_MaxDepth(t *testing.T) {
	tmpDir := t.TempDir()
	wsDir := filepath.Join(tmpDir, WorkspaceDirName)
	if err := os.MkdirAll(wsDir, 0755); err != nil {
		t.Fatalf("failed to create workspace dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(wsDir, WorkspaceConfigFile), []byte("server:\n  name: test\n"), 0644); err != nil {
		t.Fatalf("failed to write workspace config: %v", err)
	}

	parts := make([]string, MaxSearchDepth+2)
	parts[0] = tmpDir
	for i := 1; i <= MaxSearchDepth+1; i++ {
		parts[i] = "d"
	}
	deepPath := filepath.Join(parts...)
	if err := os.MkdirAll(deepPath, 0755); err != nil {
		t.Fatalf("failed to create deep path: %v", err)
	}

	result, err := DiscoverWorkspace(deepPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "" {
		t.Errorf("expected empty string (beyond max depth), got %q", result)
	}
}

func TestLoadWithWorkspace_DefaultsOnly(t *testing.T) {
	tmpDir := t.TempDir()

	cfg, wsDir, err := LoadWithWorkspace("", WorkspaceOptions{Disable: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if wsDir != "" {
		t.Errorf("expected empty workspace dir, got %q", wsDir)
	}
	if cfg.Server.Name != "viewpoint-mcp" {
		t.Errorf("expected default server name, got %q", cfg.Server.Name)
	}
	_ = tmpDir
}

func TestLoadWithWorkspace_WorkspaceOverridesDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	wsDir := filepath.Join(tmpDir, WorkspaceDirName)
	if err := os.MkdirAll(wsDir, 0755); err != nil {
		t.Fatalf("failed to create workspace dir: %v", err)
	}
	wsConfig := `
browser:
  headless: false

transport:
  sse_port: 9999
`
	if err := os.WriteFile(filepath.Join(wsDir, WorkspaceConfigFile), []byte(wsConfig), 0644); err != nil {
		t.Fatalf("failed to write workspace config: %v", err)
	}

	cfg, resultDir, err := LoadWithWorkspace("", WorkspaceOptions{ExplicitDir: tmpDir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resultDir != tmpDir {
		t.Errorf("expected workspace dir %q, got %q", tmpDir, resultDir)
	}
	if cfg.Browser.Headless {
		t.Error("expected Browser.Headless to be false from workspace config")
	}
	if cfg.Transport.SSEPort != 9999 {
		t.Errorf("expected sse_port 9999, got %d", cfg.Transport.SSEPort)
	}
	if cfg.Server.Name != "viewpoint-mcp" {
		t.Errorf("expected default server name, got %q", cfg.Server.Name)
	}
}

func TestLoadWithWorkspace_ExplicitOverridesWorkspace(t *testing.T) {
	tmpDir := t.TempDir()
	wsDir := filepath.Join(tmpDir, WorkspaceDirName)
	if err := os.MkdirAll(wsDir, 0755); err != nil {
		t.Fatalf("failed to create workspace dir: %v", err)
	}
	wsConfig := `
transport:
  sse_port: 1111
`
	if err := os.WriteFile(filepath.Join(wsDir, WorkspaceConfigFile), []byte(wsConfig), 0644); err != nil {
		t.Fatalf("failed to write workspace config: %v", err)
	}

	explicitPath := filepath.Join(tmpDir, "explicit.yaml")
	explicitConfig := `
transport:
  sse_port: 2222
`
	if err := os.WriteFile(explicitPath, []byte(explicitConfig), 0644); err != nil {
		t.Fatalf("failed to write explicit config: %v", err)
	}

	cfg, _, err := LoadWithWorkspace(explicitPath, WorkspaceOptions{ExplicitDir: tmpDir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Transport.SSEPort != 2222 {
		t.Errorf("expected explicit sse_port 2222 to override workspace, got %d", cfg.Transport.SSEPort)
	}
}

func TestLoadWithWorkspace_PartialYAML(t *testing.T) {
	tmpDir := t.TempDir()
	wsDir := filepath.Join(tmpDir, WorkspaceDirName)
	if err := os.MkdirAll(wsDir, 0755); err != nil {
		t.Fatalf("failed to create workspace dir: %v", err)
	}
	wsConfig := `
browser:
  headless: false
`
	if err := os.WriteFile(filepath.Join(wsDir, WorkspaceConfigFile), []byte(wsConfig), 0644); err != nil {
		t.Fatalf("failed to write workspace config: %v", err)
	}

	cfg, _, err := LoadWithWorkspace("", WorkspaceOptions{ExplicitDir: tmpDir})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Browser.Headless {
		t.Error("expected changed field Browser.Headless to be false")
	}
	if cfg.Server.Name != "viewpoint-mcp" {
		t.Errorf("expected unchanged default server name, got %q", cfg.Server.Name)
	}
}

func TestLoadWithWorkspace_Disabled(t *testing.T) {
	tmpDir := t.TempDir()
	wsDir := filepath.Join(tmpDir, WorkspaceDirName)
	if err := os.MkdirAll(wsDir, 0755); err != nil {
		t.Fatalf("failed to create workspace dir: %v", err)
	}
	wsConfig := `
transport:
  sse_port: 4444
`
	if err := os.WriteFile(filepath.Join(wsDir, WorkspaceConfigFile), []byte(wsConfig), 0644); err != nil {
		t.Fatalf("failed to write workspace config: %v", err)
	}

	cfg, resultDir, err := LoadWithWorkspace("", WorkspaceOptions{Disable: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resultDir != "" {
		t.Errorf("expected empty workspace dir with Disable, got %q", resultDir)
	}
	if cfg.Transport.SSEPort != 0 {
		t.Error("expected SSEPort to remain at default when workspace disabled")
	}
}

func TestResolveWorkspacePaths_Relative(t *testing.T) {
	tmpDir := t.TempDir()

	cfg := Config{
		Server: ServerConfig{LogFile: "viewpoint-mcp.log", ScreenshotDir: "shots"},
	}

	resolved := resolveWorkspacePaths(cfg, tmpDir)

	expected := filepath.Join(tmpDir, "viewpoint-mcp.log")
	if resolved.Server.LogFile != expected {
		t.Errorf("expected log file %q, got %q", expected, resolved.Server.LogFile)
	}
	expected = filepath.Join(tmpDir, "shots")
	if resolved.Server.ScreenshotDir != expected {
		t.Errorf("expected screenshot dir %q, got %q", expected, resolved.Server.ScreenshotDir)
	}
}

func TestResolveWorkspacePaths_AbsoluteUntouched(t *testing.T) {
	wsDir := t.TempDir()

	var absLog, absShots string
	if runtime.GOOS == "windows" {
		absLog = `C:\var\log\viewpoint-mcp.log`
		absShots = `C:\tmp\shots`
	} else {
		absLog = "/var/log/viewpoint-mcp.log"
		absShots = "/tmp/shots"
	}

	cfg := Config{
		Server: ServerConfig{LogFile: absLog, ScreenshotDir: absShots},
	}

	resolved := resolveWorkspacePaths(cfg, wsDir)

	if resolved.Server.LogFile != absLog {
		t.Errorf("expected absolute log file untouched %q, got %q", absLog, resolved.Server.LogFile)
	}
	if resolved.Server.ScreenshotDir != absShots {
		t.Errorf("expected absolute screenshot dir untouched %q, got %q", absShots, resolved.Server.ScreenshotDir)
	}
}

func TestInitWorkspace_Creates(t *testing.T) {
	tmpDir := t.TempDir()

	if err := InitWorkspace(tmpDir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wsDir := filepath.Join(tmpDir, WorkspaceDirName)
	info, err := os.Stat(wsDir)
	if err != nil {
		t.Fatalf("expected directory %q to exist: %v", wsDir, err)
	}
	if !info.IsDir() {
		t.Errorf("expected %q to be a directory", wsDir)
	}

	configPath := filepath.Join(wsDir, WorkspaceConfigFile)
	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("failed to read config template: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty config template")
	}

	gitignorePath := filepath.Join(wsDir, ".gitignore")
	data, err = os.ReadFile(gitignorePath)
	if err != nil {
		t.Fatalf("failed to read .gitignore: %v", err)
	}
	if len(data) == 0 {
		t.Error("expected non-empty .gitignore")
	}
}

func TestInitWorkspace_AlreadyExists(t *testing.T) {
	tmpDir := t.TempDir()

	if err := InitWorkspace(tmpDir); err != nil {
		t.Fatalf("first init failed: %v", err)
	}

	err := InitWorkspace(tmpDir)
	if err == nil {
		t.Error("expected error when workspace already exists")
	}
}
