package game

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/decker502/holdout/pkg/config"
	"github.com/quasilyte/gdata/v2"
)

// createTestGdataManager 创建用于测试的 gdata Manager
// 无法创建时返回 nil，调用方跳过测试
func createTestGdataManager(t *testing.T, testName string) *gdata.Manager {
	appName := fmt.Sprintf("holdout_test_%s_%d", testName, time.Now().UnixNano())
	manager, err := gdata.Open(gdata.Config{
		AppName: appName,
	})
	if err != nil {
		return nil
	}

	// 测试结束后删除测试目录
	t.Cleanup(func() {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			os.RemoveAll(filepath.Join(homeDir, ".local", "share", appName))
		}
	})

	return manager
}

// TestDefaultSettings 默认设置不覆盖任何场景值
func TestDefaultSettings(t *testing.T) {
	settings := DefaultSettings()

	if settings == nil {
		t.Fatal("DefaultSettings() returned nil")
	}
	if settings.EndlessMode != nil || settings.FirstWaveDelaySeconds != nil {
		t.Error("default settings should not override scenario values")
	}
	if settings.Verbose {
		t.Error("Verbose: got true, want false")
	}
}

// TestSettingsApplyTo 覆盖项写入场景配置
func TestSettingsApplyTo(t *testing.T) {
	cfg := &config.ScenarioConfig{}

	sm := NewSettingsManager(nil)
	sm.GetSettings().ApplyTo(cfg)
	if cfg.Director.EndlessBeyondLastDefined != nil || cfg.Director.FirstWaveDelaySeconds != nil {
		t.Fatal("empty settings should leave config untouched")
	}

	sm.SetEndlessMode(false)
	sm.SetFirstWaveDelay(-3)
	sm.GetSettings().ApplyTo(cfg)

	if cfg.Director.Endless() {
		t.Error("expected endless mode disabled")
	}
	if cfg.Director.FirstWaveDelay() != 0 {
		t.Errorf("expected negative delay clamped to 0, got %.2f", cfg.Director.FirstWaveDelay())
	}

	// 配置持有副本，之后修改设置不影响已应用的配置
	sm.SetEndlessMode(true)
	if cfg.Director.Endless() {
		t.Error("applied config should not alias settings")
	}

	sm.ClearOverrides()
	if sm.GetSettings().EndlessMode != nil || sm.GetSettings().FirstWaveDelaySeconds != nil {
		t.Error("ClearOverrides should reset overrides")
	}
}

// TestNewSettingsManagerNilGdata gdataManager 为 nil 时的降级场景
func TestNewSettingsManagerNilGdata(t *testing.T) {
	sm := NewSettingsManager(nil)
	if sm == nil {
		t.Fatal("NewSettingsManager(nil) returned nil")
	}

	sm.SetVerbose(true)
	if err := sm.Save(); err != nil {
		t.Errorf("Save() in degraded mode should not fail: %v", err)
	}
	if err := sm.Load(); err != nil {
		t.Errorf("Load() in degraded mode should not fail: %v", err)
	}
	if sm.GetSettings().Verbose {
		t.Error("Load() in degraded mode should reset to defaults")
	}
}

// TestSettingsManagerPersistence 保存后重新加载
func TestSettingsManagerPersistence(t *testing.T) {
	manager := createTestGdataManager(t, "settings")
	if manager == nil {
		t.Skip("Cannot create gdata manager for testing")
	}

	sm := NewSettingsManager(manager)
	sm.SetEndlessMode(false)
	sm.SetFirstWaveDelay(12)
	sm.SetVerbose(true)
	if err := sm.Save(); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	reloaded := NewSettingsManager(manager)
	settings := reloaded.GetSettings()
	if settings.EndlessMode == nil || *settings.EndlessMode {
		t.Errorf("EndlessMode: got %v, want false", settings.EndlessMode)
	}
	if settings.FirstWaveDelaySeconds == nil || *settings.FirstWaveDelaySeconds != 12 {
		t.Errorf("FirstWaveDelaySeconds: got %v, want 12", settings.FirstWaveDelaySeconds)
	}
	if !settings.Verbose {
		t.Error("Verbose: got false, want true")
	}
}

// TestSettingsManagerCorruptData 损坏的数据回退到默认设置
func TestSettingsManagerCorruptData(t *testing.T) {
	manager := createTestGdataManager(t, "corrupt")
	if manager == nil {
		t.Skip("Cannot create gdata manager for testing")
	}

	if err := manager.SaveObjectProp(settingsObject, settingsProperty, []byte("verbose: [not a bool")); err != nil {
		t.Fatalf("SaveObjectProp error: %v", err)
	}

	sm := NewSettingsManager(manager)
	if sm.GetSettings().Verbose {
		t.Error("corrupt settings should fall back to defaults")
	}
	if err := sm.Load(); err == nil {
		t.Error("expected Load() to report corrupt data")
	}
}
