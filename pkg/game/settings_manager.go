package game

import (
	"fmt"
	"log"
	"math"

	"github.com/decker502/holdout/pkg/config"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// GameSettings 玩家本地设置
// 未设置的覆盖项（nil）沿用场景文件中的值
type GameSettings struct {
	// EndlessMode 覆盖场景的 endlessBeyondLastDefined
	EndlessMode *bool `yaml:"endlessMode,omitempty"`
	// FirstWaveDelaySeconds 覆盖场景的开局建造窗口
	FirstWaveDelaySeconds *float64 `yaml:"firstWaveDelaySeconds,omitempty"`
	// Verbose 是否输出逐帧日志
	Verbose bool `yaml:"verbose"`
}

// DefaultSettings 返回默认设置
func DefaultSettings() *GameSettings {
	return &GameSettings{}
}

// ApplyTo 把设置中的覆盖项写入场景配置
func (s *GameSettings) ApplyTo(cfg *config.ScenarioConfig) {
	if s.EndlessMode != nil {
		endless := *s.EndlessMode
		cfg.Director.EndlessBeyondLastDefined = &endless
	}
	if s.FirstWaveDelaySeconds != nil {
		delay := *s.FirstWaveDelaySeconds
		cfg.Director.FirstWaveDelaySeconds = &delay
	}
}

// SettingsManager 设置管理器
// 负责设置的加载、保存和内存管理
type SettingsManager struct {
	gdataManager *gdata.Manager // gdata 跨平台存储管理器，可为 nil（降级模式）
	settings     *GameSettings
}

// 存储路径常量
const (
	settingsObject   = "settings"
	settingsProperty = "global"
)

// NewSettingsManager 创建新的设置管理器实例
//
// 参数：
//   - gdataManager: gdata 跨平台存储管理器，可为 nil（降级模式，仅内存设置）
//
// 加载失败不影响创建，使用默认设置
func NewSettingsManager(gdataManager *gdata.Manager) *SettingsManager {
	sm := &SettingsManager{
		gdataManager: gdataManager,
		settings:     DefaultSettings(),
	}

	if err := sm.Load(); err != nil {
		log.Printf("[SettingsManager] Warning: Failed to load settings: %v (using defaults)", err)
	}
	return sm
}

// Load 从 gdata 加载设置
// gdataManager 为 nil 或文件不存在时使用默认设置
func (sm *SettingsManager) Load() error {
	if sm.gdataManager == nil || !sm.gdataManager.ObjectPropExists(settingsObject, settingsProperty) {
		sm.settings = DefaultSettings()
		return nil
	}

	data, err := sm.gdataManager.LoadObjectProp(settingsObject, settingsProperty)
	if err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to load settings: %w", err)
	}

	var loaded GameSettings
	if err := yaml.Unmarshal(data, &loaded); err != nil {
		sm.settings = DefaultSettings()
		return fmt.Errorf("failed to unmarshal settings: %w", err)
	}

	sm.settings = &loaded
	log.Printf("[SettingsManager] Settings loaded successfully")
	return nil
}

// Save 保存设置到 gdata
// gdataManager 为 nil 时返回 nil（降级模式，不报错）
func (sm *SettingsManager) Save() error {
	if sm.gdataManager == nil {
		return nil
	}

	data, err := yaml.Marshal(sm.settings)
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := sm.gdataManager.SaveObjectProp(settingsObject, settingsProperty, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}

	log.Printf("[SettingsManager] Settings saved successfully")
	return nil
}

// GetSettings 获取当前设置
func (sm *SettingsManager) GetSettings() *GameSettings {
	return sm.settings
}

// SetEndlessMode 设置无尽模式覆盖
// 注意：仅修改内存中的设置，需调用 Save() 方法持久化
func (sm *SettingsManager) SetEndlessMode(enabled bool) {
	sm.settings.EndlessMode = &enabled
}

// SetFirstWaveDelay 设置开局建造窗口覆盖，负数按 0 处理
func (sm *SettingsManager) SetFirstWaveDelay(seconds float64) {
	seconds = math.Max(0, seconds)
	sm.settings.FirstWaveDelaySeconds = &seconds
}

// SetVerbose 设置逐帧日志开关
func (sm *SettingsManager) SetVerbose(verbose bool) {
	sm.settings.Verbose = verbose
}

// ClearOverrides 清除所有覆盖项，回到场景文件的值
func (sm *SettingsManager) ClearOverrides() {
	sm.settings.EndlessMode = nil
	sm.settings.FirstWaveDelaySeconds = nil
}
