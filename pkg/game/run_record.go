package game

import (
	"fmt"
	"log"

	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// RunRecord 历史最佳成绩
type RunRecord struct {
	HighestWave int `yaml:"highestWave"`
	BestScore   int `yaml:"bestScore"`
	Runs        int `yaml:"runs"`
}

const (
	recordObject   = "records"
	recordProperty = "best"
)

// RecordManager 最佳成绩管理器
// gdataManager 为 nil 时只保存在内存中
type RecordManager struct {
	gdataManager *gdata.Manager
	record       RunRecord
}

// NewRecordManager 创建最佳成绩管理器并加载已有记录
func NewRecordManager(gdataManager *gdata.Manager) *RecordManager {
	rm := &RecordManager{gdataManager: gdataManager}
	if err := rm.Load(); err != nil {
		log.Printf("[RecordManager] Warning: Failed to load record: %v", err)
	}
	return rm
}

// Load 从 gdata 加载记录
func (rm *RecordManager) Load() error {
	rm.record = RunRecord{}
	if rm.gdataManager == nil || !rm.gdataManager.ObjectPropExists(recordObject, recordProperty) {
		return nil
	}

	data, err := rm.gdataManager.LoadObjectProp(recordObject, recordProperty)
	if err != nil {
		return fmt.Errorf("failed to load record: %w", err)
	}
	if err := yaml.Unmarshal(data, &rm.record); err != nil {
		rm.record = RunRecord{}
		return fmt.Errorf("failed to unmarshal record: %w", err)
	}
	return nil
}

// Best 返回当前最佳记录
func (rm *RecordManager) Best() RunRecord {
	return rm.record
}

// Submit 提交一局的结果并持久化
// 返回是否刷新了最高波次或最高分
func (rm *RecordManager) Submit(wave, score int) (bool, error) {
	improved := false
	rm.record.Runs++
	if wave > rm.record.HighestWave {
		rm.record.HighestWave = wave
		improved = true
	}
	if score > rm.record.BestScore {
		rm.record.BestScore = score
		improved = true
	}

	if improved {
		log.Printf("[RecordManager] New record: wave %d, score %d", rm.record.HighestWave, rm.record.BestScore)
	}
	return improved, rm.save()
}

// save 写入 gdata
func (rm *RecordManager) save() error {
	if rm.gdataManager == nil {
		return nil
	}
	data, err := yaml.Marshal(rm.record)
	if err != nil {
		return fmt.Errorf("failed to marshal record: %w", err)
	}
	if err := rm.gdataManager.SaveObjectProp(recordObject, recordProperty, data); err != nil {
		return fmt.Errorf("failed to save record: %w", err)
	}
	return nil
}
