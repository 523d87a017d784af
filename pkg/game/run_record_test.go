package game

import "testing"

func TestRecordManager_Submit(t *testing.T) {
	rm := NewRecordManager(nil)

	tests := []struct {
		name        string
		wave, score int
		improved    bool
		expected    RunRecord
	}{
		{"首局", 3, 120, true, RunRecord{HighestWave: 3, BestScore: 120, Runs: 1}},
		{"更差的一局", 2, 80, false, RunRecord{HighestWave: 3, BestScore: 120, Runs: 2}},
		{"只刷新波次", 5, 100, true, RunRecord{HighestWave: 5, BestScore: 120, Runs: 3}},
		{"只刷新分数", 4, 300, true, RunRecord{HighestWave: 5, BestScore: 300, Runs: 4}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			improved, err := rm.Submit(tt.wave, tt.score)
			if err != nil {
				t.Fatalf("Submit error: %v", err)
			}
			if improved != tt.improved {
				t.Errorf("improved: got %v, want %v", improved, tt.improved)
			}
			if rm.Best() != tt.expected {
				t.Errorf("record: got %+v, want %+v", rm.Best(), tt.expected)
			}
		})
	}
}

func TestRecordManager_Persistence(t *testing.T) {
	manager := createTestGdataManager(t, "record")
	if manager == nil {
		t.Skip("Cannot create gdata manager for testing")
	}

	rm := NewRecordManager(manager)
	if _, err := rm.Submit(7, 450); err != nil {
		t.Fatalf("Submit error: %v", err)
	}

	reloaded := NewRecordManager(manager)
	best := reloaded.Best()
	if best.HighestWave != 7 || best.BestScore != 450 || best.Runs != 1 {
		t.Errorf("reloaded record: got %+v", best)
	}
}
