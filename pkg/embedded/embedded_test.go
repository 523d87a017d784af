package embedded

import (
	"testing"
	"testing/fstest"
)

// TestIsInitialized 测试初始化状态检测
func TestIsInitialized(t *testing.T) {
	// 重置状态
	initialized = false

	if IsInitialized() {
		t.Error("Expected IsInitialized() to return false before Init()")
	}

	Init(fstest.MapFS{})

	if !IsInitialized() {
		t.Error("Expected IsInitialized() to return true after Init()")
	}

	// 重置状态以避免影响其他测试
	initialized = false
}

// TestReadFileNotInitialized 测试未初始化时调用 ReadFile
func TestReadFileNotInitialized(t *testing.T) {
	initialized = false

	_, err := ReadFile("data/scenarios/default.yaml")
	if err == nil {
		t.Fatal("Expected error when calling ReadFile() before Init()")
	}
	if err.Error() != "embedded package not initialized, call Init() first" {
		t.Errorf("Unexpected error message: %v", err)
	}
}

func TestReadFileAndGlob(t *testing.T) {
	Init(fstest.MapFS{
		"data/scenarios/a.yaml": {Data: []byte("name: a")},
		"data/scenarios/b.yaml": {Data: []byte("name: b")},
	})
	defer func() { initialized = false }()

	data, err := ReadFile("./data/scenarios/a.yaml")
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if string(data) != "name: a" {
		t.Errorf("Unexpected content %q", data)
	}

	matches, err := Glob("data/scenarios/*.yaml")
	if err != nil {
		t.Fatalf("Glob failed: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("Expected 2 matches, got %v", matches)
	}

	if !Exists("data/scenarios/b.yaml") {
		t.Error("Expected b.yaml to exist")
	}
	if Exists("data/scenarios/missing.yaml") {
		t.Error("missing.yaml should not exist")
	}
}

// TestUnknownPrefix 测试非 data/ 前缀的路径被拒绝
func TestUnknownPrefix(t *testing.T) {
	Init(fstest.MapFS{})
	defer func() { initialized = false }()

	if _, err := ReadFile("assets/images/x.png"); err == nil {
		t.Error("Expected error for unknown prefix")
	}
}
