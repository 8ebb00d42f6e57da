package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"
)

// immediateSchedule always returns now.
type immediateSchedule struct{}

func (s immediateSchedule) Next(t time.Time) time.Time {
	return t
}

// futureSchedule returns time + 1 hour.
type futureSchedule struct{}

func (s futureSchedule) Next(t time.Time) time.Time {
	return t.Add(time.Hour)
}

func TestScheduler_CRUD(t *testing.T) {
	s := New(nil)

	task := &Task{
		ID:       "test-1",
		Name:     "Test Task",
		Enabled:  true,
		Schedule: futureSchedule{},
		Func: func(ctx context.Context) error {
			return nil
		},
	}

	if err := s.AddTask(task); err != nil {
		t.Fatalf("AddTask failed: %v", err)
	}

	if _, exists := s.GetTaskStatus("test-1"); !exists {
		t.Error("Task not found after add")
	}

	if err := s.AddTask(task); err == nil {
		t.Error("Expected error adding duplicate task")
	}

	if err := s.EnableTask("test-1", false); err != nil {
		t.Errorf("Disable failed: %v", err)
	}
	stat, _ := s.GetTaskStatus("test-1")
	if stat.Enabled {
		t.Error("Task should be disabled")
	}

	if err := s.EnableTask("test-1", true); err != nil {
		t.Errorf("Enable failed: %v", err)
	}

	if err := s.RemoveTask("test-1"); err != nil {
		t.Errorf("RemoveTask failed: %v", err)
	}
	if _, exists := s.GetTaskStatus("test-1"); exists {
		t.Error("Task still present after remove")
	}
}

func TestScheduler_AddTaskValidation(t *testing.T) {
	s := New(nil)

	if err := s.AddTask(&Task{Schedule: futureSchedule{}, Func: func(ctx context.Context) error { return nil }}); err == nil {
		t.Error("Expected error for missing ID")
	}
	if err := s.AddTask(&Task{ID: "x", Func: func(ctx context.Context) error { return nil }}); err == nil {
		t.Error("Expected error for missing schedule")
	}
	if err := s.AddTask(&Task{ID: "x", Schedule: futureSchedule{}}); err == nil {
		t.Error("Expected error for missing func")
	}
}

func TestScheduler_RunOnStart(t *testing.T) {
	s := New(nil)

	var mu sync.Mutex
	ran := 0

	task := &Task{
		ID:         "startup",
		Name:       "Startup Task",
		Enabled:    true,
		RunOnStart: true,
		Schedule:   futureSchedule{},
		Func: func(ctx context.Context) error {
			mu.Lock()
			ran++
			mu.Unlock()
			return nil
		},
	}

	if err := s.AddTask(task); err != nil {
		t.Fatal(err)
	}

	s.Start()
	defer s.Stop()

	deadline := time.After(2 * time.Second)
	for {
		mu.Lock()
		n := ran
		mu.Unlock()
		if n >= 1 {
			break
		}
		select {
		case <-deadline:
			t.Fatal("task did not run on start")
		case <-time.After(10 * time.Millisecond):
		}
	}

	stat, _ := s.GetTaskStatus("startup")
	if stat.RunCount < 1 {
		t.Errorf("RunCount = %d, want >= 1", stat.RunCount)
	}
}

func TestScheduler_RunTaskRecordsError(t *testing.T) {
	s := New(nil)

	done := make(chan struct{})
	task := &Task{
		ID:       "failing",
		Name:     "Failing Task",
		Enabled:  true,
		Schedule: futureSchedule{},
		Func: func(ctx context.Context) error {
			defer close(done)
			return context.DeadlineExceeded
		},
	}

	if err := s.AddTask(task); err != nil {
		t.Fatal(err)
	}
	if err := s.RunTask("failing"); err != nil {
		t.Fatal(err)
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("task did not run")
	}

	// Status update happens after Func returns; poll briefly.
	deadline := time.After(time.Second)
	for {
		stat, _ := s.GetTaskStatus("failing")
		if stat.ErrorCount >= 1 {
			if stat.LastError == "" {
				t.Error("LastError should be set")
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("error never recorded")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestScheduler_StartStop(t *testing.T) {
	s := New(nil)
	if s.IsRunning() {
		t.Error("new scheduler should not be running")
	}

	s.Start()
	if !s.IsRunning() {
		t.Error("scheduler should be running after Start")
	}
	s.Start() // idempotent

	s.Stop()
	if s.IsRunning() {
		t.Error("scheduler should not be running after Stop")
	}
	s.Stop() // idempotent
}
