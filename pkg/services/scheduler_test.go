package services

import "testing"

func TestScheduleRejectsInvalidSpec(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	if err := s.Schedule("not a cron spec", func() {}); err == nil {
		t.Fatal("expected error for invalid cron spec")
	}
}

func TestScheduleAcceptsStandardSpec(t *testing.T) {
	s := NewScheduler()
	defer s.Stop()

	if err := s.Schedule("0 3 * * *", func() {}); err != nil {
		t.Fatalf("Schedule: %v", err)
	}
}
