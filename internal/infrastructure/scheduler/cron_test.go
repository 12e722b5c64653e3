package scheduler

import (
	"context"
	"testing"
	"time"
)

func TestNewCronSchedulerRejectsInvalidSpec(t *testing.T) {
	t.Parallel()

	if _, err := NewCronScheduler("not a cron", time.UTC); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestCronSchedulerNext(t *testing.T) {
	t.Parallel()

	sc, err := NewCronScheduler("0 6 * * *", time.UTC)
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	from := time.Date(2025, time.November, 8, 7, 0, 0, 0, time.UTC)
	want := time.Date(2025, time.November, 9, 6, 0, 0, 0, time.UTC)
	if got := sc.Next(from); !got.Equal(want) {
		t.Fatalf("unexpected next activation: %v", got)
	}
}

func TestCronSchedulerRunsImmediatelyAndStops(t *testing.T) {
	t.Parallel()

	sc, err := NewCronScheduler("@daily", time.UTC)
	if err != nil {
		t.Fatalf("new scheduler: %v", err)
	}

	ran := make(chan time.Time, 1)
	if err := sc.Start(context.Background(), func(t time.Time) { ran <- t }); err != nil {
		t.Fatalf("start: %v", err)
	}

	select {
	case <-ran:
	case <-time.After(time.Second):
		t.Fatalf("job did not run on start")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := sc.Stop(ctx); err != nil {
		t.Fatalf("stop: %v", err)
	}
	if err := sc.Stop(ctx); err != nil {
		t.Fatalf("second stop: %v", err)
	}
}
