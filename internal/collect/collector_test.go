package collect

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/core/domain"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/infra/storage/memory"
	"github.com/peternicholls/Home-Temperature-Monitoring-sub000/internal/sensor"
)

type fixedSource struct {
	id      string
	reading domain.Reading
	err     error
}

func (s *fixedSource) ID() string { return s.id }

func (s *fixedSource) Read(ctx context.Context) (domain.Reading, error) {
	return s.reading, s.err
}

func TestPollStoresReading(t *testing.T) {
	repo := memory.NewReadingRepo(memory.NewMemoryStorage())
	ts, _ := time.Parse(time.RFC3339, "2025-01-01T00:00:00Z")
	src := &fixedSource{
		id:      "hue:abc",
		reading: domain.Reading{DeviceID: "hue:abc", RecordedAt: ts, Temperature: 20.0},
	}

	c := New(nil, time.Minute, repo, nil, nil)
	c.poll(context.Background(), src)

	count, _ := repo.Count(context.Background(), "hue:abc")
	if count != 1 {
		t.Errorf("count = %d, want 1", count)
	}
}

func TestPollRedeliveryStoresOneRow(t *testing.T) {
	repo := memory.NewReadingRepo(memory.NewMemoryStorage())
	ts, _ := time.Parse(time.RFC3339, "2025-01-01T00:00:00Z")
	src := &fixedSource{
		id:      "hue:abc",
		reading: domain.Reading{DeviceID: "hue:abc", RecordedAt: ts, Temperature: 20.0},
	}

	c := New(nil, time.Minute, repo, nil, nil)
	// A stuck sensor re-reports the same timestamped sample.
	c.poll(context.Background(), src)
	c.poll(context.Background(), src)

	count, _ := repo.Count(context.Background(), "hue:abc")
	if count != 1 {
		t.Errorf("count = %d, want 1 (re-delivery must be idempotent)", count)
	}
}

func TestPollSurvivesSensorFailure(t *testing.T) {
	repo := memory.NewReadingRepo(memory.NewMemoryStorage())
	src := &fixedSource{id: "hue:down", err: errors.New("device unreachable")}

	c := New(nil, time.Minute, repo, nil, nil)
	c.poll(context.Background(), src)

	count, _ := repo.Count(context.Background(), "hue:down")
	if count != 0 {
		t.Errorf("count = %d, want 0", count)
	}
}

func TestStartAndShutdown(t *testing.T) {
	repo := memory.NewReadingRepo(memory.NewMemoryStorage())
	src := &fixedSource{
		id:      "hue:abc",
		reading: domain.Reading{DeviceID: "hue:abc", RecordedAt: time.Now(), Temperature: 21.5},
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := New([]sensor.Source{src}, time.Hour, repo, nil, nil)

	c.Start(ctx)
	cancel()

	done := make(chan struct{})
	go func() {
		c.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("collector did not stop after cancellation")
	}

	// The initial poll runs before the first tick.
	count, _ := repo.Count(context.Background(), "hue:abc")
	if count != 1 {
		t.Errorf("count = %d, want 1 from initial poll", count)
	}
}
