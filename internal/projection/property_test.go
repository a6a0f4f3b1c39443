package projection_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/tasklog/tasklog/internal/projection"
	"github.com/tasklog/tasklog/pkg/model"
)

func genEvents() *rapid.Generator[[]model.TaskEvent] {
	one := rapid.Custom(func(t *rapid.T) model.TaskEvent {
		return model.TaskEvent{
			Timestamp: "2026-02-22T14:30:00+09:00",
			ID:        rapid.SampledFrom([]string{"a", "b", "c", "d", "e"}).Draw(t, "id"),
			Project:   rapid.SampledFrom([]string{"x", "y"}).Draw(t, "project"),
			Status:    rapid.SampledFrom(model.KnownStatuses).Draw(t, "status"),
			Title:     rapid.StringMatching(`[a-z]{0,6}`).Draw(t, "title"),
		}
	})
	return rapid.SliceOfN(one, 0, 40)
}

func TestProperty_ProjectionIdempotent(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		events := genEvents().Draw(t, "events")
		a := projection.Fold(events).Tasks(projection.Filter{})
		b := projection.Fold(events).Tasks(projection.Filter{})
		if len(a) != len(b) {
			t.Fatalf("lengths differ: %d vs %d", len(a), len(b))
		}
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("task %d differs: %#v vs %#v", i, a[i], b[i])
			}
		}
	})
}

func TestProperty_FirstSeenOrdering(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		events := genEvents().Draw(t, "events")

		firstPos := map[string]int{}
		for i, e := range events {
			if _, ok := firstPos[e.ID]; !ok {
				firstPos[e.ID] = i
			}
		}

		tasks := projection.Fold(events).Tasks(projection.Filter{})
		if len(tasks) != len(firstPos) {
			t.Fatalf("got %d tasks, want %d", len(tasks), len(firstPos))
		}
		for i := 1; i < len(tasks); i++ {
			if firstPos[tasks[i-1].ID] >= firstPos[tasks[i].ID] {
				t.Fatalf("%s listed before %s", tasks[i-1].ID, tasks[i].ID)
			}
		}
	})
}

func TestProperty_LastWriterWins(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		events := genEvents().Draw(t, "events")

		last := map[string]model.TaskEvent{}
		for _, e := range events {
			last[e.ID] = e
		}

		s := projection.Fold(events)
		for id, want := range last {
			got, err := s.Latest(id)
			if err != nil {
				t.Fatalf("latest %s: %v", id, err)
			}
			if got != want {
				t.Fatalf("latest %s = %#v, want %#v", id, got, want)
			}
		}
	})
}

func TestProperty_FilterCorrectness(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		events := genEvents().Draw(t, "events")
		project := rapid.SampledFrom([]string{"", "x", "y"}).Draw(t, "filterProject")
		status := rapid.SampledFrom([]string{"", "todo", "doing", "done"}).Draw(t, "filterStatus")

		last := map[string]model.TaskEvent{}
		for _, e := range events {
			last[e.ID] = e
		}
		want := map[string]bool{}
		for id, e := range last {
			if (project == "" || e.Project == project) && (status == "" || string(e.Status) == status) {
				want[id] = true
			}
		}

		got := projection.Fold(events).Tasks(projection.Filter{Project: project, Status: status})
		if len(got) != len(want) {
			t.Fatalf("got %d tasks, want %d", len(got), len(want))
		}
		for _, task := range got {
			if !want[task.ID] {
				t.Fatalf("unexpected task %s", task.ID)
			}
		}
	})
}
