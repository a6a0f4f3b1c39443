package eventlog_test

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasklog/tasklog/internal/eventlog"
	"github.com/tasklog/tasklog/pkg/errclass"
	"github.com/tasklog/tasklog/pkg/model"
)

func tempLog(t *testing.T) *eventlog.Log {
	t.Helper()
	return eventlog.New(filepath.Join(t.TempDir(), "tasks.log"))
}

func entry(id string, status model.Status, title string) model.TaskEvent {
	return model.TaskEvent{
		Timestamp: "2026-02-22T14:30:00+09:00",
		ID:        id,
		Project:   "test/proj",
		Status:    status,
		Title:     title,
	}
}

func TestLog_AppendAndRead(t *testing.T) {
	log := tempLog(t)
	require.NoError(t, log.Append(entry("aabbccdd", model.StatusTodo, "First task")))

	events, err := log.ReadAll()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "aabbccdd", events[0].ID)
}

func TestLog_AppendIsAdditive(t *testing.T) {
	log := tempLog(t)
	for i := 0; i < 3; i++ {
		require.NoError(t, log.Append(entry(fmt.Sprintf("id%07d", i), model.StatusTodo, fmt.Sprintf("Task %d", i))))
	}

	events, err := log.ReadAll()
	require.NoError(t, err)
	require.Len(t, events, 3)
	for i, e := range events {
		assert.Equal(t, fmt.Sprintf("id%07d", i), e.ID)
	}
}

func TestLog_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deeper", "tasks.log")
	log := eventlog.New(path)
	require.NoError(t, log.Append(entry("x", model.StatusTodo, "T")))
	assert.FileExists(t, path)
}

func TestLog_ReadMissingFile(t *testing.T) {
	log := tempLog(t)

	events, err := log.ReadAll()
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.NotNil(t, events)
	assert.NoFileExists(t, log.Path())
}

func TestLog_FileGrowsOneLinePerAppend(t *testing.T) {
	log := tempLog(t)
	require.NoError(t, log.Append(entry("x", model.StatusTodo, "T")))
	require.NoError(t, log.Append(entry("x", model.StatusDoing, "T")))

	raw, err := os.ReadFile(log.Path())
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(raw), "\n"))
	assert.True(t, strings.HasSuffix(string(raw), "\n"))
}

func TestLog_StoredAsValidJSONL(t *testing.T) {
	log := tempLog(t)
	e := entry("a1b2c3d4", model.StatusTodo, "Test")
	e.Description = "desc"
	e.Note = "note"
	require.NoError(t, log.Append(e))

	raw, err := os.ReadFile(log.Path())
	require.NoError(t, err)

	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(strings.TrimSpace(string(raw))), &parsed))
	assert.Equal(t, "a1b2c3d4", parsed["id"])
	assert.Equal(t, "todo", parsed["status"])
	assert.Equal(t, "desc", parsed["description"])
	assert.Equal(t, "note", parsed["note"])
}

func TestLog_SkipsMalformedAndBlankLines(t *testing.T) {
	log := tempLog(t)
	require.NoError(t, log.Append(entry("t1", model.StatusTodo, "A")))

	f, err := os.OpenFile(log.Path(), os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("not json\n\n   \n{}\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())

	require.NoError(t, log.Append(entry("t2", model.StatusTodo, "B")))

	events, err := log.ReadAll()
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, "t1", events[0].ID)
	assert.Equal(t, "t2", events[1].ID)

	records, err := log.Records()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.False(t, records[0].Skipped)
	assert.True(t, records[1].Skipped)
	assert.Equal(t, 2, records[1].Line)
	assert.Error(t, records[1].Reason)
	assert.True(t, records[2].Skipped)
	assert.Equal(t, 5, records[2].Line)
	assert.False(t, records[3].Skipped)
	assert.Equal(t, 6, records[3].Line)
}

func TestLog_PartialTrailingLineIsSkipped(t *testing.T) {
	log := tempLog(t)
	require.NoError(t, log.Append(entry("t1", model.StatusTodo, "A")))

	f, err := os.OpenFile(log.Path(), os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString(`{"ts":"2026-02-22T14:30:00+09:00","id":"t2","proj`)
	require.NoError(t, err)
	require.NoError(t, f.Close())

	events, err := log.ReadAll()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "t1", events[0].ID)
}

func TestLog_UnterminatedValidLastLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.log")
	line, err := eventlog.Encode(entry("t1", model.StatusTodo, "A"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, line, 0644))

	events, err := eventlog.New(path).ReadAll()
	require.NoError(t, err)
	require.Len(t, events, 1)
}

func TestLog_LongLine(t *testing.T) {
	log := tempLog(t)
	e := entry("big", model.StatusTodo, "T")
	e.Description = strings.Repeat("x", 200*1024)
	require.NoError(t, log.Append(e))

	events, err := log.ReadAll()
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Len(t, events[0].Description, 200*1024)
}

func TestLog_AppendToDirectoryFails(t *testing.T) {
	dir := t.TempDir()
	log := eventlog.New(dir)
	assert.Error(t, log.Append(entry("x", model.StatusTodo, "T")))
}

func TestLog_ConcurrentAppends(t *testing.T) {
	log := tempLog(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			assert.NoError(t, log.Append(entry(fmt.Sprintf("id%d", idx), model.StatusTodo, "T")))
		}(i)
	}
	wg.Wait()

	file, err := os.Open(log.Path())
	require.NoError(t, err)
	defer file.Close()

	count := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		_, err := eventlog.Decode(scanner.Bytes())
		assert.NoError(t, err)
		count++
	}
	assert.Equal(t, 10, count)
}

func TestLog_IndependentHandlesInterleaveByLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.log")
	a := eventlog.New(path)
	b := eventlog.New(path)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(idx int) {
			defer wg.Done()
			assert.NoError(t, a.Append(entry(fmt.Sprintf("a%d", idx), model.StatusTodo, "A")))
		}(i)
		go func(idx int) {
			defer wg.Done()
			assert.NoError(t, b.Append(entry(fmt.Sprintf("b%d", idx), model.StatusTodo, "B")))
		}(i)
	}
	wg.Wait()

	records, err := a.Records()
	require.NoError(t, err)
	assert.Len(t, records, 40)
	for _, r := range records {
		assert.False(t, r.Skipped, "line %d: %v", r.Line, r.Reason)
	}
}

func TestLog_AppendRejectsInvalidUTF8(t *testing.T) {
	log := tempLog(t)

	err := log.Append(entry("aabbccdd", model.StatusTodo, "bad \xff byte"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, errclass.ErrRecordMalformed))

	_, statErr := os.Stat(log.Path())
	assert.True(t, os.IsNotExist(statErr), "nothing may be written for a lossy record")
}

func TestLog_ReadEventsCountsSkipped(t *testing.T) {
	log := tempLog(t)
	require.NoError(t, log.Append(entry("aabbccdd", model.StatusTodo, "A")))
	f, err := os.OpenFile(log.Path(), os.O_APPEND|os.O_WRONLY, 0644)
	require.NoError(t, err)
	_, err = f.WriteString("garbage\n\n{\"id\":\"x\"}\n")
	require.NoError(t, err)
	require.NoError(t, f.Close())
	require.NoError(t, log.Append(entry("aabbccdd", model.StatusDone, "A")))

	events, skipped, err := log.ReadEvents()
	require.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Equal(t, 2, skipped, "blank lines are not counted")

	all, err := log.ReadAll()
	require.NoError(t, err)
	assert.Equal(t, events, all)
}
