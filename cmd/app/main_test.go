package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BuzzLyutic/taskboard/internal/model"
	"github.com/BuzzLyutic/taskboard/internal/repo"
	"github.com/BuzzLyutic/taskboard/internal/service"
)

func setupCLI(t *testing.T) func(args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("TASKBOARD_CONFIG_FILE", "")
	t.Setenv("TASKBOARD_STORE_DRIVER", "sqlite")
	t.Setenv("TASKBOARD_STORE_PATH", filepath.Join(dir, "board.db"))
	t.Setenv("TASKBOARD_AUTH_LATENCY", "0s")
	t.Setenv("TASKBOARD_AUTH_BCRYPT_COST", "4")
	t.Setenv("TASKBOARD_LOG_ENVIRONMENT", "test")

	return func(args ...string) (string, error) {
		a := &app{}
		cmd := newRootCmd(a)
		var out bytes.Buffer
		cmd.SetOut(&out)
		cmd.SetErr(&out)
		cmd.SetArgs(args)
		err := cmd.Execute()
		require.NoError(t, a.close())
		return out.String(), err
	}
}

func listJSON(t *testing.T, run func(args ...string) (string, error)) []model.Task {
	t.Helper()
	out, err := run("list", "--json")
	require.NoError(t, err)
	var tasks []model.Task
	require.NoError(t, json.Unmarshal([]byte(out), &tasks))
	return tasks
}

func TestCLI_Workflow(t *testing.T) {
	run := setupCLI(t)

	_, err := run("list")
	assert.ErrorIs(t, err, errNotSignedIn)

	out, err := run("register", "--name", "Ann", "--email", "ann@example.com", "--password", "secret1")
	require.NoError(t, err)
	assert.Contains(t, out, "Welcome, Ann")

	due := time.Now().AddDate(0, 0, 1).Format("2006-01-02")
	out, err = run("add", "Write spec", "--priority", "high", "--due", due)
	require.NoError(t, err)
	id := strings.TrimSpace(out)
	require.True(t, strings.HasPrefix(id, "task_"), id)

	tasks := listJSON(t, run)
	require.Len(t, tasks, 1)
	assert.Equal(t, "Write spec", tasks[0].Title)
	assert.Equal(t, model.PriorityHigh, tasks[0].Priority)
	assert.Equal(t, model.StatusTodo, tasks[0].Status)

	out, err = run("move", id, "done")
	require.NoError(t, err)
	assert.Contains(t, out, "moved to done")

	out, err = run("move", id, "done")
	require.NoError(t, err)
	assert.Contains(t, out, "already in done")

	backup := filepath.Join(t.TempDir(), "backup.yaml")
	_, err = run("export", backup)
	require.NoError(t, err)

	out, err = run("rm", id)
	require.NoError(t, err)
	assert.Contains(t, out, "deleted")
	assert.Empty(t, listJSON(t, run))

	out, err = run("import", backup)
	require.NoError(t, err)
	assert.Contains(t, out, "imported 1 tasks")

	tasks = listJSON(t, run)
	require.Len(t, tasks, 1)
	assert.Equal(t, id, tasks[0].ID)
	assert.Equal(t, model.StatusDone, tasks[0].Status)

	out, err = run("list", "--board")
	require.NoError(t, err)
	assert.Contains(t, out, "== Done (1)")

	out, err = run("theme", "toggle")
	require.NoError(t, err)
	assert.Equal(t, "dark\n", out)

	_, err = run("logout")
	require.NoError(t, err)
	_, err = run("whoami")
	assert.ErrorIs(t, err, errNotSignedIn)
}

func TestCLI_Validation(t *testing.T) {
	run := setupCLI(t)

	_, err := run("register", "--name", "Ann", "--email", "ann@example.com", "--password", "secret1")
	require.NoError(t, err)

	_, err = run("add", "Hi")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = run("add", "Old task", "--due", "2000-01-01")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = run("list", "--sort", "title")
	assert.ErrorIs(t, err, model.ErrValidation)

	_, err = run("register", "--name", "Ann", "--email", "ann@example.com", "--password", "secret1")
	assert.Error(t, err)
}

func TestCLI_TasksAreScopedToSignedInUser(t *testing.T) {
	run := setupCLI(t)

	_, err := run("register", "--name", "Ann", "--email", "ann@example.com", "--password", "secret1")
	require.NoError(t, err)
	out, err := run("add", "Ann's task", "--priority", "high")
	require.NoError(t, err)
	annID := strings.TrimSpace(out)

	annBackup := filepath.Join(t.TempDir(), "ann.json")
	_, err = run("export", annBackup)
	require.NoError(t, err)

	_, err = run("register", "--name", "Bob", "--email", "bob@example.com", "--password", "secret2")
	require.NoError(t, err)

	_, err = run("edit", annID, "--title", "Hijacked")
	assert.ErrorIs(t, err, service.ErrNotFound)

	_, err = run("move", annID, "done")
	assert.ErrorIs(t, err, service.ErrNotFound)

	out, err = run("rm", annID)
	require.NoError(t, err)
	assert.Contains(t, out, "no task")

	_, err = run("import", annBackup)
	assert.ErrorIs(t, err, repo.ErrDuplicateID, "ids held by another user cannot be claimed")

	out, err = run("export")
	require.NoError(t, err)
	assert.NotContains(t, out, annID)
	assert.Empty(t, listJSON(t, run))

	_, err = run("login", "--email", "ann@example.com", "--password", "secret1")
	require.NoError(t, err)

	tasks := listJSON(t, run)
	require.Len(t, tasks, 1)
	assert.Equal(t, annID, tasks[0].ID)
	assert.Equal(t, "Ann's task", tasks[0].Title)
	assert.Equal(t, model.StatusTodo, tasks[0].Status)
}
