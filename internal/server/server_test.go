package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"taskgrid/internal/metrics"
	"taskgrid/internal/models"
	"taskgrid/internal/storage/sqlite"
	"taskgrid/internal/tasklist"
)

type testEnv struct {
	srv   *Server
	store *sqlite.Store
	view  *tasklist.View
}

func newTestEnv(t *testing.T, staticDir string) *testEnv {
	t.Helper()
	store, err := sqlite.Open(sqlite.MemoryPath, nil)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	for _, tt := range [][2]string{{"1", "Development"}, {"2", "Testing"}} {
		if _, err := store.CreateTaskType(ctx, tt[0], tt[1]); err != nil {
			t.Fatal(err)
		}
	}

	view := tasklist.NewView(store)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	srv := New(store, view, logger, Options{
		StaticDir:   staticDir,
		Metrics:     metrics.New("taskgrid"),
		MetricsPath: "/metrics",
	})
	return &testEnv{srv: srv, store: store, view: view}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	rec := httptest.NewRecorder()
	e.srv.Engine().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func (e *testEnv) setEditMode(t *testing.T, editing bool) {
	t.Helper()
	rec := e.do(t, http.MethodPut, "/api/view/mode", map[string]bool{"editMode": editing})
	if rec.Code != http.StatusOK {
		t.Fatalf("set edit mode: %d %s", rec.Code, rec.Body.String())
	}
}

func (e *testEnv) seedTasks(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	for _, task := range []models.Task{
		{TaskName: "Write report", TaskType: "1", Responsible: "Bob", StartDate: "01.01.2024", EndDate: "15.01.2024"},
		{TaskName: "Review report", TaskType: "2", Responsible: "Alice", StartDate: "10.01.2024"},
		{TaskName: "Deploy", TaskType: "1", Responsible: "Bobby", StartDate: "01.02.2024"},
	} {
		if _, err := e.store.CreateTask(ctx, task); err != nil {
			t.Fatal(err)
		}
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, "")
	rec := env.do(t, http.MethodGet, "/api/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if rec.Header().Get(requestIDHeader) == "" {
		t.Error("missing request id header")
	}

	rec = env.do(t, http.MethodGet, "/api/healthz", nil, requestIDHeader, "abc-123")
	if got := rec.Header().Get(requestIDHeader); got != "abc-123" {
		t.Errorf("request id not propagated, got %q", got)
	}
}

func TestCreateTask_RequiresEditMode(t *testing.T) {
	env := newTestEnv(t, "")
	body := map[string]string{"taskName": "x"}

	if rec := env.do(t, http.MethodPost, "/api/tasks", body); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 in viewing mode, got %d", rec.Code)
	}

	env.setEditMode(t, true)
	rec := env.do(t, http.MethodPost, "/api/tasks", map[string]string{
		"taskName":    "Write report",
		"taskType":    "1",
		"responsible": "Bob",
		"startDate":   "01012024",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d %s", rec.Code, rec.Body.String())
	}
	created := decode[struct{ Task models.Task }](t, rec).Task
	if created.ID == 0 || created.StartDate != "01.01.2024" {
		t.Errorf("unexpected task %+v", created)
	}
}

func TestCreateTask_ValidationError(t *testing.T) {
	env := newTestEnv(t, "")
	env.setEditMode(t, true)

	testCases := []struct {
		name     string
		body     map[string]string
		lang     string
		field    string
		validity string
		message  string
	}{
		{"missing name", map[string]string{}, "en", "taskName", tasklist.ReasonRequired, tasklist.MsgTaskNameRequired},
		{"bad month", map[string]string{"taskName": "x", "startDate": "15132024"}, "en", "startDate", "invalid_month", "month must be between 1 and 12"},
		{"bad day russian", map[string]string{"taskName": "x", "endDate": "32052024"}, "ru-RU", "endDate", "invalid_day", "День должен быть от 1 до 31."},
		{"unknown type", map[string]string{"taskName": "x", "taskType": "9"}, "en", "taskType", "unknown", sqlite.MsgUnknownTaskType},
		{"unknown type russian", map[string]string{"taskName": "x", "taskType": "9"}, "ru", "taskType", "unknown", "Неизвестный тип задачи."},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := env.do(t, http.MethodPost, "/api/tasks", tc.body, "Accept-Language", tc.lang)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			got := decode[map[string]string](t, rec)
			if got["field"] != tc.field || got["validity"] != tc.validity || got["error"] != tc.message {
				t.Errorf("unexpected payload %v", got)
			}
		})
	}
}

func TestUpdateAndDeleteTask(t *testing.T) {
	env := newTestEnv(t, "")
	env.seedTasks(t)

	if rec := env.do(t, http.MethodPut, "/api/tasks/1", map[string]string{"responsible": "Carol"}); rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 in viewing mode, got %d", rec.Code)
	}

	env.setEditMode(t, true)

	rec := env.do(t, http.MethodPut, "/api/tasks/1", map[string]string{"responsible": "Carol", "endDate": ""})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: %d %s", rec.Code, rec.Body.String())
	}
	updated := decode[struct{ Task models.Task }](t, rec).Task
	if updated.Responsible != "Carol" || updated.EndDate != "" || updated.TaskName != "Write report" {
		t.Errorf("unexpected update %+v", updated)
	}

	if rec := env.do(t, http.MethodPut, "/api/tasks/99", map[string]string{"taskName": "x"}); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
	if rec := env.do(t, http.MethodPut, "/api/tasks/abc", map[string]string{}); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for bad id, got %d", rec.Code)
	}

	if rec := env.do(t, http.MethodDelete, "/api/tasks/1", nil); rec.Code != http.StatusOK {
		t.Fatalf("delete: %d", rec.Code)
	}
	if rec := env.do(t, http.MethodDelete, "/api/tasks/1", nil); rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 on second delete, got %d", rec.Code)
	}
}

func TestListTasks_Filter(t *testing.T) {
	env := newTestEnv(t, "")
	env.seedTasks(t)

	testCases := []struct {
		query    string
		expected []string
	}{
		{"", []string{"Write report", "Review report", "Deploy"}},
		{"?taskType=0", []string{"Write report", "Review report", "Deploy"}},
		{"?responsible=Bob", []string{"Write report", "Deploy"}},
		{"?responsible=bob", nil},
		{"?responsible=Bob&taskType=1&startDate=02.2024", []string{"Deploy"}},
		{"?taskName=report&endDate=15", []string{"Write report"}},
	}

	for _, tc := range testCases {
		rec := env.do(t, http.MethodGet, "/api/tasks"+tc.query, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status %d", tc.query, rec.Code)
		}
		got := decode[struct {
			Tasks []models.Task
			Total int
		}](t, rec)
		if got.Total != 3 {
			t.Errorf("%s: expected total 3, got %d", tc.query, got.Total)
		}
		var names []string
		for _, task := range got.Tasks {
			names = append(names, task.TaskName)
		}
		if strings.Join(names, ",") != strings.Join(tc.expected, ",") {
			t.Errorf("%s: expected %v, got %v", tc.query, tc.expected, names)
		}
	}
}

func TestExportTasks(t *testing.T) {
	env := newTestEnv(t, "")
	env.seedTasks(t)

	rec := env.do(t, http.MethodGet, "/api/tasks/export?responsible=Bob", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != tasklist.ExportContentType {
		t.Errorf("unexpected content type %q", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "exported_data.csv") {
		t.Errorf("unexpected content disposition %q", cd)
	}

	expected := "\uFEFFTask Name;Task Type;Responsible;Start Date;End Date\n" +
		`"Write report";"1";"Bob";"01.01.2024";"15.01.2024"` + "\n" +
		`"Deploy";"1";"Bobby";"01.02.2024";""` + "\n"
	if rec.Body.String() != expected {
		t.Errorf("unexpected body:\n%q\nexpected:\n%q", rec.Body.String(), expected)
	}

	metricsRec := env.do(t, http.MethodGet, "/metrics", nil)
	body := metricsRec.Body.String()
	if !strings.Contains(body, "taskgrid_csv_exports_total 1") || !strings.Contains(body, "taskgrid_csv_exported_rows_total 2") {
		t.Errorf("export metrics missing:\n%s", body)
	}
}

func TestView(t *testing.T) {
	env := newTestEnv(t, "")

	rec := env.do(t, http.MethodPut, "/api/view/columns", map[string]bool{"responsible": false, "endDate": false})
	if rec.Code != http.StatusOK {
		t.Fatalf("set columns: %d %s", rec.Code, rec.Body.String())
	}
	state := decode[tasklist.State](t, rec)
	if state.Columns.Responsible || state.Columns.EndDate || !state.Columns.TaskName {
		t.Errorf("unexpected columns %+v", state.Columns)
	}

	env.setEditMode(t, true)
	state = decode[tasklist.State](t, env.do(t, http.MethodGet, "/api/view", nil))
	if !state.EditMode || state.Columns != models.AllColumns() || !state.Actions.Add || state.Actions.Configure {
		t.Errorf("unexpected edit state %+v", state)
	}

	if rec := env.do(t, http.MethodPut, "/api/view/columns", map[string]bool{"taskName": false}); rec.Code != http.StatusConflict {
		t.Errorf("expected 409 while editing, got %d", rec.Code)
	}
	if rec := env.do(t, http.MethodPut, "/api/view/mode", map[string]string{}); rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 without editMode, got %d", rec.Code)
	}

	if !strings.Contains(env.do(t, http.MethodGet, "/metrics", nil).Body.String(), "taskgrid_edit_mode 1") {
		t.Error("edit mode gauge not updated")
	}
}

func TestDateMask(t *testing.T) {
	env := newTestEnv(t, "")

	testCases := []struct {
		body     map[string]any
		lang     string
		value    string
		validity string
		message  string
	}{
		{map[string]any{"value": ""}, "en", "", "valid", ""},
		{map[string]any{"value": "15052024"}, "en", "15.05.2024", "valid", ""},
		{map[string]any{"value": "15-13-2024"}, "en", "15.13.2024", "invalid_month", "month must be between 1 and 12"},
		{map[string]any{"value": "1505"}, "ru", "15.05.", "invalid_format", "Некорректный формат даты. Используйте ДД.ММ.ГГГГ."},
		{map[string]any{"value": "15", "keystroke": true}, "en", "15.", "invalid_format", "format must be DD.MM.YYYY"},
		{map[string]any{"value": "15052024", "keystroke": true}, "en", "15052024", "invalid_format", "format must be DD.MM.YYYY"},
	}

	for _, tc := range testCases {
		rec := env.do(t, http.MethodPost, "/api/date-mask", tc.body, "Accept-Language", tc.lang)
		if rec.Code != http.StatusOK {
			t.Fatalf("%v: status %d", tc.body, rec.Code)
		}
		got := decode[map[string]string](t, rec)
		if got["value"] != tc.value || got["validity"] != tc.validity || got["message"] != tc.message {
			t.Errorf("%v: unexpected result %v", tc.body, got)
		}
	}
}

func TestHello(t *testing.T) {
	env := newTestEnv(t, "")

	got := decode[map[string]string](t, env.do(t, http.MethodGet, "/api/hello", nil))
	if got["message"] != "Hello World" || got["language"] != "en" {
		t.Errorf("unexpected greeting %v", got)
	}

	got = decode[map[string]string](t, env.do(t, http.MethodGet, "/api/hello?recipient=Anna", nil, "Accept-Language", "ru"))
	if got["message"] != "Привет, Anna!" || got["language"] != "ru" {
		t.Errorf("unexpected russian greeting %v", got)
	}
}

func TestTaskTypes(t *testing.T) {
	env := newTestEnv(t, "")

	got := decode[struct{ TaskTypes []models.TaskType }](t, env.do(t, http.MethodGet, "/api/task-types", nil))
	if len(got.TaskTypes) != 2 {
		t.Fatalf("expected 2 types, got %+v", got.TaskTypes)
	}

	testCases := []struct {
		method string
		path   string
		body   any
		status int
	}{
		{http.MethodPost, "/api/task-types", map[string]string{"code": "3", "name": "Docs"}, http.StatusCreated},
		{http.MethodPost, "/api/task-types", map[string]string{"code": "3", "name": "Again"}, http.StatusConflict},
		{http.MethodPost, "/api/task-types", map[string]string{"code": "0", "name": "All"}, http.StatusBadRequest},
		{http.MethodPost, "/api/task-types", map[string]string{"code": "", "name": "x"}, http.StatusBadRequest},
		{http.MethodPut, "/api/task-types/3", map[string]string{"name": "Documentation"}, http.StatusOK},
		{http.MethodPut, "/api/task-types/42", map[string]string{"name": "x"}, http.StatusNotFound},
		{http.MethodDelete, "/api/task-types/3", nil, http.StatusOK},
		{http.MethodDelete, "/api/task-types/3", nil, http.StatusNotFound},
	}
	for _, tc := range testCases {
		if rec := env.do(t, tc.method, tc.path, tc.body); rec.Code != tc.status {
			t.Errorf("%s %s: expected %d, got %d %s", tc.method, tc.path, tc.status, rec.Code, rec.Body.String())
		}
	}

	env.seedTasks(t)
	if rec := env.do(t, http.MethodDelete, "/api/task-types/1", nil); rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for type in use, got %d", rec.Code)
	}
}

func TestStatic(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>grid</html>"), 0o600); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Join(dir, "i18n"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "i18n", "i18n.properties"), []byte("helloMsg=Hello {0}"), 0o600); err != nil {
		t.Fatal(err)
	}

	env := newTestEnv(t, dir)

	if rec := env.do(t, http.MethodGet, "/", nil); !strings.Contains(rec.Body.String(), "grid") {
		t.Errorf("index not served: %d %q", rec.Code, rec.Body.String())
	}
	if rec := env.do(t, http.MethodGet, "/some/client/route", nil); !strings.Contains(rec.Body.String(), "grid") {
		t.Errorf("client routes should fall back to index, got %d", rec.Code)
	}
	if rec := env.do(t, http.MethodGet, "/i18n/i18n.properties", nil); !strings.Contains(rec.Body.String(), "helloMsg") {
		t.Errorf("bundle folder not served: %d", rec.Code)
	}
	rec := env.do(t, http.MethodGet, "/api/unknown", nil)
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "endpoint not found") {
		t.Errorf("unexpected api 404: %d %q", rec.Code, rec.Body.String())
	}
}

func TestSetMode_SaveFailureKeepsViewing(t *testing.T) {
	env := newTestEnv(t, "")
	if err := env.store.Close(); err != nil {
		t.Fatal(err)
	}

	rec := env.do(t, http.MethodPut, "/api/view/mode", map[string]bool{"editMode": true})
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	if env.view.Editing() {
		t.Error("view switched to edit mode although saving failed")
	}
	if rec := env.do(t, http.MethodPost, "/api/tasks", map[string]string{"taskName": "x"}); rec.Code != http.StatusConflict {
		t.Errorf("expected 409 for task create, got %d", rec.Code)
	}
	if !strings.Contains(env.do(t, http.MethodGet, "/metrics", nil).Body.String(), "taskgrid_edit_mode 0") {
		t.Error("edit mode gauge changed")
	}
}
