package tasklist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"taskgrid/internal/models"
)

// ErrEditing is returned when column settings are changed in edit mode.
var ErrEditing = errors.New("column settings are locked while editing")

// ErrViewing is returned when a task change is attempted outside edit mode.
var ErrViewing = errors.New("tasks can only be changed in edit mode")

const (
	settingMode    = "view.mode"
	settingColumns = "view.columns"
)

// SettingsStore persists view state between restarts.
type SettingsStore interface {
	GetSetting(ctx context.Context, key string) (string, error)
	SetSetting(ctx context.Context, key, value string) error
}

// Actions lists what the grid currently allows.
type Actions struct {
	Add       bool `json:"add"`
	Edit      bool `json:"edit"`
	Configure bool `json:"configure"`
}

// State is a snapshot of the view.
type State struct {
	Mode     models.ViewMode         `json:"mode"`
	EditMode bool                    `json:"editMode"`
	Columns  models.ColumnVisibility `json:"columns"`
	Actions  Actions                 `json:"actions"`
}

// View tracks the grid mode and column visibility. It is safe for concurrent use.
type View struct {
	mu       sync.Mutex
	settings SettingsStore
	mode     models.ViewMode
	columns  models.ColumnVisibility

	nextID    int
	listeners map[int]func(models.ViewMode)
}

// NewView returns a view in Viewing mode with all columns shown. settings may
// be nil, in which case nothing is persisted.
func NewView(settings SettingsStore) *View {
	return &View{
		settings:  settings,
		mode:      models.Viewing,
		columns:   models.AllColumns(),
		listeners: make(map[int]func(models.ViewMode)),
	}
}

// Load restores persisted state. Missing settings keep the defaults.
func (v *View) Load(ctx context.Context) error {
	if v.settings == nil {
		return nil
	}

	mode, err := v.settings.GetSetting(ctx, settingMode)
	if err != nil {
		return fmt.Errorf("load view mode: %w", err)
	}
	rawColumns, err := v.settings.GetSetting(ctx, settingColumns)
	if err != nil {
		return fmt.Errorf("load column visibility: %w", err)
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	switch models.ViewMode(mode) {
	case models.Viewing, models.Editing:
		v.mode = models.ViewMode(mode)
	}
	if rawColumns != "" {
		columns := models.AllColumns()
		if err := json.Unmarshal([]byte(rawColumns), &columns); err != nil {
			return fmt.Errorf("decode column visibility: %w", err)
		}
		v.columns = columns
	}
	return nil
}

// State returns the current snapshot.
func (v *View) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stateLocked()
}

func (v *View) stateLocked() State {
	editing := v.mode == models.Editing
	return State{
		Mode:     v.mode,
		EditMode: editing,
		Columns:  v.columns,
		Actions: Actions{
			Add:       editing,
			Edit:      editing,
			Configure: !editing,
		},
	}
}

// Editing reports whether tasks may currently be added or changed.
func (v *View) Editing() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mode == models.Editing
}

// SetEditMode switches between viewing and editing. Entering edit mode makes
// every column visible again. Listeners run after the change, even when the
// mode did not actually change. Nothing changes when the state cannot be saved.
func (v *View) SetEditMode(ctx context.Context, editing bool) (State, error) {
	mode := models.Viewing
	if editing {
		mode = models.Editing
	}

	v.mu.Lock()
	columns := v.columns
	if editing {
		columns = models.AllColumns()
	}
	if err := v.persist(ctx, mode, columns); err != nil {
		state := v.stateLocked()
		v.mu.Unlock()
		return state, err
	}
	v.mode = mode
	v.columns = columns
	state := v.stateLocked()
	listeners := make([]func(models.ViewMode), 0, len(v.listeners))
	for _, fn := range v.listeners {
		listeners = append(listeners, fn)
	}
	v.mu.Unlock()

	for _, fn := range listeners {
		fn(mode)
	}
	return state, nil
}

// SetColumns replaces the column visibility. It fails with ErrEditing in
// edit mode.
func (v *View) SetColumns(ctx context.Context, columns models.ColumnVisibility) (State, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.mode == models.Editing {
		return v.stateLocked(), ErrEditing
	}
	if err := v.persist(ctx, v.mode, columns); err != nil {
		return v.stateLocked(), err
	}
	v.columns = columns
	return v.stateLocked(), nil
}

// OnModeChange registers fn to be called after every SetEditMode. The
// returned function removes the registration.
func (v *View) OnModeChange(fn func(models.ViewMode)) func() {
	v.mu.Lock()
	id := v.nextID
	v.nextID++
	v.listeners[id] = fn
	v.mu.Unlock()

	return func() {
		v.mu.Lock()
		delete(v.listeners, id)
		v.mu.Unlock()
	}
}

// persist saves a candidate state. The caller holds v.mu so saves are not
// interleaved.
func (v *View) persist(ctx context.Context, mode models.ViewMode, columns models.ColumnVisibility) error {
	if v.settings == nil {
		return nil
	}
	rawColumns, err := json.Marshal(columns)
	if err != nil {
		return fmt.Errorf("encode column visibility: %w", err)
	}
	if err := v.settings.SetSetting(ctx, settingMode, string(mode)); err != nil {
		return fmt.Errorf("save view mode: %w", err)
	}
	if err := v.settings.SetSetting(ctx, settingColumns, string(rawColumns)); err != nil {
		return fmt.Errorf("save column visibility: %w", err)
	}
	return nil
}
