package cli

import (
	"context"
	"errors"
	"sync"

	"github.com/Miiduoa/tired-sub002/internal/app"
	"github.com/google/uuid"
)

// ErrNotInitialized is returned when a command needs the database but no
// application could be built.
var ErrNotInitialized = errors.New("application not initialized - database connection required")

// App holds the CLI application dependencies.
type App struct {
	*app.Container

	// Current user (configured per environment)
	CurrentUserID uuid.UUID
}

// NewApp wraps a container for the local user.
func NewApp(container *app.Container) (*App, error) {
	userID, err := container.UserID()
	if err != nil {
		return nil, err
	}
	return &App{Container: container, CurrentUserID: userID}, nil
}

// Factory builds the application on first use, so commands that work
// offline never open the database.
type Factory func(ctx context.Context) (*App, error)

var (
	mu      sync.Mutex
	factory Factory
	current *App
)

// SetFactory sets how the application is built.
func SetFactory(f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factory = f
}

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	mu.Lock()
	defer mu.Unlock()
	current = a
}

// GetApp returns the application, building it on the first call.
func GetApp(ctx context.Context) (*App, error) {
	mu.Lock()
	defer mu.Unlock()
	if current != nil {
		return current, nil
	}
	if factory == nil {
		return nil, ErrNotInitialized
	}
	a, err := factory(ctx)
	if err != nil {
		return nil, err
	}
	current = a
	return current, nil
}

// CloseApp closes the application if it was built.
func CloseApp() {
	mu.Lock()
	defer mu.Unlock()
	if current != nil && current.Container != nil {
		current.Close()
	}
	current = nil
}
