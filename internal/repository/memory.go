package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/OsGift/focusflow-api/internal/models"
)

// MemoryTaskRepository is an in-memory TaskRepository. It backs the engine
// and aggregator tests; the HTTP service always runs on Mongo.
type MemoryTaskRepository struct {
	mu    sync.RWMutex
	tasks map[primitive.ObjectID]*models.Task
}

// NewMemoryTaskRepository creates an empty in-memory task store
func NewMemoryTaskRepository() *MemoryTaskRepository {
	return &MemoryTaskRepository{tasks: make(map[primitive.ObjectID]*models.Task)}
}

func (r *MemoryTaskRepository) Insert(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

func (r *MemoryTaskRepository) FindByID(_ context.Context, userID, id primitive.ObjectID) (*models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	task, ok := r.tasks[id]
	if !ok || task.UserID != userID {
		return nil, models.ErrNotFound
	}
	cp := *task
	return &cp, nil
}

func (r *MemoryTaskRepository) FindByUser(_ context.Context, userID primitive.ObjectID, filter models.TaskFilter) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Task
	for _, task := range r.tasks {
		if task.UserID != userID {
			continue
		}
		if filter.Completed != nil && task.Completed != *filter.Completed {
			continue
		}
		if filter.Priority != "" && task.Priority != filter.Priority {
			continue
		}
		if filter.Tag != "" && !containsTag(task.Tags, filter.Tag) {
			continue
		}
		if filter.Search != "" {
			needle := strings.ToLower(filter.Search)
			if !strings.Contains(strings.ToLower(task.Title), needle) &&
				!strings.Contains(strings.ToLower(task.Description), needle) {
				continue
			}
		}
		out = append(out, *task)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *MemoryTaskRepository) FindByUserInRange(_ context.Context, userID primitive.ObjectID, start, end time.Time) ([]models.Task, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.Task
	for _, task := range r.tasks {
		if task.UserID != userID {
			continue
		}
		createdIn := inRange(task.CreatedAt, start, end)
		completedIn := task.CompletedDate != nil && inRange(*task.CompletedDate, start, end)
		if createdIn || completedIn {
			out = append(out, *task)
		}
	}
	return out, nil
}

func (r *MemoryTaskRepository) Update(_ context.Context, task *models.Task) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.tasks[task.ID]
	if !ok || existing.UserID != task.UserID {
		return models.ErrNotFound
	}
	task.UpdatedAt = time.Now()
	cp := *task
	r.tasks[task.ID] = &cp
	return nil
}

func (r *MemoryTaskRepository) Delete(_ context.Context, userID, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok || task.UserID != userID {
		return models.ErrNotFound
	}
	delete(r.tasks, id)
	return nil
}

func (r *MemoryTaskRepository) AddProgress(_ context.Context, userID, id primitive.ObjectID, minutes, pomodoros int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	task, ok := r.tasks[id]
	if !ok || task.UserID != userID {
		return models.ErrNotFound
	}
	task.TimeSpent += minutes
	task.PomodoroCount += pomodoros
	task.UpdatedAt = time.Now()
	return nil
}

// MemoryTimeEntryRepository is an in-memory TimeEntryRepository
type MemoryTimeEntryRepository struct {
	mu      sync.RWMutex
	entries map[primitive.ObjectID]*models.TimeEntry
}

// NewMemoryTimeEntryRepository creates an empty in-memory entry store
func NewMemoryTimeEntryRepository() *MemoryTimeEntryRepository {
	return &MemoryTimeEntryRepository{entries: make(map[primitive.ObjectID]*models.TimeEntry)}
}

func (r *MemoryTimeEntryRepository) Insert(_ context.Context, entry *models.TimeEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry.ID.IsZero() {
		entry.ID = primitive.NewObjectID()
	}
	cp := *entry
	r.entries[entry.ID] = &cp
	return nil
}

func (r *MemoryTimeEntryRepository) FindByID(_ context.Context, userID, id primitive.ObjectID) (*models.TimeEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[id]
	if !ok || entry.UserID != userID {
		return nil, models.ErrNotFound
	}
	cp := *entry
	return &cp, nil
}

func (r *MemoryTimeEntryRepository) FindByUserInRange(_ context.Context, userID primitive.ObjectID, start, end time.Time) ([]models.TimeEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []models.TimeEntry
	for _, entry := range r.entries {
		if entry.UserID != userID {
			continue
		}
		if inRange(entry.StartTime, start, end) {
			out = append(out, *entry)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.After(out[j].StartTime) })
	return out, nil
}

func (r *MemoryTimeEntryRepository) Finalize(_ context.Context, entry *models.TimeEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.entries[entry.ID]
	if !ok || existing.UserID != entry.UserID {
		return models.ErrNotFound
	}
	if existing.EndTime != nil {
		return models.ErrAlreadyFinalized
	}
	existing.EndTime = entry.EndTime
	existing.DurationSeconds = entry.DurationSeconds
	return nil
}

// MemoryUserRepository is an in-memory UserRepository
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[primitive.ObjectID]*models.User
}

// NewMemoryUserRepository creates an empty in-memory user store
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[primitive.ObjectID]*models.User)}
}

func (r *MemoryUserRepository) Insert(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	cp := *user
	r.users[user.ID] = &cp
	return nil
}

func (r *MemoryUserRepository) FindByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	user, ok := r.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (r *MemoryUserRepository) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, user := range r.users {
		if user.Email == email {
			cp := *user
			return &cp, nil
		}
	}
	return nil, models.ErrNotFound
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func inRange(t, start, end time.Time) bool {
	return !t.Before(start) && !t.After(end)
}
