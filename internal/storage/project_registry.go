package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"seomaster/internal/models"
)

const (
	projectListKey   = "projects:list"
	activeProjectKey = "projects:active"

	projectCacheKey = "projects"
)

// ProjectRegistry manages the ordered list of projects and the
// active-project pointer. Reads are tolerant: empty or corrupt storage
// yields the built-in default set so callers always have a project to work
// with.
type ProjectRegistry struct {
	redis *redis.Client
	cache *LRUCache
}

// NewProjectRegistry creates a project registry.
func NewProjectRegistry(client *redis.Client, cacheSize int, cacheTTL time.Duration) *ProjectRegistry {
	return &ProjectRegistry{
		redis: client,
		cache: NewLRUCache(cacheSize, cacheTTL),
	}
}

// List returns the project list in insertion order. On empty or unreadable
// storage it returns the default set, never an error and never nil.
func (r *ProjectRegistry) List(ctx context.Context) []models.Project {
	if cached, ok := r.cache.Get(projectCacheKey); ok {
		return cloneProjects(cached.([]models.Project))
	}

	raw, err := r.redis.Get(ctx, projectListKey).Result()
	if err != nil {
		return models.DefaultProjects()
	}

	var projects []models.Project
	if err := json.Unmarshal([]byte(raw), &projects); err != nil || len(projects) == 0 {
		return models.DefaultProjects()
	}

	r.cache.Set(projectCacheKey, cloneProjects(projects))
	return projects
}

// Upsert inserts or replaces a project by id. A blank id gets a
// timestamp-based one assigned, matching the ids the original client
// generated.
func (r *ProjectRegistry) Upsert(ctx context.Context, project models.Project) (models.Project, error) {
	if project.ID == "" {
		project.ID = models.NewProjectID(time.Now())
	}
	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now().UTC()
	}

	projects := r.List(ctx)
	replaced := false
	for i := range projects {
		if projects[i].ID == project.ID {
			projects[i] = project
			replaced = true
			break
		}
	}
	if !replaced {
		projects = append(projects, project)
	}

	if err := r.save(ctx, projects); err != nil {
		return models.Project{}, err
	}
	return project, nil
}

// SetActive persists the active-project pointer. The id is not validated
// against the list; Active compensates for dangling pointers.
func (r *ProjectRegistry) SetActive(ctx context.Context, id string) error {
	if err := r.redis.Set(ctx, activeProjectKey, id, 0).Err(); err != nil {
		return fmt.Errorf("failed to set active project: %w", err)
	}
	return nil
}

// Active resolves the active project. When the pointer is unset or no
// longer matches a listed project, it falls back to the first project in
// the list rather than surfacing a dangling id.
func (r *ProjectRegistry) Active(ctx context.Context) models.Project {
	projects := r.List(ctx)

	id, err := r.redis.Get(ctx, activeProjectKey).Result()
	if err != nil {
		id = models.DefaultProjectID
	}

	for _, p := range projects {
		if p.ID == id {
			return p
		}
	}
	return projects[0]
}

// Get returns a project by id.
func (r *ProjectRegistry) Get(ctx context.Context, id string) (models.Project, error) {
	for _, p := range r.List(ctx) {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Project{}, ErrProjectNotFound
}

func (r *ProjectRegistry) save(ctx context.Context, projects []models.Project) error {
	raw, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("failed to marshal project list: %w", err)
	}

	if err := r.redis.Set(ctx, projectListKey, raw, 0).Err(); err != nil {
		return fmt.Errorf("failed to store project list: %w", err)
	}

	r.cache.Set(projectCacheKey, cloneProjects(projects))
	return nil
}

func cloneProjects(in []models.Project) []models.Project {
	out := make([]models.Project, len(in))
	copy(out, in)
	return out
}
