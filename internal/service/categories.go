package service

import (
	"context"

	"tracker/internal/core"
	"tracker/internal/storage"
)

// CategoryService exposes the category reference set for a namespace,
// seeding the defaults on first read.
type CategoryService struct {
	store storage.Store
}

func NewCategoryService(store storage.Store) *CategoryService {
	return &CategoryService{store: store}
}

// List returns the namespace's categories. An empty or missing document
// yields the default set; the defaults are not written back, reads stay
// side-effect free.
func (s *CategoryService) List(ctx context.Context, userID string) []core.Category {
	categories := storage.Load(ctx, s.store, storage.Key(userID, storage.KindCategories), []core.Category(nil))
	if len(categories) == 0 {
		out := make([]core.Category, len(core.DefaultCategories))
		copy(out, core.DefaultCategories)
		return out
	}
	return categories
}
