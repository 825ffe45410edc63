package service

import (
	"context"

	"github.com/BuzzLyutic/taskboard/internal/model"
)

type ThemeStore interface {
	LoadTheme(ctx context.Context) model.Theme
	SaveTheme(ctx context.Context, theme model.Theme)
}

type ThemeService struct {
	store ThemeStore
}

func NewThemeService(store ThemeStore) *ThemeService {
	return &ThemeService{store: store}
}

func (s *ThemeService) Get(ctx context.Context) model.Theme {
	return s.store.LoadTheme(ctx)
}

func (s *ThemeService) Set(ctx context.Context, theme model.Theme) error {
	if !theme.Valid() {
		verr := model.NewValidationError()
		verr.Add("theme", "Theme must be light or dark")
		return verr
	}
	s.store.SaveTheme(ctx, theme)
	return nil
}

func (s *ThemeService) Toggle(ctx context.Context) model.Theme {
	next := s.store.LoadTheme(ctx).Toggle()
	s.store.SaveTheme(ctx, next)
	return next
}
