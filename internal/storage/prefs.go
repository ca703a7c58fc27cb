package storage

import "context"

// ThemeMode returns the stored theme mode, defaulting to ThemeSystem.
func (s *Store) ThemeMode(ctx context.Context) (string, error) {
	mode, ok, err := s.Get(ctx, KeyThemeMode)
	if err != nil {
		return "", err
	}
	if !ok {
		return ThemeSystem, nil
	}
	return mode, nil
}

func (s *Store) SetThemeMode(ctx context.Context, mode string) error {
	return s.Set(ctx, KeyThemeMode, mode)
}

// DarkMode reports the stored dark-mode toggle, defaulting to false.
func (s *Store) DarkMode(ctx context.Context) (bool, error) {
	v, ok, err := s.Get(ctx, KeyDarkMode)
	if err != nil {
		return false, err
	}
	return ok && v == "true", nil
}

func (s *Store) SetDarkMode(ctx context.Context, enabled bool) error {
	return s.Set(ctx, KeyDarkMode, boolValue(enabled))
}

// SelectedAvatar returns the stored avatar choice, or "" when unset.
func (s *Store) SelectedAvatar(ctx context.Context) (string, error) {
	v, _, err := s.Get(ctx, KeySelectedAvatar)
	return v, err
}

func (s *Store) SetSelectedAvatar(ctx context.Context, avatar string) error {
	return s.Set(ctx, KeySelectedAvatar, avatar)
}

// CustomBackground returns the stored background choice, or "" when
// unset.
func (s *Store) CustomBackground(ctx context.Context) (string, error) {
	v, _, err := s.Get(ctx, KeyCustomBackground)
	return v, err
}

func (s *Store) SetCustomBackground(ctx context.Context, background string) error {
	return s.Set(ctx, KeyCustomBackground, background)
}

// IsFirstLaunch reports whether this install has completed a first
// run. Defaults to true until SetFirstLaunchComplete is called.
func (s *Store) IsFirstLaunch(ctx context.Context) (bool, error) {
	v, ok, err := s.Get(ctx, KeyFirstLaunch)
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	return v == "true", nil
}

func (s *Store) SetFirstLaunchComplete(ctx context.Context) error {
	return s.Set(ctx, KeyFirstLaunch, "false")
}

func boolValue(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
