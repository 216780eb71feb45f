package preferences

const (
	ThemeLight = "light"
	ThemeDark  = "dark"

	DirectionLTR = "ltr"
	DirectionRTL = "rtl"
)

// Theme returns the stored theme, or the system theme if none (or an
// unrecognised one) is stored.
func Theme(s Store, systemDark bool) string {
	if v, ok := s.Get(KeyTheme); ok && (v == ThemeLight || v == ThemeDark) {
		return v
	}
	if systemDark {
		return ThemeDark
	}
	return ThemeLight
}

// ToggleTheme flips the theme, stores it and returns it.
func ToggleTheme(s Store, systemDark bool) string {
	next := ThemeLight
	if Theme(s, systemDark) == ThemeLight {
		next = ThemeDark
	}
	s.Set(KeyTheme, next)
	return next
}

// Direction returns the stored text direction, defaulting to ltr.
func Direction(s Store) string {
	if v, ok := s.Get(KeyDirection); ok && (v == DirectionLTR || v == DirectionRTL) {
		return v
	}
	return DirectionLTR
}

// ToggleDirection flips the text direction, stores it and returns it.
func ToggleDirection(s Store) string {
	next := DirectionLTR
	if Direction(s) == DirectionLTR {
		next = DirectionRTL
	}
	s.Set(KeyDirection, next)
	return next
}
