package floorplan

// RGBA is a color with components in [0, 1], alpha included.
type RGBA [4]float32

// Palette maps entity categories to colors. It is treated as immutable
// once handed to a Converter; inject a custom one to override the
// built-in scheme.
type Palette map[string]RGBA

const defaultColorKey = "DEFAULT"

// DefaultPalette returns the built-in category color table.
func DefaultPalette() Palette {
	return Palette{
		"BATHROOM":      {0.7, 0.9, 1.0, 1.0},
		"LIVING_ROOM":   {1.0, 0.9, 0.7, 1.0},
		"KITCHEN":       {1.0, 0.8, 0.8, 1.0},
		"ROOM":          {0.9, 1.0, 0.9, 1.0},
		"BEDROOM":       {0.9, 1.0, 0.9, 1.0},
		"BALCONY":       {0.8, 0.8, 1.0, 1.0},
		"CORRIDOR":      {0.95, 0.95, 0.95, 1.0},
		"SHAFT":         {0.6, 0.6, 0.6, 1.0},
		"DINING":        {1.0, 0.95, 0.8, 1.0},
		"WALL":          {0.5, 0.5, 0.5, 1.0},
		"DOOR":          {0.6, 0.4, 0.2, 1.0},
		"WINDOW":        {0.7, 0.9, 1.0, 0.5},
		"ENTRANCE_DOOR": {0.4, 0.3, 0.2, 1.0},
		defaultColorKey: {0.8, 0.8, 0.8, 1.0},
	}
}

// Resolve looks up a color by entity subtype, falling back to the entity
// type and finally the DEFAULT entry. It never fails as long as the
// palette carries a DEFAULT color.
func (p Palette) Resolve(subtype, entityType string) RGBA {
	if c, ok := p[subtype]; ok {
		return c
	}
	if c, ok := p[entityType]; ok {
		return c
	}
	return p[defaultColorKey]
}
