package core

// RuntimeConfig contains settings for a viewer session.
type RuntimeConfig struct {
	ScreenW  int   // Screen width in characters
	ScreenH  int   // Screen height in characters
	TickRate int   // Viewer ticks per second
	WaveStep int   // Ticks between automatic wave advances
	Seed     int64 // RNG seed for reproducible maps
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 10,
		WaveStep: 5,
		Seed:     0, // 0 means use current time
	}
}
