package capture

// default snapshot settings
const (
	DefaultWidth   = 320
	DefaultHeight  = 240
	DefaultQuality = 70
)

type config struct {
	width   int
	height  int
	quality int
}

// An Option customizes a Widget.
type Option func(*config)

// WithSize sets the size of the snapshot raster. Non-positive values keep the default.
func WithSize(width, height int) Option {
	return func(cfg *config) {
		if width > 0 && height > 0 {
			cfg.width, cfg.height = width, height
		}
	}
}

// WithQuality sets the JPEG quality, 1 to 100.
func WithQuality(quality int) Option {
	return func(cfg *config) {
		if quality >= 1 && quality <= 100 {
			cfg.quality = quality
		}
	}
}

func getConfig(options ...Option) *config {
	cfg := &config{width: DefaultWidth, height: DefaultHeight, quality: DefaultQuality}
	for _, o := range options {
		o(cfg)
	}
	return cfg
}
