package config

const (
	defaultStateDir        = "~/.local/share/tonearm"
	defaultCacheDir        = "~/.cache/tonearm/media"
	defaultLogDir          = "~/.local/share/tonearm/logs"
	defaultMusicDir        = "~/music"
	defaultLogFormat       = ""
	defaultLogLevel        = "info"
	defaultMediaCacheMaxMB = 2048
)

var defaultScanExtensions = []string{".mp3", ".flac", ".ogg", ".m4a", ".wav"}

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			StateDir: defaultStateDir,
			CacheDir: defaultCacheDir,
			LogDir:   defaultLogDir,
		},
		Remote: Remote{
			UseSSL: true,
		},
		MediaCache: MediaCache{
			Enabled: true,
			MaxMiB:  defaultMediaCacheMaxMB,
		},
		Scanner: Scanner{
			MusicDir:   defaultMusicDir,
			Extensions: append([]string(nil), defaultScanExtensions...),
		},
		Logging: Logging{
			Level:  defaultLogLevel,
			Format: defaultLogFormat,
		},
	}
}
