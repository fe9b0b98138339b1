package config

const (
	defaultDataDir          = "~/.local/share/lacquer"
	defaultLogDir           = "~/.local/share/lacquer/logs"
	defaultAPIBind          = "127.0.0.1:7718"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultMatchThreshold   = 0.92
	defaultSuggestThreshold = 0.75
	defaultMaxCandidates    = 5
	defaultUser             = "default"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		Resolver: Resolver{
			MatchThreshold:   defaultMatchThreshold,
			SuggestThreshold: defaultSuggestThreshold,
			MaxCandidates:    defaultMaxCandidates,
			DefaultUser:      defaultUser,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
