package config

const (
	defaultDataDir      = "~/.local/share/deltakey"
	defaultSessionDir   = "~/.local/share/deltakey/sessions"
	defaultLogDir       = "~/.local/share/deltakey/logs"
	defaultAPIBind      = "127.0.0.1:8750"
	defaultCharsFile    = "chars"
	defaultSpecsFile    = "specs"
	defaultItemsFile    = "items"
	defaultMaxAutoSteps = 50
	defaultLogFormat    = "console"
	defaultLogLevel     = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:    defaultDataDir,
			SessionDir: defaultSessionDir,
			LogDir:     defaultLogDir,
			APIBind:    defaultAPIBind,
		},
		Dataset: Dataset{
			CharactersFile:     defaultCharsFile,
			SpecificationsFile: defaultSpecsFile,
			ItemsFile:          defaultItemsFile,
		},
		Key: Key{
			MaxAutoSteps: defaultMaxAutoSteps,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
