package supervisor

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Defaults for the launch parameters. These match the layout the desktop
// shell ships with: a sibling backend directory holding a pre-provisioned
// virtualenv, and a uvicorn app listening on loopback.
const (
	DefaultRunner = "uvicorn"
	DefaultApp    = "main:app"
	DefaultHost   = "127.0.0.1"
	DefaultPort   = 8000

	DefaultOutLogName    = "backend_out.log"
	DefaultErrLogName    = "backend_err.log"
	DefaultOKStatusName  = "tauri_spawn_ok.log"
	DefaultErrStatusName = "tauri_spawn_err.log"
)

// Config holds every parameter of a backend launch. The zero value is not
// usable directly; empty fields are filled in from the defaults above when
// the Supervisor is constructed, so a caller only sets what it wants to
// override.
type Config struct {
	// BackendDir is the backend's working directory. Relative paths are
	// resolved against the process working directory.
	BackendDir string `yaml:"backend_dir"`

	// Interpreter is the path of the interpreter binary used to run the
	// backend. Relative paths are resolved against BackendDir. When empty,
	// the virtualenv interpreter inside BackendDir is used.
	Interpreter string `yaml:"interpreter"`

	// Runner is the module invoked with "-m" to serve the app.
	Runner string `yaml:"runner"`

	// App is the "<module>:<object>" reference the runner serves.
	App string `yaml:"app"`

	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// Log and status file names, all created inside BackendDir.
	OutLogName    string `yaml:"out_log"`
	ErrLogName    string `yaml:"err_log"`
	OKStatusName  string `yaml:"ok_status"`
	ErrStatusName string `yaml:"err_status"`
}

// LoadConfig reads a YAML config file. Fields absent from the file keep
// their zero value and are defaulted at construction time.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config file %q: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Runner == "" {
		c.Runner = DefaultRunner
	}
	if c.App == "" {
		c.App = DefaultApp
	}
	if c.Host == "" {
		c.Host = DefaultHost
	}
	if c.Port == 0 {
		c.Port = DefaultPort
	}
	if c.OutLogName == "" {
		c.OutLogName = DefaultOutLogName
	}
	if c.ErrLogName == "" {
		c.ErrLogName = DefaultErrLogName
	}
	if c.OKStatusName == "" {
		c.OKStatusName = DefaultOKStatusName
	}
	if c.ErrStatusName == "" {
		c.ErrStatusName = DefaultErrStatusName
	}
	if c.Interpreter == "" {
		c.Interpreter = defaultInterpreter()
	}
}

// Args returns the exact argument vector passed to the interpreter.
func (c *Config) Args() []string {
	return []string{
		"-m", c.Runner,
		c.App,
		"--host", c.Host,
		"--port", strconv.Itoa(c.Port),
	}
}

// InterpreterPath returns the interpreter path resolved against BackendDir.
func (c *Config) InterpreterPath() string {
	if filepath.IsAbs(c.Interpreter) {
		return c.Interpreter
	}
	return filepath.Join(c.BackendDir, c.Interpreter)
}

// Addr returns the host:port the backend is expected to listen on.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

func (c *Config) outLogPath() string    { return filepath.Join(c.BackendDir, c.OutLogName) }
func (c *Config) errLogPath() string    { return filepath.Join(c.BackendDir, c.ErrLogName) }
func (c *Config) okStatusPath() string  { return filepath.Join(c.BackendDir, c.OKStatusName) }
func (c *Config) errStatusPath() string { return filepath.Join(c.BackendDir, c.ErrStatusName) }

func defaultInterpreter() string {
	if runtime.GOOS == "windows" {
		return filepath.Join(".venv", "Scripts", "python.exe")
	}
	return filepath.Join(".venv", "bin", "python")
}
