package cli

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/patternlock/internal/pattern"
)

// lockSchema constrains the lock struct of a config file and supplies
// its defaults. #Lock is closed, so misspelled fields are rejected.
const lockSchema = `
#Lock: {
	width:   *400 | int & >0
	height:  *400 | int & >0
	rows:    *3 | int & >=1
	cols:    *3 | int & >=1
	pattern: *"" | string
	hint:    *false | bool
}

lock: #Lock
`

// LockConfig is the decoded lock struct of a config file.
type LockConfig struct {
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Rows    int    `json:"rows"`
	Cols    int    `json:"cols"`
	Pattern string `json:"pattern"`
	Hint    bool   `json:"hint"`
}

// DefaultLockConfig returns the configuration of an empty lock struct.
func DefaultLockConfig() LockConfig {
	return LockConfig{Width: 400, Height: 400, Rows: 3, Cols: 3}
}

// Layout returns the configured grid layout.
func (c LockConfig) Layout() pattern.Layout {
	return pattern.Layout{Rows: c.Rows, Cols: c.Cols}
}

// Grid builds the configured grid.
func (c LockConfig) Grid() (*pattern.Grid, error) {
	return pattern.BuildLayout(c.Width, c.Height, c.Layout())
}

// LoadError is a configuration error with an optional CUE source position.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Error code constants, shared by all commands.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeReadFailed   = "E002" // File read error
	ErrCodeNoLock       = "E003" // No lock struct in config
	ErrCodeLoadFailed   = "E004" // CUE compile failed
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeBuildFailed  = "E006" // CUE validation or decode failed
	ErrCodeGrid         = "E007" // Grid cannot be built from the config
	ErrCodeScript       = "E010" // Invalid session script
	ErrCodeStore        = "E020" // Journal could not be opened or read
	ErrCodeReplay       = "E021" // Replay diverged from the journal
	ErrCodeTestFailed   = "E030" // Scenario failures
	ErrCodeInvalidToken = "E040" // Token has no usable points
)

// LoadLockConfig reads a CUE config file and returns its lock struct with
// defaults applied. The returned error is always a *LoadError.
func LoadLockConfig(path string) (LockConfig, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return LockConfig{}, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("config file not found: %s", path)}
	}
	if err != nil {
		return LockConfig{}, &LoadError{Code: ErrCodeReadFailed, Message: fmt.Sprintf("reading config: %v", err)}
	}
	return ParseLockConfig(path, data)
}

// ParseLockConfig is LoadLockConfig for in-memory source. filename is used
// in error positions.
func ParseLockConfig(filename string, data []byte) (LockConfig, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(lockSchema, cue.Filename("lock_schema.cue"))
	if err := schema.Err(); err != nil {
		return LockConfig{}, &LoadError{Code: ErrCodeGeneric, Message: fmt.Sprintf("lock schema: %v", err)}
	}

	user := ctx.CompileBytes(data, cue.Filename(filename))
	if err := user.Err(); err != nil {
		return LockConfig{}, cueLoadError(ErrCodeLoadFailed, err)
	}
	if !user.LookupPath(cue.ParsePath("lock")).Exists() {
		return LockConfig{}, &LoadError{Code: ErrCodeNoLock, Message: fmt.Sprintf("no lock struct in %s", filename)}
	}

	value := schema.Unify(user)
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return LockConfig{}, cueLoadError(ErrCodeBuildFailed, err)
	}

	var cfg LockConfig
	if err := value.LookupPath(cue.ParsePath("lock")).Decode(&cfg); err != nil {
		return LockConfig{}, cueLoadError(ErrCodeBuildFailed, err)
	}

	if _, err := cfg.Grid(); err != nil {
		return LockConfig{}, &LoadError{Code: ErrCodeGrid, Message: err.Error()}
	}

	return cfg, nil
}

// cueLoadError converts a CUE error, keeping the first source position.
func cueLoadError(code string, err error) *LoadError {
	le := &LoadError{Code: code, Message: err.Error()}
	for _, e := range cueerrors.Errors(err) {
		if pos := e.Position(); pos.IsValid() {
			le.Pos = pos
			break
		}
	}
	return le
}
