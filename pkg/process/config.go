package process

import (
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"
)

// StartConfig describes how to start a process. It is captured by Start and
// immutable afterwards: SetConfig on a started (or attached) Process fails
// with ErrInvalidOperation.
type StartConfig struct {
	// FileName is the program to run. Required.
	FileName string

	// Args are the program arguments, not including the program name.
	Args []string

	// Dir is the working directory. Empty means inherit.
	Dir string

	// Env holds NAME=VALUE overrides applied on top of the parent environment
	// (and on top of EnvFile entries, if both are present).
	Env []string

	// EnvFile optionally names a dotenv-format file whose entries are applied
	// on top of the parent environment.
	EnvFile string

	// InheritEnv controls whether the parent environment is the base of the
	// child environment. Defaults to true via NewStartConfig.
	InheritEnv bool

	// Stdout and Stderr receive the corresponding output streams when set;
	// nil discards the stream.
	Stdout io.Writer
	Stderr io.Writer

	// Stdin supplies the input stream when set; nil means no input.
	Stdin io.Reader

	// NewProcessGroup places the child in its own process group, shielding it
	// from signals and console control events aimed at the parent's group.
	NewProcessGroup bool
}

// NewStartConfig returns a StartConfig for the given program and arguments
// that inherits the parent environment.
func NewStartConfig(fileName string, args ...string) *StartConfig {
	return &StartConfig{
		FileName:   fileName,
		Args:       args,
		InheritEnv: true,
	}
}

func (c *StartConfig) validate() error {
	if c == nil {
		return fmt.Errorf("start configuration is nil: %w", ErrInvalidArgument)
	}
	if c.FileName == "" {
		return fmt.Errorf("start configuration has no file name: %w", ErrInvalidArgument)
	}
	return nil
}

// environment builds the child environment: parent environment (if inherited),
// then EnvFile entries, then Env overrides. Later entries win.
func (c *StartConfig) environment() ([]string, error) {
	var env []string
	if c.InheritEnv {
		env = os.Environ()
	}

	if c.EnvFile != "" {
		fileVars, err := godotenv.Read(c.EnvFile)
		if err != nil {
			return nil, fmt.Errorf("could not read environment file %q: %w", c.EnvFile, err)
		}
		for name, value := range fileVars {
			env = append(env, name+"="+value)
		}
	}

	env = append(env, c.Env...)
	return env, nil
}

// clone returns a deep copy so that callers cannot mutate the captured
// configuration after Start.
func (c *StartConfig) clone() *StartConfig {
	cp := *c
	cp.Args = append([]string(nil), c.Args...)
	cp.Env = append([]string(nil), c.Env...)
	return &cp
}
