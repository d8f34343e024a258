package process

import (
	"os"
	"strings"
	"sync"
)

// Host names the machine a process lives on. The zero value means the local
// machine. Entities resolved against a remote host are read-only: control
// operations fail with ErrNotSupported before any OS call is made.
type Host string

const Localhost Host = ""

var localHostName = sync.OnceValue(func() string {
	name, err := os.Hostname()
	if err != nil {
		return ""
	}
	return name
})

// IsLocal reports whether the host refers to the local machine.
// "", ".", "localhost" and the local machine name (case-insensitive) all do.
func (h Host) IsLocal() bool {
	switch {
	case h == Localhost || h == ".":
		return true
	case strings.EqualFold(string(h), "localhost"):
		return true
	default:
		return strings.EqualFold(string(h), localHostName())
	}
}
