package osutil

import "runtime"

var (
	lf   = []byte("\n")
	crlf = []byte("\r\n")
)

func LF() []byte {
	return lf
}

func CRLF() []byte {
	return crlf
}

func IsWindows() bool {
	return runtime.GOOS == "windows"
}

func LineSep() []byte {
	if IsWindows() {
		return crlf
	} else {
		return lf
	}
}
