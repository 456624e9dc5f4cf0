package main

import (
	"io"
	"os"
)

var Run = run

func MockOsArgs(new []string) (restore func()) {
	saved := os.Args
	os.Args = append([]string{"buildsys"}, new...)
	return func() {
		os.Args = saved
	}
}

func MockOsStdout(new io.Writer) (restore func()) {
	saved := osStdout
	osStdout = new
	return func() {
		osStdout = saved
	}
}
