package arch

import (
	"fmt"
	"runtime"
)

type Arch uint64

const ( // architecture enum
	ARCH_UNSET Arch = iota
	ARCH_AARCH64
	ARCH_X86_64
)

// mockable for testing
var runtimeGOARCH = runtime.GOARCH

func (a Arch) String() string {
	switch a {
	case ARCH_AARCH64:
		return "aarch64"
	case ARCH_X86_64:
		return "x86_64"
	default:
		panic("invalid architecture")
	}
}

// GoArch returns the name the Go toolchain uses for the architecture,
// e.g. "amd64" for x86_64.
func (a Arch) GoArch() string {
	switch a {
	case ARCH_AARCH64:
		return "arm64"
	case ARCH_X86_64:
		return "amd64"
	default:
		panic("invalid architecture")
	}
}

// FromString parses an architecture name as it appears in build
// manifests and descriptors.
func FromString(name string) (Arch, error) {
	switch name {
	case "aarch64", "arm64":
		return ARCH_AARCH64, nil
	case "x86_64", "amd64":
		return ARCH_X86_64, nil
	default:
		return ARCH_UNSET, fmt.Errorf("unsupported architecture %q", name)
	}
}

// Current returns the architecture of the running host.
func Current() Arch {
	switch runtimeGOARCH {
	case "arm64":
		return ARCH_AARCH64
	case "amd64":
		return ARCH_X86_64
	default:
		panic("unsupported architecture")
	}
}

func IsAarch64() bool {
	return Current() == ARCH_AARCH64
}

func IsX86_64() bool {
	return Current() == ARCH_X86_64
}
