package generate

// Arch enumerates the supported target architectures.
type Arch int

const (
	ArchI386 = Arch(iota)
	ArchX86_64
	ArchAArch64
)

// Platform enumerates the supported target platforms.
type Platform int

const (
	PlatformWindows = Platform(iota)
	PlatformMacOS
	PlatformLinux
)

// TargetTriple is the (architecture, platform) pair compilation targets.
type TargetTriple struct {
	Arch     Arch
	Platform Platform
}

// LLVMTriple renders the LLVM target triple for the pair.  Examples:
//
//	i386-pc-windows-msvc
//	x86_64-pc-linux-gnu
func (tt TargetTriple) LLVMTriple() string {
	var triple string
	switch tt.Arch {
	case ArchI386:
		triple = "i386"
	case ArchX86_64:
		triple = "x86_64"
	case ArchAArch64:
		triple = "aarch64"
	}

	switch tt.Platform {
	case PlatformWindows:
		triple += "-pc-windows-msvc"
	case PlatformMacOS:
		triple += "-apple-darwin"
	case PlatformLinux:
		triple += "-pc-linux-gnu"
	}

	return triple
}

// ArchName renders the architecture's canonical name.
func (tt TargetTriple) ArchName() string {
	switch tt.Arch {
	case ArchI386:
		return "i386"
	case ArchAArch64:
		return "aarch64"
	}

	return "x86_64"
}

// PlatformName renders the platform's canonical name.
func (tt TargetTriple) PlatformName() string {
	switch tt.Platform {
	case PlatformWindows:
		return "windows"
	case PlatformMacOS:
		return "macos"
	}

	return "linux"
}

// ParseArch parses an architecture name.
func ParseArch(name string) (Arch, bool) {
	switch name {
	case "i386":
		return ArchI386, true
	case "x86_64", "amd64":
		return ArchX86_64, true
	case "aarch64", "arm64":
		return ArchAArch64, true
	}

	return 0, false
}

// ParsePlatform parses a platform name.
func ParsePlatform(name string) (Platform, bool) {
	switch name {
	case "windows":
		return PlatformWindows, true
	case "macos", "darwin":
		return PlatformMacOS, true
	case "linux":
		return PlatformLinux, true
	}

	return 0, false
}
