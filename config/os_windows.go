//go:build windows

package config

import (
	"os"
	"strings"

	"golang.org/x/sys/windows"
	"golang.org/x/sys/windows/registry"
	"golang.org/x/term"
)

// CleanFileName removes characters not allowed in file names and leading
// dots, so generated skeletons never become hidden files.
func CleanFileName(in string) string {
	out := strings.TrimLeft(strings.Map(func(sym rune) rune {
		if sym == 0 || strings.ContainsRune(`<>":/\|?*`+string(os.PathSeparator)+string(os.PathListSeparator), sym) {
			return -1
		}
		return sym
	}, in), ".")
	if len(out) == 0 {
		out = "_bad_file_name_"
	}
	return out
}

// EnableColorOutput checks if colorized output is possible and
// enables proper VT100 sequence processing in Windows console.
func EnableColorOutput(stream *os.File) bool {
	if colorDisabled() || !term.IsTerminal(int(stream.Fd())) {
		return false
	}

	k, err := registry.OpenKey(registry.LOCAL_MACHINE, `SOFTWARE\Microsoft\Windows NT\CurrentVersion`, registry.QUERY_VALUE)
	if err != nil {
		return false
	}
	defer k.Close()

	// VT sequences need Windows 10 console
	if v, _, err := k.GetIntegerValue("CurrentMajorVersionNumber"); err != nil || v < 10 {
		return false
	}

	var mode uint32
	if err := windows.GetConsoleMode(windows.Handle(stream.Fd()), &mode); err != nil {
		return false
	}

	const enableVirtualTerminalProcessing uint32 = 0x4
	return windows.SetConsoleMode(windows.Handle(stream.Fd()), mode|enableVirtualTerminalProcessing) == nil
}
