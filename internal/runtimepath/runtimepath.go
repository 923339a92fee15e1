package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dir returns the runtime directory used for the control socket.
// Priority:
// 1) XDG_RUNTIME_DIR (if set)
// 2) /run/user/<uid> (if present)
// 3) /tmp/dragonwm-runtime-<uid> (created)
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	tmpDir := fmt.Sprintf("/tmp/dragonwm-runtime-%d", uid)
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// SocketPath returns the control socket path. Each X display gets its own
// socket so nested sessions (Xephyr) do not collide.
func SocketPath(display string) (string, error) {
	runtimeDir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(runtimeDir, "dragonwm"+displaySuffix(display)+".sock"), nil
}

// displaySuffix turns ":1.0" into "-1"; the default display gets no suffix.
func displaySuffix(display string) string {
	if display == "" {
		display = os.Getenv("DISPLAY")
	}
	num := ""
	for i := len(display) - 1; i >= 0; i-- {
		if display[i] == ':' {
			num = display[i+1:]
			break
		}
	}
	for i := 0; i < len(num); i++ {
		if num[i] == '.' {
			num = num[:i]
			break
		}
	}
	if num == "" || num == "0" {
		return ""
	}
	return "-" + num
}
