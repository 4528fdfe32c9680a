// Package open hands URLs to the desktop's default handler.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"

	"github.com/kptv-cli/kptv/constant"
)

// launchers build the opener command per platform.
var launchers = map[string]func(url string) *exec.Cmd{
	constant.Windows: func(url string) *exec.Cmd {
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", url)
	},
	constant.Darwin:  func(url string) *exec.Cmd { return exec.Command("open", url) },
	constant.Linux:   func(url string) *exec.Cmd { return exec.Command("xdg-open", url) },
	constant.Android: func(url string) *exec.Cmd { return exec.Command("termux-open", url) },
}

// Start opens url without waiting for the handler to exit.
func Start(url string) error {
	launch, ok := launchers[runtime.GOOS]
	if !ok {
		return fmt.Errorf("opening links is not supported on %s", runtime.GOOS)
	}
	if err := launch(url).Start(); err != nil {
		return fmt.Errorf("open %s: %w", url, err)
	}
	return nil
}
