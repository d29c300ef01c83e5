// Package open hands watch pages to a browser.
package open

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/cinewatch/cinewatch/constant"
)

// URL opens u in app without waiting for it to exit. An empty app uses the
// system default handler.
func URL(u, app string) error {
	cmd, err := command(u, app)
	if err != nil {
		return err
	}
	return cmd.Start()
}

func command(u, app string) (*exec.Cmd, error) {
	if app == "" {
		return systemCommand(u)
	}

	switch runtime.GOOS {
	case constant.Windows:
		// start treats & as a command separator
		return exec.Command("cmd", "/C", "start", "", app, strings.ReplaceAll(u, "&", "^&")), nil
	case constant.Darwin:
		return exec.Command("open", "-a", app, u), nil
	case constant.Android:
		return exec.Command("termux-open", "--choose", u), nil
	default:
		return exec.Command(app, u), nil
	}
}

func systemCommand(u string) (*exec.Cmd, error) {
	switch runtime.GOOS {
	case constant.Windows:
		rundll := filepath.Join(os.Getenv("SYSTEMROOT"), "System32", "rundll32.exe")
		return exec.Command(rundll, "url.dll,FileProtocolHandler", u), nil
	case constant.Darwin:
		return exec.Command("open", u), nil
	case constant.Linux:
		return exec.Command("xdg-open", u), nil
	case constant.Android:
		return exec.Command("termux-open", u), nil
	default:
		return nil, fmt.Errorf("opening urls is not supported on %s", runtime.GOOS)
	}
}
