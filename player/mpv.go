package player

import (
	"crypto/rand"
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/cinewatch/cinewatch/constant"
	"github.com/cinewatch/cinewatch/log"
	"github.com/cinewatch/cinewatch/native"
	"github.com/cinewatch/cinewatch/where"
)

// ErrNotRunning is returned by commands sent before mpv is up or after it exited.
var ErrNotRunning = errors.New("mpv is not running")

const (
	socketWaitRetries = 10
	socketWaitDelay   = 300 * time.Millisecond
	quitTimeout       = 3 * time.Second
)

// MPV runs one mpv process per mount and talks to it over JSON IPC.
type MPV struct {
	// Binary is the executable to run.
	Binary string

	mu         sync.Mutex
	socketPath string
	cmd        *exec.Cmd
	exited     chan struct{}
	listener   *eventListener
	closing    bool
}

// NewMPV returns an mpv engine. The process starts on Open.
func NewMPV() *MPV {
	return &MPV{Binary: "mpv"}
}

// Open starts mpv with the first source of opts. It returns once the process
// has started; the IPC socket is awaited in the background and failures are
// emitted as error events.
func (m *MPV) Open(opts native.Options, emit func(native.Event)) error {
	target, err := sanitizeMediaTarget(opts.Source().URL)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	randomBytes := make([]byte, 4)
	if _, err := rand.Read(randomBytes); err != nil {
		return fmt.Errorf("generate socket name: %w", err)
	}
	socket := filepath.Join(where.Temp(), fmt.Sprintf("mpv-%x.sock", randomBytes))

	cmd := exec.Command(m.Binary, append(args(socket, opts), target)...)
	cmd.SysProcAttr = sysProcAttr()
	cmd.Stdout, cmd.Stderr, cmd.Stdin = nil, nil, nil

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start mpv: %w", err)
	}

	exited := make(chan struct{})
	m.mu.Lock()
	m.cmd, m.exited, m.socketPath = cmd, exited, socket
	m.mu.Unlock()

	go func() {
		_ = cmd.Wait()
		close(exited)

		m.mu.Lock()
		closing := m.closing
		m.mu.Unlock()
		if !closing {
			emit(native.Event{Kind: native.EventClosed})
		}
	}()

	go func() {
		if err := waitForSocket(socket, exited); err != nil {
			log.For("mpv").WithError(err).Warn("killing mpv: socket never became ready")
			_ = killProcess(cmd)
			emit(native.Event{Kind: native.EventError, Err: err})
			return
		}

		listener := newEventListener(socket, emit)
		if err := listener.start(); err != nil {
			emit(native.Event{Kind: native.EventError, Err: err})
			return
		}

		m.mu.Lock()
		if m.closing {
			m.mu.Unlock()
			listener.stop()
			return
		}
		m.listener = listener
		m.mu.Unlock()
	}()

	return nil
}

// args builds the mpv command line for opts, without the media target.
func args(socket string, opts native.Options) []string {
	title := sanitizeTitle(opts.Title)
	if title == "" {
		title = constant.Cinewatch
	}

	a := []string{
		"--no-terminal",
		"--really-quiet",
		"--input-ipc-server=" + socket,
		"--force-media-title=" + title,
		"--title=" + title,
		"--force-window=yes",
		"--keep-open=yes",
	}

	if !opts.Autoplay {
		a = append(a, "--pause")
	}
	if !opts.Controls {
		a = append(a, "--osc=no")
	}
	if opts.Width > 0 && opts.Height > 0 {
		a = append(a, fmt.Sprintf("--geometry=%dx%d", opts.Width, opts.Height))
	}

	switch opts.Preload {
	case native.PreloadNone:
		a = append(a, "--cache=no")
	case native.PreloadAuto:
		a = append(a, "--cache=yes")
	}

	switch opts.Tech() {
	case native.TechYouTube, native.TechVimeo:
		a = append(a, "--ytdl=yes", "--ytdl-format=bestvideo[height<=?1080]+bestaudio/best")
	default:
		a = append(a, "--ytdl=no")
	}

	return a
}

// waitForSocket polls until the mpv IPC socket is accepting connections.
func waitForSocket(socket string, exited <-chan struct{}) error {
	for i := 0; i < socketWaitRetries; i++ {
		select {
		case <-exited:
			return errors.New("mpv exited before socket was ready")
		case <-time.After(socketWaitDelay):
		}

		conn, err := net.Dial("unix", socket)
		if err == nil {
			_ = conn.Close()
			return nil
		}
	}
	return fmt.Errorf("socket %s not ready after %d attempts", socket, socketWaitRetries)
}

// Load replaces the playing file.
func (m *MPV) Load(src native.SourceOption, autoplay bool) error {
	target, err := sanitizeMediaTarget(src.URL)
	if err != nil {
		return fmt.Errorf("invalid media target: %w", err)
	}

	if _, err := m.sendCommand("loadfile", target, "replace"); err != nil {
		return err
	}
	return m.set("pause", !autoplay)
}

// Resize changes the window geometry.
func (m *MPV) Resize(width, height int) error {
	return m.set("geometry", fmt.Sprintf("%dx%d", width, height))
}

func (m *MPV) Play() error {
	return m.set("pause", false)
}

func (m *MPV) Pause() error {
	return m.set("pause", true)
}

// Seek moves playback to the given absolute position in seconds.
func (m *MPV) Seek(seconds float64) error {
	_, err := m.sendCommand("seek", seconds, "absolute")
	return err
}

// SetVolume maps a [0,1] fraction onto mpv's 0-100 volume.
func (m *MPV) SetVolume(fraction float64) error {
	return m.set("volume", fraction*100)
}

func (m *MPV) SetMuted(muted bool) error {
	return m.set("mute", muted)
}

func (m *MPV) SetFullscreen(on bool) error {
	return m.set("fullscreen", on)
}

func (m *MPV) set(property string, value any) error {
	_, err := m.sendCommand("set_property", property, value)
	return err
}

// Close asks mpv to quit, kills it if it does not, and removes the socket.
func (m *MPV) Close() error {
	m.mu.Lock()
	if m.closing || m.cmd == nil {
		m.closing = true
		m.mu.Unlock()
		return nil
	}
	m.closing = true
	listener, cmd, exited, socket := m.listener, m.cmd, m.exited, m.socketPath
	m.listener = nil
	m.mu.Unlock()

	if listener != nil {
		listener.stop()
	}

	select {
	case <-exited:
	default:
		_, _ = doSendCommand(socket, []any{"quit"})
		select {
		case <-exited:
		case <-time.After(quitTimeout):
			_ = killProcess(cmd)
			<-exited
		}
	}

	_ = os.Remove(socket)

	m.mu.Lock()
	m.socketPath = ""
	m.mu.Unlock()
	return nil
}

var _ native.Engine = (*MPV)(nil)

// sanitizeMediaTarget validates that a URL is safe to pass to mpv.
func sanitizeMediaTarget(link string) (string, error) {
	l := strings.TrimSpace(link)
	if l == "" {
		return "", errors.New("empty URL")
	}

	if strings.ContainsAny(l, "\x00\n\r") {
		return "", errors.New("invalid control characters in URL")
	}

	if strings.HasPrefix(l, "-") {
		return "", errors.New("url must not start with '-' (looks like a flag)")
	}

	if strings.Contains(l, "://") {
		u, err := url.Parse(l)
		if err != nil {
			return "", fmt.Errorf("invalid URL: %w", err)
		}
		switch strings.ToLower(u.Scheme) {
		case "http", "https":
			return l, nil
		default:
			return "", fmt.Errorf("unsupported URL scheme: %s", u.Scheme)
		}
	}

	return filepath.Clean(l), nil
}

func sanitizeTitle(title string) string {
	t := strings.NewReplacer("\n", " ", "\r", " ", "\t", " ", "\x00", "").Replace(title)
	return strings.TrimSpace(t)
}
