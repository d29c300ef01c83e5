package player

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/cinewatch/cinewatch/log"
	"github.com/cinewatch/cinewatch/native"
)

// observed lists the properties bridged into native events.
var observed = []string{"pause", "time-pos", "duration", "fullscreen"}

// eventListener keeps one connection open, registers property observers on it
// and translates mpv's notifications into native events.
type eventListener struct {
	socketPath string
	emit       func(native.Event)

	mu   sync.Mutex
	conn net.Conn
	done chan struct{}
}

func newEventListener(socketPath string, emit func(native.Event)) *eventListener {
	return &eventListener{socketPath: socketPath, emit: emit, done: make(chan struct{})}
}

// start registers observers and begins reading. mpv only notifies the
// connection that registered an observer.
func (el *eventListener) start() error {
	conn, err := net.Dial("unix", el.socketPath)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}

	enc := json.NewEncoder(conn)
	for i, name := range observed {
		cmd := ipcCommand{Command: []any{"observe_property", i + 1, name}, RequestID: requestIDs.Add(1)}
		if err := enc.Encode(cmd); err != nil {
			_ = conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	el.mu.Lock()
	el.conn = conn
	el.mu.Unlock()

	go el.readLoop(conn)
	return nil
}

// stop closes the connection and waits for the read loop to exit.
func (el *eventListener) stop() {
	el.mu.Lock()
	conn := el.conn
	el.conn = nil
	el.mu.Unlock()

	if conn == nil {
		return
	}
	_ = conn.Close()
	<-el.done
}

func (el *eventListener) readLoop(conn net.Conn) {
	defer close(el.done)

	scanner := bufio.NewScanner(conn)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		var msg ipcMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			continue
		}
		if ev, ok := translate(msg); ok {
			el.emit(ev)
		}
	}

	if err := scanner.Err(); err != nil && !errors.Is(err, net.ErrClosed) {
		log.For("mpv").WithError(err).Warn("event stream ended")
	}
}

// translate maps an mpv message to a native event.
func translate(msg ipcMessage) (native.Event, bool) {
	switch msg.Event {
	case "property-change":
		switch msg.Name {
		case "pause":
			paused, ok := msg.Data.(bool)
			if !ok {
				return native.Event{}, false
			}
			if paused {
				return native.Event{Kind: native.EventPause}, true
			}
			return native.Event{Kind: native.EventPlay}, true
		case "time-pos":
			pos, ok := msg.Data.(float64)
			return native.Event{Kind: native.EventTimeUpdate, Value: pos}, ok
		case "duration":
			d, ok := msg.Data.(float64)
			return native.Event{Kind: native.EventDurationChange, Value: d}, ok && d > 0
		case "fullscreen":
			on, ok := msg.Data.(bool)
			return native.Event{Kind: native.EventFullscreenChange, On: on}, ok
		}
	case "end-file":
		if msg.Reason == "error" {
			reason := msg.FileError
			if reason == "" {
				reason = "playback error"
			}
			return native.Event{Kind: native.EventError, Err: errors.New(reason)}, true
		}
	}
	return native.Event{}, false
}
