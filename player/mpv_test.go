package player

import (
	"bufio"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/cinewatch/cinewatch/native"
	. "github.com/smartystreets/goconvey/convey"
	"go.uber.org/goleak"
)

func TestArgs(t *testing.T) {
	Convey("Given default options for an HLS source", t, func() {
		opts := native.DefaultOptions()
		opts.Title = "Fight\nClub"
		opts.TechOrder = []native.Tech{native.TechHTML5}

		a := args("/tmp/s.sock", opts)

		Convey("It wires the socket, title and geometry", func() {
			So(a, ShouldContain, "--input-ipc-server=/tmp/s.sock")
			So(a, ShouldContain, "--force-media-title=Fight Club")
			So(a, ShouldContain, "--geometry=1280x720")
			So(a, ShouldContain, "--ytdl=no")
			So(a, ShouldContain, "--osc=no")
			So(a, ShouldNotContain, "--pause")
		})

		Convey("Trailers enable the ytdl hook", func() {
			opts.TechOrder = []native.Tech{native.TechYouTube}
			opts.Autoplay = false
			a := args("/tmp/s.sock", opts)
			So(a, ShouldContain, "--ytdl=yes")
			So(a, ShouldContain, "--pause")
		})
	})
}

func TestSanitizeMediaTarget(t *testing.T) {
	Convey("Media targets are validated", t, func() {
		_, err := sanitizeMediaTarget("--script=evil.lua")
		So(err, ShouldNotBeNil)

		_, err = sanitizeMediaTarget("file:///etc/passwd")
		So(err, ShouldNotBeNil)

		_, err = sanitizeMediaTarget("")
		So(err, ShouldNotBeNil)

		target, err := sanitizeMediaTarget(" https://cdn.test/a.m3u8 ")
		So(err, ShouldBeNil)
		So(target, ShouldEqual, "https://cdn.test/a.m3u8")
	})
}

func TestTranslate(t *testing.T) {
	Convey("mpv notifications map to native events", t, func() {
		ev, ok := translate(ipcMessage{Event: "property-change", Name: "pause", Data: true})
		So(ok, ShouldBeTrue)
		So(ev.Kind, ShouldEqual, native.EventPause)

		ev, ok = translate(ipcMessage{Event: "property-change", Name: "pause", Data: false})
		So(ok, ShouldBeTrue)
		So(ev.Kind, ShouldEqual, native.EventPlay)

		ev, ok = translate(ipcMessage{Event: "property-change", Name: "time-pos", Data: 42.5})
		So(ok, ShouldBeTrue)
		So(ev, ShouldResemble, native.Event{Kind: native.EventTimeUpdate, Value: 42.5})

		_, ok = translate(ipcMessage{Event: "property-change", Name: "time-pos", Data: nil})
		So(ok, ShouldBeFalse)

		_, ok = translate(ipcMessage{Event: "property-change", Name: "duration", Data: 0.0})
		So(ok, ShouldBeFalse)

		ev, ok = translate(ipcMessage{Event: "property-change", Name: "fullscreen", Data: true})
		So(ok, ShouldBeTrue)
		So(ev.On, ShouldBeTrue)

		ev, ok = translate(ipcMessage{Event: "end-file", Reason: "error", FileError: "loading failed"})
		So(ok, ShouldBeTrue)
		So(ev.Kind, ShouldEqual, native.EventError)
		So(ev.Err.Error(), ShouldEqual, "loading failed")

		_, ok = translate(ipcMessage{Event: "end-file", Reason: "eof"})
		So(ok, ShouldBeFalse)
	})
}

// fakeMPV answers IPC commands like mpv does and pushes property changes to
// connections that registered observers.
func fakeMPV(t *testing.T) (socket string, commands chan []any, stop func()) {
	dir, err := os.MkdirTemp("", "cw")
	if err != nil {
		t.Fatal(err)
	}
	socket = filepath.Join(dir, "mpv.sock")

	ln, err := net.Listen("unix", socket)
	if err != nil {
		t.Fatal(err)
	}

	commands = make(chan []any, 16)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			go func(conn net.Conn) {
				defer conn.Close()
				scanner := bufio.NewScanner(conn)
				enc := json.NewEncoder(conn)
				for scanner.Scan() {
					var cmd ipcCommand
					if json.Unmarshal(scanner.Bytes(), &cmd) != nil {
						continue
					}
					commands <- cmd.Command

					_ = enc.Encode(map[string]any{"event": "idle"})
					_ = enc.Encode(map[string]any{"request_id": cmd.RequestID, "error": "success", "data": 1.0})

					if cmd.Command[0] == "observe_property" && cmd.Command[2] == "duration" {
						_ = enc.Encode(map[string]any{"event": "property-change", "name": "duration", "data": 90.0})
					}
				}
			}(conn)
		}
	}()

	return socket, commands, func() {
		_ = ln.Close()
		<-done
		_ = os.RemoveAll(dir)
	}
}

func TestIPC(t *testing.T) {
	Convey("Given an mpv IPC socket", t, func() {
		socket, commands, stop := fakeMPV(t)
		defer stop()

		Convey("Commands are answered by request id", func() {
			m := &MPV{socketPath: socket}
			So(m.Seek(30), ShouldBeNil)
			So(<-commands, ShouldResemble, []any{"seek", 30.0, "absolute"})

			So(m.SetVolume(0.5), ShouldBeNil)
			So(<-commands, ShouldResemble, []any{"set_property", "volume", 50.0})
		})

		Convey("Commands without a process fail fast", func() {
			So(NewMPV().Play(), ShouldEqual, ErrNotRunning)
		})

		Convey("The listener registers observers on its own connection", func() {
			defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

			events := make(chan native.Event, 8)
			el := newEventListener(socket, func(ev native.Event) { events <- ev })
			So(el.start(), ShouldBeNil)

			for range observed {
				cmd := <-commands
				So(cmd[0], ShouldEqual, "observe_property")
			}

			select {
			case ev := <-events:
				So(ev, ShouldResemble, native.Event{Kind: native.EventDurationChange, Value: 90})
			case <-time.After(2 * time.Second):
				t.Fatal("no duration event")
			}

			el.stop()
		})
	})
}
