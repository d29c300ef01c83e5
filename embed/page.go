package embed

import (
	"html/template"
	"io"
)

// Page is the data of the watch page hosting the embed frame.
type Page struct {
	Title    string
	MountID  string
	Width    int
	Height   int
	Shield   ShieldLayout
	Origins  []string
	BasePath string

	// Notice replaces the frame when the mount does not play in the page.
	Notice string
}

var pageTemplate = template.Must(template.New("watch").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8">
    <meta name="viewport" content="width=device-width, initial-scale=1">
    <title>{{.Title}}</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        html, body { width: 100%; height: 100%; background: #000; overflow: hidden; }
        #stage { position: relative; width: {{.Width}}px; height: {{.Height}}px; margin: 0 auto; }
        #stage iframe { position: absolute; inset: 0; width: 100%; height: 100%; border: 0; }
        .shield { position: absolute; z-index: 2; background: transparent; }
        #notice { color: #cdd6f4; font-family: sans-serif; padding: 2rem; text-align: center; }
        #error { display: none; color: #f38ba8; font-family: sans-serif; padding: 2rem; text-align: center; }
    </style>
</head>
<body>
{{- if .Notice}}
<p id="notice">{{.Notice}}</p>
{{- end}}
<div id="stage"{{if .Notice}} hidden{{end}}>
    <iframe id="frame" allow="autoplay; fullscreen; encrypted-media" allowfullscreen referrerpolicy="origin"></iframe>
    {{- range .Shield.Regions}}
    <div class="shield" style="left: {{.X}}px; top: {{.Y}}px; width: {{.W}}px; height: {{.H}}px"></div>
    {{- end}}
</div>
<p id="error">Playback failed on every mirror.</p>
<script>
(function () {
    var base = {{.BasePath}} + "/mounts/" + {{.MountID}};
    var origins = {{.Origins}};
    var frame = document.getElementById("frame");
    var attempt = -1;

    function send(ev) {
        ev.attempt = attempt;
        fetch(base + "/events", {
            method: "POST",
            headers: {"Content-Type": "application/json"},
            body: JSON.stringify(ev)
        }).catch(function () {});
    }

    function trusted(origin) {
        try {
            var host = new URL(origin).hostname;
            return origins.some(function (d) { return host === d || host.endsWith("." + d); });
        } catch (e) {
            return false;
        }
    }

    document.addEventListener("contextmenu", function (e) { e.preventDefault(); });

    window.addEventListener("pagehide", function () {
        navigator.sendBeacon(base + "/close");
    });

    frame.addEventListener("load", function () {
        if (attempt >= 0) { send({type: "load", title: ""}); }
    });

    window.addEventListener("message", function (e) {
        if (!trusted(e.origin)) { return; }
        var data = typeof e.data === "string" ? e.data : JSON.stringify(e.data);
        send({type: "message", origin: e.origin, payload: data});
    });

    document.addEventListener("fullscreenchange", function () {
        send({type: "fullscreen", on: document.fullscreenElement !== null});
    });

    function poll() {
        fetch(base + "/frame").then(function (r) { return r.json(); }).then(function (s) {
            if (s.failed) {
                var el = document.getElementById("error");
                if (s.error) { el.textContent = s.error; }
                document.getElementById("stage").style.display = "none";
                el.style.display = "block";
                return;
            }
            if (s.attempt !== attempt && s.url) {
                attempt = s.attempt;
                frame.src = s.url;
            }
            if (s.fullscreen && !document.fullscreenElement) {
                document.getElementById("stage").requestFullscreen().catch(function () {});
            } else if (!s.fullscreen && document.fullscreenElement) {
                document.exitFullscreen().catch(function () {});
            }
            setTimeout(poll, 500);
        }).catch(function () { setTimeout(poll, 2000); });
    }
    poll();
})();
</script>
</body>
</html>
`))

// RenderPage writes the watch page.
func RenderPage(w io.Writer, p Page) error {
	return pageTemplate.Execute(w, p)
}
