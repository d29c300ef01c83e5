package embed

// Sink receives the events of one attempt. It is safe to call from any
// goroutine; events reach the adapter on its event loop.
type Sink interface {
	// Loaded reports the frame's load event together with the page title, if known.
	Loaded(title string)
	// Message reports a message posted by the frame.
	Message(origin string, payload []byte)
	// Fullscreen reports the hosting page's fullscreen flag.
	Fullscreen(on bool)
}

// Frame hosts the embed page.
type Frame interface {
	// Load replaces the frame's page with url. Events go to sink until the next Load or Close.
	Load(url string, sink Sink) error
	Close() error
}

// FullscreenFrame is implemented by frames that can toggle fullscreen.
type FullscreenFrame interface {
	Frame
	RequestFullscreen(on bool) error
}
