package watcher

import "time"

// defaultSettleDelay covers editors and copy tools that write in chunks.
const defaultSettleDelay = 500 * time.Millisecond

// EventType says what happened to the dataset file.
type EventType string

const (
	// EventChanged means the file was written or replaced and has stopped
	// changing for the settle delay.
	EventChanged EventType = "changed"
	// EventRemoved means the file is gone. The catalog keeps its snapshot.
	EventRemoved EventType = "removed"
)

// Event describes the watched file after it settled.
type Event struct {
	Type    EventType
	Path    string
	Size    int64
	ModTime time.Time
}

// Options configures a Watcher.
type Options struct {
	// SettleDelay is how long size and mtime must stay put before a change
	// is reported. Zero means 500ms.
	SettleDelay time.Duration
}

func (o *Options) setDefaults() {
	if o.SettleDelay <= 0 {
		o.SettleDelay = defaultSettleDelay
	}
}
