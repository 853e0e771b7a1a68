package watcher

import "time"

// Options configures the watcher.
type Options struct {
	// Debounce is how long a file must be quiet before an event is emitted.
	// Editors often write a file in several steps. Default: 200ms.
	Debounce time.Duration
}

func (o *Options) setDefaults() {
	if o.Debounce <= 0 {
		o.Debounce = 200 * time.Millisecond
	}
}
