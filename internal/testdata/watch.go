package testdata

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange with the fixture file that changed under dir until ctx is
// done. Bursts of events for one file within debounce collapse into one call.
// Hidden files and files Load cannot read are ignored. onChange runs on Watch's
// goroutine, so no call is in flight once Watch returns.
func Watch(ctx context.Context, dir string, debounce time.Duration, onChange func(path string)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	d := newDebouncer(debounce)
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()
	rearm := func() {
		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		if wait, ok := d.next(time.Now()); ok {
			timer.Reset(wait)
		}
	}
	rearm()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watch %s: %w", dir, err)
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isFixtureFile(event.Name) || event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			d.touch(event.Name, time.Now())
			rearm()
		case <-timer.C:
			for _, name := range d.ready(time.Now()) {
				if ctx.Err() != nil {
					return nil
				}
				onChange(name)
			}
			rearm()
		}
	}
}

// debouncer tracks when each file has been quiet for delay.
type debouncer struct {
	delay time.Duration
	due   map[string]time.Time
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, due: map[string]time.Time{}}
}

// touch pushes name's deadline to now+delay.
func (d *debouncer) touch(name string, now time.Time) {
	d.due[name] = now.Add(d.delay)
}

// next reports how long until the earliest deadline.
func (d *debouncer) next(now time.Time) (time.Duration, bool) {
	var earliest time.Time
	for _, t := range d.due {
		if earliest.IsZero() || t.Before(earliest) {
			earliest = t
		}
	}
	if earliest.IsZero() {
		return 0, false
	}
	if wait := earliest.Sub(now); wait > 0 {
		return wait, true
	}
	return 0, true
}

// ready removes and returns, sorted, the names whose deadline has passed.
func (d *debouncer) ready(now time.Time) []string {
	var out []string
	for name, t := range d.due {
		if !t.After(now) {
			out = append(out, name)
			delete(d.due, name)
		}
	}
	sort.Strings(out)
	return out
}

func isFixtureFile(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(base))
	for _, e := range fixtureExts {
		if ext == e {
			return true
		}
	}
	return false
}
