// Package watch re-runs an engine.Engine's mapping over a growing log
// file each time it changes, for the `watch` CLI subcommand (SPEC_FULL.md
// §6A). Grounded on the teacher's internal/watcher.Watcher (fsnotify
// event loop) and internal/tailer.Tailer (re-reading from a watermark),
// generalized from "forward raw lines to a parser" to "re-map the file's
// new tail through an Engine".
package watch

import (
	"bufio"
	"context"
	"log"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/atikulmunna/log2src/internal/engine"
	"github.com/atikulmunna/log2src/internal/logrecord"
	"github.com/atikulmunna/log2src/internal/model"
)

// debounceWindow coalesces a burst of writes (e.g. one log line flushed
// across several syscalls) into a single re-map pass.
const debounceWindow = 100 * time.Millisecond

// Watcher maps path's newly appended lines through eng, emitting a
// model.LogMapping on Mappings for every record whose line lies beyond
// the last watermark.
type Watcher struct {
	eng      *engine.Engine
	path     string
	fsw      *fsnotify.Watcher
	lastLine int

	Mappings chan model.LogMapping
}

// New opens path for fsnotify watching and returns a Watcher bound to eng.
func New(eng *engine.Engine, path string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(path); err != nil {
		fsw.Close()
		return nil, err
	}
	return &Watcher{
		eng:      eng,
		path:     path,
		fsw:      fsw,
		Mappings: make(chan model.LogMapping, 256),
	}, nil
}

// Start blocks until ctx is cancelled, emitting a mapping for every
// record newly readable from path. An initial pass covers whatever the
// file already holds when Start is called.
func (w *Watcher) Start(ctx context.Context) {
	defer close(w.Mappings)
	defer w.fsw.Close()

	w.poll()

	debounce := time.NewTimer(0)
	if !debounce.Stop() {
		<-debounce.C
	}
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) != 0 {
				debounce.Reset(debounceWindow)
			}
		case <-debounce.C:
			w.poll()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("watch: %v", err)
		}
	}
}

// poll re-opens path, maps every record from just past the watermark
// onward, and advances the watermark to the file's current line count.
func (w *Watcher) poll() {
	f, err := os.Open(w.path)
	if err != nil {
		log.Printf("watch: cannot open %s: %v", w.path, err)
		return
	}
	defer f.Close()

	for _, m := range w.eng.MapReader(f, logrecord.Window{Start: w.lastLine + 1}) {
		w.Mappings <- m
	}

	if _, err := f.Seek(0, 0); err != nil {
		return
	}
	w.lastLine = countLines(f)
}

func countLines(f *os.File) int {
	scanner := bufio.NewScanner(f)
	n := 0
	for scanner.Scan() {
		n++
	}
	return n
}
