package assets

import (
	"errors"
	"path/filepath"
	"sort"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spaghettifunk/lve/engine/core"
)

// ShaderWatcher reports writes to a fixed set of files. The directories are
// watched rather than the files so editors that replace a file on save are
// still seen. Changes are collected in the background and drained by the
// main loop with Changed.
type ShaderWatcher struct {
	tracked map[string]struct{}

	mutex   sync.Mutex
	pending map[string]struct{}

	fsnotify *fsnotify.Watcher
	done     chan struct{}
	stopped  chan struct{}
	isClosed bool
}

func NewShaderWatcher(paths ...string) (*ShaderWatcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("shader watcher needs at least one file")
	}
	fsWatch, err := fsnotify.NewWatcher()
	if err != nil {
		core.LogError("failed to create file watcher: %s", err)
		return nil, err
	}

	sw := &ShaderWatcher{
		tracked:  make(map[string]struct{}, len(paths)),
		pending:  make(map[string]struct{}),
		fsnotify: fsWatch,
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsWatch.Close()
			return nil, err
		}
		sw.tracked[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsWatch.Add(dir); err != nil {
			fsWatch.Close()
			core.LogError("failed to watch %s: %s", dir, err)
			return nil, err
		}
		core.LogDebug("watching %s for shader changes", dir)
	}

	go sw.start()
	return sw, nil
}

func (sw *ShaderWatcher) start() {
	defer close(sw.stopped)
	for {
		select {
		case e, ok := <-sw.fsnotify.Events:
			if !ok {
				return
			}
			// Handle create or modify events
			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			name := filepath.Clean(e.Name)
			if _, ok := sw.tracked[name]; !ok {
				continue
			}
			sw.mutex.Lock()
			sw.pending[name] = struct{}{}
			sw.mutex.Unlock()

		case err, ok := <-sw.fsnotify.Errors:
			if !ok {
				return
			}
			core.LogError("shader watcher: %s", err)

		case <-sw.done:
			return
		}
	}
}

// Changed returns the files written since the last call, sorted, and
// forgets them.
func (sw *ShaderWatcher) Changed() []string {
	sw.mutex.Lock()
	defer sw.mutex.Unlock()
	if len(sw.pending) == 0 {
		return nil
	}
	out := make([]string, 0, len(sw.pending))
	for p := range sw.pending {
		out = append(out, p)
	}
	clear(sw.pending)
	sort.Strings(out)
	return out
}

// Close stops the watcher. It is safe to call more than once.
func (sw *ShaderWatcher) Close() error {
	if sw.isClosed {
		return nil
	}
	sw.isClosed = true
	close(sw.done)
	<-sw.stopped
	return sw.fsnotify.Close()
}
