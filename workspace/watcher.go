package workspace

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// FileWatcher keeps a workspace in sync with the files under its root.
type FileWatcher struct {
	workspace *Workspace
	watcher   *fsnotify.Watcher
	stopCh    chan struct{}
	doneCh    chan struct{}
	// onChange is called with the path of every file that was reloaded or
	// removed.
	onChange func(path string)
}

func NewFileWatcher(w *Workspace, onChange func(path string)) *FileWatcher {
	if onChange == nil {
		onChange = func(string) {}
	}
	return &FileWatcher{
		workspace: w,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
		onChange:  onChange,
	}
}

// Start watches every directory below the workspace root and processes
// events in the background until Stop is called.
func (fw *FileWatcher) Start() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	fw.watcher = watcher
	if err := fw.addTree(fw.workspace.RootDir()); err != nil {
		watcher.Close()
		return err
	}
	go fw.run()
	return nil
}

func (fw *FileWatcher) Stop() {
	close(fw.stopCh)
	<-fw.doneCh
}

func (fw *FileWatcher) addTree(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(info.Name(), ".") {
			return filepath.SkipDir
		}
		return fw.watcher.Add(path)
	})
}

func (fw *FileWatcher) run() {
	defer close(fw.doneCh)
	defer fw.watcher.Close()

	log := fw.workspace.log
	for {
		select {
		case <-fw.stopCh:
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			fw.handle(event)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			log.Errorf("watch: %s", err)
		}
	}
}

func (fw *FileWatcher) handle(event fsnotify.Event) {
	path := event.Name
	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := fw.addTree(path); err != nil {
				fw.workspace.log.Warningf("watch %s: %s", path, err)
			}
			return
		}
	}
	if filepath.Ext(path) != Ext {
		return
	}

	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		fw.workspace.RemoveFile(path)
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		if err := fw.workspace.ScanFile(path); err != nil {
			fw.workspace.log.Warningf("reload %s: %s", path, err)
			return
		}
	default:
		return
	}
	fw.onChange(path)
}
