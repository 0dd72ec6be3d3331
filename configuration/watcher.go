// SPDX-License-Identifier: ISC
// Copyright (c) 2014-2020 Bitmark Inc.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package configuration

import (
	"os"
	"path/filepath"
	"time"

	"github.com/bitmark-inc/logger"
	"github.com/fsnotify/fsnotify"
)

const defaultSettle = 500 * time.Millisecond

// ReloadFunc - called after the configuration file changed
type ReloadFunc func() error

// Watcher - background process reloading the configuration file
//
// the directory is watched so that editors that replace the file
// are also seen
type Watcher struct {
	log      *logger.L
	watcher  *fsnotify.Watcher
	filePath string
	settle   time.Duration
	reload   ReloadFunc
}

// NewWatcher - watch fileName, a non-positive settle selects the default
func NewWatcher(log *logger.L, fileName string, settle time.Duration, reload ReloadFunc) (*Watcher, error) {
	filePath, err := filepath.Abs(filepath.Clean(fileName))
	if nil != err {
		return nil, err
	}

	if _, err := os.Stat(filePath); nil != err {
		return nil, err
	}

	watcher, err := fsnotify.NewWatcher()
	if nil != err {
		return nil, err
	}

	err = watcher.Add(filepath.Dir(filePath))
	if nil != err {
		watcher.Close()
		return nil, err
	}

	if settle <= 0 {
		settle = defaultSettle
	}

	return &Watcher{
		log:      log,
		watcher:  watcher,
		filePath: filePath,
		settle:   settle,
		reload:   reload,
	}, nil
}

// Run - wait for changes until shutdown
func (w *Watcher) Run(args interface{}, shutdown <-chan struct{}) {
	log := w.log
	base := filepath.Base(w.filePath)

	log.Infof("watching: %s", w.filePath)

	// several events arrive for one save, reload once they stop
	var pending <-chan time.Time

loop:
	for {
		select {
		case <-shutdown:
			break loop

		case event, ok := <-w.watcher.Events:
			if !ok {
				break loop
			}
			if filepath.Base(event.Name) != base {
				continue
			}
			log.Debugf("file event: %v", event)
			if watcherEventFileChange(event) {
				pending = time.After(w.settle)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				break loop
			}
			log.Errorf("watcher error: %s", err)

		case <-pending:
			pending = nil
			if err := w.reload(); nil != err {
				log.Errorf("reload: %s  error: %s", w.filePath, err)
			} else {
				log.Infof("reloaded: %s", w.filePath)
			}
		}
	}

	w.watcher.Close()
	log.Info("stopped")
}

func watcherEventFileChange(event fsnotify.Event) bool {
	return event.Op&fsnotify.Write == fsnotify.Write ||
		event.Op&fsnotify.Create == fsnotify.Create ||
		event.Op&fsnotify.Chmod == fsnotify.Chmod
}
