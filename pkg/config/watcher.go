package config

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce 同一文件停止变更超过此间隔后才通知一次
const DefaultDebounce = 100 * time.Millisecond

// Watcher 监听清单目录，清单（.yaml/.yml）或脚本（.tengo）变化时通过 Events 通知
//
// Events/Errors 在 Close 之后由后台协程关闭。
type Watcher struct {
	watcher  *fsnotify.Watcher
	debounce time.Duration

	Events chan string
	Errors chan error

	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// NewWatcher 监听 dirs 中的所有目录
func NewWatcher(dirs ...string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()
			return nil, err
		}
	}

	watcher := &Watcher{
		watcher:  w,
		debounce: DefaultDebounce,
		Events:   make(chan string, 16),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
		done:     make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Close 停止监听并等待后台协程退出
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
		<-w.done
	})
	return err
}

func (w *Watcher) run() {
	defer func() {
		close(w.Events)
		close(w.Errors)
		close(w.done)
	}()

	pending := newDebouncer(w.debounce)
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			if !IsManifestFile(event.Name) && !IsScriptFile(event.Name) {
				continue
			}
			// 每次变更都把该文件的到期时间往后推
			pending.touch(event.Name, time.Now())
			timer.Reset(w.debounce)
		case <-timer.C:
			now := time.Now()
			for _, name := range pending.due(now) {
				select {
				case w.Events <- name:
				case <-w.closeCh:
					return
				}
			}
			if wait, ok := pending.next(now); ok {
				timer.Reset(wait)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			select {
			case w.Errors <- err:
			default:
				// 上一个错误还没被读取，丢弃
			}
		case <-w.closeCh:
			timer.Stop()
			return
		}
	}
}

// debouncer 记录每个文件最后一次变更后的到期时间，
// 文件在 delay 内没有新的变更才会被报告（后沿去抖）
type debouncer struct {
	delay   time.Duration
	pending map[string]time.Time
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{delay: delay, pending: make(map[string]time.Time)}
}

func (d *debouncer) touch(name string, now time.Time) {
	d.pending[name] = now.Add(d.delay)
}

// due 取出所有已到期的文件（按名称排序）
func (d *debouncer) due(now time.Time) []string {
	var names []string
	for name, at := range d.pending {
		if !now.Before(at) {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		delete(d.pending, name)
	}
	return names
}

// next 返回距离最早到期还要等多久；没有待报告的文件时 ok 为 false
func (d *debouncer) next(now time.Time) (time.Duration, bool) {
	var (
		wait  time.Duration
		found bool
	)
	for _, at := range d.pending {
		if w := at.Sub(now); !found || w < wait {
			wait, found = w, true
		}
	}
	if found && wait < 0 {
		wait = 0
	}
	return wait, found
}

// IsManifestFile 是否为 YAML 清单文件
func IsManifestFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".yaml" || ext == ".yml"
}

// IsScriptFile 是否为帧事件脚本
func IsScriptFile(path string) bool {
	return strings.ToLower(filepath.Ext(path)) == ".tengo"
}
