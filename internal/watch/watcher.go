// Package watch monitors a project tree and triggers debounced regeneration
// passes when relevant filesystem events arrive.
package watch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mazeincoding/twiggy/internal/ignore"
	"github.com/mazeincoding/twiggy/internal/utils"
)

const (
	// defaultDebounce coalesces event bursts, such as an editor writing a
	// temp file and renaming it over the original.
	defaultDebounce = 500 * time.Millisecond
	// defaultQueueSize bounds the channel between the fsnotify forwarder and
	// the single consumer loop.
	defaultQueueSize = 64
)

// Event is one relevant filesystem change, queued for the consumer loop.
type Event struct {
	// Path is the changed path relative to the project root.
	Path string
	// Operation names the fsnotify operation for logging.
	Operation string
}

// Options configures a Watcher.
type Options struct {
	// ProjectRoot is the directory watched recursively.
	ProjectRoot string
	// Rules filters events; paths matching the rule set never trigger a pass.
	Rules *ignore.RuleSet
	// Debounce is the quiet period after the last event before OnTrigger
	// fires. Zero or negative values fall back to the default.
	Debounce time.Duration
	// RescanInterval forces a pass at the given interval regardless of
	// events. Zero disables periodic rescans.
	RescanInterval time.Duration
	// QueueSize bounds the internal event queue. Zero or negative values
	// fall back to the default.
	QueueSize int
	// OnTrigger runs one regeneration pass. It executes inside the consumer
	// loop, so passes never overlap.
	OnTrigger func(ctx context.Context) error
	// Logger receives watcher diagnostics.
	Logger *zap.Logger
}

// Watcher owns the filesystem subscription and the debounce state for one
// watch session. Run must be called exactly once.
type Watcher struct {
	projectRoot    string
	rules          *ignore.RuleSet
	debounce       time.Duration
	rescanInterval time.Duration
	queueSize      int
	onTrigger      func(ctx context.Context) error
	logger         *zap.Logger
	notifier       *fsnotify.Watcher
	started        atomic.Bool
}

// New resolves the project root, establishes the filesystem subscription, and
// registers every non-ignored directory. Failure to establish the
// subscription is returned to the caller and is fatal for the watch command.
func New(options Options) (*Watcher, error) {
	absoluteRootPath, absolutePathError := filepath.Abs(options.ProjectRoot)
	if absolutePathError != nil {
		return nil, fmt.Errorf("resolve project root %s: %w", options.ProjectRoot, absolutePathError)
	}
	rootInformation, rootStatError := os.Stat(absoluteRootPath)
	if rootStatError != nil {
		return nil, fmt.Errorf("inspect project root %s: %w", absoluteRootPath, rootStatError)
	}
	if !rootInformation.IsDir() {
		return nil, fmt.Errorf("project root %s is not a directory", absoluteRootPath)
	}

	notifier, notifierError := fsnotify.NewWatcher()
	if notifierError != nil {
		return nil, fmt.Errorf("create filesystem watcher: %w", notifierError)
	}

	debounce := options.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	queueSize := options.QueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}

	watcher := &Watcher{
		projectRoot:    absoluteRootPath,
		rules:          options.Rules,
		debounce:       debounce,
		rescanInterval: options.RescanInterval,
		queueSize:      queueSize,
		onTrigger:      options.OnTrigger,
		logger:         options.Logger,
		notifier:       notifier,
	}

	if registerError := watcher.registerDirectories(); registerError != nil {
		if closeError := notifier.Close(); closeError != nil {
			watcher.logWarning(fmt.Sprintf("close watcher after failed registration: %v", closeError))
		}
		return nil, registerError
	}
	return watcher, nil
}

// Run blocks until the context is cancelled, forwarding filesystem events
// through a bounded queue into a single consumer loop. It returns nil on
// clean cancellation and propagates fatal subscription errors.
func (watcher *Watcher) Run(runContext context.Context) error {
	if !watcher.started.CompareAndSwap(false, true) {
		return errors.New("watcher already running")
	}
	defer func() {
		if closeError := watcher.notifier.Close(); closeError != nil {
			watcher.logWarning(fmt.Sprintf("close filesystem watcher: %v", closeError))
		}
	}()

	eventQueue := make(chan Event, watcher.queueSize)
	group, groupContext := errgroup.WithContext(runContext)
	group.Go(func() error {
		defer close(eventQueue)
		return watcher.forwardEvents(groupContext, eventQueue)
	})
	group.Go(func() error {
		return watcher.processEvents(groupContext, eventQueue)
	})
	return group.Wait()
}

// forwardEvents drains the fsnotify channels, filters irrelevant paths, and
// pushes qualifying events into the queue in arrival order.
func (watcher *Watcher) forwardEvents(runContext context.Context, eventQueue chan<- Event) error {
	for {
		select {
		case <-runContext.Done():
			return nil
		case notification, channelOpen := <-watcher.notifier.Events:
			if !channelOpen {
				return errors.New("filesystem event channel closed unexpectedly")
			}
			relativePath := utils.RelativePathOrSelf(notification.Name, watcher.projectRoot)
			if relativePath == "." || watcher.rules.Matches(relativePath) {
				continue
			}
			if notification.Has(fsnotify.Create) {
				watcher.maybeRegisterDirectory(notification.Name, relativePath)
			}
			if isHiddenFileEvent(notification.Name, relativePath) {
				continue
			}
			select {
			case eventQueue <- Event{Path: relativePath, Operation: notification.Op.String()}:
			case <-runContext.Done():
				return nil
			}
		case notificationError, channelOpen := <-watcher.notifier.Errors:
			if !channelOpen {
				return errors.New("filesystem error channel closed unexpectedly")
			}
			watcher.logWarning(fmt.Sprintf("filesystem notification error: %v", notificationError))
		}
	}
}

// isHiddenFileEvent reports whether the event targets a dot-prefixed regular
// file. Hidden directories are scanned, so their events stay relevant. When
// the path no longer exists the event is kept: it may be a removed hidden
// directory, and a spurious pass writes nothing when the tree is unchanged.
func isHiddenFileEvent(absolutePath string, relativePath string) bool {
	if !utils.IsHiddenName(filepath.Base(relativePath)) {
		return false
	}
	fileInformation, statError := os.Stat(absolutePath)
	if statError != nil {
		return false
	}
	return !fileInformation.IsDir()
}

// processEvents is the single consumer loop: it coalesces queued events
// inside the debounce window and runs one pass per window. The triggered pass
// runs synchronously here, so a new pass never starts before the previous one
// completes.
func (watcher *Watcher) processEvents(runContext context.Context, eventQueue <-chan Event) error {
	var debounceTimer *time.Timer
	var debounceChannel <-chan time.Time
	defer func() {
		if debounceTimer != nil {
			debounceTimer.Stop()
		}
	}()

	var rescanChannel <-chan time.Time
	if watcher.rescanInterval > 0 {
		rescanTicker := time.NewTicker(watcher.rescanInterval)
		defer rescanTicker.Stop()
		rescanChannel = rescanTicker.C
	}

	for {
		select {
		case <-runContext.Done():
			return nil
		case event, channelOpen := <-eventQueue:
			if !channelOpen {
				return nil
			}
			watcher.logDebug(fmt.Sprintf("change detected (%s): %s", event.Operation, event.Path))
			if debounceTimer == nil {
				debounceTimer = time.NewTimer(watcher.debounce)
				debounceChannel = debounceTimer.C
			} else {
				if !debounceTimer.Stop() {
					select {
					case <-debounceChannel:
					default:
					}
				}
				debounceTimer.Reset(watcher.debounce)
			}
		case <-debounceChannel:
			debounceTimer = nil
			debounceChannel = nil
			watcher.firePass(runContext)
		case <-rescanChannel:
			watcher.firePass(runContext)
		}
	}
}

// firePass runs one regeneration pass. Pass failures are logged and the loop
// keeps waiting for the next event.
func (watcher *Watcher) firePass(runContext context.Context) {
	if runContext.Err() != nil {
		return
	}
	if watcher.onTrigger == nil {
		return
	}
	if triggerError := watcher.onTrigger(runContext); triggerError != nil {
		watcher.logError(fmt.Sprintf("regeneration pass failed: %v", triggerError))
	}
}

// registerDirectories walks the project root and subscribes every
// non-ignored directory. Inaccessible directories are skipped with a warning
// rather than aborting the walk.
func (watcher *Watcher) registerDirectories() error {
	walkError := filepath.WalkDir(watcher.projectRoot, func(currentPath string, directoryEntry os.DirEntry, entryError error) error {
		if entryError != nil {
			watcher.logWarning(fmt.Sprintf("skipping unwatchable path %s: %v", currentPath, entryError))
			return nil
		}
		if !directoryEntry.IsDir() {
			return nil
		}
		relativePath := utils.RelativePathOrSelf(currentPath, watcher.projectRoot)
		if relativePath != "." && watcher.rules.Matches(relativePath) {
			return filepath.SkipDir
		}
		if addError := watcher.notifier.Add(currentPath); addError != nil {
			return fmt.Errorf("subscribe to directory %s: %w", currentPath, addError)
		}
		return nil
	})
	if walkError != nil {
		return fmt.Errorf("register directories under %s: %w", watcher.projectRoot, walkError)
	}
	return nil
}

// maybeRegisterDirectory extends the subscription to directories created
// after startup.
func (watcher *Watcher) maybeRegisterDirectory(absolutePath string, relativePath string) {
	fileInformation, statError := os.Stat(absolutePath)
	if statError != nil || !fileInformation.IsDir() {
		return
	}
	if watcher.rules.Matches(relativePath) {
		return
	}
	if addError := watcher.notifier.Add(absolutePath); addError != nil {
		watcher.logWarning(fmt.Sprintf("subscribe to new directory %s: %v", absolutePath, addError))
	}
}

func (watcher *Watcher) logWarning(message string) {
	if watcher.logger != nil {
		watcher.logger.Warn(message)
	}
}

func (watcher *Watcher) logError(message string) {
	if watcher.logger != nil {
		watcher.logger.Error(message)
	}
}

func (watcher *Watcher) logDebug(message string) {
	if watcher.logger != nil {
		watcher.logger.Debug(message)
	}
}
