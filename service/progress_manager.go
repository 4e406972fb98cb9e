package service

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"

	"github.com/kelvinlabs/dupescan/domain"
)

// ProgressManagerImpl implements domain.ProgressManager over a
// schollz/progressbar bar, rendered only when the destination writer is
// an interactive terminal.
type ProgressManagerImpl struct {
	mu          sync.Mutex
	writer      io.Writer
	bar         *progressbar.ProgressBar
	interactive bool
	total       int
}

// NewProgressManager builds a manager writing to stderr by default.
func NewProgressManager() domain.ProgressManager {
	return &ProgressManagerImpl{
		writer:      os.Stderr,
		interactive: isInteractive(os.Stderr),
	}
}

func (pm *ProgressManagerImpl) Initialize(total int) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.total = total
}

func (pm *ProgressManagerImpl) Start() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if pm.interactive && pm.bar == nil {
		pm.bar = pm.newBar("Scanning", pm.total)
	}
}

func (pm *ProgressManagerImpl) Update(processed, total int) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if pm.bar == nil && pm.interactive {
		pm.bar = pm.newBar("Scanning", total)
	}
	if pm.bar != nil {
		_ = pm.bar.Set(processed)
	}
}

func (pm *ProgressManagerImpl) Complete(success bool) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if pm.bar != nil {
		_ = pm.bar.Finish()
	}
}

func (pm *ProgressManagerImpl) SetWriter(w io.Writer) {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	pm.writer = w
	pm.interactive = isInteractive(w)
}

func (pm *ProgressManagerImpl) IsInteractive() bool {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.interactive
}

func (pm *ProgressManagerImpl) Close() {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if pm.bar != nil {
		_ = pm.bar.Finish()
	}
}

func (pm *ProgressManagerImpl) newBar(description string, max int) *progressbar.ProgressBar {
	writer := pm.writer
	if writer == nil {
		writer = io.Discard
	}
	return progressbar.NewOptions(max,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetWriter(writer),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(writer)
		}),
	)
}

func isInteractive(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}
