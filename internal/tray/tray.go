package tray

import (
	"fmt"
	"sync"

	"Mansoor88-6/macro-plus/internal/models"
	"Mansoor88-6/macro-plus/internal/service"

	"github.com/getlantern/systray"
	"go.uber.org/zap"
)

// Controller is the part of the macro service the tray drives
type Controller interface {
	Status() service.Status
	ToggleRecording() error
	Play() error
	StopAll()
	List() ([]models.MacroSummary, error)
	Load(name string) (*models.Macro, error)
	Subscribe(fn func(service.Status))
}

// Tray is the system tray control panel
type Tray struct {
	ctrl    Controller
	onQuit  func()
	appName string
	logger  *zap.Logger

	record *systray.MenuItem
	play   *systray.MenuItem
	stop   *systray.MenuItem
	load   *systray.MenuItem
	quit   *systray.MenuItem

	mu        sync.Mutex
	loadItems []*systray.MenuItem
	names     []string
	ready     bool
	refresh   chan struct{}
	statusCh  chan service.Status
}

// New creates the tray. onQuit is called when the user picks Quit.
func New(ctrl Controller, appName string, onQuit func(), logger *zap.Logger) *Tray {
	return &Tray{
		ctrl:     ctrl,
		onQuit:   onQuit,
		appName:  appName,
		logger:   logger,
		refresh:  make(chan struct{}, 1),
		statusCh: make(chan service.Status, 8),
	}
}

// Run shows the tray icon and blocks until Quit is called.
// It must be called from the main goroutine.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit removes the tray icon and makes Run return
func (t *Tray) Quit() {
	systray.Quit()
}

// RefreshMacros schedules a reload of the macro submenu
func (t *Tray) RefreshMacros() {
	select {
	case t.refresh <- struct{}{}:
	default:
	}
}

func (t *Tray) onReady() {
	systray.SetIcon(iconFor(service.StateIdle))
	systray.SetTooltip(t.appName)

	t.record = systray.AddMenuItem("Start recording", "Toggle recording")
	t.play = systray.AddMenuItem("Play", "Play the loaded macro")
	t.stop = systray.AddMenuItem("Stop", "Stop recording or playback")
	systray.AddSeparator()
	t.load = systray.AddMenuItem("Load macro", "Load a saved macro")
	systray.AddSeparator()
	t.quit = systray.AddMenuItem("Quit", "Quit "+t.appName)

	t.mu.Lock()
	t.ready = true
	t.mu.Unlock()

	t.ctrl.Subscribe(func(status service.Status) {
		select {
		case t.statusCh <- status:
		default:
			t.logger.Debug("Tray status update dropped")
		}
	})

	t.apply(t.ctrl.Status())
	t.reloadMacros()

	go t.loop()
}

func (t *Tray) onExit() {
	t.logger.Info("Tray closed")
}

func (t *Tray) loop() {
	for {
		select {
		case <-t.record.ClickedCh:
			if err := t.ctrl.ToggleRecording(); err != nil {
				t.logger.Warn("Record from tray failed", zap.Error(err))
			}
		case <-t.play.ClickedCh:
			if err := t.ctrl.Play(); err != nil {
				t.logger.Warn("Play from tray failed", zap.Error(err))
			}
		case <-t.stop.ClickedCh:
			t.ctrl.StopAll()
		case <-t.quit.ClickedCh:
			if t.onQuit != nil {
				t.onQuit()
			}
			systray.Quit()
			return
		case status := <-t.statusCh:
			t.apply(status)
		case <-t.refresh:
			t.reloadMacros()
		}
	}
}

// apply updates icon, tooltip and item states for status
func (t *Tray) apply(status service.Status) {
	systray.SetIcon(iconFor(status.State))
	systray.SetTooltip(tooltip(t.appName, status))
	t.record.SetTitle(recordLabel(status.State))

	if status.State == service.StatePlaying {
		t.record.Disable()
		t.load.Disable()
	} else {
		t.record.Enable()
		t.load.Enable()
	}
	if status.State == service.StateIdle && status.EventCount > 0 {
		t.play.Enable()
	} else {
		t.play.Disable()
	}
	if status.State == service.StateIdle {
		t.stop.Disable()
	} else {
		t.stop.Enable()
	}
}

// reloadMacros syncs the load submenu with the store. systray cannot remove
// items, so surplus entries are hidden and reused later.
func (t *Tray) reloadMacros() {
	summaries, err := t.ctrl.List()
	if err != nil {
		t.logger.Warn("Failed to list macros for tray", zap.Error(err))
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.ready {
		return
	}

	t.names = t.names[:0]
	for i, s := range summaries {
		t.names = append(t.names, s.Name)
		label := menuLabel(s)
		if i < len(t.loadItems) {
			t.loadItems[i].SetTitle(label)
			t.loadItems[i].Show()
			continue
		}
		item := t.load.AddSubMenuItem(label, "Load "+s.Name)
		t.loadItems = append(t.loadItems, item)
		go t.watchLoadItem(i, item)
	}
	for i := len(summaries); i < len(t.loadItems); i++ {
		t.loadItems[i].Hide()
	}
}

func (t *Tray) watchLoadItem(index int, item *systray.MenuItem) {
	for range item.ClickedCh {
		t.mu.Lock()
		var name string
		if index < len(t.names) {
			name = t.names[index]
		}
		t.mu.Unlock()
		if name == "" {
			continue
		}
		if _, err := t.ctrl.Load(name); err != nil {
			t.logger.Warn("Load from tray failed", zap.String("macro", name), zap.Error(err))
		}
	}
}

func recordLabel(state service.State) string {
	if state == service.StateRecording {
		return "Stop recording"
	}
	return "Start recording"
}

func tooltip(appName string, status service.Status) string {
	switch status.State {
	case service.StateRecording:
		return appName + ": recording"
	case service.StatePlaying:
		return fmt.Sprintf("%s: playing %s", appName, macroLabel(status.Macro))
	}
	if status.EventCount == 0 {
		return appName + ": no macro loaded"
	}
	return fmt.Sprintf("%s: %s, %d events, %.1fs, speed %gx, %s",
		appName, macroLabel(status.Macro), status.EventCount, status.DurationSeconds, status.Speed, repeatLabel(status.Repeat))
}

func menuLabel(s models.MacroSummary) string {
	return fmt.Sprintf("%s (%d events, %.1fs)", s.Name, s.EventCount, s.DurationSeconds)
}

func macroLabel(name string) string {
	if name == "" {
		return "unsaved macro"
	}
	return name
}

func repeatLabel(repeat int) string {
	switch repeat {
	case 0:
		return "repeat until stopped"
	case 1:
		return "once"
	default:
		return fmt.Sprintf("%d times", repeat)
	}
}
