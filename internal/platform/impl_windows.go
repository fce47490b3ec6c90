//go:build windows
// +build windows

package platform

import (
	"fmt"
	"os"
	"runtime"
	"sync"
	"sync/atomic"
	"syscall"
	"time"
	"unsafe"

	"Mansoor88-6/macro-plus/internal/models"

	"golang.org/x/sys/windows"
)

type windowsImpl struct {
	mu sync.Mutex

	captureCallback func(RawEvent)
	captureKeys     *keyTracker
	captureThread   uint32
	captureDone     chan struct{}

	hotkeyThread  uint32
	hotkeyDone    chan struct{}
	hotkeyActions map[uintptr]func()
}

var (
	user32 = windows.NewLazyDLL("user32.dll")

	procSetWindowsHookEx    = user32.NewProc("SetWindowsHookExW")
	procUnhookWindowsHookEx = user32.NewProc("UnhookWindowsHookEx")
	procCallNextHookEx      = user32.NewProc("CallNextHookEx")
	procGetMessageW         = user32.NewProc("GetMessageW")
	procPeekMessageW        = user32.NewProc("PeekMessageW")
	procPostThreadMessageW  = user32.NewProc("PostThreadMessageW")
	procSendInput           = user32.NewProc("SendInput")
	procSetCursorPos        = user32.NewProc("SetCursorPos")
	procRegisterHotKey      = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey    = user32.NewProc("UnregisterHotKey")
	procGetKeyState         = user32.NewProc("GetKeyState")
	procMapVirtualKeyW      = user32.NewProc("MapVirtualKeyW")
	procVkKeyScanW          = user32.NewProc("VkKeyScanW")

	procGetAsyncKeyState         = user32.NewProc("GetAsyncKeyState")
	procToUnicodeEx              = user32.NewProc("ToUnicodeEx")
	procGetKeyboardLayout        = user32.NewProc("GetKeyboardLayout")
	procGetForegroundWindow      = user32.NewProc("GetForegroundWindow")
	procGetWindowThreadProcessId = user32.NewProc("GetWindowThreadProcessId")
)

const (
	WH_MOUSE_LL    = 14
	WH_KEYBOARD_LL = 13

	WM_QUIT        = 0x0012
	WM_USER        = 0x0400
	WM_HOTKEY      = 0x0312
	WM_KEYDOWN     = 0x0100
	WM_KEYUP       = 0x0101
	WM_SYSKEYDOWN  = 0x0104
	WM_SYSKEYUP    = 0x0105
	WM_MOUSEMOVE   = 0x0200
	WM_LBUTTONDOWN = 0x0201
	WM_LBUTTONUP   = 0x0202
	WM_RBUTTONDOWN = 0x0204
	WM_RBUTTONUP   = 0x0205
	WM_MBUTTONDOWN = 0x0207
	WM_MBUTTONUP   = 0x0208

	PM_NOREMOVE = 0x0000

	LLKHF_INJECTED = 0x10
	LLMHF_INJECTED = 0x01

	INPUT_MOUSE    = 0
	INPUT_KEYBOARD = 1

	KEYEVENTF_EXTENDEDKEY = 0x0001
	KEYEVENTF_KEYUP       = 0x0002
	KEYEVENTF_UNICODE     = 0x0004

	MOUSEEVENTF_LEFTDOWN   = 0x0002
	MOUSEEVENTF_LEFTUP     = 0x0004
	MOUSEEVENTF_RIGHTDOWN  = 0x0008
	MOUSEEVENTF_RIGHTUP    = 0x0010
	MOUSEEVENTF_MIDDLEDOWN = 0x0020
	MOUSEEVENTF_MIDDLEUP   = 0x0040

	MOD_ALT      = 0x0001
	MOD_CONTROL  = 0x0002
	MOD_SHIFT    = 0x0004
	MOD_WIN      = 0x0008
	MOD_NOREPEAT = 0x4000

	MAPVK_VK_TO_CHAR = 2
)

type point struct {
	X, Y int32
}

type winMsg struct {
	HWnd    uintptr
	Message uint32
	WParam  uintptr
	LParam  uintptr
	Time    uint32
	Pt      point
	Private uint32
}

type kbdLLHookStruct struct {
	VkCode      uint32
	ScanCode    uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type msLLHookStruct struct {
	Pt          point
	MouseData   uint32
	Flags       uint32
	Time        uint32
	DwExtraInfo uintptr
}

type mouseInput struct {
	Dx          int32
	Dy          int32
	MouseData   uint32
	DwFlags     uint32
	Time        uint32
	DwExtraInfo uintptr
}

type keybdInput struct {
	WVk         uint16
	WScan       uint16
	DwFlags     uint32
	Time        uint32
	DwExtraInfo uintptr
}

// INPUT is a union sized by its largest member, the mouse input.
type mouseInputEvent struct {
	Type uint32
	Mi   mouseInput
}

type keybdInputEvent struct {
	Type uint32
	Ki   keybdInput
	_    [unsafe.Sizeof(mouseInput{}) - unsafe.Sizeof(keybdInput{})]byte
}

// The hook procedures are created once; callbacks cannot be released.
var (
	activeCapture        atomic.Pointer[windowsImpl]
	keyboardHookCallback = syscall.NewCallback(keyboardHookProc)
	mouseHookCallback    = syscall.NewCallback(mouseHookProc)
)

func newWindowsPlatform() (Platform, error) {
	return &windowsImpl{}, nil
}

// startMessageLoop runs setup on a dedicated OS thread and pumps its message
// queue until WM_QUIT is posted to it.
func startMessageLoop(setup func() error, teardown func(), onMessage func(*winMsg)) (uint32, chan struct{}, error) {
	ready := make(chan error, 1)
	done := make(chan struct{})
	var threadID uint32

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()
		defer close(done)

		threadID = windows.GetCurrentThreadId()

		// Force creation of the thread's message queue before anyone posts to it.
		var msg winMsg
		procPeekMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, WM_USER, WM_USER, PM_NOREMOVE)

		if err := setup(); err != nil {
			ready <- err
			return
		}
		ready <- nil
		defer teardown()

		for {
			r, _, _ := procGetMessageW.Call(uintptr(unsafe.Pointer(&msg)), 0, 0, 0)
			if int32(r) <= 0 {
				return
			}
			if onMessage != nil {
				onMessage(&msg)
			}
		}
	}()

	if err := <-ready; err != nil {
		<-done
		return 0, nil, err
	}
	return threadID, done, nil
}

func stopMessageLoop(threadID uint32, done chan struct{}) error {
	if done == nil {
		return nil
	}
	procPostThreadMessageW.Call(uintptr(threadID), WM_QUIT, 0, 0)
	select {
	case <-done:
		return nil
	case <-time.After(2 * time.Second):
		return fmt.Errorf("message loop on thread %d did not exit", threadID)
	}
}

func (p *windowsImpl) StartCapture(callback func(RawEvent)) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.captureDone != nil {
		return fmt.Errorf("capture already running")
	}
	if !activeCapture.CompareAndSwap(nil, p) {
		return fmt.Errorf("another capture is active")
	}
	p.captureCallback = callback
	p.captureKeys = newKeyTracker()

	var mouseHook, keyboardHook uintptr
	setup := func() error {
		mouseHook, _, _ = procSetWindowsHookEx.Call(WH_MOUSE_LL, mouseHookCallback, 0, 0)
		if mouseHook == 0 {
			return fmt.Errorf("failed to set mouse hook")
		}
		keyboardHook, _, _ = procSetWindowsHookEx.Call(WH_KEYBOARD_LL, keyboardHookCallback, 0, 0)
		if keyboardHook == 0 {
			procUnhookWindowsHookEx.Call(mouseHook)
			return fmt.Errorf("failed to set keyboard hook")
		}
		return nil
	}
	teardown := func() {
		procUnhookWindowsHookEx.Call(keyboardHook)
		procUnhookWindowsHookEx.Call(mouseHook)
	}

	threadID, done, err := startMessageLoop(setup, teardown, nil)
	if err != nil {
		activeCapture.Store(nil)
		p.captureCallback = nil
		return err
	}
	p.captureThread = threadID
	p.captureDone = done
	return nil
}

func (p *windowsImpl) StopCapture() error {
	p.mu.Lock()
	threadID, done := p.captureThread, p.captureDone
	p.captureCallback = nil
	p.captureThread = 0
	p.captureDone = nil
	p.mu.Unlock()

	activeCapture.CompareAndSwap(p, nil)
	return stopMessageLoop(threadID, done)
}

func (p *windowsImpl) emit(event RawEvent) {
	p.mu.Lock()
	callback := p.captureCallback
	p.mu.Unlock()

	if callback != nil {
		callback(event)
	}
}

func mouseHookProc(nCode int, wParam uintptr, lParam uintptr) uintptr {
	if p := activeCapture.Load(); p != nil && nCode >= 0 {
		info := (*msLLHookStruct)(unsafe.Pointer(lParam))
		if info.Flags&LLMHF_INJECTED == 0 {
			x, y := int(info.Pt.X), int(info.Pt.Y)
			switch wParam {
			case WM_MOUSEMOVE:
				p.emit(RawEvent{Type: RawPointerMove, X: x, Y: y})
			case WM_LBUTTONDOWN, WM_LBUTTONUP:
				p.emit(RawEvent{Type: RawPointerButton, X: x, Y: y, Button: models.ButtonPrimary, Pressed: wParam == WM_LBUTTONDOWN})
			case WM_RBUTTONDOWN, WM_RBUTTONUP:
				p.emit(RawEvent{Type: RawPointerButton, X: x, Y: y, Button: models.ButtonSecondary, Pressed: wParam == WM_RBUTTONDOWN})
			case WM_MBUTTONDOWN, WM_MBUTTONUP:
				p.emit(RawEvent{Type: RawPointerButton, X: x, Y: y, Button: models.ButtonMiddle, Pressed: wParam == WM_MBUTTONDOWN})
			}
		}
	}
	ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return ret
}

func keyboardHookProc(nCode int, wParam uintptr, lParam uintptr) uintptr {
	if p := activeCapture.Load(); p != nil && nCode >= 0 {
		info := (*kbdLLHookStruct)(unsafe.Pointer(lParam))
		if info.Flags&LLKHF_INJECTED == 0 {
			vk := uint16(info.VkCode)
			// captureKeys is only touched from the hook thread once capture runs
			switch wParam {
			case WM_KEYDOWN, WM_SYSKEYDOWN:
				key := p.captureKeys.press(vk, keyIDFromVK(vk, info.ScanCode))
				p.emit(RawEvent{Type: RawKeyDown, Key: key, Pressed: true})
			case WM_KEYUP, WM_SYSKEYUP:
				key, ok := p.captureKeys.release(vk)
				if !ok {
					key = keyIDFromVK(vk, info.ScanCode)
				}
				p.emit(RawEvent{Type: RawKeyUp, Key: key})
			}
		}
	}
	ret, _, _ := procCallNextHookEx.Call(0, uintptr(nCode), wParam, lParam)
	return ret
}

func (p *windowsImpl) KeyDown(key models.Key) error {
	return sendKey(key, false)
}

func (p *windowsImpl) KeyUp(key models.Key) error {
	return sendKey(key, true)
}

func sendKey(key models.Key, release bool) error {
	var flags uint32
	if release {
		flags |= KEYEVENTF_KEYUP
	}

	if key.IsNamed() {
		vk, ok := namedVK[key.Name]
		if !ok {
			return fmt.Errorf("no virtual key for %q", key.Name)
		}
		if extendedVK[vk] {
			flags |= KEYEVENTF_EXTENDEDKEY
		}
		return sendInputs([]keybdInputEvent{{Type: INPUT_KEYBOARD, Ki: keybdInput{WVk: vk, DwFlags: flags}}})
	}

	units := windows.StringToUTF16(string(key.Char))
	units = units[:len(units)-1]
	inputs := make([]keybdInputEvent, 0, len(units))
	for _, u := range units {
		inputs = append(inputs, keybdInputEvent{
			Type: INPUT_KEYBOARD,
			Ki:   keybdInput{WScan: u, DwFlags: flags | KEYEVENTF_UNICODE},
		})
	}
	return sendInputs(inputs)
}

func sendInputs(inputs []keybdInputEvent) error {
	if len(inputs) == 0 {
		return nil
	}
	n, _, err := procSendInput.Call(
		uintptr(len(inputs)),
		uintptr(unsafe.Pointer(&inputs[0])),
		unsafe.Sizeof(inputs[0]),
	)
	if int(n) != len(inputs) {
		return fmt.Errorf("SendInput: %w", err)
	}
	return nil
}

func (p *windowsImpl) MovePointer(x, y int) error {
	ok, _, err := procSetCursorPos.Call(uintptr(int32(x)), uintptr(int32(y)))
	if ok == 0 {
		return fmt.Errorf("SetCursorPos(%d, %d): %w", x, y, err)
	}
	return nil
}

func (p *windowsImpl) PointerButton(button models.Button, pressed bool) error {
	var flags uint32
	switch button {
	case models.ButtonSecondary:
		flags = MOUSEEVENTF_RIGHTUP
		if pressed {
			flags = MOUSEEVENTF_RIGHTDOWN
		}
	case models.ButtonMiddle:
		flags = MOUSEEVENTF_MIDDLEUP
		if pressed {
			flags = MOUSEEVENTF_MIDDLEDOWN
		}
	default:
		flags = MOUSEEVENTF_LEFTUP
		if pressed {
			flags = MOUSEEVENTF_LEFTDOWN
		}
	}

	in := mouseInputEvent{Type: INPUT_MOUSE, Mi: mouseInput{DwFlags: flags}}
	n, _, err := procSendInput.Call(1, uintptr(unsafe.Pointer(&in)), unsafe.Sizeof(in))
	if n != 1 {
		return fmt.Errorf("SendInput: %w", err)
	}
	return nil
}

func (p *windowsImpl) RegisterHotkeys(bindings []HotkeyBinding) error {
	if err := p.UnregisterHotkeys(); err != nil {
		return err
	}

	actions := make(map[uintptr]func(), len(bindings))
	var registered []uintptr

	setup := func() error {
		for i, b := range bindings {
			vk, ok := chordVK(b.Chord)
			if !ok {
				return fmt.Errorf("no virtual key for hotkey %s", b.Chord)
			}
			id := uintptr(i + 1)
			r, _, err := procRegisterHotKey.Call(0, id, chordModifiers(b.Chord), uintptr(vk))
			if r == 0 {
				for _, prev := range registered {
					procUnregisterHotKey.Call(0, prev)
				}
				return fmt.Errorf("register hotkey %s: %w", b.Chord, err)
			}
			registered = append(registered, id)
			actions[id] = b.Action
		}
		return nil
	}
	teardown := func() {
		for _, id := range registered {
			procUnregisterHotKey.Call(0, id)
		}
	}
	onMessage := func(msg *winMsg) {
		if msg.Message != WM_HOTKEY {
			return
		}
		if action := actions[msg.WParam]; action != nil {
			go action()
		}
	}

	threadID, done, err := startMessageLoop(setup, teardown, onMessage)
	if err != nil {
		return err
	}

	p.mu.Lock()
	p.hotkeyThread = threadID
	p.hotkeyDone = done
	p.hotkeyActions = actions
	p.mu.Unlock()
	return nil
}

func (p *windowsImpl) UnregisterHotkeys() error {
	p.mu.Lock()
	threadID, done := p.hotkeyThread, p.hotkeyDone
	p.hotkeyThread = 0
	p.hotkeyDone = nil
	p.hotkeyActions = nil
	p.mu.Unlock()

	return stopMessageLoop(threadID, done)
}

func chordModifiers(c Chord) uintptr {
	mods := uintptr(MOD_NOREPEAT)
	if c.Alt {
		mods |= MOD_ALT
	}
	if c.Ctrl {
		mods |= MOD_CONTROL
	}
	if c.Shift {
		mods |= MOD_SHIFT
	}
	if c.Super {
		mods |= MOD_WIN
	}
	return mods
}

func chordVK(c Chord) (uint16, bool) {
	if c.Key.IsNamed() {
		vk, ok := namedVK[c.Key.Name]
		return vk, ok
	}
	r, _, _ := procVkKeyScanW.Call(uintptr(c.Key.Char))
	if int16(r) == -1 {
		return 0, false
	}
	return uint16(r) & 0xFF, true
}

// keyHeld reads the physical key state. GetKeyState lags behind inside a
// low-level hook, so the async state is used instead.
func keyHeld(vk uint16) bool {
	r, _, _ := procGetAsyncKeyState.Call(uintptr(vk))
	return int16(r) < 0
}

func keyToggled(vk uint16) bool {
	r, _, _ := procGetKeyState.Call(uintptr(vk))
	return r&1 == 1
}

// foregroundLayout returns the keyboard layout of the window receiving input
func foregroundLayout() uintptr {
	hwnd, _, _ := procGetForegroundWindow.Call()
	var tid uintptr
	if hwnd != 0 {
		tid, _, _ = procGetWindowThreadProcessId.Call(hwnd, 0)
	}
	hkl, _, _ := procGetKeyboardLayout.Call(tid)
	return hkl
}

// translateVK returns the character vk produces under state and layout hkl.
// Dead keys and keys producing control characters report false.
func translateVK(vk uint16, scan uint32, state *[256]byte, hkl uintptr) (rune, bool) {
	var buf [4]uint16
	r, _, _ := procToUnicodeEx.Call(
		uintptr(vk),
		uintptr(scan),
		uintptr(unsafe.Pointer(&state[0])),
		uintptr(unsafe.Pointer(&buf[0])),
		uintptr(len(buf)),
		toUnicodeNoStateChange,
		hkl,
	)
	n := int32(r)
	if n <= 0 {
		return 0, false
	}
	return printableRune(buf[:n])
}

// keyIDFromVK maps a captured virtual key to a platform-neutral identifier.
// Character keys are translated with the live shift, caps lock and AltGr
// state so "!" is recorded as "!" rather than "1".
// Keys with no neutral spelling are reported as "<vk>", which playback skips.
func keyIDFromVK(vk uint16, scan uint32) models.KeyID {
	if name, ok := vkName[vk]; ok {
		return models.NamedKey(name)
	}
	if vk >= vkNumpad0 && vk <= vkNumpad9 {
		return models.CharKey(rune('0' + vk - vkNumpad0))
	}

	shift := keyHeld(vkShift)
	capsLock := keyToggled(vkCapital)
	state := modifierState(shift, capsLock, keyHeld(vkRMenu))
	if r, ok := translateVK(vk, scan, state, foregroundLayout()); ok {
		return models.CharKey(r)
	}

	if vk >= 'A' && vk <= 'Z' {
		r := rune(vk) + ('a' - 'A')
		if shift != capsLock {
			r = rune(vk)
		}
		return models.CharKey(r)
	}
	if ch, _, _ := procMapVirtualKeyW.Call(uintptr(vk), MAPVK_VK_TO_CHAR); ch != 0 && ch&0x80000000 == 0 {
		return models.CharKey(rune(ch))
	}
	return models.KeyID(fmt.Sprintf("<%d>", vk))
}

func (p *windowsImpl) GetSystemInfo() (*SystemInfo, error) {
	hostname, _ := os.Hostname()
	v := windows.RtlGetVersion()
	return &SystemInfo{
		OS:        "windows",
		OSVersion: fmt.Sprintf("%d.%d.%d", v.MajorVersion, v.MinorVersion, v.BuildNumber),
		Arch:      runtime.GOARCH,
		Hostname:  hostname,
	}, nil
}
