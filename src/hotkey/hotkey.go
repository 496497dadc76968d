package hotkey

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"

	gohook "github.com/robotn/gohook"
)

var ErrInvalidHotkey = errors.New("hotkey: invalid key combination")

// Listen registers a system-wide key hook and calls callback whenever every key of
// combo (e.g. "Cmd+Alt+S") is held down at once. The hook is torn down when ctx ends.
func Listen(ctx context.Context, combo string, callback func()) error {
	m, err := newMatcher(combo)
	if err != nil {
		return err
	}
	log.Printf("hotkey: listener configured for %s (%v)", combo, m.names())

	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Printf("hotkey: PANIC in hook goroutine: %v", r)
			}
		}()

		evChan := gohook.Start()
		if evChan == nil {
			log.Printf("hotkey: ERROR: gohook.Start() returned nil channel")
			return
		}
		defer gohook.End()

		for {
			select {
			case <-ctx.Done():
				log.Printf("hotkey: %s unregistered", combo)
				return
			case ev, ok := <-evChan:
				if !ok {
					log.Printf("hotkey: event channel closed")
					return
				}
				switch ev.Kind {
				case gohook.KeyDown, gohook.KeyHold:
					if m.keyDown(ev.Rawcode) {
						log.Printf("hotkey: %s triggered", combo)
						if callback != nil {
							callback()
						}
					}
				case gohook.KeyUp:
					m.keyUp(ev.Rawcode)
				}
			}
		}
	}()
	return nil
}

type keyState struct {
	name     string
	rawcodes []uint16
	pressed  bool
}

// matcher tracks which keys of a combination are held.
type matcher struct {
	mu   sync.Mutex
	keys []keyState
}

func newMatcher(combo string) (*matcher, error) {
	names := parseHotkey(combo)
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHotkey, combo)
	}
	m := &matcher{}
	for _, name := range names {
		rawcodes := keyNameToRawcodes(name)
		if len(rawcodes) == 0 {
			return nil, fmt.Errorf("%w: cannot map key %q in %q", ErrInvalidHotkey, name, combo)
		}
		m.keys = append(m.keys, keyState{name: name, rawcodes: rawcodes})
	}
	return m, nil
}

// keyDown records a press and reports whether the whole combination is now held.
// A completed combination resets so holding it fires only once.
func (m *matcher) keyDown(rawcode uint16) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.keys {
		if m.keys[i].matches(rawcode) {
			m.keys[i].pressed = true
		}
	}
	for i := range m.keys {
		if !m.keys[i].pressed {
			return false
		}
	}
	for i := range m.keys {
		m.keys[i].pressed = false
	}
	return true
}

func (m *matcher) keyUp(rawcode uint16) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.keys {
		if m.keys[i].matches(rawcode) {
			m.keys[i].pressed = false
		}
	}
}

func (m *matcher) names() []string {
	out := make([]string, len(m.keys))
	for i, k := range m.keys {
		out[i] = k.name
	}
	return out
}

func (k keyState) matches(rawcode uint16) bool {
	for _, rc := range k.rawcodes {
		if rc == rawcode {
			return true
		}
	}
	return false
}

// parseHotkey converts a hotkey string like "Cmd+Option+s" to normalized key names
func parseHotkey(hotkeyConfig string) []string {
	var keys []string
	for _, part := range strings.Split(strings.ToLower(hotkeyConfig), "+") {
		part = strings.TrimSpace(part)
		switch part {
		case "":
			continue
		case "ctrl", "control":
			keys = append(keys, "ctrl")
		case "alt", "opt", "option":
			keys = append(keys, "alt")
		case "shift":
			keys = append(keys, "shift")
		case "win", "cmd", "command", "super":
			keys = append(keys, "cmd")
		default:
			keys = append(keys, part)
		}
	}
	return keys
}

// macOS virtual key codes (kVK_*), the rawcodes gohook reports on darwin.
var modifierRawcodes = map[string][]uint16{
	"ctrl":  {59, 62},
	"alt":   {58, 61},
	"shift": {56, 60},
	"cmd":   {55, 54},
}

var keyRawcodes = map[string]uint16{
	"a": 0, "s": 1, "d": 2, "f": 3, "h": 4, "g": 5, "z": 6, "x": 7, "c": 8, "v": 9,
	"b": 11, "q": 12, "w": 13, "e": 14, "r": 15, "y": 16, "t": 17,
	"1": 18, "2": 19, "3": 20, "4": 21, "6": 22, "5": 23, "9": 25, "7": 26, "8": 28, "0": 29,
	"o": 31, "u": 32, "i": 34, "p": 35, "l": 37, "j": 38, "k": 40, "n": 45, "m": 46,

	"f1": 122, "f2": 120, "f3": 99, "f4": 118, "f5": 96, "f6": 97, "f7": 98, "f8": 100,
	"f9": 101, "f10": 109, "f11": 103, "f12": 111, "f13": 105, "f14": 107, "f15": 113,
	"f16": 106, "f17": 64, "f18": 79, "f19": 80, "f20": 90,

	"enter":     36,
	"return":    36,
	"tab":       48,
	"space":     49,
	"backspace": 51,
	"esc":       53,
	"escape":    53,
	"home":      115,
	"pageup":    116,
	"pgup":      116,
	"delete":    117,
	"del":       117,
	"end":       119,
	"pagedown":  121,
	"pgdn":      121,

	"left": 123, "right": 124, "down": 125, "up": 126,
}

// keyNameToRawcodes maps a key name to its rawcodes. Modifiers map to both the left
// and right variants.
func keyNameToRawcodes(keyName string) []uint16 {
	keyName = strings.ToLower(strings.TrimSpace(keyName))
	if codes, ok := modifierRawcodes[keyName]; ok {
		return codes
	}
	if code, ok := keyRawcodes[keyName]; ok {
		return []uint16{code}
	}
	log.Printf("hotkey: WARNING: unknown key name '%s', cannot map to rawcode", keyName)
	return nil
}
