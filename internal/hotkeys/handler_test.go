package hotkeys

import (
	"fmt"
	"strings"
	"testing"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/1broseidon/dragonwm/internal/config"
)

// fakeKeyboard maps modifier names to standard masks and every key name
// to a stable keycode.
type fakeKeyboard struct {
	codes   map[string]xproto.Keycode
	grabbed []string
	buttons []string
	ignore  []uint16
	numLock uint16
	missing string
}

func newFakeKeyboard() *fakeKeyboard {
	return &fakeKeyboard{codes: map[string]xproto.Keycode{}, numLock: xproto.ModMask2}
}

var modMasks = map[string]uint16{
	"shift":   xproto.ModMaskShift,
	"lock":    xproto.ModMaskLock,
	"control": xproto.ModMaskControl,
	"mod1":    xproto.ModMask1,
	"mod2":    xproto.ModMask2,
	"mod3":    xproto.ModMask3,
	"mod4":    xproto.ModMask4,
	"mod5":    xproto.ModMask5,
}

func (k *fakeKeyboard) split(seq string) (uint16, string, error) {
	parts := strings.Split(seq, "-")
	var mods uint16
	for _, p := range parts[:len(parts)-1] {
		m, ok := modMasks[strings.ToLower(p)]
		if !ok {
			return 0, "", fmt.Errorf("unknown modifier %q", p)
		}
		mods |= m
	}
	return mods, parts[len(parts)-1], nil
}

func (k *fakeKeyboard) code(key string) xproto.Keycode {
	if c, ok := k.codes[key]; ok {
		return c
	}
	c := xproto.Keycode(10 + len(k.codes))
	k.codes[key] = c
	return c
}

func (k *fakeKeyboard) ParseKey(seq string) (uint16, []xproto.Keycode, error) {
	mods, key, err := k.split(seq)
	if err != nil {
		return 0, nil, err
	}
	if key == k.missing {
		return 0, nil, fmt.Errorf("no keycode for %q", seq)
	}
	return mods, []xproto.Keycode{k.code(key)}, nil
}

func (k *fakeKeyboard) ParseButton(seq string) (uint16, xproto.Button, error) {
	mods, key, err := k.split(seq)
	if err != nil {
		return 0, 0, err
	}
	var b int
	fmt.Sscanf(key, "%d", &b)
	return mods, xproto.Button(b), nil
}

func (k *fakeKeyboard) GrabKey(mods uint16, code xproto.Keycode) error {
	k.grabbed = append(k.grabbed, fmt.Sprintf("%d/%d", mods, code))
	return nil
}

func (k *fakeKeyboard) GrabButton(mods uint16, button xproto.Button) error {
	k.buttons = append(k.buttons, fmt.Sprintf("%d/%d", mods, button))
	return nil
}

func (k *fakeKeyboard) ModMask(keysym string) uint16 {
	if keysym == "Num_Lock" {
		return k.numLock
	}
	return 0
}

func (k *fakeKeyboard) SetIgnoreMods(masks []uint16) { k.ignore = masks }

func TestIgnoreMasks(t *testing.T) {
	assert.ElementsMatch(t, []uint16{0, xproto.ModMaskLock}, ignoreMasks(0, 0))
	assert.ElementsMatch(t,
		[]uint16{0, xproto.ModMaskLock, xproto.ModMask2, xproto.ModMaskLock | xproto.ModMask2},
		ignoreMasks(xproto.ModMask2, 0))
	assert.Len(t, ignoreMasks(xproto.ModMask2, xproto.ModMask5), 8)
	assert.Len(t, ignoreMasks(xproto.ModMaskLock, 0), 2, "NumLock sharing CapsLock's bit adds nothing")
}

func TestRegister_DefaultBindings(t *testing.T) {
	kb := newFakeKeyboard()
	h := NewHandler(kb, zerolog.Nop())
	cfg := config.DefaultConfig()
	cfg.Launch = map[string]string{"Mod4-Return": "xterm"}

	require.NoError(t, h.Register(cfg))

	assert.Len(t, kb.ignore, 4)
	// close, fullscreen, command bar, cycle, reverse, 4 saves, 4 loads, 1 launch
	assert.Len(t, kb.grabbed, 14)

	action, ok := h.Match(xproto.ModMask4|xproto.ModMaskControl, kb.codes["F2"])
	require.True(t, ok)
	assert.Equal(t, Action{Kind: ActionSaveSlot, Slot: 2}, action)

	action, ok = h.Match(xproto.ModMask4, kb.codes["F2"])
	require.True(t, ok)
	assert.Equal(t, Action{Kind: ActionLoadSlot, Slot: 2}, action)

	action, ok = h.Match(xproto.ModMask4, kb.codes["Return"])
	require.True(t, ok)
	assert.Equal(t, Action{Kind: ActionLaunch, Command: "xterm"}, action)

	assert.Equal(t, uint16(xproto.ModMask1), h.CycleModifier())
}

func TestMatch_IgnoresLocksAndButtons(t *testing.T) {
	kb := newFakeKeyboard()
	h := NewHandler(kb, zerolog.Nop())
	require.NoError(t, h.Register(config.DefaultConfig()))

	state := uint16(xproto.ModMask1 | xproto.ModMaskLock | xproto.ModMask2 | xproto.KeyButMaskButton1)
	action, ok := h.Match(state, kb.codes["F4"])
	require.True(t, ok)
	assert.Equal(t, ActionClose, action.Kind)

	action, ok = h.Match(xproto.ModMask1|xproto.ModMaskShift, kb.codes["Tab"])
	require.True(t, ok)
	assert.Equal(t, ActionCycleReverse, action.Kind)

	_, ok = h.Match(xproto.ModMaskControl, kb.codes["F4"])
	assert.False(t, ok)
}

func TestRegister_SkipsBadBindingKeepsRest(t *testing.T) {
	kb := newFakeKeyboard()
	kb.missing = "f"
	h := NewHandler(kb, zerolog.Nop())

	err := h.Register(config.DefaultConfig())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Mod4-f")

	_, ok := h.Bindings()["Mod4-f"]
	assert.False(t, ok)
	_, ok = h.Match(xproto.ModMask1, kb.codes["F4"])
	assert.True(t, ok)
}

func TestRegisterPointer(t *testing.T) {
	kb := newFakeKeyboard()
	h := NewHandler(kb, zerolog.Nop())

	require.NoError(t, h.RegisterPointer("Mod4"))
	assert.Equal(t, []string{"64/1", "64/4", "64/5"}, kb.buttons)
	assert.Equal(t, uint16(xproto.ModMask4), h.PointerModifier())
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "save_slot", ActionSaveSlot.String())
	assert.Equal(t, "none", Kind(99).String())
}
