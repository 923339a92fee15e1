// Package hotkeys resolves the configured key and pointer bindings, grabs
// them on the root window and maps incoming events back to actions.
package hotkeys

import (
	"fmt"
	"maps"
	"slices"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/rs/zerolog"

	"github.com/1broseidon/dragonwm/internal/config"
)

// Kind names what a binding does.
type Kind int

const (
	ActionNone Kind = iota
	ActionClose
	ActionFullscreen
	ActionCommandBar
	ActionCycle
	ActionCycleReverse
	ActionSaveSlot
	ActionLoadSlot
	ActionLaunch
)

func (k Kind) String() string {
	switch k {
	case ActionClose:
		return "close"
	case ActionFullscreen:
		return "fullscreen"
	case ActionCommandBar:
		return "command_bar"
	case ActionCycle:
		return "cycle"
	case ActionCycleReverse:
		return "cycle_reverse"
	case ActionSaveSlot:
		return "save_slot"
	case ActionLoadSlot:
		return "load_slot"
	case ActionLaunch:
		return "launch"
	default:
		return "none"
	}
}

// Action is what a matched binding asks the manager to do.
type Action struct {
	Kind    Kind
	Slot    int
	Command string
}

// Keyboard is the server side of key binding: keymap lookup and grabs.
// *x11.Connection implements it.
type Keyboard interface {
	ParseKey(seq string) (uint16, []xproto.Keycode, error)
	ParseButton(seq string) (uint16, xproto.Button, error)
	GrabKey(mods uint16, code xproto.Keycode) error
	GrabButton(mods uint16, button xproto.Button) error
	ModMask(keysym string) uint16
	SetIgnoreMods(masks []uint16)
}

type keyBinding struct {
	seq    string
	mods   uint16
	codes  []xproto.Keycode
	action Action
}

// Handler holds the resolved bindings.
type Handler struct {
	kb     Keyboard
	log    zerolog.Logger
	ignore uint16

	keys        []keyBinding
	cycleMods   uint16
	pointerMods uint16
}

// NewHandler configures the lock-key ignore set and returns an empty
// handler.
func NewHandler(kb Keyboard, log zerolog.Logger) *Handler {
	masks := ignoreMasks(kb.ModMask("Num_Lock"), kb.ModMask("Scroll_Lock"))
	kb.SetIgnoreMods(masks)
	return &Handler{
		kb:     kb,
		log:    log,
		ignore: union(masks),
	}
}

// Register resolves and grabs every key binding in cfg. A binding that
// fails is logged and skipped; the rest stay usable. The returned error
// joins every failure.
func (h *Handler) Register(cfg *config.Config) error {
	type entry struct {
		seq    string
		action Action
	}
	entries := []entry{
		{cfg.Keys.Close, Action{Kind: ActionClose}},
		{cfg.Keys.Fullscreen, Action{Kind: ActionFullscreen}},
		{cfg.Keys.CommandBar, Action{Kind: ActionCommandBar}},
		{cfg.Keys.Cycle, Action{Kind: ActionCycle}},
		{cfg.Keys.CycleReverse, Action{Kind: ActionCycleReverse}},
	}
	for i, seq := range cfg.Keys.SaveSlots {
		entries = append(entries, entry{seq, Action{Kind: ActionSaveSlot, Slot: i + 1}})
	}
	for i, seq := range cfg.Keys.LoadSlots {
		entries = append(entries, entry{seq, Action{Kind: ActionLoadSlot, Slot: i + 1}})
	}
	for _, seq := range slices.Sorted(maps.Keys(cfg.Launch)) {
		entries = append(entries, entry{seq, Action{Kind: ActionLaunch, Command: cfg.Launch[seq]}})
	}

	var failed []error
	for _, e := range entries {
		if err := h.bind(e.seq, e.action); err != nil {
			h.log.Warn().Err(err).Str("binding", e.seq).Stringer("action", e.action.Kind).Msg("key binding skipped")
			failed = append(failed, err)
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d key bindings failed: %w", len(failed), failed[0])
	}
	return nil
}

func (h *Handler) bind(seq string, action Action) error {
	mods, codes, err := h.kb.ParseKey(seq)
	if err != nil {
		return fmt.Errorf("parse %q: %w", seq, err)
	}
	for _, code := range codes {
		if err := h.kb.GrabKey(mods, code); err != nil {
			return fmt.Errorf("grab %q: %w", seq, err)
		}
	}
	h.keys = append(h.keys, keyBinding{seq: seq, mods: mods, codes: codes, action: action})
	if action.Kind == ActionCycle {
		h.cycleMods = mods
	}
	return nil
}

// RegisterPointer grabs modifier plus buttons 1, 4 and 5 on the root so
// panning and zooming work over any window.
func (h *Handler) RegisterPointer(modifier string) error {
	for _, button := range []string{"1", "4", "5"} {
		mods, b, err := h.kb.ParseButton(modifier + "-" + button)
		if err != nil {
			return fmt.Errorf("parse pointer binding: %w", err)
		}
		if err := h.kb.GrabButton(mods, b); err != nil {
			return fmt.Errorf("grab %s-%s: %w", modifier, button, err)
		}
		h.pointerMods = mods
	}
	return nil
}

// Clean strips lock keys and button bits from an event state.
func (h *Handler) Clean(state uint16) uint16 {
	return state & modifierBits &^ h.ignore
}

// Match finds the action bound to a key press.
func (h *Handler) Match(state uint16, code xproto.Keycode) (Action, bool) {
	mods := h.Clean(state)
	for _, b := range h.keys {
		if b.mods != mods {
			continue
		}
		for _, c := range b.codes {
			if c == code {
				return b.action, true
			}
		}
	}
	return Action{}, false
}

// CycleModifier is the modifier mask held during an alt-tab cycle.
func (h *Handler) CycleModifier() uint16 { return h.cycleMods }

// PointerModifier is the modifier mask that turns clicks and scrolls into
// camera gestures. It is zero until RegisterPointer succeeds.
func (h *Handler) PointerModifier() uint16 { return h.pointerMods }

// Bindings lists the registered sequences with their actions.
func (h *Handler) Bindings() map[string]Action {
	out := make(map[string]Action, len(h.keys))
	for _, b := range h.keys {
		out[b.seq] = b.action
	}
	return out
}
