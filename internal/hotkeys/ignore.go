package hotkeys

import "github.com/BurntSushi/xgb/xproto"

// modifierBits covers Shift, Lock, Control and Mod1..Mod5. Button bits in
// an event state are never part of a binding.
const modifierBits = 0xff

// ignoreMasks returns every combination of CapsLock, NumLock and
// ScrollLock, including the empty one, so a grab fires whatever lock keys
// are on.
func ignoreMasks(numLock, scrollLock uint16) []uint16 {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	unique := map[uint16]struct{}{0: {}}
	ignore := []uint16{0}
	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		if _, ok := unique[mask]; ok {
			continue
		}
		unique[mask] = struct{}{}
		ignore = append(ignore, mask)
	}
	return ignore
}

func union(masks []uint16) uint16 {
	var out uint16
	for _, m := range masks {
		out |= m
	}
	return out
}
