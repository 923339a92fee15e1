package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"

	"github.com/1broseidon/dragonwm/internal/ipc"
)

func init() {
	rootCmd.AddCommand(statusCmd, windowsCmd, cameraCmd)
	cameraCmd.AddCommand(cameraSaveCmd, cameraLoadCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "show manager status",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(func() error {
			st, err := newClient().Status()
			if err != nil {
				return errors.Wrap(err, 0)
			}
			printStatus(st)
			return nil
		})
	},
}

var windowsCmd = &cobra.Command{
	Use:   "windows",
	Short: "list managed windows in world coordinates",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		run(func() error {
			list, err := newClient().Windows()
			if err != nil {
				return errors.Wrap(err, 0)
			}
			printWindows(list)
			return nil
		})
	},
}

var cameraCmd = &cobra.Command{
	Use:   "camera",
	Short: "save or restore camera viewpoints",
}

var cameraSaveCmd = &cobra.Command{
	Use:   "save <slot>",
	Short: "save the current viewpoint",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func() error {
			slot, err := parseSlot(args[0])
			if err != nil {
				return err
			}
			if err := newClient().CameraSave(slot); err != nil {
				return errors.Wrap(err, 0)
			}
			fmt.Printf("camera saved to slot %d\n", slot)
			return nil
		})
	},
}

var cameraLoadCmd = &cobra.Command{
	Use:   "load <slot>",
	Short: "jump to a saved viewpoint",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		run(func() error {
			slot, err := parseSlot(args[0])
			if err != nil {
				return err
			}
			if err := newClient().CameraLoad(slot); err != nil {
				return errors.Wrap(err, 0)
			}
			fmt.Printf("camera loaded from slot %d\n", slot)
			return nil
		})
	},
}

// newClient connects to the manager on the configured display. A broken
// config file should not stop status queries, so load errors fall back to
// $DISPLAY.
func newClient() *ipc.Client {
	display := ""
	if res, err := loadConfig(); err == nil {
		display = res.Config.Display
	}
	return ipc.NewClient(display)
}

func parseSlot(arg string) (int, error) {
	slot, err := strconv.Atoi(arg)
	if err != nil || slot < 1 {
		return 0, errors.Errorf("slot must be a positive number, got %q", arg)
	}
	return slot, nil
}

func printStatus(st *ipc.StatusData) {
	fmt.Printf("camera:         %d,%d\n", st.CameraX, st.CameraY)
	fmt.Printf("zoom:           %.3f\n", st.Zoom)
	fmt.Printf("managed:        %d\n", st.Managed)
	fmt.Printf("mapped:         %d\n", st.Mapped)
	fmt.Printf("focused:        0x%x\n", st.Focused)
	if st.Fullscreen != 0 {
		fmt.Printf("fullscreen:     0x%x\n", st.Fullscreen)
	}
	slots := make([]string, 0, len(st.SavedSlots))
	for _, s := range st.SavedSlots {
		slots = append(slots, strconv.Itoa(s))
	}
	fmt.Printf("saved_slots:    %s\n", strings.Join(slots, ","))
	fmt.Printf("uptime:         %s\n", time.Duration(st.UptimeSeconds)*time.Second)
}

func printWindows(list *ipc.WindowsData) {
	if len(list.Windows) == 0 {
		fmt.Println("no managed windows")
		return
	}
	fmt.Printf("%-10s %-16s %-22s %s\n", "CLIENT", "CLASS", "WORLD", "TITLE")
	for _, w := range list.Windows {
		flags := ""
		if w.Focused {
			flags += "*"
		}
		if !w.Mapped {
			flags += " (unmapped)"
		}
		if w.Fullscreen {
			flags += " (fullscreen)"
		}
		if w.Dialog {
			flags += " (dialog)"
		}
		world := fmt.Sprintf("%d,%d %dx%d", w.X, w.Y, w.Width, w.Height)
		fmt.Printf("0x%-8x %-16s %-22s %s%s\n", w.Client, w.Class, world, w.Title, flags)
	}
}
