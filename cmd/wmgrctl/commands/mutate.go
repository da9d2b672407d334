package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/demellj/wmgrd/internal/wire"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Mark a window visible",
		Args:  cobra.ExactArgs(1),
		RunE:  runChangeVisibility(true),
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "hide <id>",
		Short: "Mark a window hidden",
		Args:  cobra.ExactArgs(1),
		RunE:  runChangeVisibility(false),
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "zindex <id> <zindex>",
		Short: "Assign a window's stacking key",
		Args:  cobra.ExactArgs(2),
		RunE:  runChangeZIndex,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "move <id> <x> <y>",
		Short: "Set a window's deferred position",
		Args:  cobra.ExactArgs(3),
		RunE:  runMove,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "resize <id> <width> <height>",
		Short: "Set a window's deferred size",
		Args:  cobra.ExactArgs(3),
		RunE:  runResize,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "focus <id>",
		Short: "Set keyboard focus to a visible window",
		Args:  cobra.ExactArgs(1),
		RunE:  runFocus,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "commit",
		Short: "Apply all deferred geometry and visibility changes",
		Args:  cobra.NoArgs,
		RunE:  runCommit,
	})
}

func parseID(s string) (uint32, error) {
	v, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid window id %q: %w", s, err)
	}
	return uint32(v), nil
}

func runChangeVisibility(visible bool) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		resp, err := send(wire.ChangeVisibility{Items: []wire.VisibilityItem{{ID: id, Visible: visible}}})
		if err != nil {
			return err
		}
		return printJSON(resp)
	}
}

func runChangeZIndex(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	z, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid zindex %q: %w", args[1], err)
	}
	resp, err := send(wire.ChangeZIndex{Items: []wire.ZIndexItem{{ID: id, ZIndex: uint32(z)}}})
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func runMove(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	x, err := strconv.ParseInt(args[1], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid x %q: %w", args[1], err)
	}
	y, err := strconv.ParseInt(args[2], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid y %q: %w", args[2], err)
	}
	resp, err := send(wire.MoveWindows{Items: []wire.MoveItem{{ID: id, X: int32(x), Y: int32(y)}}})
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func runResize(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	width, err := strconv.ParseUint(args[1], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid width %q: %w", args[1], err)
	}
	height, err := strconv.ParseUint(args[2], 10, 32)
	if err != nil {
		return fmt.Errorf("invalid height %q: %w", args[2], err)
	}
	resp, err := send(wire.ResizeWindows{Items: []wire.ResizeItem{{ID: id, Width: uint32(width), Height: uint32(height)}}})
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func runFocus(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	resp, err := send(wire.FocusWindow{ID: id})
	if err != nil {
		return err
	}
	return printJSON(resp)
}

func runCommit(cmd *cobra.Command, args []string) error {
	resp, err := send(wire.Commit{})
	if err != nil {
		return err
	}
	return printJSON(resp)
}
