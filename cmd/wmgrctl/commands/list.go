package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/demellj/wmgrd/internal/wire"
)

func init() {
	rootCmd.AddCommand(&cobra.Command{
		Use:   "new-windows",
		Short: "List windows discovered since the last call",
		RunE:  runList(wire.ListNewWindows{}),
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "visible-windows",
		Short: "List currently visible windows",
		RunE:  runList(wire.ListVisibleWindows{}),
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "hidden-windows",
		Short: "List currently hidden windows",
		RunE:  runList(wire.ListHiddenWindows{}),
	})
}

func runList(req wire.Request) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		resp, err := send(req)
		if err != nil {
			return err
		}

		var windows []wire.WindowInfo
		switch r := resp.(type) {
		case wire.NewWindows:
			windows = r.Windows
		case wire.VisibleWindows:
			windows = r.Windows
		case wire.HiddenWindows:
			windows = r.Windows
		default:
			return fmt.Errorf("unexpected response %#v", resp)
		}

		if outFormat == "json" {
			return printJSON(windows)
		}
		return printWindowsTable(windows)
	}
}

func printWindowsTable(windows []wire.WindowInfo) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ID\tX\tY\tWIDTH\tHEIGHT")
	for _, win := range windows {
		fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%d\n", win.ID, win.X, win.Y, win.Width, win.Height)
	}
	return nil
}
