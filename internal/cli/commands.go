package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dori/duotask/internal/model"
	"github.com/dori/duotask/internal/store"
	"github.com/dori/duotask/internal/view"
	"github.com/spf13/cobra"
)

func newAddCommand() *cobra.Command {
	var (
		tab       string
		tag       string
		important bool
	)

	cmd := &cobra.Command{
		Use:   "add <title...>",
		Short: "Quick add a task",
		Long: `Add a task to the local list. Inline markers are understood:

  @name              tag (created if it does not exist)
  ! or !important    mark important
  #work #personal    pick the tab`,
		Example: `  duotask add "Buy milk #personal"
  duotask add Review PR @urgent !`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			q := parseQuickAdd(strings.Join(args, " "))
			if tab != "" {
				t := model.Tab(strings.ToLower(tab))
				if !t.Valid() {
					return fmt.Errorf("unknown tab %q (want work or personal)", tab)
				}
				q.Tab = t
			}
			if tag != "" {
				q.Tag = tag
			}
			q.Important = q.Important || important
			if strings.TrimSpace(q.Title) == "" {
				return store.ErrEmptyTitle
			}

			a, err := openApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			var tagID string
			if q.Tag != "" {
				t, ok := a.Store.FindTagByName(q.Tag)
				if !ok {
					color := model.Palette[len(a.Store.State().Tags)%len(model.Palette)]
					if t, err = a.Store.AddTag(q.Tag, color); err != nil {
						return err
					}
				}
				tagID = t.ID
			}

			task, err := a.Store.AddTask(q.Title, q.Tab, tagID)
			if err != nil {
				return err
			}
			if q.Important {
				if task, err = a.Store.ToggleImportant(task.ID); err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Created: %s\n", task.Title)
			fmt.Fprintf(out, "Tab: %s\n", task.Tab)
			if q.Tag != "" {
				fmt.Fprintf(out, "Tag: %s\n", q.Tag)
			}
			if task.Important {
				fmt.Fprintln(out, "Important")
			}
			return a.Store.Save()
		},
	}

	cmd.Flags().StringVarP(&tab, "tab", "t", "", "Tab (work or personal); defaults to the active tab")
	cmd.Flags().StringVar(&tag, "tag", "", "Tag name")
	cmd.Flags().BoolVarP(&important, "important", "i", false, "Mark important")
	return cmd
}

func newListCommand() *cobra.Command {
	var (
		tab string
		all bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print the tasks in a tab",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			st := a.Store.State()
			if tab != "" {
				t := model.Tab(strings.ToLower(tab))
				if !t.Valid() {
					return fmt.Errorf("unknown tab %q (want work or personal)", tab)
				}
				st.ActiveTab = t
			}
			if all {
				st.ShowCompleted = true
				st.ActiveTagFilter = model.TagFilterAll
			}

			printList(cmd.OutOrStdout(), st)
			return nil
		},
	}

	cmd.Flags().StringVarP(&tab, "tab", "t", "", "Tab to list; defaults to the active tab")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include completed tasks and ignore the tag filter")
	return cmd
}

func printList(w io.Writer, st model.State) {
	v := view.Derive(st)
	fmt.Fprintf(w, "%s (%s)\n", st.ActiveTab.Title(), view.CounterLabel(v))

	if len(v.Tasks) == 0 {
		fmt.Fprintln(w, v.EmptyMessage(st))
		return
	}

	for _, t := range v.Tasks {
		check := "[ ]"
		if t.Completed {
			check = "[x]"
		}
		star := " "
		if t.Important {
			star = "★"
		}
		line := fmt.Sprintf("%s %s %s", check, star, t.Title)
		if t.HasTag() {
			if tag, ok := st.TagByID(*t.TagID); ok {
				line += "  @" + tag.Name
			}
		}
		fmt.Fprintln(w, line)
	}
}

func newTagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tag",
		Short: "Manage tags",
	}

	var color string
	addCmd := &cobra.Command{
		Use:   "add <name...>",
		Short: "Create a tag",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			if color == "" {
				color = model.Palette[len(a.Store.State().Tags)%len(model.Palette)]
			}
			tag, err := a.Store.AddTag(strings.Join(args, " "), color)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created tag: %s (%s)\n", tag.Name, tag.Color)
			return a.Store.Save()
		},
	}
	addCmd.Flags().StringVarP(&color, "color", "c", "", "Hex color; defaults to the next palette color")

	rmCmd := &cobra.Command{
		Use:   "rm <name...>",
		Short: "Delete a tag and clear it from its tasks",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			name := strings.Join(args, " ")
			tag, ok := a.Store.FindTagByName(name)
			if !ok {
				return fmt.Errorf("%w: %s", store.ErrTagNotFound, name)
			}
			del, err := a.Store.DeleteTag(tag.ID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted tag: %s (%d tasks untagged)\n", del.Tag.Name, len(del.Affected))
			return a.Store.Save()
		},
	}

	lsCmd := &cobra.Command{
		Use:   "ls",
		Short: "List tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			st := a.Store.State()
			out := cmd.OutOrStdout()
			if len(st.Tags) == 0 {
				fmt.Fprintln(out, "No tags.")
				return nil
			}
			for _, tag := range st.Tags {
				n := 0
				for _, t := range st.Tasks {
					if t.TagIs(tag.ID) {
						n++
					}
				}
				fmt.Fprintf(out, "%-20s %s  %d tasks\n", tag.Name, tag.Color, n)
			}
			return nil
		},
	}

	cmd.AddCommand(addCmd, rmCmd, lsCmd)
	return cmd
}

func newStatsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show completion counts per tab",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			s := view.Summarize(a.Store.State())
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "duotask stats")
			fmt.Fprintln(out, strings.Repeat("=", 24))
			fmt.Fprintf(out, "  %-10s %d/%d done\n", "Work:", s.WorkDone, s.WorkTotal)
			fmt.Fprintf(out, "  %-10s %d/%d done\n", "Personal:", s.PersonalDone, s.PersonalTotal)
			fmt.Fprintf(out, "  %-10s %d/%d done (%d%%)\n", "Total:", s.Done, s.Total, s.CompletionRate)
			return nil
		},
	}
}

func newExportCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the full local state to stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			return a.Store.Export(cmd.OutOrStdout(), format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "json", "Output format (json or yaml)")
	return cmd
}

var errResetNotConfirmed = errors.New("refusing to reset without --yes")

func newResetCommand() *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete every local task and tag",
		Long: `Reset clears the local cache. Remote data is untouched; sign in from
the UI and press R to clear it as well.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errResetNotConfirmed
			}
			a, err := openApp(cmd, false)
			if err != nil {
				return err
			}
			defer a.Close()

			a.Store.Reset()
			fmt.Fprintln(cmd.OutOrStdout(), "Local data cleared.")
			return a.Store.Save()
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Confirm the reset")
	return cmd
}

func newVersionCommand(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "duotask v%s\n", version)
		},
	}
}
