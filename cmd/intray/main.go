// Command intray is a local task tracker CLI. It keeps the collection in a
// JSON snapshot file and rewrites it after every mutating command.
package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rlacksdl104/intray/internal/version"
	"github.com/rlacksdl104/intray/query"
	"github.com/rlacksdl104/intray/task"
)

const defaultFile = "intray.json"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var file string

	root := &cobra.Command{
		Use:           "intray",
		Short:         "intray tracks tasks in a local JSON file",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&file, "file", "f", envOr("INTRAY_FILE", defaultFile), "snapshot file")

	root.AddCommand(
		newAddCmd(&file),
		newListCmd(&file),
		newShowCmd(&file),
		newEditCmd(&file),
		newDoneCmd(&file),
		newRmCmd(&file),
		newAssignCmd(&file),
		newTagCmd(&file),
		newStatsCmd(&file),
		newUpcomingCmd(&file),
		newVersionCmd(),
	)
	return root
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// loadStore reads the snapshot file into a fresh store. A missing file means
// an empty collection.
func loadStore(path string) (*task.Store, error) {
	store := task.NewStore()
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return store, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if !store.Import(data) {
		return nil, fmt.Errorf("%s is not a valid task snapshot", path)
	}
	return store, nil
}

// saveStore writes the store's collection back to the snapshot file.
func saveStore(path string, store *task.Store) error {
	data, err := store.Export()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// parseDue accepts either a date or a full RFC 3339 timestamp.
func parseDue(s string) (*time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("invalid due date %q (want YYYY-MM-DD or RFC 3339)", s)
}

// --- add ---

func newAddCmd(file *string) *cobra.Command {
	var (
		priority string
		category string
		desc     string
		due      string
		assignee string
		tags     []string
		estimate float64
	)
	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "create a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			req := task.CreateRequest{
				Title:       strings.Join(args, " "),
				Description: desc,
				Priority:    task.Priority(priority),
				Category:    task.Category(category),
				AssignedTo:  assignee,
				Tags:        tags,
			}
			if !req.Priority.Valid() {
				return fmt.Errorf("invalid priority %q", priority)
			}
			if !req.Category.Valid() {
				return fmt.Errorf("invalid category %q", category)
			}
			if due != "" {
				d, err := parseDue(due)
				if err != nil {
					return err
				}
				req.DueDate = d
			}
			if estimate > 0 {
				req.EstimatedHours = &estimate
			}

			store, err := loadStore(*file)
			if err != nil {
				return err
			}
			t := store.Create(req)
			if err := saveStore(*file, store); err != nil {
				return err
			}
			fmt.Printf("created task %s\n", t.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&priority, "priority", "p", string(task.PriorityMedium), "low|medium|high|urgent")
	cmd.Flags().StringVarP(&category, "category", "c", string(task.CategoryPersonal), "work|personal|study|health|finance")
	cmd.Flags().StringVarP(&desc, "desc", "d", "", "description")
	cmd.Flags().StringVar(&due, "due", "", "due date (YYYY-MM-DD or RFC 3339)")
	cmd.Flags().StringVarP(&assignee, "assign", "a", "", "assignee")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "tags (repeatable)")
	cmd.Flags().Float64Var(&estimate, "estimate", 0, "estimated hours")
	return cmd
}

// --- list ---

func newListCmd(file *string) *cobra.Command {
	var (
		statuses   []string
		priorities []string
		categories []string
		assignee   string
		tags       []string
		search     string
		sortField  string
		dir        string
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "list tasks",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			store, err := loadStore(*file)
			if err != nil {
				return err
			}

			c := query.Criteria{
				AssignedTo: assignee,
				Search:     search,
				Tags:       tags,
			}
			for _, s := range statuses {
				c.Status = append(c.Status, task.Status(s))
			}
			for _, p := range priorities {
				c.Priority = append(c.Priority, task.Priority(p))
			}
			for _, cat := range categories {
				c.Category = append(c.Category, task.Category(cat))
			}

			tasks := query.Filter(store.Snapshot(), c)
			if sortField != "" {
				field, ok := query.ParseField(sortField)
				if !ok {
					return fmt.Errorf("unknown sort field %q", sortField)
				}
				d := query.Asc
				if dir == string(query.Desc) {
					d = query.Desc
				}
				query.Sort(tasks, field, d)
			}

			printTasks(tasks)
			return nil
		},
	}
	cmd.Flags().StringSliceVarP(&statuses, "status", "s", nil, "filter by status (repeatable)")
	cmd.Flags().StringSliceVarP(&priorities, "priority", "p", nil, "filter by priority (repeatable)")
	cmd.Flags().StringSliceVarP(&categories, "category", "c", nil, "filter by category (repeatable)")
	cmd.Flags().StringVarP(&assignee, "assignee", "a", "", "filter by assignee")
	cmd.Flags().StringSliceVarP(&tags, "tag", "t", nil, "filter by tag (any match, repeatable)")
	cmd.Flags().StringVarP(&search, "search", "q", "", "search title and description")
	cmd.Flags().StringVar(&sortField, "sort", "", "sort field")
	cmd.Flags().StringVar(&dir, "dir", string(query.Asc), "sort direction: asc|desc")
	return cmd
}

func printTasks(tasks []task.Task) {
	if len(tasks) == 0 {
		fmt.Println("no tasks")
		return
	}
	fmt.Printf("%-36s %-30s %-12s %-8s %-10s %-12s\n", "ID", "TITLE", "STATUS", "PRIO", "CATEGORY", "DUE")
	fmt.Println(strings.Repeat("-", 112))
	for _, t := range tasks {
		due := ""
		if t.DueDate != nil {
			due = t.DueDate.Format("2006-01-02")
		}
		fmt.Printf("%-36s %-30s %-12s %-8s %-10s %-12s\n",
			t.ID,
			truncate(t.Title, 29),
			string(t.Status),
			string(t.Priority),
			string(t.Category),
			due,
		)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

// --- show ---

func newShowCmd(file *string) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "show one task in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			store, err := loadStore(*file)
			if err != nil {
				return err
			}
			t, ok := store.Get(args[0])
			if !ok {
				return fmt.Errorf("task %s not found", args[0])
			}
			printTask(t)
			return nil
		},
	}
}

func printTask(t task.Task) {
	fmt.Printf("id:          %s\n", t.ID)
	fmt.Printf("title:       %s\n", t.Title)
	if t.Description != "" {
		fmt.Printf("description: %s\n", t.Description)
	}
	fmt.Printf("status:      %s\n", t.Status)
	fmt.Printf("priority:    %s\n", t.Priority)
	fmt.Printf("category:    %s\n", t.Category)
	if t.DueDate != nil {
		fmt.Printf("due:         %s\n", t.DueDate.Format(time.RFC3339))
	}
	if t.AssignedTo != "" {
		fmt.Printf("assignee:    %s\n", t.AssignedTo)
	}
	if len(t.Tags) > 0 {
		fmt.Printf("tags:        %s\n", strings.Join(t.Tags, ", "))
	}
	if t.EstimatedHours != nil {
		fmt.Printf("estimated:   %.1fh\n", *t.EstimatedHours)
	}
	if t.ActualHours != nil {
		fmt.Printf("actual:      %.1fh\n", *t.ActualHours)
	}
	fmt.Printf("created:     %s\n", t.CreatedAt.Format(time.RFC3339))
	fmt.Printf("updated:     %s\n", t.UpdatedAt.Format(time.RFC3339))
}

// --- edit ---

func newEditCmd(file *string) *cobra.Command {
	var (
		title    string
		desc     string
		priority string
		status   string
		category string
		due      string
		estimate float64
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "update fields of a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch task.Patch
			if cmd.Flags().Changed("title") {
				patch.Title = &title
			}
			if cmd.Flags().Changed("desc") {
				patch.Description = &desc
			}
			if cmd.Flags().Changed("priority") {
				p := task.Priority(priority)
				if !p.Valid() {
					return fmt.Errorf("invalid priority %q", priority)
				}
				patch.Priority = &p
			}
			if cmd.Flags().Changed("status") {
				s := task.Status(status)
				if !s.Valid() {
					return fmt.Errorf("invalid status %q", status)
				}
				patch.Status = &s
			}
			if cmd.Flags().Changed("category") {
				c := task.Category(category)
				if !c.Valid() {
					return fmt.Errorf("invalid category %q", category)
				}
				patch.Category = &c
			}
			if cmd.Flags().Changed("due") {
				d, err := parseDue(due)
				if err != nil {
					return err
				}
				patch.DueDate = d
			}
			if cmd.Flags().Changed("estimate") {
				patch.EstimatedHours = &estimate
			}

			store, err := loadStore(*file)
			if err != nil {
				return err
			}
			t, ok := store.Update(args[0], patch)
			if !ok {
				return fmt.Errorf("task %s not found", args[0])
			}
			if err := saveStore(*file, store); err != nil {
				return err
			}
			printTask(t)
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "new title")
	cmd.Flags().StringVar(&desc, "desc", "", "new description")
	cmd.Flags().StringVar(&priority, "priority", "", "new priority")
	cmd.Flags().StringVar(&status, "status", "", "new status")
	cmd.Flags().StringVar(&category, "category", "", "new category")
	cmd.Flags().StringVar(&due, "due", "", "new due date")
	cmd.Flags().Float64Var(&estimate, "estimate", 0, "new estimated hours")
	return cmd
}

// --- done ---

func newDoneCmd(file *string) *cobra.Command {
	var hours float64
	cmd := &cobra.Command{
		Use:   "done <id>",
		Short: "mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := loadStore(*file)
			if err != nil {
				return err
			}
			var actual *float64
			if cmd.Flags().Changed("hours") {
				actual = &hours
			}
			t, ok := store.Complete(args[0], actual)
			if !ok {
				return fmt.Errorf("task %s not found", args[0])
			}
			if err := saveStore(*file, store); err != nil {
				return err
			}
			fmt.Printf("completed %s\n", t.ID)
			return nil
		},
	}
	cmd.Flags().Float64Var(&hours, "hours", 0, "actual hours spent")
	return cmd
}

// --- rm ---

func newRmCmd(file *string) *cobra.Command {
	return &cobra.Command{
		Use:   "rm <id>",
		Short: "delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			store, err := loadStore(*file)
			if err != nil {
				return err
			}
			if !store.Delete(args[0]) {
				return fmt.Errorf("task %s not found", args[0])
			}
			if err := saveStore(*file, store); err != nil {
				return err
			}
			fmt.Printf("deleted %s\n", args[0])
			return nil
		},
	}
}

// --- assign ---

func newAssignCmd(file *string) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <id> <assignee>",
		Short: "assign a task",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			store, err := loadStore(*file)
			if err != nil {
				return err
			}
			t, ok := store.Reassign(args[0], args[1])
			if !ok {
				return fmt.Errorf("task %s not found", args[0])
			}
			if err := saveStore(*file, store); err != nil {
				return err
			}
			fmt.Printf("assigned %s to %s\n", t.ID, t.AssignedTo)
			return nil
		},
	}
}

// --- tag ---

func newTagCmd(file *string) *cobra.Command {
	var add, remove []string
	cmd := &cobra.Command{
		Use:   "tag <id>",
		Short: "add or remove tags",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			if len(add) == 0 && len(remove) == 0 {
				return fmt.Errorf("nothing to do: pass --add and/or --rm")
			}
			store, err := loadStore(*file)
			if err != nil {
				return err
			}
			id := args[0]
			t, ok := store.Get(id)
			if ok && len(add) > 0 {
				t, ok = store.AddTags(id, add...)
			}
			if ok && len(remove) > 0 {
				t, ok = store.RemoveTags(id, remove...)
			}
			if !ok {
				return fmt.Errorf("task %s not found", id)
			}
			if err := saveStore(*file, store); err != nil {
				return err
			}
			fmt.Printf("tags: %s\n", strings.Join(t.Tags, ", "))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&add, "add", nil, "tags to add")
	cmd.Flags().StringSliceVar(&remove, "rm", nil, "tags to remove")
	return cmd
}

// --- stats ---

func newStatsCmd(file *string) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "show aggregate statistics",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			store, err := loadStore(*file)
			if err != nil {
				return err
			}
			st := query.Statistics(store.Snapshot(), time.Now().UTC())

			fmt.Printf("total:     %d\n", st.TotalTasks)
			fmt.Printf("completed: %d\n", st.CompletedTasks)
			fmt.Printf("pending:   %d\n", st.PendingTasks)
			fmt.Printf("overdue:   %d\n", st.OverdueTasks)
			fmt.Println("by status:")
			for _, s := range task.Statuses {
				fmt.Printf("  %-12s %d\n", s, st.ByStatus[s])
			}
			fmt.Println("by priority:")
			for _, p := range task.Priorities {
				fmt.Printf("  %-12s %d\n", p, st.ByPriority[p])
			}
			fmt.Println("by category:")
			for _, c := range task.Categories {
				fmt.Printf("  %-12s %d\n", c, st.ByCategory[c])
			}
			if st.AverageCompletionTime > 0 {
				fmt.Printf("avg completion: %.1fh\n", st.AverageCompletionTime)
			}
			return nil
		},
	}
}

// --- upcoming ---

func newUpcomingCmd(file *string) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "upcoming",
		Short: "list tasks due soon",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			store, err := loadStore(*file)
			if err != nil {
				return err
			}
			printTasks(query.Upcoming(store.Snapshot(), time.Now().UTC(), days))
			return nil
		},
	}
	cmd.Flags().IntVar(&days, "days", 7, "days ahead")
	return cmd
}

// --- version ---

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "print version",
		Args:  cobra.NoArgs,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("intray %s (commit %s, built %s)\n",
				version.Version, version.Commit, version.BuildDate)
		},
	}
}
