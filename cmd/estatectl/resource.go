package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/rodstewart/estatectl/internal/export"
	"github.com/rodstewart/estatectl/internal/listing"
	"github.com/rodstewart/estatectl/internal/resources"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(
		newResourceCmd(resources.Bookings()),
		newResourceCmd(resources.Contacts()),
		addPartnerCommands(newResourceCmd(resources.Partners())),
		addPropertyCommands(newResourceCmd(resources.Properties())),
		newResourceCmd(resources.Messages()),
		newResourceCmd(resources.Inquiries()),
	)
}

// resourceCmd holds the flag values of one collection's command tree
type resourceCmd[T listing.Record] struct {
	def resources.Definition[T]

	search   string
	status   string
	filters  map[string]*string
	page     int
	pageSize int
	all      bool

	force    bool
	cascades map[string]*bool

	message string

	format string
	output string
}

func newResourceCmd[T listing.Record](def resources.Definition[T]) *cobra.Command {
	rc := &resourceCmd[T]{
		def:      def,
		filters:  map[string]*string{},
		cascades: map[string]*bool{},
	}

	cmd := &cobra.Command{
		Use:   def.Name,
		Short: fmt.Sprintf("Manage %s", def.Name),
		Long: fmt.Sprintf(`List, inspect and update %s.

Statuses: %s`, def.Name, strings.Join(def.Statuses, ", ")),
	}
	cmd.AddCommand(rc.listCmd(), rc.viewCmd(), rc.deleteCmd(), rc.statusCmd(), rc.exportCmd())
	if def.CanReply() {
		cmd.AddCommand(rc.replyCmd())
	}
	return cmd
}

// openController loads the collection for one command. The returned
// cleanup cancels anything still in flight.
func openController[T listing.Record](cmd *cobra.Command, def resources.Definition[T]) (*session, *listing.Controller[T], func(), error) {
	s, err := newSession(cmd)
	if err != nil {
		return nil, nil, nil, err
	}

	c := def.Controller(s.client,
		listing.WithContext(s.ctx),
		listing.WithLogger(s.log),
		listing.WithPageSize(s.pageSize(def.PageSize)),
	)
	cleanup := func() {
		c.Close()
		s.cancel()
	}

	if err := c.Load(s.ctx); err != nil {
		cleanup()
		return nil, nil, nil, fmt.Errorf("failed to load %s: %w", def.Name, err)
	}
	return s, c, cleanup, nil
}

func findRecord[T listing.Record](c *listing.Controller[T], def resources.Definition[T], id string) (T, error) {
	record, ok := c.Find(id)
	if !ok {
		return record, fmt.Errorf("%s with ID %s not found", def.Singular, id)
	}
	return record, nil
}

func (rc *resourceCmd[T]) addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&rc.search, "search", "s", "", "case-insensitive text search")
	cmd.Flags().StringVar(&rc.status, "status", "", fmt.Sprintf("filter by status (%s)", strings.Join(rc.def.Statuses, ", ")))
	for _, cat := range rc.def.Schema.Categories {
		if cat.Name == "status" {
			continue
		}
		v, ok := rc.filters[cat.Name]
		if !ok {
			v = new(string)
			rc.filters[cat.Name] = v
		}
		usage := "filter by " + cat.Name
		if len(cat.Values) > 0 {
			usage += " (" + strings.Join(cat.Values, ", ") + ")"
		}
		cmd.Flags().StringVar(v, cat.Name, "", usage)
	}
}

func (rc *resourceCmd[T]) applyFilters(c *listing.Controller[T]) error {
	c.SetQuery(rc.search)
	if rc.status != "" {
		if err := c.SetCategory("status", rc.status); err != nil {
			return err
		}
	}
	names := make([]string, 0, len(rc.filters))
	for name := range rc.filters {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if value := *rc.filters[name]; value != "" {
			if err := c.SetCategory(name, value); err != nil {
				return err
			}
		}
	}
	return nil
}

func filtered(st listing.FilterState) bool {
	if st.Query != "" {
		return true
	}
	for _, v := range st.Selected {
		if v != "" {
			return true
		}
	}
	return false
}

func (rc *resourceCmd[T]) listCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: fmt.Sprintf("List %s", rc.def.Name),
		Long: fmt.Sprintf(`List %s one page at a time, optionally filtered.

Examples:
  estatectl %s list
  estatectl %s list --search smith --status %s
  estatectl %s list --page 2
  estatectl %s list --all --json`, rc.def.Name, rc.def.Name, rc.def.Name, rc.def.Statuses[0], rc.def.Name, rc.def.Name),
		Args: cobra.NoArgs,
		RunE: rc.runList,
	}
	rc.addFilterFlags(cmd)
	cmd.Flags().IntVarP(&rc.page, "page", "p", 1, "page number")
	cmd.Flags().IntVar(&rc.pageSize, "page-size", 0, fmt.Sprintf("records per page (default %d)", rc.def.PageSize))
	cmd.Flags().BoolVar(&rc.all, "all", false, "show every matching record instead of one page")
	return cmd
}

func (rc *resourceCmd[T]) runList(cmd *cobra.Command, args []string) error {
	if rc.page < 1 {
		return fmt.Errorf("invalid page %d: must be at least 1", rc.page)
	}

	_, c, cleanup, err := openController(cmd, rc.def)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := rc.applyFilters(c); err != nil {
		return err
	}
	if rc.pageSize > 0 {
		c.SetPageSize(rc.pageSize)
	}

	v := c.View()
	if rc.page > v.Page.TotalPages {
		return fmt.Errorf("page %d out of range (1-%d)", rc.page, v.Page.TotalPages)
	}
	c.SetPage(rc.page)
	v = c.View()

	records := v.Page.Items
	if rc.all {
		records = c.Filtered()
	}

	if jsonOutput {
		out := map[string]any{
			"resource":    rc.def.Name,
			"total":       v.Total,
			"filtered":    v.Page.Filtered,
			"page":        v.Page.Number,
			"total_pages": v.Page.TotalPages,
			"records":     records,
		}
		if rc.all {
			out["page"] = 1
			out["total_pages"] = 1
		}
		return outputJSON(out)
	}

	if v.Empty() {
		if filtered(v.Filter) {
			fmt.Printf("No %s match the current filters\n", rc.def.Name)
		} else {
			fmt.Printf("No %s found\n", rc.def.Name)
		}
		return nil
	}

	renderTable(os.Stdout, rc.def.Headers(), wideColumns(rc.def.Columns), rc.def.Rows(records))
	if rc.all {
		fmt.Printf("%d of %d %s\n", len(records), v.Total, rc.def.Name)
	} else {
		fmt.Printf("Showing %d-%d of %d %s (page %d of %d)\n",
			v.Page.FirstIndex(), v.Page.LastIndex(), v.Page.Filtered, rc.def.Name, v.Page.Number, v.Page.TotalPages)
	}
	return nil
}

func (rc *resourceCmd[T]) viewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view <id>",
		Short: fmt.Sprintf("Show a %s in full", rc.def.Singular),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, c, cleanup, err := openController(cmd, rc.def)
			if err != nil {
				return err
			}
			defer cleanup()

			record, err := findRecord(c, rc.def, args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return outputJSON(record)
			}
			printFields(os.Stdout, rc.def.Details(record))
			return nil
		},
	}
}

func (rc *resourceCmd[T]) deleteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s by ID", rc.def.Singular),
		Long: fmt.Sprintf(`Delete a %s by ID. Requires confirmation unless --force or --json flag is set.

Examples:
  estatectl %s delete 42
  estatectl %s delete 42 --force`, rc.def.Singular, rc.def.Name, rc.def.Name),
		Args: cobra.ExactArgs(1),
		RunE: rc.runDelete,
	}
	cmd.Flags().BoolVarP(&rc.force, "force", "f", false, "skip confirmation prompt")
	for _, cascade := range rc.def.Cascades {
		v, ok := rc.cascades[cascade.Name]
		if !ok {
			v = new(bool)
			rc.cascades[cascade.Name] = v
		}
		cmd.Flags().BoolVar(v, "delete-"+cascade.Name, false, cascade.Description)
	}
	return cmd
}

func (rc *resourceCmd[T]) runDelete(cmd *cobra.Command, args []string) error {
	id := args[0]

	s, c, cleanup, err := openController(cmd, rc.def)
	if err != nil {
		return err
	}
	defer cleanup()

	record, err := findRecord(c, rc.def, id)
	if err != nil {
		return err
	}

	var chosen []string
	for _, cascade := range rc.def.Cascades {
		if *rc.cascades[cascade.Name] {
			chosen = append(chosen, cascade.Name)
		}
	}

	if !rc.force && !jsonOutput {
		fmt.Printf("About to delete %s:\n", rc.def.Singular)
		for _, f := range summaryFields(rc.def.Details(record)) {
			fmt.Printf("  %s: %s\n", f.Label, f.Value)
		}
		for _, name := range chosen {
			fmt.Printf("  (its %s will be deleted too)\n", name)
		}
		ok, err := confirm(os.Stdin)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Println("Delete cancelled")
			return nil
		}
	}

	followUps, err := rc.def.FollowUps(rc.def.Resource(s.client), chosen...)
	if err != nil {
		return err
	}
	if err := c.Delete(s.ctx, id, followUps...); err != nil {
		return fmt.Errorf("failed to delete %s %s: %w", rc.def.Singular, id, err)
	}

	if jsonOutput {
		return outputJSON(map[string]any{"deleted": true, "id": id})
	}
	fmt.Printf("✓ %s %s deleted\n", capitalize(rc.def.Singular), id)
	return nil
}

func (rc *resourceCmd[T]) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status <id> <status>",
		Short: fmt.Sprintf("Change a %s's status", rc.def.Singular),
		Long: fmt.Sprintf(`Change a %s's status. Valid statuses: %s

Examples:
  estatectl %s status 42 %s`, rc.def.Singular, strings.Join(rc.def.Statuses, ", "), rc.def.Name, rc.def.Statuses[len(rc.def.Statuses)-1]),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			patch, err := rc.def.StatusPatch(args[1])
			if err != nil {
				return err
			}

			s, c, cleanup, err := openController(cmd, rc.def)
			if err != nil {
				return err
			}
			defer cleanup()

			updated, err := c.Update(s.ctx, id, patch)
			if err != nil {
				return fmt.Errorf("failed to update %s %s: %w", rc.def.Singular, id, err)
			}

			if jsonOutput {
				return outputJSON(updated)
			}
			fmt.Printf("✓ %s %s status set to %s\n", capitalize(rc.def.Singular), id, rc.def.Status(updated))
			return nil
		},
	}
}

func (rc *resourceCmd[T]) replyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reply <id> [message]",
		Short: fmt.Sprintf("Reply to a %s", rc.def.Singular),
		Long: fmt.Sprintf(`Send a reply to a %s and mark it %s. The message must be between
10 and 2000 characters. Without a message argument or --message, the reply is
read from standard input.

Examples:
  estatectl %s reply 42 "Thanks, we will call you back tomorrow."
  estatectl %s reply 42 < answer.txt`, rc.def.Singular, rc.def.ReplyStatus, rc.def.Name, rc.def.Name),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]

			text := rc.message
			if len(args) == 2 {
				text = args[1]
			}
			if text == "" {
				data, err := io.ReadAll(os.Stdin)
				if err != nil {
					return fmt.Errorf("failed to read reply: %w", err)
				}
				text = string(data)
			}

			patch, err := rc.def.ReplyPatch(text)
			if err != nil {
				return err
			}

			s, c, cleanup, err := openController(cmd, rc.def)
			if err != nil {
				return err
			}
			defer cleanup()

			updated, err := c.Update(s.ctx, id, patch)
			if err != nil {
				return fmt.Errorf("failed to reply to %s %s: %w", rc.def.Singular, id, err)
			}

			if jsonOutput {
				return outputJSON(updated)
			}
			fmt.Printf("✓ Reply sent to %s %s\n", rc.def.Singular, id)
			return nil
		},
	}
	cmd.Flags().StringVarP(&rc.message, "message", "m", "", "reply text")
	return cmd
}

func (rc *resourceCmd[T]) exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: fmt.Sprintf("Export %s to CSV or JSON", rc.def.Name),
		Long: fmt.Sprintf(`Export every %s matching the filters.

Examples:
  estatectl %s export > %s.csv
  estatectl %s export --format json -o %s.json --status %s`,
			rc.def.Singular, rc.def.Name, rc.def.Name, rc.def.Name, rc.def.Name, rc.def.Statuses[0]),
		Args: cobra.NoArgs,
		RunE: rc.runExport,
	}
	rc.addFilterFlags(cmd)
	cmd.Flags().StringVar(&rc.format, "format", "csv", "export format (csv, json)")
	cmd.Flags().StringVarP(&rc.output, "output", "o", "", "output file (default stdout)")
	return cmd
}

func (rc *resourceCmd[T]) runExport(cmd *cobra.Command, args []string) error {
	format := strings.ToLower(rc.format)
	if format != "csv" && format != "json" {
		return fmt.Errorf("unsupported format %q (valid formats: csv, json)", rc.format)
	}

	_, c, cleanup, err := openController(cmd, rc.def)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := rc.applyFilters(c); err != nil {
		return err
	}
	records := c.Filtered()

	var writer io.Writer = os.Stdout
	if rc.output != "" {
		file, err := os.Create(rc.output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		writer = file
	}

	switch format {
	case "json":
		st := c.Filter()
		doc := export.NewDocument("estatectl", rc.def.Name, &export.Filter{Query: st.Query, Selected: st.Selected}, records)
		err = export.JSON(writer, doc)
	default:
		err = export.CSV(writer, rc.def.Headers(), rc.def.Rows(records))
	}
	if err != nil {
		return err
	}

	if rc.output != "" {
		fmt.Fprintf(os.Stderr, "✓ Exported %d %s to %s\n", len(records), rc.def.Name, rc.output)
	}
	return nil
}

// summaryFields keeps the first few non-empty lines for a confirmation prompt
func summaryFields(fields []resources.Field) []resources.Field {
	out := make([]resources.Field, 0, 4)
	for _, f := range fields {
		if f.Value == "" || strings.Contains(f.Value, "\n") {
			continue
		}
		out = append(out, f)
		if len(out) == 4 {
			break
		}
	}
	return out
}

func confirm(r io.Reader) (bool, error) {
	fmt.Printf("\nAre you sure? (y/N): ")

	reader := bufio.NewReader(r)
	response, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read input: %w", err)
	}

	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
