package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rodstewart/estatectl/internal/listing"
	"github.com/rodstewart/estatectl/internal/resources"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show record counts for every collection",
	Long: `Load every collection concurrently and show how many records each holds,
broken down by status.`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

func init() {
	rootCmd.AddCommand(dashboardCmd)
}

// summary is one dashboard line
type summary struct {
	Resource string         `json:"resource"`
	Total    int            `json:"total"`
	Statuses []string       `json:"-"`
	ByStatus map[string]int `json:"by_status"`
}

func summarize[T listing.Record](s *session, def resources.Definition[T], out *summary) func() error {
	return func() error {
		c := def.Controller(s.client, listing.WithContext(s.ctx), listing.WithLogger(s.log))
		defer c.Close()

		if err := c.Load(s.ctx); err != nil {
			return fmt.Errorf("failed to load %s: %w", def.Name, err)
		}
		records := c.Records()
		*out = summary{
			Resource: def.Name,
			Total:    len(records),
			Statuses: def.Statuses,
			ByStatus: def.CountByStatus(records),
		}
		return nil
	}
}

func runDashboard(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	defer s.cancel()

	summaries := make([]summary, 6)
	g, ctx := errgroup.WithContext(s.ctx)
	s.ctx = ctx
	g.Go(summarize(s, resources.Bookings(), &summaries[0]))
	g.Go(summarize(s, resources.Contacts(), &summaries[1]))
	g.Go(summarize(s, resources.Partners(), &summaries[2]))
	g.Go(summarize(s, resources.Properties(), &summaries[3]))
	g.Go(summarize(s, resources.Messages(), &summaries[4]))
	g.Go(summarize(s, resources.Inquiries(), &summaries[5]))
	if err := g.Wait(); err != nil {
		return err
	}

	if jsonOutput {
		return outputJSON(summaries)
	}

	rows := make([][]string, len(summaries))
	for i, sum := range summaries {
		parts := make([]string, 0, len(sum.Statuses))
		for _, status := range sum.Statuses {
			parts = append(parts, fmt.Sprintf("%s %d", status, sum.ByStatus[status]))
		}
		rows[i] = []string{sum.Resource, strconv.Itoa(sum.Total), strings.Join(parts, "  ")}
	}
	renderTable(os.Stdout, []string{"Resource", "Total", "By status"}, []bool{false, false, true}, rows)
	return nil
}
