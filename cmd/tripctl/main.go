package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"aiso/tripdesk/internal/client"
	"aiso/tripdesk/internal/logging"
	"aiso/tripdesk/internal/models/entities"
)

const defaultBaseURL = "http://localhost:8080"

type options struct {
	baseURL string
	timeout time.Duration
	verbose bool
}

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(out io.Writer) *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "tripctl",
		Short:         "Command line client for the tripdesk travel API",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			env := "production"
			if opts.verbose {
				env = "development"
			}
			return logging.Init(env)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			_ = logging.Close()
		},
	}
	root.SetOut(out)

	baseURL := os.Getenv("TRIPDESK_URL")
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	root.PersistentFlags().StringVar(&opts.baseURL, "base-url", baseURL, "tripdesk API base URL (env TRIPDESK_URL)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 15*time.Second, "overall timeout per command")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every API call")

	root.AddCommand(
		meetingsCmd(opts),
		prefsCmd(opts),
		confirmCmd(opts),
		reasoningCmd(opts),
		searchCmd(opts),
		bookCmd(opts),
		bookingCmd(opts),
		planCmd(opts),
	)
	return root
}

func (o *options) client() *client.Client {
	return client.NewClient(o.baseURL)
}

func (o *options) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), o.timeout)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func meetingsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "meetings",
		Short: "List meetings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			events, err := opts.client().ListMeetings(ctx)
			if err != nil {
				return err
			}
			for _, e := range events {
				fmt.Fprintf(cmd.OutOrStdout(), "%-8s %-24s %-12s %s\n", e.ID, e.Title, e.Location, e.Start)
			}
			return nil
		},
	}
}

func prefsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "prefs <meetingId>",
		Short: "Show a meeting's merged travel preferences",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			rec, err := opts.client().FetchPreferences(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, rec)
		},
	}
}

// confirmCmd starts from the meeting's current record and overrides only the
// flags that were given, so the submitted override is always a full record.
func confirmCmd(opts *options) *cobra.Command {
	var (
		from, to, class, tripType string
		days                      int
	)

	cmd := &cobra.Command{
		Use:   "confirm <meetingId>",
		Short: "Confirm travel preferences and start agent planning",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			c := opts.client()
			rec, err := c.FetchPreferences(ctx, args[0])
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("from") {
				rec.DepartureAirport = entities.Airport{Code: from}
			}
			if flags.Changed("to") {
				rec.ArrivalAirport = entities.Airport{Code: to}
			}
			if flags.Changed("class") {
				rec.CabinClass = entities.CabinClass(class)
			}
			if flags.Changed("trip-type") {
				rec.TripType = entities.TripType(tripType)
			}
			if flags.Changed("days") {
				rec.Days = days
				rec.StayRange = nil
			}

			resp, err := c.ConfirmPreferences(ctx, args[0], rec)
			if err != nil {
				return err
			}
			return printJSON(cmd, resp)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "departure airport code")
	cmd.Flags().StringVar(&to, "to", "", "arrival airport code")
	cmd.Flags().StringVar(&class, "class", "", "cabin: economy|premium_economy|business|first")
	cmd.Flags().StringVar(&tripType, "trip-type", "", "one-way|round-trip")
	cmd.Flags().IntVar(&days, "days", 0, "trip length in days")
	return cmd
}

func reasoningCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "reasoning <meetingId>",
		Short: "Show the agent reasoning log of a meeting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			resp, err := opts.client().FetchReasoning(ctx, args[0])
			if err != nil {
				return err
			}
			for _, entry := range resp.Log {
				fmt.Fprintf(cmd.OutOrStdout(), "%s [%s] %s\n", entry.Timestamp, entry.Type, entry.Text)
			}
			return nil
		},
	}
}

func searchCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "search <meetingId> [free text...]",
		Short: "Search flights on the meeting's current route",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			resp, err := opts.client().SearchFlights(ctx, args[0], strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "search %s (%s)\n", resp.SearchID, resp.Status)
			printCandidates(cmd, resp.Candidates)
			return nil
		},
	}
}

func printCandidates(cmd *cobra.Command, candidates []entities.FlightCandidate) {
	for _, c := range candidates {
		fmt.Fprintf(cmd.OutOrStdout(), "  %-10s %9.2f  %-8s %s\n", c.ID, c.Price, c.Provider, c.Itinerary)
	}
}

func bookCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "book <meetingId> <candidateId>",
		Short: "Book a flight candidate",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			booking, err := opts.client().CreateBooking(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			return printJSON(cmd, booking)
		},
	}
}

func bookingCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "booking <bookingId>",
		Short: "Show a booking",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			booking, err := opts.client().FetchBooking(ctx, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd, booking)
		},
	}
}

// planCmd runs the assistant conversation end to end: search with the given
// text, then book the cheapest candidate.
func planCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "plan <meetingId> [free text...]",
		Short: "Search and book the cheapest flight in one go",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			session := client.NewSession(opts.client())
			session.SelectMeeting(args[0])
			defer printConversation(cmd, session)

			text := strings.Join(args[1:], " ")
			if strings.TrimSpace(text) == "" {
				text = "find flights"
			}
			candidates, err := session.Send(ctx, text)
			if err != nil {
				return fmt.Errorf("%s: %w", session.LastError(), err)
			}
			if len(candidates) == 0 {
				return fmt.Errorf("no flight options for %s", args[0])
			}

			cheapest := lo.MinBy(candidates, func(a, b entities.FlightCandidate) bool { return a.Price < b.Price })
			if _, err := session.Book(ctx, cheapest.ID); err != nil {
				return fmt.Errorf("%s: %w", session.LastError(), err)
			}
			return nil
		},
	}
}

func printConversation(cmd *cobra.Command, s *client.Session) {
	for _, msg := range s.Messages() {
		fmt.Fprintf(cmd.OutOrStdout(), "%-5s %s\n", msg.Role+":", msg.Text)
		printCandidates(cmd, msg.Candidates)
	}
}
