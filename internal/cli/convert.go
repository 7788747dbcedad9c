package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"lockdin/internal/easterntime"
)

type conversion struct {
	Local        string `json:"local"`
	Abbreviation string `json:"abbreviation"`
	UTC          string `json:"utc"`
}

type dstPeriod struct {
	Year     int    `json:"year"`
	Start    string `json:"start"`
	End      string `json:"end"`
	StartUTC string `json:"start_utc"`
	EndUTC   string `json:"end_utc"`
}

type checkResult struct {
	Local        string `json:"local"`
	DST          bool   `json:"dst"`
	Abbreviation string `json:"abbreviation"`
	Offset       string `json:"offset"`
	UTC          string `json:"utc"`
	RoundTrips   bool   `json:"round_trips"`
}

func formatOffset(d time.Duration) string {
	sign := "+"
	if d < 0 {
		sign = "-"
		d = -d
	}
	return fmt.Sprintf("%s%02d:%02d", sign, int(d.Hours()), int(d.Minutes())%60)
}

func newToUTCCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "to-utc <YYYY-MM-DD HH:MM>",
		Short:   "Convert an Eastern wall-clock time to UTC",
		Example: "  lockdin-tz to-utc 2024-07-15 12:00",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			local, err := easterntime.ParseLocal(joinArgs(args))
			if err != nil {
				return err
			}
			utc, err := easterntime.LocalToUTC(local)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return writeJSON(out, conversion{
					Local:        local.String(),
					Abbreviation: easterntime.Abbreviation(local),
					UTC:          easterntime.FormatInstant(utc),
				})
			}
			fmt.Fprintln(out, easterntime.FormatInstant(utc))
			return nil
		},
	}
}

func newToEasternCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "to-eastern <instant>",
		Short:   "Convert a UTC instant to Eastern wall-clock time",
		Example: "  lockdin-tz to-eastern 2024-07-15T16:00:00.000Z",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			utc, err := easterntime.ParseInstant(args[0])
			if err != nil {
				return err
			}
			local := easterntime.UTCToLocal(utc)

			out := cmd.OutOrStdout()
			if opts.json {
				return writeJSON(out, conversion{
					Local:        local.String(),
					Abbreviation: easterntime.Abbreviation(local),
					UTC:          easterntime.FormatInstant(utc),
				})
			}
			fmt.Fprintln(out, local.Format(true))
			return nil
		},
	}
}

func newDSTCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "dst <year>",
		Short: "Show when daylight saving time starts and ends",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			year, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid year %q", args[0])
			}
			if _, err := easterntime.NewLocalDateTime(year, time.January, 1, 0, 0); err != nil {
				return err
			}

			start, end := easterntime.DSTBounds(year)
			startUTC, endUTC := easterntime.TransitionsUTC(year)
			p := dstPeriod{
				Year:     year,
				Start:    start.String(),
				End:      end.String(),
				StartUTC: easterntime.FormatInstant(startUTC),
				EndUTC:   easterntime.FormatInstant(endUTC),
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return writeJSON(out, p)
			}
			fmt.Fprintf(out, "%d: EDT from %s (%s) until %s (%s)\n", p.Year, p.Start, p.StartUTC, p.End, p.EndUTC)
			return nil
		},
	}
}

func newCheckCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "check <YYYY-MM-DD HH:MM>",
		Short: "Explain how an Eastern wall-clock time is interpreted",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			local, err := easterntime.ParseLocal(joinArgs(args))
			if err != nil {
				return err
			}
			utc, err := easterntime.LocalToUTC(local)
			if err != nil {
				return err
			}
			r := checkResult{
				Local:        local.String(),
				DST:          easterntime.IsEasternDaylightTime(local),
				Abbreviation: easterntime.Abbreviation(local),
				Offset:       formatOffset(easterntime.OffsetOf(local)),
				UTC:          easterntime.FormatInstant(utc),
				RoundTrips:   easterntime.RoundTrips(local),
			}

			out := cmd.OutOrStdout()
			if opts.json {
				return writeJSON(out, r)
			}
			fmt.Fprintf(out, "%s %s (UTC%s) is %s\n", r.Local, r.Abbreviation, r.Offset, r.UTC)
			if !r.RoundTrips {
				fmt.Fprintf(out, "warning: %s falls in the spring-forward gap and reads back as %s\n",
					r.Local, easterntime.UTCToLocal(utc).Format(true))
			}
			return nil
		},
	}
}
