package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"liverkpi/internal/core/kpi"
	analysisdomain "liverkpi/internal/services/analysis/domain"
)

const stamp = "2006-01-02 15:04"

// render writes the text report; callers wanting everything use -format json
func render(w io.Writer, res analysisdomain.Result) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	fmt.Fprintf(tw, "run\t%s\n", res.RunID)
	fmt.Fprintf(tw, "account\t%s\n", res.Request.Account)
	fmt.Fprintf(tw, "window\t%s .. %s\n", res.Window.Start.Format(stamp), res.Window.End.Format(stamp))
	if res.Window.Event != "" {
		fmt.Fprintf(tw, "event\t%s\n", res.Window.Event)
	}
	fmt.Fprintf(tw, "months\t%s\n", res.Months.Text)
	fmt.Fprintf(tw, "status\t%s\n", res.Status)

	if rep := res.Report; rep != nil {
		s := rep.Summary
		fmt.Fprintf(tw, "rows\t%d\n", s.Rows)
		fmt.Fprintf(tw, "support points\t%s\n", num(s.SupportPoints))
		if s.FollowersDisplayable {
			fmt.Fprintf(tw, "follower net (%s)\t%s\n", s.FollowerNetMode, opt(s.FollowerNet))
			fmt.Fprintf(tw, "latest followers\t%s\n", opt(s.LatestFollowers))
		}
		if res.Population > 0 {
			fmt.Fprintf(tw, "benchmark rows\t%d\n", res.Population)
		}

		fmt.Fprintln(tw, "\nratio\tvalue\trows\tbenchmark mean")
		for _, r := range rep.Ratios {
			bench := "-"
			if r.Benchmark != nil {
				bench = pct(r.Benchmark.Mean)
			}
			val := "-"
			if r.Value != nil {
				val = pct(*r.Value)
			}
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", r.Name, val, r.Rows, bench)
		}

		fmt.Fprintln(tw, "\nrule\tthreshold\trows")
		for _, th := range rep.Thresholds {
			fmt.Fprintf(tw, "%s\t%s\t%d\n", th.Rule, opt(th.Value), th.Rows)
		}
		fmt.Fprintf(tw, "\nhits\t%d\n", len(rep.Hits))
		for _, h := range rep.Hits {
			fmt.Fprintf(tw, "  %s\t%v\n", h.Row.StartedAt.Format(stamp), h.Rules)
		}

		insight(tw, "support per viewer", rep.Insights.SupportPerViewer)
		insight(tw, "commenters per viewer", rep.Insights.CommentersPerViewer)
	}
	return tw.Flush()
}

func insight(w io.Writer, label string, in *kpi.Insight) {
	if in == nil {
		fmt.Fprintf(w, "%s\t-\n", label)
		return
	}
	level := "low"
	if in.High {
		level = "high"
	}
	fmt.Fprintf(w, "%s\t%s (%s, threshold %s)\n", label, num(in.Mean), level, num(in.Threshold))
}

func num(v float64) string { return fmt.Sprintf("%.2f", v) }

func pct(v float64) string { return fmt.Sprintf("%.1f%%", v*100) }

func opt(v *float64) string {
	if v == nil {
		return "-"
	}
	return num(*v)
}

