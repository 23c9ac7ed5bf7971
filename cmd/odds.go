package cmd

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"lottocheck/bot/common"
	"lottocheck/config"
	"lottocheck/domain/entities"
	"lottocheck/domain/services"
)

// Odds prints the exact per-ticket odds. With trials > 0 it also generates
// that many tickets, classifies them against refArg and reports how well the
// observed tiers fit.
func Odds(ctx context.Context, cfg *config.Config, w io.Writer, trials int, refArg string) error {
	odds := services.ExactOdds()
	printOdds(w, odds)
	if trials <= 0 {
		return nil
	}

	ref, err := entities.ParseDrawRef(refArg)
	if err != nil {
		return err
	}

	app, err := NewApp(ctx, cfg, AppOptions{})
	if err != nil {
		return err
	}
	defer app.Close()

	draw, err := app.Service.GetDraw(ctx, ref)
	if err != nil {
		return err
	}

	generator := services.NewTicketGenerator(services.CryptoRandom{}, cfg.MaxTicketSets)
	result, err := services.SimulateOdds(generator, services.NewPrizeClassifier(), draw, trials)
	if err != nil {
		return err
	}

	fmt.Fprintln(w)
	printSimulation(w, result, odds)
	return nil
}

func printOdds(w io.Writer, odds []services.TierOdds) {
	fmt.Fprintf(w, "Odds per ticket (%s combinations)\n", common.FormatAmount(services.TotalCombinations))
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, o := range odds {
		fmt.Fprintf(tw, "  %s\t%s\t1 in %.1f\t%.7f%%\n",
			common.TierLabel(o.Tier), common.FormatAmount(o.Combinations), o.OneIn(), o.Probability*100)
	}
	_ = tw.Flush()
}

func printSimulation(w io.Writer, result *services.SimulationResult, odds []services.TierOdds) {
	fmt.Fprintf(w, "Simulated %s tickets against draw %d\n", common.FormatAmount(int64(result.Trials)), result.DrawID)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, o := range odds {
		fmt.Fprintf(tw, "  %s\t%d\texpected %.1f\n",
			common.TierLabel(o.Tier), result.Counts[o.Tier], o.Probability*float64(result.Trials))
	}
	_ = tw.Flush()

	verdict := "consistent with exact odds"
	if !result.Consistent() {
		verdict = "NOT consistent with exact odds"
	}
	fmt.Fprintf(w, "χ² = %.2f (df %d, 95%% critical %.3f): %s\n",
		result.ChiSquared, result.DegreesOfFreedom, result.CriticalValue, verdict)
}
