package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"lottocheck/bot/common"
	"lottocheck/config"
	"lottocheck/domain/entities"
	"lottocheck/domain/interfaces"
)

// Draw prints one draw. refArg is "latest", "0" or a draw number.
func Draw(ctx context.Context, cfg *config.Config, w io.Writer, refArg string) error {
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

	printDraw(w, draw)
	return nil
}

// Check generates sets tickets and prints them with their tiers against refArg.
// An unresolvable draw still prints the tickets.
func Check(ctx context.Context, cfg *config.Config, w io.Writer, sets int, refArg string) error {
	ref, err := entities.ParseDrawRef(refArg)
	if err != nil {
		return err
	}

	app, err := NewApp(ctx, cfg, AppOptions{})
	if err != nil {
		return err
	}
	defer app.Close()

	report, err := app.Service.CheckTickets(ctx, ref, sets)
	if err != nil {
		return err
	}

	printReport(w, report)
	return nil
}

func printDraw(w io.Writer, draw *entities.DrawRecord) {
	fmt.Fprintf(w, "Draw %d\n", draw.ID())
	fmt.Fprintf(w, "  Numbers: %s + %d\n", entities.JoinNumbers(draw.WinningNumbers(), " "), draw.BonusNumber())
	if draw.HasDrawDate() {
		fmt.Fprintf(w, "  Date:    %s\n", common.FormatDrawDate(draw.DrawDate()))
	}
	if draw.FirstPrizeWinners() > 0 {
		fmt.Fprintf(w, "  1st:     %s x %d\n", common.FormatWon(draw.FirstPrizeAmount()), draw.FirstPrizeWinners())
	}
	if draw.TotalSales() > 0 {
		fmt.Fprintf(w, "  Sales:   %s\n", common.FormatWon(draw.TotalSales()))
	}
}

func printReport(w io.Writer, report *interfaces.CheckReport) {
	if report.ComparisonAvailable() {
		printDraw(w, report.Draw)
		fmt.Fprintln(w)
	} else {
		fmt.Fprintf(w, "Comparison unavailable: %s\n\n", common.DrawErrorMessage(report.ComparisonErr, report.Ref))
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i, check := range report.Tickets {
		cols := []string{fmt.Sprintf("%d.", i+1), entities.JoinNumbers(check.Ticket.Numbers(), " ")}
		if check.Result != nil {
			cols = append(cols, common.TierLabel(check.Result.Tier), common.FormatMatch(*check.Result))
		}
		fmt.Fprintln(tw, strings.Join(cols, "\t"))
	}
	_ = tw.Flush()
}
