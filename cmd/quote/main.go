package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aman-zulfiqar/currency-swap/internal/catalog"
	"github.com/aman-zulfiqar/currency-swap/internal/config"
	"github.com/aman-zulfiqar/currency-swap/internal/constants"
	"github.com/aman-zulfiqar/currency-swap/internal/format"
	"github.com/aman-zulfiqar/currency-swap/internal/pricefeed"
	"github.com/aman-zulfiqar/currency-swap/internal/swap"
)

// quote prices a swap against the live feed, or lists the ranked catalog with -list.
// With -submit it also runs the simulated submission.
func main() {
	from := flag.String("from", "ETH", "source token symbol")
	to := flag.String("to", "USDC", "destination token symbol")
	amt := flag.String("amt", "", "amount to swap, plain decimal (e.g. 1.5)")
	slippage := flag.Float64("slippage", constants.DefaultSlippagePercent, "slippage tolerance in percent (0-50)")
	deadline := flag.Int("deadline", constants.DefaultDeadline, "transaction deadline in minutes")
	list := flag.String("list", "", "list tokens matching this query instead of quoting (\"*\" for all)")
	submit := flag.Bool("submit", false, "run the simulated submission after quoting")
	flip := flag.Bool("flip", false, "swap -from and -to before quoting")
	pairs := flag.String("pairs", "", "comma-separated FROM:TO pairs to quote instead of -from/-to (e.g. ETH:USDC,WBTC:ETH)")
	flag.Parse()

	boot := config.NewLogger("warn")
	config.LoadDotEnv(boot)
	cfg := config.Load()
	logger := config.NewLogger(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	engine, err := swap.NewEngine(swap.EngineConfig{
		Prices:   pricefeed.NewClient(cfg.PriceFeedURL, cfg.HTTPTimeout),
		Balances: swap.NewMockBalances(nil),
		Logger:   logger,
	})
	if err != nil {
		fmt.Println("failed to init engine:", err)
		os.Exit(1)
	}

	if *list != "" {
		q := *list
		if q == "*" {
			q = ""
		}
		if err := printTokens(ctx, engine, q); err != nil {
			fmt.Println("list failed:", err)
			os.Exit(1)
		}
		return
	}

	// tolerate pasted amounts such as "$1,234.5"
	amount, err := swap.ParseAmount(swap.SanitizeAmount(*amt))
	if err != nil || amount <= 0 {
		fmt.Println("missing or invalid -amt (must be a decimal > 0)")
		os.Exit(2)
	}

	pairList := [][2]string{{*from, *to}}
	if *pairs != "" {
		if pairList, err = parsePairs(*pairs); err != nil {
			fmt.Println("invalid -pairs:", err)
			os.Exit(2)
		}
	}

	reqs, err := buildRequests(engine.Assets(), pairList, *flip, amount,
		swap.Settings{SlippagePercent: *slippage, DeadlineMinutes: *deadline})
	if err != nil {
		fmt.Println("invalid request:", err)
		os.Exit(2)
	}

	failed := false
	for i, req := range reqs {
		if i > 0 {
			fmt.Println()
		}
		if err := run(ctx, engine, req, *submit); err != nil {
			fmt.Println(err)
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}

// run quotes req, prints it and optionally submits it.
func run(ctx context.Context, engine *swap.Engine, req swap.Request, submit bool) error {
	q, err := engine.Quote(ctx, req)
	if err != nil {
		return fmt.Errorf("quote failed: %w", err)
	}
	if q.PriceUnavailable() {
		return fmt.Errorf("price unavailable for %s/%s", req.From, req.To)
	}

	toAsset, _ := catalog.Lookup(engine.Assets(), req.To)
	fmt.Printf("you pay      %s %s (~%s)\n", format.Quantity(q.SourceAmount, 8), req.From, format.CurrencyUSD(q.SourceUSD))
	fmt.Printf("you receive  %s %s (~%s)\n", format.Quantity(q.DestinationAmount, int(toAsset.Decimals)), req.To, format.CurrencyUSD(q.DestinationUSD))
	fmt.Printf("rate         1 %s = %s %s\n", req.From, format.Quantity(q.ExchangeRate, 6), req.To)
	fmt.Printf("impact       %.2f%% (%s)\n", q.PriceImpactPercent, q.ImpactLevel)
	fmt.Printf("slippage     %v%%  deadline %dm\n", q.SlippagePercent, req.Settings.DeadlineMinutes)
	fmt.Printf("network fee  %s\n", format.CurrencyUSD(q.NetworkFeeUSD))

	var rv *swap.RuleViolation
	if err := engine.CheckBalance(ctx, req.From, req.Amount); errors.As(err, &rv) {
		fmt.Println("warning:", rv.Message)
	}

	if !submit {
		return nil
	}

	res, err := engine.Submit(ctx, req)
	switch {
	case errors.As(err, &rv):
		return errors.New(rv.Message)
	case errors.Is(err, swap.ErrTransientFailure):
		return errors.New(swap.FailureMessage)
	case err != nil:
		return fmt.Errorf("submit failed: %w", err)
	}
	fmt.Printf("submitted id=%s tx=%s\n", res.Receipt.ID, format.ShortHash(res.Receipt.TxHash))
	return nil
}

// parsePairs reads "ETH:USDC,WBTC:ETH" into symbol pairs.
func parsePairs(v string) ([][2]string, error) {
	var out [][2]string
	for _, part := range strings.Split(v, ",") {
		from, to, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok || from == "" || to == "" {
			return nil, fmt.Errorf("want FROM:TO, got %q", part)
		}
		out = append(out, [2]string{from, to})
	}
	return out, nil
}

// buildRequests runs each pair through swap.State the way the form does. The settings
// are validated once and carried across pairs by Reset.
func buildRequests(assets []catalog.Asset, pairs [][2]string, flip bool, amount float64, st swap.Settings) ([]swap.Request, error) {
	state, err := swap.NewState().WithSettings(st)
	if err != nil {
		return nil, err
	}

	reqs := make([]swap.Request, 0, len(pairs))
	for _, p := range pairs {
		from, to := p[0], p[1]
		if from == to {
			return nil, fmt.Errorf("%w: %s", swap.ErrSameAsset, from)
		}
		fromAsset, ok := catalog.Lookup(assets, from)
		if !ok {
			return nil, fmt.Errorf("%w: %s", swap.ErrUnknownAsset, from)
		}
		toAsset, ok := catalog.Lookup(assets, to)
		if !ok {
			return nil, fmt.Errorf("%w: %s", swap.ErrUnknownAsset, to)
		}

		state = state.Reset().
			Select(swap.SideFrom, fromAsset).
			Select(swap.SideTo, toAsset)
		if flip {
			state = state.Flip()
		}
		req, err := state.Request(amount)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func printTokens(ctx context.Context, engine *swap.Engine, query string) error {
	assets, prices, err := engine.Tokens(ctx, query)
	if err != nil {
		return err
	}
	for _, a := range assets {
		fmt.Printf("%-8s %-28s %s\n", a.Symbol, a.Name, format.CurrencyUSD(prices.Price(a.Symbol)))
	}
	return nil
}
