package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"sort"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/lukehollenback/mtgox/config"
	"github.com/lukehollenback/mtgox/constants"
	"github.com/lukehollenback/mtgox/exchange"
	"github.com/lukehollenback/mtgox/exchange/mtgox"
	"github.com/lukehollenback/mtgox/reference"
	"github.com/shopspring/decimal"
)

const (
	Name = "≪mtgox≫"
)

var (
	logger *log.Logger

	cfgAmount    = flag.String("amount", "", "The amount of BTC to buy or sell.")
	cfgPrice     = flag.String("price", "", "The USD price to buy or sell at.")
	cfgOID       = flag.String("oid", "", "The identifier of the order to cancel.")
	cfgReference = flag.String("reference", "", "A Coinbase Pro product (e.g. BTC-USD) to compare the ticker against.")
	cfgEnvFile   = flag.String("env-file", ".env", "A file of environment variables to load before reading the configuration.")
)

func init() {
	//
	// Initialize the logger.
	//
	logger = log.New(log.Writer(), fmt.Sprintf(constants.LogPrefixFmt, Name), log.Ldate|log.Ltime|log.Lmsgprefix)
}

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] <ticker|depth|trades|balance|orders|buy|sell|cancel|stream>\n\n", os.Args[0])
		flag.PrintDefaults()
		fmt.Fprintf(flag.CommandLine.Output(), "\nEnvironment:\n%s", config.Usage())
	}

	flag.Parse()

	if flag.NArg() != 1 {
		flag.Usage()
		os.Exit(2)
	}

	//
	// Load the configuration and build the exchange client.
	//
	cfg, err := config.Load(*cfgEnvFile)
	if err != nil {
		logger.Fatalf("Failed to load the configuration. (Error: %s)", err)
	}

	clientCfg, err := cfg.Client()
	if err != nil {
		logger.Fatalf("Failed to load the configuration. (Error: %s)", err)
	}

	client := mtgox.NewClient(clientCfg)

	//
	// Cancel whatever is in flight if the operating system asks us to shut down.
	//
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, client, cfg, flag.Arg(0)); err != nil {
		stop()

		var exErr *exchange.Error

		if errors.As(err, &exErr) {
			logger.Fatalf("The %s command failed with a %s error. (Error: %s)", flag.Arg(0), aurora.Red(exErr.Kind()), err)
		}

		logger.Fatalf("The %s command failed. (Error: %s)", flag.Arg(0), err)
	}
}

func run(ctx context.Context, client *mtgox.Client, cfg *config.Config, command string) error {
	switch command {
	case "ticker":
		return printTicker(ctx, client, cfg)
	case "depth":
		depth, err := client.Depth(ctx)
		if err != nil {
			return err
		}

		fmt.Printf("%s\n", aurora.Bold("Asks"))
		printLevels(depth.Asks)
		fmt.Printf("%s\n", aurora.Bold("Bids"))
		printLevels(depth.Bids)
	case "trades":
		trades, err := client.Trades(ctx)
		if err != nil {
			return err
		}

		for _, trade := range trades {
			fmt.Printf("%s  %-4s %14s BTC @ %s USD\n", trade.Date.Format(time.RFC3339), trade.Type, trade.Amount, trade.Price)
		}
	case "balance":
		balance, err := client.Balance(ctx)
		if err != nil {
			return err
		}

		codes := make([]string, 0, len(balance))

		for code := range balance {
			codes = append(codes, code)
		}

		sort.Strings(codes)

		for _, code := range codes {
			fmt.Printf("%-4s %s\n", code, aurora.Bold(balance[code]))
		}
	case "orders":
		orders, err := client.Orders(ctx)
		if err != nil {
			return err
		}

		printOrders(orders)
	case "buy", "sell":
		amount, price, err := orderFlags()
		if err != nil {
			return err
		}

		place := client.Buy
		if command == "sell" {
			place = client.Sell
		}

		oid, err := place(ctx, amount, price)
		if err != nil {
			return err
		}

		fmt.Printf("Placed order %s.\n", aurora.Bold(aurora.Green(oid)))
	case "cancel":
		if *cfgOID == "" {
			return errors.New("the -oid flag is required")
		}

		remaining, err := client.CancelOrder(ctx, exchange.ID(*cfgOID))
		if err != nil {
			return err
		}

		fmt.Printf("Cancelled order %s. Remaining open orders:\n", aurora.Bold(*cfgOID))
		printOrders(remaining)
	case "stream":
		return printStream(ctx, client)
	default:
		return fmt.Errorf("unknown command %q", command)
	}

	return nil
}

func printTicker(ctx context.Context, client *mtgox.Client, cfg *config.Config) error {
	ticker, err := client.Ticker(ctx)
	if err != nil {
		return err
	}

	fmt.Printf(
		"Last %s  Buy %s  Sell %s  High %s  Low %s  Volume %s\n",
		aurora.Bold(aurora.Yellow(ticker.Last)),
		aurora.Green(ticker.Buy),
		aurora.Red(ticker.Sell),
		ticker.High,
		ticker.Low,
		ticker.Vol,
	)

	if *cfgReference == "" {
		return nil
	}

	//
	// Compare the last price against the reference venue.
	//
	refPrice, err := reference.NewCoinbase(cfg.CoinbaseURL).LastPrice(ctx, *cfgReference)
	if err != nil {
		return err
	}

	spread, err := reference.Spread(ticker.Last, refPrice)
	if err != nil {
		return err
	}

	color := aurora.Green
	if spread.IsNegative() {
		color = aurora.Red
	}

	fmt.Printf(
		"Coinbase Pro %s last %s, spread %s\n",
		*cfgReference,
		aurora.Bold(refPrice),
		aurora.Bold(color(spread.Mul(decimal.NewFromInt(100)).StringFixed(2)+"%")),
	)

	return nil
}

func printStream(ctx context.Context, client *mtgox.Client) error {
	stream, err := client.Stream(ctx)
	if err != nil {
		return err
	}

	//
	// Unblock the reader once we are told to shut down.
	//
	go func() {
		<-ctx.Done()

		_ = stream.Close()
	}()

	for {
		msg, err := stream.Next()
		if err != nil {
			if ctx.Err() != nil {
				logger.Print("An operating system interrupt has been received. Goodbye.")

				return nil
			}

			return err
		}

		switch {
		case msg.Ticker != nil:
			fmt.Printf("ticker  last %s  buy %s  sell %s\n", aurora.Bold(msg.Ticker.Last), msg.Ticker.Buy, msg.Ticker.Sell)
		case msg.Trade != nil:
			fmt.Printf("trade   %-4s %s BTC @ %s USD\n", msg.Trade.Type, msg.Trade.Amount, aurora.Bold(msg.Trade.Price))
		case msg.Depth != nil:
			fmt.Printf("depth   %-4s %s BTC @ %s USD\n", msg.Depth.Side, msg.Depth.Volume, msg.Depth.Price)
		case msg.Op == mtgox.OpRemark:
			logger.Printf("Remark from the feed: %s", msg.Remark)
		}
	}
}

func orderFlags() (decimal.Decimal, decimal.Decimal, error) {
	amount, err := decimal.NewFromString(*cfgAmount)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("invalid -amount %q: %w", *cfgAmount, err)
	}

	price, err := decimal.NewFromString(*cfgPrice)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("invalid -price %q: %w", *cfgPrice, err)
	}

	return amount, price, nil
}

func printLevels(levels []exchange.Level) {
	for _, l := range levels {
		fmt.Printf("  %14s BTC @ %s USD\n", l.Amount, l.Price)
	}
}

func printOrders(orders exchange.Orders) {
	ids := make([]string, 0, len(orders))

	for id := range orders {
		ids = append(ids, string(id))
	}

	sort.Strings(ids)

	for _, id := range ids {
		order := orders[exchange.ID(id)]

		fmt.Printf("%s  %-4s %s BTC @ %s USD  (status %s)\n", aurora.Bold(id), order.Type, order.Amount, order.Price, order.Status)
	}
}
