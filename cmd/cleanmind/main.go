// Clean Mind Crypto: market dashboard backend and command-line client.
//
// Main CLI entrypoint using cobra command framework.
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/seenimoa/cleanmind/api"
	"github.com/seenimoa/cleanmind/internal/config"
	"github.com/seenimoa/cleanmind/internal/dashboard"
	"github.com/seenimoa/cleanmind/internal/datasource"
	"github.com/seenimoa/cleanmind/internal/logging"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Global config
var cfg *config.Config

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cleanmind",
	Short: "Clean Mind Crypto: market dashboard backend",
	Long: `Clean Mind Crypto serves a gateway to the CoinGecko market-data API and
the dashboard views built on top of it: markets, exchanges, NFT
collections, charts, analytics, and a local portfolio and watchlist.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// A missing .env file is normal outside development.
		_ = godotenv.Load()

		var err error
		configFile, _ := cmd.Flags().GetString("config")
		if configFile != "" {
			cfg, err = config.LoadFromFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		if lvl, _ := cmd.Flags().GetString("log-level"); lvl != "" {
			cfg.Logging.Level = lvl
		}
		if gw, _ := cmd.Flags().GetString("gateway"); gw != "" {
			cfg.Dashboard.GatewayURL = gw
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file path (default: ./config/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level override (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("gateway", "", "gateway base URL override for client commands")

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(pingCmd)
	rootCmd.AddCommand(marketsCmd)
	rootCmd.AddCommand(globalCmd)
}

// cliLogger logs to stderr so command output stays clean.
func cliLogger() zerolog.Logger {
	return logging.NewWithWriter(cfg.Logging, os.Stderr)
}

func newSource() *datasource.Client {
	return datasource.NewFromConfig(cfg, cliLogger())
}

func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	timeout := time.Duration(cfg.Dashboard.TimeoutSec)*time.Second + 5*time.Second
	return context.WithTimeout(cmd.Context(), timeout)
}

// --- Version Command ---

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("cleanmind %s\n", version)
		fmt.Printf("  commit:  %s\n", commit)
		fmt.Printf("  built:   %s\n", date)
	},
}

// --- Serve Command (API Server) ---

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetInt("port")
		if err := applyServeFlags(cfg, port); err != nil {
			return err
		}

		logger := logging.New(cfg.Logging)
		srv, err := api.NewServer(cfg, api.Deps{Logger: &logger, Version: version})
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		addr := net.JoinHostPort(cfg.API.Host, strconv.Itoa(cfg.API.Port))
		logger.Info().
			Str("version", version).
			Str("upstream", cfg.CoinGecko.BaseURL).
			Str("gateway", cfg.GatewayURL()).
			Msg("starting cleanmind")
		return srv.ListenAndServe(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().Int("port", 0, "listen port override")
}

// applyServeFlags applies the serve overrides to c and validates the
// result. An unset gateway URL follows the new port.
func applyServeFlags(c *config.Config, port int) error {
	if port != 0 {
		c.API.Port = port
	}
	return c.Validate()
}

// --- Status Command ---

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show system status and configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("═══════════════════════════════════════")
		fmt.Println("  Clean Mind Crypto: System Status")
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Version:       %s (%s)\n", version, commit)
		fmt.Printf("  Time (UTC):    %s\n", time.Now().UTC().Format(time.RFC3339))
		fmt.Println()

		fmt.Println("  Configuration:")
		fmt.Printf("    Upstream:      %s\n", cfg.CoinGecko.BaseURL)
		fmt.Printf("    Gateway:       %s\n", cfg.GatewayURL())
		fmt.Printf("    API Server:    %s:%d\n", cfg.API.Host, cfg.API.Port)
		fmt.Printf("    Page Size:     %d\n", cfg.Dashboard.PageSize)
		fmt.Printf("    NFT Spacing:   %s\n", cfg.CoinGecko.NFTMinInterval())
		fmt.Println()

		fmt.Println("  API Keys:")
		for _, k := range config.CheckAPIKeys(cfg) {
			status := "not set (anonymous rate limits)"
			if k.IsSet {
				status = fmt.Sprintf("set (%s: %s, %s)", k.Source, k.Masked, k.KeyType)
			}
			fmt.Printf("    %-25s %s\n", k.Name+":", status)
		}

		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}

// --- Ping Command ---

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Test the connection to the gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		src := newSource()
		res := src.TestConnection(ctx)
		if res.Data {
			fmt.Println(dashboard.BannerConnected)
			return nil
		}
		fmt.Println(dashboard.BannerDisconnected)
		return fmt.Errorf("gateway %s unreachable: %s", src.BaseURL(), res.CauseText())
	},
}

// --- Markets Command ---

var marketsCmd = &cobra.Command{
	Use:   "markets",
	Short: "List ranked assets by market cap",
	Example: `  cleanmind markets --page 2
  cleanmind markets --search sol --sort change --order desc`,
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")
		search, _ := cmd.Flags().GetString("search")
		sortKey, _ := cmd.Flags().GetString("sort")
		order, _ := cmd.Flags().GetString("order")

		key, err := dashboard.ParseMarketSortKey(sortKey)
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		view := dashboard.NewMarketsView(newSource(), cfg.Dashboard.PageSize)
		view.SetSort(key, dashboard.SortOrder(order))
		view.SetQuery(search)
		if err := view.Load(ctx, page); err != nil {
			return err
		}

		p := view.Page()
		fmt.Printf("Page %d of %d (%s data)\n\n", p.Page, p.TotalPages, p.Source)
		fmt.Printf("%-5s %-22s %-8s %14s %9s %12s %12s\n", "#", "NAME", "SYMBOL", "PRICE", "24H", "MARKET CAP", "VOLUME")
		for _, r := range p.Rows {
			rank := "-"
			if r.Rank > 0 {
				rank = strconv.Itoa(r.Rank)
			}
			fmt.Printf("%-5s %-22.22s %-8s %14s %9s %12s %12s\n",
				rank, r.Name, r.Symbol, r.Price, r.Change24h, r.MarketCap, r.Volume)
		}
		if len(p.Rows) == 0 {
			fmt.Println("No assets match the filter.")
		}
		if p.Nav.Next > 0 {
			fmt.Printf("\nNext page: cleanmind markets --page %d\n", p.Nav.Next)
		}
		return nil
	},
}

func init() {
	marketsCmd.Flags().Int("page", 1, "page number")
	marketsCmd.Flags().String("search", "", "filter by name or symbol")
	marketsCmd.Flags().String("sort", string(dashboard.SortMarketCap), "sort column (market_cap, price, volume, change)")
	marketsCmd.Flags().String("order", string(dashboard.Descending), "sort order (asc, desc)")
}

// --- Global Command ---

var globalCmd = &cobra.Command{
	Use:   "global",
	Short: "Show the global market snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := commandContext(cmd)
		defer cancel()

		view := dashboard.NewGlobalView(newSource())
		view.Load(ctx)
		p := view.Page()
		s := p.Summary

		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Global Market (%s data)\n", p.Source)
		fmt.Println("═══════════════════════════════════════")
		fmt.Printf("  Total Market Cap:    %s (%s 24h)\n", s.TotalMarketCap, s.MarketCapChange)
		fmt.Printf("  24h Volume:          %s\n", s.TotalVolume)
		fmt.Printf("  BTC Dominance:       %s\n", s.BTCDominance)
		fmt.Printf("  ETH Dominance:       %s\n", s.ETHDominance)
		fmt.Printf("  Active Assets:       %d\n", s.ActiveCurrencies)
		fmt.Printf("  Markets:             %d\n", s.Markets)
		fmt.Printf("  Updated:             %s\n", s.UpdatedAt)
		if len(p.Currencies) > 0 {
			fmt.Println()
			fmt.Println("  Market Cap by Currency:")
			for _, c := range p.Currencies {
				fmt.Printf("    %-6s %s\n", c.Currency, c.Value)
			}
		}
		fmt.Println("═══════════════════════════════════════")
		return nil
	},
}
