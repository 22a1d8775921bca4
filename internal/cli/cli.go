// Package cli implements the command-line interface for the comparison
// service.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vps-compare/internal/config"
	"github.com/vps-compare/internal/controller"
	"github.com/vps-compare/internal/dataset"
	"github.com/vps-compare/internal/domain"
	"github.com/vps-compare/internal/logging"
	"github.com/vps-compare/internal/provider"
	"github.com/vps-compare/internal/web"
)

// CLI encapsulates the command-line interface
type CLI struct {
	rootCmd *cobra.Command
	logger  *logging.Logger
}

// New creates a new CLI instance
func New() *CLI {
	logger, _ := logging.New(logging.Config{
		Level:       logging.INFO,
		LogDir:      "logs",
		EnableFile:  true,
		EnableColor: true,
	})
	cli := &CLI{logger: logger}
	cli.buildCommands()
	return cli
}

// Execute runs the CLI
func (c *CLI) Execute() error {
	return c.rootCmd.Execute()
}

// buildCommands constructs the command tree
func (c *CLI) buildCommands() {
	c.rootCmd = &cobra.Command{
		Use:   "vps-compare",
		Short: "VPS and hosting plan price comparison",
		Long: `vps-compare indexes VPS, dedicated, and shared hosting plans across
providers and answers filter, sort, and pagination queries over them,
from the terminal or over HTTP.

Examples:
  # Cheapest KVM plans under $10
  vps-compare plans --max-price 10 --sort price

  # Everything Hostinger sells, priciest first
  vps-compare plans --provider hostinger --sort price --order desc

  # Full detail for one plan
  vps-compare plan hetzner-cx22

  # Serve the HTTP API
  vps-compare web --port 8000`,
		Version: "1.0.0",
	}

	c.rootCmd.AddCommand(c.plansCmd())
	c.rootCmd.AddCommand(c.planCmd())
	c.rootCmd.AddCommand(c.providersCmd())
	c.rootCmd.AddCommand(c.healthCmd())
	c.rootCmd.AddCommand(c.refreshCmd())
	c.rootCmd.AddCommand(c.webCmd())
}

// buildController loads the catalog and wires the requested source
func (c *CLI) buildController(source string) (*controller.Controller, error) {
	cfg := config.Get()
	if source == "" {
		source = cfg.Data.Source
	}

	catalog, err := dataset.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load plan catalog: %w", err)
	}

	src, err := provider.ForSource(domain.ParseDataSource(source), catalog, cfg)
	if err != nil {
		return nil, err
	}

	return controller.New(src, cfg), nil
}

// plansCmd creates the plans listing command
func (c *CLI) plansCmd() *cobra.Command {
	var (
		providerFilter string
		typeFilter     string
		minPrice       float64
		maxPrice       float64
		sortBy         string
		sortOrder      string
		page           int
		pageSize       int
		source         string
		outputFormat   string
	)

	cmd := &cobra.Command{
		Use:   "plans",
		Short: "List hosting plans with filters and sorting",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := c.buildController(source)
			if err != nil {
				return err
			}

			key, ok := domain.ParseSortKey(sortBy)
			if !ok {
				return fmt.Errorf("unknown sort key %q", sortBy)
			}

			q := domain.Query{
				Provider:  providerFilter,
				Type:      typeFilter,
				MinPrice:  minPrice,
				MaxPrice:  maxPrice,
				SortBy:    key,
				SortOrder: domain.ParseSortOrder(sortOrder),
				Page:      page,
				PageSize:  pageSize,
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			result, err := ctrl.ListPlans(ctx, q)
			if err != nil {
				return err
			}

			if outputFormat == "json" {
				return json.NewEncoder(os.Stdout).Encode(result)
			}

			printPlanTable(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&providerFilter, "provider", "", "Filter by provider name (substring match)")
	cmd.Flags().StringVar(&typeFilter, "type", "", "Filter by plan type (exact match)")
	cmd.Flags().Float64Var(&minPrice, "min-price", 0, "Minimum price")
	cmd.Flags().Float64Var(&maxPrice, "max-price", domain.MaxPriceDefault, "Maximum price")
	cmd.Flags().StringVar(&sortBy, "sort", "", "Sort key: name, provider, price, cpu, ram, storage, bandwidth, location")
	cmd.Flags().StringVar(&sortOrder, "order", "asc", "Sort order: asc or desc")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&pageSize, "page-size", 25, "Records per page")
	cmd.Flags().StringVar(&source, "source", "", "Data source: mock or real")
	cmd.Flags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table or json")

	return cmd
}

func printPlanTable(result domain.QueryResult) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPROVIDER\tNAME\tTYPE\tPRICE\tCPU\tRAM\tDISK\tBANDWIDTH\tLOCATION")
	for _, p := range result.Plans {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.2f %s\t%d\t%s\t%s\t%s\t%s\n",
			p.ID, p.Provider, p.Name, p.Type, p.Price, p.Currency,
			p.Resources.CPUCores,
			formatRAM(p.Resources.RAMMB),
			formatDisk(p.Resources.DiskGB),
			p.Resources.Bandwidth.String(),
			p.Location.City)
	}
	w.Flush()

	fmt.Printf("\nPage %d of %d (%d plans total)\n", result.Page, result.TotalPages, result.Total)
}

func formatRAM(mb int) string {
	if mb == 0 {
		return "-"
	}
	if mb >= 1024 {
		return fmt.Sprintf("%d GB", mb/1024)
	}
	return fmt.Sprintf("%d MB", mb)
}

func formatDisk(gb float64) string {
	if gb == 0 {
		return "-"
	}
	return fmt.Sprintf("%.0f GB", gb)
}

// planCmd creates the single-plan detail command
func (c *CLI) planCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "plan <id>",
		Short: "Show full detail for one plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := c.buildController(source)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			plan, siblings, err := ctrl.GetPlan(ctx, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("%s - %s (%s)\n", plan.Provider, plan.Name, plan.Type)
			fmt.Printf("  Price:      %.2f %s / %s\n", plan.Price, plan.Currency, plan.Billing)
			fmt.Printf("  CPU:        %s\n", plan.Resources.CPULabel)
			fmt.Printf("  RAM:        %s\n", formatRAM(plan.Resources.RAMMB))
			fmt.Printf("  Disk:       %s %s\n", formatDisk(plan.Resources.DiskGB), plan.Resources.DiskType)
			fmt.Printf("  Bandwidth:  %s\n", plan.Resources.Bandwidth.String())
			fmt.Printf("  Location:   %s, %s\n", plan.Location.City, plan.Location.Country)
			if len(plan.Features) > 0 {
				fmt.Printf("  Features:   %s\n", strings.Join(plan.Features, ", "))
			}
			fmt.Printf("  Order:      %s\n", plan.OrderURL)

			if len(siblings) > 0 {
				fmt.Printf("\nOther %s plans:\n", plan.Provider)
				for _, s := range siblings {
					fmt.Printf("  %-28s %8.2f %s\n", s.Name, s.Price, s.Currency)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Data source: mock or real")
	return cmd
}

// providersCmd creates the provider directory command
func (c *CLI) providersCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List hosting providers in the directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, err := c.buildController(source)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			providers, err := ctrl.Providers(ctx)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tWEBSITE\tACTIVE")
			for _, p := range providers {
				fmt.Fprintf(w, "%s\t%s\t%s\t%v\n", p.ID, p.Name, p.Website, p.Active)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Data source: mock or real")
	return cmd
}

// healthCmd creates the provider reachability command
func (c *CLI) healthCmd() *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Probe every provider website for reachability",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()
			ctrl, err := c.buildController(source)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()

			checker := provider.NewWebsiteHealthChecker(cfg.Data.HTTPTimeout)
			results, err := ctrl.CheckProviders(ctx, checker)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PROVIDER\tSTATUS\tLATENCY\tNOTE")
			for _, r := range results {
				fmt.Fprintf(w, "%s\t%s\t%dms\t%s\n",
					r.Provider.Name, r.Status.Status, r.Status.LatencyMS, r.Status.Message)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&source, "source", "", "Data source: mock or real")
	return cmd
}

// refreshCmd creates the cache refresh command
func (c *CLI) refreshCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Clear the cached plan listings",
		RunE: func(cmd *cobra.Command, args []string) error {
			cache := provider.GetCacheManager()
			items := len(cache.Keys())
			cache.Refresh()
			fmt.Printf("Cache cleared: %d items removed\n", items)
			return nil
		},
	}
}

// webCmd creates the web server command
func (c *CLI) webCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "web",
		Short: "Serve the comparison HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Get()
			if port > 0 {
				cfg.Server.Port = port
			}

			catalog, err := dataset.Load()
			if err != nil {
				return fmt.Errorf("failed to load plan catalog: %w", err)
			}

			mockSrc, err := provider.ForSource(domain.MockSource, catalog, cfg)
			if err != nil {
				return err
			}

			server := web.NewServer(controller.New(mockSrc, cfg), cfg)

			// the real source is selectable per request once keys exist
			if realSrc, err := provider.ForSource(domain.RealSource, catalog, cfg); err == nil {
				server.RegisterSource(controller.New(realSrc, cfg))
			}

			c.logger.Info("Serving %d plans from the %s catalog", catalog.Len(), cfg.Data.Source)
			return server.Start()
		},
	}

	cmd.Flags().IntVar(&port, "port", 0, "Port to listen on (overrides config)")
	return cmd
}
