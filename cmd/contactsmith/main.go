package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/contactsmith/contactsmith/internal/batch"
	"github.com/contactsmith/contactsmith/internal/config"
	"github.com/contactsmith/contactsmith/internal/models"
	"github.com/contactsmith/contactsmith/pkg/crawler"
	"github.com/contactsmith/contactsmith/pkg/reporter"
	"github.com/contactsmith/contactsmith/pkg/research"
	"github.com/contactsmith/contactsmith/pkg/whois"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var logger = log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})

var rootCmd = &cobra.Command{
	Use:   "contactsmith",
	Short: "ContactSmith - Multi-source business contact discovery",
	Long: `ContactSmith finds publicly available business contact information
for a company by combining a focused crawl of its website, a domain
registration lookup, and AI-assisted research.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if level, err := log.ParseLevel(cfg.Logging.Level); err == nil {
			logger.SetLevel(level)
		}
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			logger.SetLevel(log.DebugLevel)
		}
		return nil
	},
}

var crawlCmd = &cobra.Command{
	Use:   "crawl [URL]",
	Short: "Crawl a company website for contact facts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		opts := crawlerOptions(cfg)
		if depth, _ := cmd.Flags().GetInt("max-depth"); depth > 0 {
			opts.MaxDepth = depth
		}
		if pages, _ := cmd.Flags().GetInt("max-pages"); pages > 0 {
			opts.MaxPages = pages
		}

		c, err := crawler.New(args[0], "", opts)
		if err != nil {
			return fmt.Errorf("failed to create crawler: %w", err)
		}
		c.SetLogger(logger)

		result, err := c.Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("crawl failed: %w", err)
		}

		fmt.Printf("Crawled %d pages (%d contact pages), status %s\n",
			len(result.Snapshot.PagesScraped), len(result.Snapshot.ContactPages), result.Status)
		fmt.Printf("Found: %d emails, %d phones, %d names, %d addresses, %d social links\n",
			len(result.Snapshot.Emails), len(result.Snapshot.Phones), len(result.Snapshot.Names),
			len(result.Snapshot.Addresses), len(result.Snapshot.SocialLinks))

		return writeCrawlResult(cmd, cfg, result)
	},
}

var findCmd = &cobra.Command{
	Use:   "find",
	Short: "Run all discovery sources for one company",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		company, err := companyFromFlags(cmd)
		if err != nil {
			return err
		}

		rows, err := findCompany(cmd.Context(), cfg, company)
		if err != nil {
			return err
		}

		rep, err := reporter.New(outputDir(cmd, cfg))
		if err != nil {
			return err
		}
		rep.SetLogger(logger)
		path, err := rep.WriteContacts(company.Name, rows, outputFormat(cmd, cfg))
		if err != nil {
			return err
		}
		fmt.Printf("Found %d contact rows for %s, written to %s\n", len(rows), company.Name, path)
		return nil
	},
}

var batchCmd = &cobra.Command{
	Use:   "batch [FILE]",
	Short: "Discover contacts for every company in a CSV file",
	Long: `Batch reads a CSV with columns company,website,country,industry and
runs the full discovery pipeline for each row. Each company's results
are exported separately.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		companies, err := batch.ReadCompanies(args[0])
		if err != nil {
			return err
		}
		logger.Info("batch loaded", "file", args[0], "companies", len(companies))

		rep, err := reporter.New(outputDir(cmd, cfg))
		if err != nil {
			return err
		}
		rep.SetLogger(logger)

		failures := 0
		for _, company := range companies {
			rows, err := findCompany(cmd.Context(), cfg, company)
			if err != nil {
				logger.Error("company failed", "company", company.Name, "error", err)
				failures++
				continue
			}
			if _, err := rep.WriteContacts(company.Name, rows, outputFormat(cmd, cfg)); err != nil {
				logger.Error("export failed", "company", company.Name, "error", err)
				failures++
			}
		}

		fmt.Printf("Batch complete: %d companies, %d failures\n", len(companies), failures)
		return nil
	},
}

var whoisCmd = &cobra.Command{
	Use:   "whois [DOMAIN]",
	Short: "Look up domain-registration contacts",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		client := whois.New(cfg.Whois.Timeout)
		client.SetLogger(logger)
		contacts, err := client.Lookup(args[0])
		if err != nil {
			return fmt.Errorf("whois lookup failed: %w", err)
		}

		fmt.Printf("Domain:       %s\n", contacts.Domain)
		fmt.Printf("Organization: %s\n", contacts.Organization)
		fmt.Printf("Admin email:  %s\n", contacts.AdminEmail)
		fmt.Printf("Tech email:   %s\n", contacts.TechEmail)
		fmt.Printf("Registrar:    %s\n", contacts.RegistrarEmail)
		return nil
	},
}

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Run AI research for one company",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		company, err := companyFromFlags(cmd)
		if err != nil {
			return err
		}

		svc, err := research.New(cfg.Research)
		if err != nil {
			return err
		}
		svc.SetLogger(logger)

		report, err := svc.Research(cmd.Context(), company)
		if err != nil {
			return err
		}

		fmt.Println(report.Raw)
		fmt.Printf("\nParsed %d contact rows, %d sources\n", len(report.Contacts), len(report.Sources))
		return nil
	},
}

// findCompany runs the three discovery sources for one company and
// merges their output. WHOIS and research failures degrade to a partial
// result; only a bad seed aborts.
func findCompany(ctx context.Context, cfg *config.Config, company models.Company) ([]models.ContactRow, error) {
	c, err := crawler.New(company.Website, company.Name, crawlerOptions(cfg))
	if err != nil {
		return nil, err
	}
	c.SetLogger(logger)

	result, err := c.Run(ctx)
	if err != nil {
		return nil, err
	}
	logger.Info("crawl done",
		"company", company.Name,
		"status", string(result.Status),
		"pages", len(result.Snapshot.PagesScraped),
		"emails", len(result.Snapshot.Emails))

	whoisClient := whois.New(cfg.Whois.Timeout)
	whoisClient.SetLogger(logger)
	registration, err := whoisClient.Lookup(company.Website)
	if err != nil {
		logger.Warn("whois lookup failed", "company", company.Name, "error", err)
		registration = nil
	}

	var report *models.ResearchReport
	if cfg.Research.APIKey != "" {
		svc, err := research.New(cfg.Research)
		if err == nil {
			svc.SetLogger(logger)
			report, err = svc.Research(ctx, company)
			if err != nil {
				logger.Warn("research failed", "company", company.Name, "error", err)
				report = nil
			}
		}
	} else {
		logger.Debug("research skipped, no API key", "company", company.Name)
	}

	return reporter.MergeRows(result, registration, report), nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func crawlerOptions(cfg *config.Config) crawler.Options {
	return crawler.Options{
		MaxDepth:        cfg.Crawler.MaxDepth,
		LinksPerPage:    cfg.Crawler.LinksPerPage,
		MaxPages:        cfg.Crawler.MaxPages,
		Budget:          cfg.Crawler.Budget,
		MinDelay:        cfg.Crawler.MinDelay,
		MaxDelay:        cfg.Crawler.MaxDelay,
		RequestTimeout:  cfg.Crawler.RequestTimeout,
		MaxWorkers:      cfg.Crawler.MaxWorkers,
		RequestsPerSec:  cfg.Crawler.RequestsPerSec,
		UserAgent:       cfg.Crawler.UserAgent,
		FollowRobotsTxt: cfg.Crawler.FollowRobotsTxt,
	}
}

func companyFromFlags(cmd *cobra.Command) (models.Company, error) {
	name, _ := cmd.Flags().GetString("company")
	website, _ := cmd.Flags().GetString("website")
	country, _ := cmd.Flags().GetString("country")
	industry, _ := cmd.Flags().GetString("industry")

	if name == "" || website == "" {
		return models.Company{}, fmt.Errorf("--company and --website are required")
	}
	if country == "" {
		country = "Germany"
	}
	if !strings.Contains(website, "://") {
		website = "https://" + website
	}
	return models.Company{Name: name, Website: website, Country: country, Industry: industry}, nil
}

func writeCrawlResult(cmd *cobra.Command, cfg *config.Config, result *models.CrawlResult) error {
	rep, err := reporter.New(outputDir(cmd, cfg))
	if err != nil {
		return err
	}
	rep.SetLogger(logger)
	path, err := rep.WriteCrawlResult(result, outputFormat(cmd, cfg))
	if err != nil {
		return err
	}
	fmt.Printf("Results written to %s\n", path)
	return nil
}

func outputDir(cmd *cobra.Command, cfg *config.Config) string {
	if dir, _ := cmd.Flags().GetString("output"); dir != "" {
		return dir
	}
	return cfg.Export.Path
}

func outputFormat(cmd *cobra.Command, cfg *config.Config) string {
	if format, _ := cmd.Flags().GetString("format"); format != "" {
		return format
	}
	return cfg.Export.Format
}

func init() {
	// Crawl command flags
	crawlCmd.Flags().Int("max-depth", 0, "Maximum crawl depth for general links")
	crawlCmd.Flags().Int("max-pages", 0, "Maximum total pages per crawl")

	// Shared company flags
	for _, cmd := range []*cobra.Command{findCmd, researchCmd} {
		cmd.Flags().String("company", "", "Company name")
		cmd.Flags().String("website", "", "Company website URL")
		cmd.Flags().String("country", "", "Company country")
		cmd.Flags().String("industry", "", "Company industry (optional)")
	}

	// Export flags
	for _, cmd := range []*cobra.Command{crawlCmd, findCmd, batchCmd} {
		cmd.Flags().String("output", "", "Output directory for results")
		cmd.Flags().String("format", "", "Output format (csv, json)")
	}

	// Add commands to root
	rootCmd.AddCommand(crawlCmd)
	rootCmd.AddCommand(findCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(whoisCmd)
	rootCmd.AddCommand(researchCmd)

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "Config file path")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable verbose output")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
