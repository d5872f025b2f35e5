package main

import (
	"fmt"
	"os"
	"strconv"

	"paywall-go/internal/app"
	"paywall-go/internal/config"
	"paywall-go/internal/model"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// newApp reads the config and creates an App. The caller must defer a.Close().
// operation identifies the CLI command being run (e.g. "Subscribe", "PublishArticle").
func newApp(operation string) (*app.App, error) {
	cfg, err := readConfig()
	if err != nil {
		return nil, err
	}

	a, err := app.NewApp(cfg, operation)
	if err != nil {
		return nil, fmt.Errorf("initializing app: %w", err)
	}

	return a, nil
}

func readConfig() (*config.Config, error) {
	defaults, err := app.GetDefaults()
	if err != nil {
		return nil, fmt.Errorf("getting defaults: %w", err)
	}

	cfg, err := config.ReadFromFile(defaults["config_path"])
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return cfg, nil
}

// readPassphrase prompts for a passphrase without echoing it.
func readPassphrase(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(pw), nil
}

func parseAmount(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return v, nil
}

var rootCmd = &cobra.Command{
	Use:   "paywall",
	Short: "Tiered access and settlement engine",
}

// config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		// Generate a new operator ID
		operatorID := uuid.New().String()

		cfg := config.NewConfig(operatorID, defaults["base_dir"])

		if err := config.Init(defaults["config_path"], cfg); err != nil {
			return fmt.Errorf("failed to initialize config: %w", err)
		}

		fmt.Printf("Configuration initialized at %s\n", defaults["config_path"])
		fmt.Printf("Operator ID: %s\n", operatorID)
		fmt.Printf("Base Dir: %s\n", defaults["base_dir"])
		return nil
	},
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "View configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		defaults, err := app.GetDefaults()
		if err != nil {
			return fmt.Errorf("failed to get defaults: %w", err)
		}

		cfg, err := config.ReadFromFile(defaults["config_path"])
		if err != nil {
			return fmt.Errorf("failed to read config: %w", err)
		}

		fmt.Printf("Configuration from %s:\n\n", defaults["config_path"])
		fmt.Printf("Operator ID: %s\n", cfg.OperatorID)
		fmt.Printf("Base Dir:    %s\n", cfg.BaseDir)
		fmt.Printf("Log Dir:     %s\n", cfg.LogDir)
		fmt.Printf("Database:    %s\n", cfg.Database.Type)
		fmt.Printf("Store:       %s (sealed=%v)\n", cfg.Store.Type, cfg.Store.Sealed)
		return nil
	},
}

// init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the ledger and mint the treasury admin capability",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := readConfig()
		if err != nil {
			return err
		}

		var passphrase string
		if cfg.Store.Sealed {
			passphrase, err = readPassphrase("Passphrase for content key: ")
			if err != nil {
				return err
			}
		}

		if err := app.Setup(cfg, passphrase); err != nil {
			return fmt.Errorf("setting up: %w", err)
		}

		a, err := app.NewApp(cfg, "InitTreasuryAdmin")
		if err != nil {
			return fmt.Errorf("initializing app: %w", err)
		}
		defer a.Close()

		adminCap, err := a.InitTreasuryAdmin()
		if err != nil {
			return fmt.Errorf("minting treasury admin capability: %w", err)
		}

		fmt.Printf("Ledger initialized.\n")
		fmt.Printf("Treasury admin capability: %s (held by %s)\n", adminCap.ID, adminCap.Owner)
		return nil
	},
}

// pub command
var pubCmd = &cobra.Command{
	Use:   "pub",
	Short: "Manage publications",
}

var pubCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create a publication",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, _ := cmd.Flags().GetString("owner")
		description, _ := cmd.Flags().GetString("description")
		basic, _ := cmd.Flags().GetUint64("basic")
		premium, _ := cmd.Flags().GetUint64("premium")
		freeTier, _ := cmd.Flags().GetBool("free-tier")

		a, err := newApp("CreatePublication")
		if err != nil {
			return err
		}
		defer a.Close()

		if owner == "" {
			owner = string(a.Operator())
		}

		pub, ownerCap, statsCap, err := a.CreatePublication(owner, args[0], description, basic, premium, freeTier)
		if err != nil {
			return err
		}

		fmt.Printf("Publication: %s\n", pub.ID)
		fmt.Printf("Owner capability: %s\n", ownerCap.ID)
		fmt.Printf("Stats capability: %s\n", statsCap.ID)
		return nil
	},
}

var pubShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "View a publication",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("GetPublication")
		if err != nil {
			return err
		}
		defer a.Close()

		pub, err := a.Publication(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s  %s\n", pub.ID, pub.Name)
		fmt.Printf("Owner:    %s\n", pub.Owner)
		fmt.Printf("Basic:    %d\n", pub.BasicPrice)
		fmt.Printf("Premium:  %d\n", pub.PremiumPrice)
		fmt.Printf("Free tier: %v\n", pub.FreeTierEnabled)
		fmt.Printf("Articles:  %d\n", pub.ArticleCount)
		return nil
	},
}

var pubPricingCmd = &cobra.Command{
	Use:   "pricing ID BASIC PREMIUM",
	Short: "Update tier prices",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		capID, _ := cmd.Flags().GetString("cap")

		basic, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		premium, err := parseAmount(args[2])
		if err != nil {
			return err
		}

		a, err := newApp("UpdatePricing")
		if err != nil {
			return err
		}
		defer a.Close()

		pub, err := a.UpdatePricing(capID, args[0], basic, premium)
		if err != nil {
			return err
		}

		fmt.Printf("Pricing updated: basic=%d premium=%d\n", pub.BasicPrice, pub.PremiumPrice)
		return nil
	},
}

var pubFreeTierCmd = &cobra.Command{
	Use:   "freetier ID on|off",
	Short: "Enable or disable the free tier",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		capID, _ := cmd.Flags().GetString("cap")

		var enabled bool
		switch args[1] {
		case "on":
			enabled = true
		case "off":
			enabled = false
		default:
			return fmt.Errorf("expected 'on' or 'off', got %q", args[1])
		}

		a, err := newApp("ToggleFreeTier")
		if err != nil {
			return err
		}
		defer a.Close()

		pub, err := a.ToggleFreeTier(capID, args[0], enabled)
		if err != nil {
			return err
		}

		fmt.Printf("Free tier enabled: %v\n", pub.FreeTierEnabled)
		return nil
	},
}

// article command
var articleCmd = &cobra.Command{
	Use:   "article",
	Short: "Manage articles",
}

var articlePublishCmd = &cobra.Command{
	Use:   "publish PUBLICATION FILE",
	Short: "Publish an article from a content file",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		capID, _ := cmd.Flags().GetString("cap")
		title, _ := cmd.Flags().GetString("title")
		excerpt, _ := cmd.Flags().GetString("excerpt")
		tier, _ := cmd.Flags().GetString("tier")

		a, err := newApp("PublishArticle")
		if err != nil {
			return err
		}
		defer a.Close()

		article, err := a.PublishArticle(capID, args[0], title, excerpt, tier, args[1])
		if err != nil {
			return err
		}

		fmt.Printf("Article: %s\n", article.ID)
		fmt.Printf("Tier:    %s\n", article.RequiredTier)
		fmt.Printf("Handle:  %s\n", article.ContentHandle)
		return nil
	},
}

var articleShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "View an article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("GetArticle")
		if err != nil {
			return err
		}
		defer a.Close()

		article, err := a.Article(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s  %s\n", article.ID, article.Title)
		fmt.Printf("Publication: %s\n", article.PublicationID)
		fmt.Printf("Tier:        %s\n", article.RequiredTier)
		fmt.Printf("Published:   %s\n", article.PublishedAt.Format("2006-01-02 15:04:05"))
		fmt.Printf("Archived:    %v\n", article.Archived)
		if article.Excerpt != "" {
			fmt.Printf("Excerpt:     %s\n", article.Excerpt)
		}
		return nil
	},
}

var articleListCmd = &cobra.Command{
	Use:   "list PUBLICATION",
	Short: "List a publication's articles",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("ListArticles")
		if err != nil {
			return err
		}
		defer a.Close()

		articles, err := a.Articles(args[0])
		if err != nil {
			return err
		}

		if len(articles) == 0 {
			fmt.Println("No articles.")
			return nil
		}

		for _, ar := range articles {
			archived := ""
			if ar.Archived {
				archived = "  [archived]"
			}
			fmt.Printf("%s  %-8s  %s%s\n", ar.ID, ar.RequiredTier, ar.Title, archived)
		}
		return nil
	},
}

var articleArchiveCmd = &cobra.Command{
	Use:   "archive ID",
	Short: "Archive an article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		capID, _ := cmd.Flags().GetString("cap")

		a, err := newApp("ArchiveArticle")
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.ArchiveArticle(capID, args[0]); err != nil {
			return err
		}

		fmt.Printf("Archived %s\n", args[0])
		return nil
	},
}

var articleUnarchiveCmd = &cobra.Command{
	Use:   "unarchive ID",
	Short: "Restore an archived article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		capID, _ := cmd.Flags().GetString("cap")

		a, err := newApp("UnarchiveArticle")
		if err != nil {
			return err
		}
		defer a.Close()

		if _, err := a.UnarchiveArticle(capID, args[0]); err != nil {
			return err
		}

		fmt.Printf("Unarchived %s\n", args[0])
		return nil
	},
}

var articleMetaCmd = &cobra.Command{
	Use:   "meta ID",
	Short: "Update article title and excerpt",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		capID, _ := cmd.Flags().GetString("cap")
		title, _ := cmd.Flags().GetString("title")
		excerpt, _ := cmd.Flags().GetString("excerpt")

		a, err := newApp("SetArticleMeta")
		if err != nil {
			return err
		}
		defer a.Close()

		article, err := a.SetArticleMeta(capID, args[0], title, excerpt)
		if err != nil {
			return err
		}

		fmt.Printf("Updated %s: %s\n", article.ID, article.Title)
		return nil
	},
}

var articleFetchCmd = &cobra.Command{
	Use:   "fetch ID",
	Short: "Fetch article content using a pass or read token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		passID, _ := cmd.Flags().GetString("pass")
		tokenID, _ := cmd.Flags().GetString("token")
		outPath, _ := cmd.Flags().GetString("output")

		cfg, err := readConfig()
		if err != nil {
			return err
		}

		var passphrase string
		if cfg.Store.Sealed {
			passphrase, err = readPassphrase("Passphrase for content key: ")
			if err != nil {
				return err
			}
		}

		a, err := app.NewApp(cfg, "FetchArticle")
		if err != nil {
			return fmt.Errorf("initializing app: %w", err)
		}
		defer a.Close()

		out := os.Stdout
		if outPath != "" {
			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("creating output file: %w", err)
			}
			defer f.Close()
			out = f
		}

		if _, err := a.FetchArticle(args[0], passID, tokenID, out, passphrase); err != nil {
			return err
		}
		return nil
	},
}

// sub command
var subCmd = &cobra.Command{
	Use:   "sub",
	Short: "Manage subscription passes",
}

var subNewCmd = &cobra.Command{
	Use:   "new PUBLICATION TIER",
	Short: "Subscribe to a publication",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		payment, _ := cmd.Flags().GetUint64("payment")
		subscriber, _ := cmd.Flags().GetString("subscriber")

		a, err := newApp("Subscribe")
		if err != nil {
			return err
		}
		defer a.Close()

		if subscriber == "" {
			subscriber = string(a.Operator())
		}

		pass, err := a.Subscribe(args[0], args[1], payment, subscriber)
		if err != nil {
			return err
		}

		fmt.Printf("Pass: %s\n", pass.ID)
		fmt.Printf("Tier: %s\n", pass.Tier)
		fmt.Printf("Expires: %s\n", pass.ExpiresAt.Format("2006-01-02 15:04:05"))
		return nil
	},
}

var subRenewCmd = &cobra.Command{
	Use:   "renew PASS PUBLICATION",
	Short: "Renew a subscription pass",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		payment, _ := cmd.Flags().GetUint64("payment")

		a, err := newApp("Renew")
		if err != nil {
			return err
		}
		defer a.Close()

		pass, err := a.Renew(args[0], args[1], payment)
		if err != nil {
			return err
		}

		fmt.Printf("Renewed %s, expires %s\n", pass.ID, pass.ExpiresAt.Format("2006-01-02 15:04:05"))
		return nil
	},
}

var subShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "View a subscription pass",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("GetPass")
		if err != nil {
			return err
		}
		defer a.Close()

		pass, err := a.Pass(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s  %s  %s\n", pass.ID, pass.Tier, pass.PublicationID)
		fmt.Printf("Owner:   %s\n", pass.Owner)
		fmt.Printf("Expires: %s\n", pass.ExpiresAt.Format("2006-01-02 15:04:05"))
		return nil
	},
}

var subTransferCmd = &cobra.Command{
	Use:   "transfer PASS FROM TO",
	Short: "Gift a pass to another identity",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("TransferPass")
		if err != nil {
			return err
		}
		defer a.Close()

		pass, err := a.TransferPass(args[0], args[1], args[2])
		if err != nil {
			return err
		}

		fmt.Printf("Pass %s now owned by %s\n", pass.ID, pass.Owner)
		return nil
	},
}

var subResellCmd = &cobra.Command{
	Use:   "resell PASS SELLER BUYER",
	Short: "Finalize a pass resale, settling royalties",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		price, _ := cmd.Flags().GetUint64("price")
		royalty, _ := cmd.Flags().GetUint64("royalty")

		a, err := newApp("FinalizeResale")
		if err != nil {
			return err
		}
		defer a.Close()

		pass, err := a.Resell(args[0], price, royalty, args[1], args[2])
		if err != nil {
			return err
		}

		fmt.Printf("Pass %s now owned by %s\n", pass.ID, pass.Owner)
		return nil
	},
}

// token command
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage read tokens",
}

var tokenNewCmd = &cobra.Command{
	Use:   "new ARTICLE PUBLICATION",
	Short: "Buy single-article access",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		payment, _ := cmd.Flags().GetUint64("payment")
		owner, _ := cmd.Flags().GetString("owner")

		a, err := newApp("GenerateReadToken")
		if err != nil {
			return err
		}
		defer a.Close()

		if owner == "" {
			owner = string(a.Operator())
		}

		token, err := a.GenerateReadToken(args[0], args[1], payment, owner)
		if err != nil {
			return err
		}

		fmt.Printf("Token: %s\n", token.ID)
		fmt.Printf("Expires: %s\n", token.ExpiresAt.Format("2006-01-02 15:04:05"))
		return nil
	},
}

var tokenConsumeCmd = &cobra.Command{
	Use:   "consume ID",
	Short: "Redeem a read token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		owner, _ := cmd.Flags().GetString("owner")

		a, err := newApp("ConsumeReadToken")
		if err != nil {
			return err
		}
		defer a.Close()

		if owner == "" {
			owner = string(a.Operator())
		}

		if err := a.ConsumeReadToken(args[0], owner); err != nil {
			return err
		}

		fmt.Printf("Consumed %s\n", args[0])
		return nil
	},
}

var tokenTransferCmd = &cobra.Command{
	Use:   "transfer TOKEN FROM TO",
	Short: "Gift an unused read token",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("TransferReadToken")
		if err != nil {
			return err
		}
		defer a.Close()

		token, err := a.TransferReadToken(args[0], args[1], args[2])
		if err != nil {
			return err
		}

		fmt.Printf("Token %s now owned by %s\n", token.ID, token.Owner)
		return nil
	},
}

// access command
var accessCmd = &cobra.Command{
	Use:   "access ARTICLE",
	Short: "Check whether credentials grant access to an article",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		passID, _ := cmd.Flags().GetString("pass")
		tokenID, _ := cmd.Flags().GetString("token")

		a, err := newApp("CheckAccess")
		if err != nil {
			return err
		}
		defer a.Close()

		granted, err := a.CheckAccess(args[0], passID, tokenID)
		if err != nil {
			return err
		}

		if granted {
			fmt.Println("granted")
			return nil
		}
		fmt.Println("denied")
		return nil
	},
}

// treasury command
var treasuryCmd = &cobra.Command{
	Use:   "treasury",
	Short: "Manage the platform treasury",
}

var treasuryStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "View treasury state",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("GetTreasury")
		if err != nil {
			return err
		}
		defer a.Close()

		t, err := a.Treasury()
		if err != nil {
			return err
		}

		fmt.Printf("Balance:          %d\n", t.Balance)
		fmt.Printf("Fees collected:   %d\n", t.TotalFeesCollected)
		fmt.Printf("Deposits:         %d\n", t.TotalDepositsCollected)
		fmt.Printf("Subscription fee: %d bps\n", t.SubscriptionFeeBps)
		fmt.Printf("Deposit fee:      %d bps\n", t.ArticleDepositBps)
		return nil
	},
}

var treasuryWithdrawCmd = &cobra.Command{
	Use:   "withdraw AMOUNT RECIPIENT",
	Short: "Withdraw collected fees",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		capID, _ := cmd.Flags().GetString("cap")

		amount, err := parseAmount(args[0])
		if err != nil {
			return err
		}

		a, err := newApp("Withdraw")
		if err != nil {
			return err
		}
		defer a.Close()

		t, err := a.Withdraw(capID, amount, args[1])
		if err != nil {
			return err
		}

		fmt.Printf("Withdrew %d, treasury balance now %d\n", amount, t.Balance)
		return nil
	},
}

var treasuryRatesCmd = &cobra.Command{
	Use:   "rates SUBSCRIPTION_BPS DEPOSIT_BPS",
	Short: "Update platform fee rates",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		capID, _ := cmd.Flags().GetString("cap")

		subBps, err := parseAmount(args[0])
		if err != nil {
			return err
		}
		depBps, err := parseAmount(args[1])
		if err != nil {
			return err
		}

		a, err := newApp("UpdateFeeRates")
		if err != nil {
			return err
		}
		defer a.Close()

		t, err := a.UpdateFeeRates(capID, subBps, depBps)
		if err != nil {
			return err
		}

		fmt.Printf("Rates updated: subscription=%d bps, deposit=%d bps\n", t.SubscriptionFeeBps, t.ArticleDepositBps)
		return nil
	},
}

// royalty command
var royaltyCmd = &cobra.Command{
	Use:   "royalty",
	Short: "Manage resale royalty rules",
}

var royaltyAddCmd = &cobra.Command{
	Use:   "add PUBLICATION BPS MIN",
	Short: "Attach a royalty rule to a publication",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		capID, _ := cmd.Flags().GetString("cap")

		bps, err := parseAmount(args[1])
		if err != nil {
			return err
		}
		min, err := parseAmount(args[2])
		if err != nil {
			return err
		}

		a, err := newApp("AddRoyaltyRule")
		if err != nil {
			return err
		}
		defer a.Close()

		rule, err := a.AddRoyaltyRule(capID, args[0], bps, min)
		if err != nil {
			return err
		}

		fmt.Printf("Royalty rule for %s: %d bps, min %d\n", rule.PublicationID, rule.AmountBps, rule.MinAmount)
		return nil
	},
}

var royaltyWithdrawCmd = &cobra.Command{
	Use:   "withdraw PUBLICATION",
	Short: "Pay out accrued royalties to the publication owner",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		capID, _ := cmd.Flags().GetString("cap")
		amount, _ := cmd.Flags().GetUint64("amount")

		a, err := newApp("WithdrawRoyalties")
		if err != nil {
			return err
		}
		defer a.Close()

		paid, err := a.WithdrawRoyalties(capID, args[0], amount)
		if err != nil {
			return err
		}

		fmt.Printf("Withdrew %d in royalties\n", paid)
		return nil
	},
}

// stats command
var statsCmd = &cobra.Command{
	Use:   "stats PUBLICATION",
	Short: "View a publication's analytics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		capID, _ := cmd.Flags().GetString("cap")

		a, err := newApp("GetStats")
		if err != nil {
			return err
		}
		defer a.Close()

		st, views, err := a.Stats(capID, args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Subscribers: free=%d basic=%d premium=%d\n",
			st.FreeSubscribers, st.BasicSubscribers, st.PremiumSubscribers)
		fmt.Printf("Revenue: %d\n", st.TotalRevenue)
		if len(views) > 0 {
			fmt.Println("Article views:")
			for id, n := range views {
				fmt.Printf("  %s  %d\n", id, n)
			}
		}
		return nil
	},
}

// history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View recent ledger events",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		a, err := newApp("ListEvents")
		if err != nil {
			return err
		}
		defer a.Close()

		events, err := a.History(limit)
		if err != nil {
			return err
		}

		if len(events) == 0 {
			fmt.Println("No events recorded.")
			return nil
		}

		for _, ev := range events {
			amount := ""
			if ev.Amount > 0 {
				amount = fmt.Sprintf("  amount=%d", ev.Amount)
			}
			fmt.Printf("#%d  %s  %-22s  %s  %s%s\n",
				ev.ID,
				ev.At.Format("2006-01-02 15:04:05"),
				ev.Kind,
				ev.Actor,
				ev.SubjectID,
				amount,
			)
		}
		return nil
	},
}

// balance command
var balanceCmd = &cobra.Command{
	Use:   "balance [OWNER]",
	Short: "View an identity's accumulated credit",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("GetBalance")
		if err != nil {
			return err
		}
		defer a.Close()

		owner := string(a.Operator())
		if len(args) > 0 {
			owner = args[0]
		}

		balance, err := a.Balance(owner)
		if err != nil {
			return err
		}

		fmt.Printf("%s: %d\n", owner, balance)
		return nil
	},
}

// cap command
var capCmd = &cobra.Command{
	Use:   "cap",
	Short: "Manage capabilities",
}

var capShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "View a capability",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("GetCap")
		if err != nil {
			return err
		}
		defer a.Close()

		c, err := a.Cap(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("%s\n", c.ID)
		fmt.Printf("Holder:  %s\n", c.Owner)
		fmt.Printf("Subject: %s\n", c.SubjectID)
		return nil
	},
}

var capTransferCmd = &cobra.Command{
	Use:   "transfer CAP FROM TO",
	Short: "Hand a capability to a new holder",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp("TransferCap")
		if err != nil {
			return err
		}
		defer a.Close()

		c, err := a.TransferCap(args[0], args[1], args[2])
		if err != nil {
			return err
		}

		fmt.Printf("Capability %s now held by %s\n", c.ID, c.Owner)
		return nil
	},
}

func init() {
	// config subcommands
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configListCmd)

	// pub subcommands
	pubCmd.AddCommand(pubCreateCmd)
	pubCreateCmd.Flags().String("owner", "", "Owner identity (default: operator)")
	pubCreateCmd.Flags().String("description", "", "Publication description")
	pubCreateCmd.Flags().Uint64("basic", 0, "Basic tier price per period")
	pubCreateCmd.Flags().Uint64("premium", 0, "Premium tier price per period")
	pubCreateCmd.Flags().Bool("free-tier", false, "Enable the free tier")
	pubCmd.AddCommand(pubShowCmd)
	pubCmd.AddCommand(pubPricingCmd)
	pubPricingCmd.Flags().String("cap", "", "Owner capability ID")
	pubCmd.AddCommand(pubFreeTierCmd)
	pubFreeTierCmd.Flags().String("cap", "", "Owner capability ID")

	// article subcommands
	articleCmd.AddCommand(articlePublishCmd)
	articlePublishCmd.Flags().String("cap", "", "Owner capability ID")
	articlePublishCmd.Flags().String("title", "", "Article title")
	articlePublishCmd.Flags().String("excerpt", "", "Public excerpt")
	articlePublishCmd.Flags().String("tier", string(model.TierFree), "Required tier (free, basic, premium)")
	articleCmd.AddCommand(articleShowCmd)
	articleCmd.AddCommand(articleListCmd)
	articleCmd.AddCommand(articleArchiveCmd)
	articleArchiveCmd.Flags().String("cap", "", "Owner capability ID")
	articleCmd.AddCommand(articleUnarchiveCmd)
	articleUnarchiveCmd.Flags().String("cap", "", "Owner capability ID")
	articleCmd.AddCommand(articleMetaCmd)
	articleMetaCmd.Flags().String("cap", "", "Owner capability ID")
	articleMetaCmd.Flags().String("title", "", "New title")
	articleMetaCmd.Flags().String("excerpt", "", "New excerpt")
	articleCmd.AddCommand(articleFetchCmd)
	articleFetchCmd.Flags().String("pass", "", "Subscription pass ID")
	articleFetchCmd.Flags().String("token", "", "Read token ID")
	articleFetchCmd.Flags().StringP("output", "o", "", "Write content to file instead of stdout")

	// sub subcommands
	subCmd.AddCommand(subNewCmd)
	subNewCmd.Flags().Uint64("payment", 0, "Payment amount")
	subNewCmd.Flags().String("subscriber", "", "Subscriber identity (default: operator)")
	subCmd.AddCommand(subRenewCmd)
	subRenewCmd.Flags().Uint64("payment", 0, "Payment amount")
	subCmd.AddCommand(subShowCmd)
	subCmd.AddCommand(subTransferCmd)
	subCmd.AddCommand(subResellCmd)
	subResellCmd.Flags().Uint64("price", 0, "Sale price")
	subResellCmd.Flags().Uint64("royalty", 0, "Royalty payment")

	// token subcommands
	tokenCmd.AddCommand(tokenNewCmd)
	tokenNewCmd.Flags().Uint64("payment", 0, "Payment amount")
	tokenNewCmd.Flags().String("owner", "", "Token owner (default: operator)")
	tokenCmd.AddCommand(tokenConsumeCmd)
	tokenConsumeCmd.Flags().String("owner", "", "Token owner (default: operator)")
	tokenCmd.AddCommand(tokenTransferCmd)

	// access flags
	accessCmd.Flags().String("pass", "", "Subscription pass ID")
	accessCmd.Flags().String("token", "", "Read token ID")

	// treasury subcommands
	treasuryCmd.AddCommand(treasuryStatusCmd)
	treasuryCmd.AddCommand(treasuryWithdrawCmd)
	treasuryWithdrawCmd.Flags().String("cap", "", "Treasury admin capability ID")
	treasuryCmd.AddCommand(treasuryRatesCmd)
	treasuryRatesCmd.Flags().String("cap", "", "Treasury admin capability ID")

	// royalty subcommands
	royaltyCmd.AddCommand(royaltyAddCmd)
	royaltyAddCmd.Flags().String("cap", "", "Owner capability ID")
	royaltyCmd.AddCommand(royaltyWithdrawCmd)
	royaltyWithdrawCmd.Flags().String("cap", "", "Owner capability ID")
	royaltyWithdrawCmd.Flags().Uint64("amount", 0, "Amount to withdraw (0 = all accrued)")

	// stats flags
	statsCmd.Flags().String("cap", "", "Stats capability ID")

	// history flags
	historyCmd.Flags().IntP("limit", "n", 50, "Maximum number of events to show")

	// cap subcommands
	capCmd.AddCommand(capShowCmd)
	capCmd.AddCommand(capTransferCmd)

	// root commands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(pubCmd)
	rootCmd.AddCommand(articleCmd)
	rootCmd.AddCommand(subCmd)
	rootCmd.AddCommand(tokenCmd)
	rootCmd.AddCommand(accessCmd)
	rootCmd.AddCommand(treasuryCmd)
	rootCmd.AddCommand(royaltyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(capCmd)
}
