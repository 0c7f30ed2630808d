package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"event-orchestrator/internal/app"
	"event-orchestrator/internal/approval"
	"event-orchestrator/internal/clipper"
	"event-orchestrator/internal/config"
	"event-orchestrator/internal/database"
	"event-orchestrator/internal/intent"
	"event-orchestrator/internal/llm"
	"event-orchestrator/internal/metrics"
	"event-orchestrator/internal/planner"
	"event-orchestrator/internal/vendor"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	ctx := context.Background()

	cfg, err := config.NewFromEnv()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	geminiClient, err := llm.NewGeminiClient(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini client: %v", err)
	}
	defer geminiClient.Close()

	var extractorGen llm.TextGenerator = geminiClient
	if cfg.GroqAPIKey != "" {
		extractorGen = llm.NewGroqClient(cfg, "", 0.1)
	}

	db, err := database.NewDB(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	var catalogSource vendor.Source = vendor.SampleSource{}
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Fatalf("Failed to connect to vendor catalog: %v", err)
		}
		defer pool.Close()
		catalogSource = vendor.NewCatalog(pool)
	}

	portal := vendor.NewPortalClient(cfg)
	manual := vendor.NewManualVendors()

	eventPlanner := planner.NewPlanner(
		planner.NewDiscovery(catalogSource),
		portal,
		manual,
		planner.NewOptimizer(nil),
	)

	application := app.NewApp(
		cfg,
		intent.NewExtractor(extractorGen),
		eventPlanner,
		portal,
		manual,
		clipper.NewClipper(manual, extractorGen),
		approval.NewStore(db.SQL),
		planner.NewPlanRepository(db.SQL),
		metrics.NewStore(db.SQL),
		db,
	)

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "plan":
		runPlan(ctx, application, os.Args[2:])
	case "vendors":
		runVendors(ctx, eventPlanner, os.Args[2:])
	case "approve":
		runDecision(ctx, application, os.Args[2:], true)
	case "reject":
		runDecision(ctx, application, os.Args[2:], false)
	case "pending":
		runPending(ctx, application)
	case "availability":
		runAvailability(application, os.Args[2:])
	case "vendor":
		runVendorDetails(ctx, catalogSource, manual, os.Args[2:])
	case "pricing":
		runPricing(portal, os.Args[2:])
	case "clip":
		runClip(ctx, application, os.Args[2:])
	case "metrics-cleanup":
		cleanupCmd := flag.NewFlagSet("metrics-cleanup", flag.ExitOnError)
		days := cleanupCmd.Int("days", 30, "Keep records for the last N days")
		cleanupCmd.Parse(os.Args[2:])

		affected, err := application.CleanupMetrics(ctx, *days)
		if err != nil {
			log.Fatalf("Cleanup failed: %v", err)
		}
		fmt.Printf("Successfully removed %d old metric records.\n", affected)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func runPlan(ctx context.Context, application *app.App, args []string) {
	planCmd := flag.NewFlagSet("plan", flag.ExitOnError)
	user := planCmd.String("user", "cli", "User ID to attribute the plan to")
	planCmd.Parse(args)

	if planCmd.NArg() == 0 {
		log.Fatal("Usage: plan [-user id] \"<event request>\"")
	}
	request := strings.Join(planCmd.Args(), " ")

	result, err := application.ProcessRequest(ctx, *user, request)
	if err != nil {
		log.Fatalf("Planning failed: %v", err)
	}

	printJSON(result.Plan)
	fmt.Printf("\nApproval request: %s (needs %s)\n", result.RequestID, result.Level)
	fmt.Println(result.LimitCheck.Reason)
}

func runVendors(ctx context.Context, eventPlanner *planner.Planner, args []string) {
	vendorsCmd := flag.NewFlagSet("vendors", flag.ExitOnError)
	eventType := vendorsCmd.String("type", "wedding", "Event type")
	location := vendorsCmd.String("location", "", "City")
	budget := vendorsCmd.Float64("budget", 0, "Budget in PKR")
	attendees := vendorsCmd.Int("attendees", 100, "Guest count")
	date := vendorsCmd.String("date", "", "Event date (YYYY-MM-DD)")
	topK := vendorsCmd.Int("top", 5, "Number of vendors to show")
	vendorsCmd.Parse(args)

	ranked := eventPlanner.Discover(ctx, planner.EventRequirements{
		EventType: *eventType,
		Location:  *location,
		Budget:    *budget,
		Attendees: *attendees,
		Date:      *date,
	}, *topK)

	for _, r := range ranked {
		fmt.Printf("%.0f%%  %-30s %-12s PKR %.0f-%.0f  rating %.1f\n",
			r.Score*100, r.Vendor.Name, r.Vendor.Category,
			r.Vendor.PriceMin, r.Vendor.PriceMax, r.Vendor.Rating)
	}
}

func runDecision(ctx context.Context, application *app.App, args []string, approve bool) {
	decideCmd := flag.NewFlagSet("decide", flag.ExitOnError)
	by := decideCmd.String("by", "cli", "Who is deciding")
	notes := decideCmd.String("notes", "", "Decision notes")
	decideCmd.Parse(args)

	if decideCmd.NArg() == 0 {
		log.Fatal("Usage: approve|reject [-by who] [-notes text] <request-id>")
	}
	requestID := decideCmd.Arg(0)

	if approve {
		result, err := application.Approve(ctx, requestID, *by)
		if err != nil {
			log.Fatalf("Approval failed: %v", err)
		}
		fmt.Printf("Approved %s. %d bookings created", requestID, len(result.Bookings))
		if len(result.Failures) > 0 {
			fmt.Printf(", %d failed", len(result.Failures))
		}
		fmt.Println(".")
		for _, b := range result.Bookings {
			fmt.Printf("  %s -> %s (%s)\n", b.VendorID, b.Status, b.ID)
		}
		for _, f := range result.Failures {
			fmt.Printf("  FAILED %s\n", f)
		}
		return
	}

	if _, err := application.Reject(ctx, requestID, *by, *notes); err != nil {
		log.Fatalf("Rejection failed: %v", err)
	}
	fmt.Printf("Rejected %s.\n", requestID)
}

func runPending(ctx context.Context, application *app.App) {
	pending, err := application.PendingRequests(ctx, 20)
	if err != nil {
		log.Fatalf("Failed to list pending requests: %v", err)
	}
	if len(pending) == 0 {
		fmt.Println("Nothing pending.")
		return
	}
	for _, req := range pending {
		fmt.Printf("%s  %-12s PKR %-10.0f %d vendors  needs %s  (%s)\n",
			req.RequestID, req.EventType, req.TotalCost, req.VendorCount, req.Level,
			req.RequestedAt.Format("2006-01-02 15:04"))
	}
}

func runAvailability(application *app.App, args []string) {
	if len(args) < 2 {
		log.Fatal("Usage: availability <vendor-id> <date>")
	}
	result, err := application.CheckAvailability(args[0], args[1])
	if err != nil {
		log.Fatalf("Availability check failed: %v", err)
	}
	printJSON(result)
}

func runVendorDetails(ctx context.Context, source vendor.Source, manual *vendor.ManualVendors, args []string) {
	if len(args) < 1 {
		log.Fatal("Usage: vendor <vendor-id>")
	}
	id := args[0]

	if catalog, ok := source.(*vendor.Catalog); ok {
		v, err := catalog.GetByID(ctx, id)
		if err == nil {
			printJSON(v)
			return
		}
		if !errors.Is(err, vendor.ErrNotFound) {
			log.Fatalf("Vendor lookup failed: %v", err)
		}
	}
	if v := manual.GetDetails(id); v != nil {
		printJSON(v)
		return
	}
	for _, v := range vendor.Samples() {
		if v.VendorID == id {
			printJSON(v)
			return
		}
	}
	log.Fatalf("Vendor %s not found", id)
}

func runPricing(portal *vendor.PortalClient, args []string) {
	if len(args) < 1 {
		log.Fatal("Usage: pricing <vendor-id> [service-id]")
	}
	if len(args) == 1 {
		services, err := portal.GetVendorServices(args[0])
		if err != nil {
			log.Fatalf("Service lookup failed: %v", err)
		}
		printJSON(services)
		return
	}
	quote, err := portal.GetPricing(args[0], args[1])
	if err != nil {
		log.Fatalf("Pricing lookup failed: %v", err)
	}
	printJSON(quote)
}

func runClip(ctx context.Context, application *app.App, args []string) {
	if len(args) < 1 {
		log.Fatal("Usage: clip <url>")
	}
	profile, err := application.ClipVendor(ctx, args[0])
	if err != nil {
		log.Fatalf("Clip failed: %v", err)
	}
	printJSON(profile)
}

func printJSON(v any) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatalf("Failed to render output: %v", err)
	}
	fmt.Println(string(out))
}

func printUsage() {
	fmt.Println("Usage: event-orchestrator <command> [arguments]")
	fmt.Println("\nCommands:")
	fmt.Println("  plan               Plan an event from a natural-language request")
	fmt.Println("  vendors            Search and rank vendors for an event")
	fmt.Println("  approve            Approve a pending plan and book its vendors")
	fmt.Println("  reject             Reject a pending plan")
	fmt.Println("  pending            List pending approval requests")
	fmt.Println("  availability       Check a vendor's availability for a date")
	fmt.Println("  vendor             Show a single vendor's catalog record")
	fmt.Println("  pricing            Fetch the portal quote for a vendor service")
	fmt.Println("  clip               Import a vendor listing from a URL")
	fmt.Println("  metrics-cleanup    Remove old metric records")
}
