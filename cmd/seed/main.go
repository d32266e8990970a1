package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/xavierca1/lead-ledger/internal/config"
	"github.com/xavierca1/lead-ledger/internal/infra/database"
	"github.com/xavierca1/lead-ledger/internal/logger"
	"github.com/xavierca1/lead-ledger/internal/usecase"
)

// seed registers two demo leads, converts the first and prints the resulting report.
func main() {
	spendFlag := flag.String("marketing-spend", "500", "marketing spend used for the report ROI")
	flag.Parse()

	spend, err := decimal.NewFromString(*spendFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid -marketing-spend: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)
	ctx := context.Background()

	db, err := database.NewDBConnection(cfg.Dialect(), cfg.DatabaseURL)
	if err != nil {
		log.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.EnsureSchema(ctx, db, cfg.Dialect()); err != nil {
		log.Error("failed to apply schema", "error", err)
		os.Exit(1)
	}
	repo := database.NewLeadRepository(db, cfg.Dialect())
	clock := usecase.SystemClock(cfg.Location())

	register := usecase.NewRegisterLeadUseCase(repo, nil, clock, log)
	mark := usecase.NewMarkLeadStatusUseCase(repo, nil, clock, log)

	leads := []usecase.RegisterLeadInput{
		{
			CompanyName: "Test Company",
			ContactName: "John Doe",
			Phone:       "+27 82 123 4567",
			Email:       "john@testcompany.co.za",
			Province:    "Gauteng",
			City:        "Johannesburg",
		},
		{
			CompanyName: "Another Company",
			ContactName: "Jane Smith",
			Phone:       "+27 21 987 6543",
			Email:       "jane@anothercompany.co.za",
			Province:    "Western Cape",
			City:        "Cape Town",
		},
	}

	var ids []int64
	for _, in := range leads {
		out, err := register.Execute(ctx, in)
		if err != nil {
			log.Error("failed to register lead", "error", err, "company", in.CompanyName)
			os.Exit(1)
		}
		ids = append(ids, out.ID)
	}

	if _, err := mark.Execute(ctx, usecase.MarkLeadStatusInput{
		LeadID:     ids[0],
		Status:     "Converted",
		Commission: decimal.NewFromInt(1000),
	}); err != nil {
		log.Error("failed to convert lead", "error", err, "lead_id", ids[0])
		os.Exit(1)
	}

	report, err := usecase.NewBuildReportUseCase(repo, clock, log).Execute(ctx, usecase.BuildReportInput{MarketingSpend: spend})
	if err != nil {
		log.Error("failed to build report", "error", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		log.Error("failed to print report", "error", err)
		os.Exit(1)
	}
}
