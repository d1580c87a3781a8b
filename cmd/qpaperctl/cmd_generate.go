package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mind-engage/mindengage-qpaper/internal/app"
	auth "github.com/mind-engage/mindengage-qpaper/internal/auth/middleware"
	"github.com/mind-engage/mindengage-qpaper/internal/export"
	"github.com/mind-engage/mindengage-qpaper/internal/paper"
)

var (
	genRequest string
	genFormat  string
	genOutDir  string
	genSeed    uint64
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Assemble a paper from a request file and write it in the chosen format",
	Long: `The request file holds the same JSON the HTTP generate endpoint takes:

  {"paperName": "...", "subject": "...", "department": "...",
   "questionDistribution": [{"marks": 2, "bl": 1, "count": 5, "section": "Part-A"}]}

--seed makes the selection reproducible.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := export.ParseFormat(genFormat)
		if err != nil {
			return err
		}
		b, err := os.ReadFile(genRequest)
		if err != nil {
			return err
		}
		var raw paper.RawRequest
		if err := json.Unmarshal(b, &raw); err != nil {
			return fmt.Errorf("request %s: %w", genRequest, err)
		}
		pres, err := export.LoadPresentation(cfg.PresentationFile)
		if err != nil {
			return err
		}

		var sel paper.Selector = paper.RandomSelector{}
		if cmd.Flags().Changed("seed") {
			sel = paper.NewSeededSelector(genSeed)
		}

		return withApp(cmd, func(ctx context.Context, a *app.App) error {
			svc := paper.NewService(a.Questions, paper.NewMatcher(sel), paper.Options{
				Limits: paper.Limits{MaxBuckets: cfg.MaxBuckets, MaxBucketCount: cfg.MaxBucketCount, StrictTotal: cfg.StrictTotalMarks},
				Events: a.Events,
				Logger: logger,
			})
			p, err := svc.Generate(ctx, auth.Principal{UserID: "qpaperctl", Role: auth.RoleAdmin}, raw)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, p.Message)
			for _, r := range p.DistributionResults {
				fmt.Fprintf(out, "  %-45s found %d/%d (%s)\n", r.Criteria, r.Found, r.Requested, r.MatchType)
			}
			for _, w := range p.Warnings {
				fmt.Fprintln(out, "warning:", w)
			}
			if len(p.Questions) == 0 && f != export.FormatJSON {
				return export.ErrEmptyPaper
			}

			var buf bytes.Buffer
			if err := export.Render(&buf, f, export.Document{Paper: p, Presentation: pres}); err != nil {
				return err
			}
			if err := os.MkdirAll(genOutDir, 0o755); err != nil {
				return err
			}
			dst := filepath.Join(genOutDir, export.Filename(p.PaperName, f))
			if err := os.WriteFile(dst, buf.Bytes(), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(out, "total marks %d, wrote %s\n", p.TotalMarks, dst)
			return nil
		})
	},
}

func init() {
	generateCmd.Flags().StringVar(&genRequest, "request", "", "paper request JSON file")
	generateCmd.Flags().StringVar(&genFormat, "format", "json", "word, pdf or json")
	generateCmd.Flags().StringVar(&genOutDir, "out", ".", "output directory")
	generateCmd.Flags().Uint64Var(&genSeed, "seed", 0, "selection seed")
	_ = generateCmd.MarkFlagRequired("request")
}
