// Package service wires internal/parser, internal/discovery, and
// internal/similarity behind the domain.ScanService interface.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/kelvinlabs/dupescan/domain"
	"github.com/kelvinlabs/dupescan/internal/discovery"
	"github.com/kelvinlabs/dupescan/internal/parser"
	"github.com/kelvinlabs/dupescan/internal/similarity"
)

// Engine implements domain.ScanService.
type Engine struct {
	Profiles map[string]*similarity.LanguageProfile
	Logger   *slog.Logger
	Progress domain.ProgressManager
}

// NewEngine builds an Engine over the given extraction profiles. A nil
// logger falls back to slog's default handler. Progress reporting is
// off by default; set Engine.Progress (e.g. to a ProgressManagerImpl)
// to render a bar during file extraction.
func NewEngine(profiles map[string]*similarity.LanguageProfile, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{Profiles: profiles, Logger: logger}
}

// Scan implements domain.ScanService: discover files, parse and extract
// fragments per file, then run the pair orchestrator over the combined
// fragment set.
func (e *Engine) Scan(ctx context.Context, req *domain.ScanRequest) (*domain.ScanResponse, error) {
	if req == nil {
		return nil, fmt.Errorf("scan request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("invalid scan request: %w", err)
	}

	start := time.Now()
	summary := &similarity.RunSummary{}

	files, err := discovery.Resolve(req.Paths, discovery.Options{
		IncludePatterns: req.IncludePatterns,
		ExcludePatterns: req.ExcludePatterns,
	})
	if err != nil {
		return nil, domain.NewFileNotFoundError(fmt.Sprintf("%v", req.Paths), err)
	}

	fragments, err := e.extractAll(ctx, files, req, summary)
	if err != nil {
		return nil, err
	}
	summary.FilesParsed = len(files)
	summary.FragmentsExtracted = len(fragments)

	cost := similarity.NewCostModelWithRenameCost(req.RenameCost)
	orch := similarity.NewOrchestrator(cost, similarity.RunConfig{
		Threshold:      req.Threshold,
		MinJaccard:     minJaccardFloor(req.Threshold),
		SizeRatioK:     req.SizeRatioK,
		CrossFile:      req.CrossFile,
		SizePenalty:    !req.NoSizePenalty,
		BatchThreshold: req.BatchThreshold,
		Workers:        req.Workers,
		Filters: similarity.Filters{
			SkipTestLike:  req.SkipTest,
			NameSubstring: req.FilterFunction,
			BodySubstring: req.FilterBody,
		},
	})

	matches := orch.Run(ctx, fragments, summary)
	if summary.PairsTruncated > 0 {
		e.Logger.Warn("dropped lowest-priority matches to stay within the batch threshold",
			"dropped", summary.PairsTruncated, "batch_threshold", req.BatchThreshold)
	}
	matchReports := toMatchReports(matches, req.Print)

	resp := &domain.ScanResponse{
		Matches:    matchReports,
		Groups:     groupMatches(matchReports),
		Statistics: toStatistics(summary, matches, time.Since(start)),
		Success:    true,
	}
	if ctx.Err() != nil {
		resp.Error = ctx.Err().Error()
	}
	return resp, nil
}

// minJaccardFloor derives the fingerprint-Jaccard floor the prefilter
// applies from the run's similarity threshold: half of threshold is loose
// enough to never reject a pair that could still score >= threshold, while
// tracking threshold as it changes rather than a single fixed constant.
func minJaccardFloor(threshold float64) float64 {
	return threshold / 2
}

// extractAll parses every discovered file and runs its language's
// extractor, collecting a combined fragment set. A file that fails to
// parse is logged and skipped, not fatal to the run.
func (e *Engine) extractAll(ctx context.Context, files []string, req *domain.ScanRequest, summary *similarity.RunSummary) ([]*similarity.Fragment, error) {
	var all []*similarity.Fragment

	if e.Progress != nil {
		e.Progress.Initialize(len(files))
		e.Progress.Start()
		defer e.Progress.Complete(true)
	}

	for i, path := range files {
		select {
		case <-ctx.Done():
			return all, nil
		default:
		}
		if e.Progress != nil {
			e.Progress.Update(i, len(files))
		}

		lang, ok := discovery.LanguageFor(path)
		if !ok {
			continue
		}
		profile, ok := e.Profiles[string(lang)]
		if !ok {
			e.Logger.Warn("no extraction profile registered", "language", lang, "file", path)
			continue
		}

		source, err := os.ReadFile(path)
		if err != nil {
			e.Logger.Warn("failed to read file", "file", path, "error", err)
			summary.AddError(similarity.NewRunError(similarity.ErrParseFailure, path, err.Error()))
			continue
		}

		p, err := parser.New(lang)
		if err != nil {
			e.Logger.Warn("failed to construct parser", "language", lang, "error", err)
			continue
		}
		result, err := p.Parse(ctx, source)
		if err != nil {
			e.Logger.Warn("failed to parse file", "file", path, "error", err)
			summary.AddError(similarity.NewRunError(similarity.ErrParseFailure, path, err.Error()))
			continue
		}

		extractor := similarity.NewExtractor(profile, similarity.ExtractOptions{
			MinLines:     req.MinLines,
			MinTokens:    req.MinTokens,
			SkipTestLike: req.SkipTest,
		})
		fragments := extractor.Extract(result.Root, path)
		for _, f := range fragments {
			if f.Kind == similarity.KindRuleBlock && !req.IncludeRuleBlocks {
				continue
			}
			if req.Print {
				f.Source = string(source[f.Location.StartByte:f.Location.EndByte])
			}
			all = append(all, f)
		}
	}

	return all, nil
}
