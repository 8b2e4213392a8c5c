package pipeline

import (
	"context"
	"fmt"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Orange-OpenSource/angular-css-shrink/internal/cache"
	"github.com/Orange-OpenSource/angular-css-shrink/internal/collections"
	"github.com/Orange-OpenSource/angular-css-shrink/internal/log"
	"github.com/Orange-OpenSource/angular-css-shrink/internal/shrink"
	"github.com/sourcegraph/conc/pool"
)

// Config controls one pass
type Config struct {
	Options shrink.Options
	// Debug persists the intermediate artifacts into DebugDir
	Debug    bool
	DebugDir string
	// Workers bounds parallel stylesheet filtering; <= 0 means NumCPU
	Workers int
	// DryRun computes results without writing stylesheets back
	DryRun bool
	// Cache may be nil
	Cache   *cache.Cache
	Metrics *Metrics
}

// Summary describes a finished pass
type Summary struct {
	Scripts        int
	SkippedScripts []string
	Candidates     collections.Set[string]
	// Results are ordered by stylesheet name
	Results   []*shrink.Result
	Errors    *Errors
	CacheHits int
	Duration  time.Duration
}

// BytesBefore sums the input size of every filtered stylesheet
func (s *Summary) BytesBefore() int {
	total := 0
	for _, r := range s.Results {
		total += r.BytesBefore
	}
	return total
}

// BytesAfter sums the output size of every filtered stylesheet
func (s *Summary) BytesAfter() int {
	total := 0
	for _, r := range s.Results {
		total += r.BytesAfter
	}
	return total
}

// Ratio is the overall size reduction
func (s *Summary) Ratio() float64 {
	total := &shrink.Result{BytesBefore: s.BytesBefore(), BytesAfter: s.BytesAfter()}
	return total.Ratio()
}

// Pipeline runs shrink passes over an AssetStore
type Pipeline struct {
	store     AssetStore
	cfg       Config
	extractor *shrink.Extractor
	filter    *shrink.Filter
}

// New creates a Pipeline over store
func New(store AssetStore, cfg Config) *Pipeline {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.NumCPU()
	}
	return &Pipeline{
		store:     store,
		cfg:       cfg,
		extractor: shrink.NewExtractor(cfg.Options),
		filter:    shrink.NewFilter(cfg.Options),
	}
}

// Run lists the store, builds the candidate set from every script and
// filters every stylesheet against it. Per-asset failures are collected in
// Summary.Errors; only a failure to list the store or a cancelled context
// is returned as an error.
func (p *Pipeline) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()

	names, err := p.store.List()
	if err != nil {
		return nil, err
	}

	var scripts, stylesheets []string
	for _, name := range names {
		switch Classify(name) {
		case ScriptAsset:
			scripts = append(scripts, name)
		case StylesheetAsset:
			stylesheets = append(stylesheets, name)
		}
	}
	log.Info("Found %d scripts and %d stylesheets", len(scripts), len(stylesheets))

	summary := &Summary{Scripts: len(scripts), Errors: &Errors{}}

	var debug *debugWriter
	if p.cfg.Debug {
		debug = newDebugWriter(p.cfg.DebugDir)
	}

	candidates, err := p.extract(ctx, scripts, summary, debug)
	if err != nil {
		return summary, err
	}
	summary.Candidates = candidates
	log.Info("Found %d potential classes", len(candidates))

	if err := p.filterAll(ctx, stylesheets, summary, debug); err != nil {
		return summary, err
	}

	summary.Duration = time.Since(start)
	if p.cfg.Metrics != nil {
		p.cfg.Metrics.Observe(summary)
	}
	return summary, nil
}

// extract tokenizes each script on its own so a malformed fragment is
// skipped while the others still contribute
func (p *Pipeline) extract(ctx context.Context, scripts []string, summary *Summary, debug *debugWriter) (collections.Set[string], error) {
	candidates := collections.NewSet[string]()
	texts := make([]string, 0, len(scripts))

	for _, name := range scripts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		text, err := p.store.ReadText(name)
		if err != nil {
			log.With("asset", name).Warn("Can not collect script: %v", err)
			summary.Errors.Add(name, err)
			summary.SkippedScripts = append(summary.SkippedScripts, name)
			continue
		}
		texts = append(texts, text)

		if err := p.extractor.AddSource(candidates, name, text); err != nil {
			log.With("asset", name).Warn("Skipping script: %v", err)
			summary.Errors.Add(name, err)
			summary.SkippedScripts = append(summary.SkippedScripts, name)
		}
	}

	if debug != nil {
		debug.scripts(texts)
		debug.classList(candidates)
	}
	return candidates, nil
}

func (p *Pipeline) filterAll(ctx context.Context, stylesheets []string, summary *Summary, debug *debugWriter) error {
	if len(stylesheets) == 0 {
		return nil
	}

	var fingerprint string
	if p.cfg.Cache.Enabled() {
		fingerprint = p.fingerprint(summary.Candidates)
	}

	var mu sync.Mutex
	cp := pool.New().WithMaxGoroutines(p.cfg.Workers).WithContext(ctx)
	for _, name := range stylesheets {
		cp.Go(func(ctx context.Context) error {
			if err := ctx.Err(); err != nil {
				return err
			}

			result, hit, err := p.filterOne(name, summary.Candidates, fingerprint, debug)
			if err != nil {
				summary.Errors.Add(name, err)
				return nil
			}

			mu.Lock()
			summary.Results = append(summary.Results, result)
			if hit {
				summary.CacheHits++
			}
			mu.Unlock()
			return nil
		})
	}
	if err := cp.Wait(); err != nil {
		return err
	}

	slices.SortFunc(summary.Results, func(a, b *shrink.Result) int {
		return strings.Compare(a.Name, b.Name)
	})
	return nil
}

// filterOne shrinks one stylesheet. A stylesheet that fails to parse is
// left untouched in the store.
func (p *Pipeline) filterOne(name string, candidates collections.Set[string], fingerprint string, debug *debugWriter) (*shrink.Result, bool, error) {
	alog := log.With("asset", name)
	alog.Info("Shrink")

	source, err := p.store.ReadText(name)
	if err != nil {
		alog.Error("Can not read stylesheet: %v", err)
		return nil, false, err
	}
	if debug != nil {
		debug.original(name, source)
	}

	var key string
	if fingerprint != "" {
		key = cache.Key(source, fingerprint)
	}

	result, hit := p.cached(name, source, key)
	if !hit {
		result, err = p.filter.Shrink(name, source, candidates)
		if err != nil {
			alog.Error("Keeping stylesheet unchanged: %v", err)
			return nil, false, err
		}
		if key != "" {
			entry := cache.Entry{Output: result.Output, RulesBefore: result.RulesBefore, RulesAfter: result.RulesAfter}
			if err := p.cfg.Cache.Put(key, entry); err != nil {
				alog.Warn("Failed to cache result: %v", err)
			}
		}
	}

	if !p.cfg.DryRun && result.Output != source {
		if err := p.store.WriteText(name, result.Output); err != nil {
			alog.Error("Can not write stylesheet: %v", err)
			return nil, false, err
		}
	}
	return result, hit, nil
}

func (p *Pipeline) cached(name, source, key string) (*shrink.Result, bool) {
	if key == "" {
		return nil, false
	}
	entry, ok := p.cfg.Cache.Get(key)
	if !ok {
		return nil, false
	}
	log.With("asset", name).Debug("Served from cache")
	return &shrink.Result{
		Name:        name,
		Output:      entry.Output,
		BytesBefore: len(source),
		BytesAfter:  len(entry.Output),
		RulesBefore: entry.RulesBefore,
		RulesAfter:  entry.RulesAfter,
	}, true
}

// fingerprint identifies everything besides the stylesheet text that
// determines a filter result
func (p *Pipeline) fingerprint(candidates collections.Set[string]) string {
	opts := p.cfg.Options
	return cache.Key(
		opts.DelimiterPattern(),
		strconv.Itoa(opts.MinClassLength()),
		strconv.FormatBool(opts.Minify()),
		cache.Key(collections.Sorted(candidates)...),
	)
}

// String summarizes the pass on one line
func (s *Summary) String() string {
	return fmt.Sprintf("%d stylesheets, %d -> %d bytes (%.2f%%), %d candidates, %d failures",
		len(s.Results), s.BytesBefore(), s.BytesAfter(), s.Ratio()*100, len(s.Candidates), s.Errors.Len())
}
