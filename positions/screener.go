// Package positions enumerates candidate 4-leg strategies from a chain table
// and scores each one with the probability engine.
package positions

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/cpu"
	log "github.com/sirupsen/logrus"
	mpb "github.com/vbauerster/mpb/v7"
	"github.com/vbauerster/mpb/v7/decor"

	"github.com/condorscan/condorscan/chain"
	"github.com/condorscan/condorscan/models"
	"github.com/condorscan/condorscan/probability"
)

const jobBatchSize = 1000

var ErrInvalidScenario = errors.New("invalid scenario")

// Scenario carries the caller-supplied market parameters. Nothing here is
// defaulted by the engine.
type Scenario struct {
	Spot         float64
	DaysToExpiry int
	RiskFreeRate float64
	Sigma        float64
}

// Model converts the scenario into the lognormal terminal-price model,
// converting days to expiry into year fractions.
func (s Scenario) Model() probability.Model {
	return probability.Model{
		Spot:  s.Spot,
		Years: float64(s.DaysToExpiry) / 365.0,
		Rate:  s.RiskFreeRate,
		Sigma: s.Sigma,
	}
}

func (s Scenario) validate() error {
	if s.Spot <= 0 {
		return fmt.Errorf("%w: spot %.4f", ErrInvalidScenario, s.Spot)
	}
	if s.DaysToExpiry <= 0 {
		return fmt.Errorf("%w: days to expiry %d", ErrInvalidScenario, s.DaysToExpiry)
	}
	if s.Sigma <= 0 {
		return fmt.Errorf("%w: sigma %.4f", ErrInvalidScenario, s.Sigma)
	}
	return nil
}

// Result scores one surviving candidate. Seq is the enumeration order, kept
// so ranking can break ties deterministically.
type Result struct {
	Candidate   Candidate
	Seq         int
	Probability float64
	RiskReward  float64
}

// ScreenResult is the full outcome of one screening pass. Skipped counts
// candidates dropped for malformed price cells.
type ScreenResult struct {
	Results   []Result
	Evaluated int64
	Skipped   int64
}

// Screener runs one screening pass over a chain table. Zero-value optional
// fields fall back to sensible defaults; Table, Scenario and Policy are
// required.
type Screener struct {
	Table    *chain.Table
	Scenario Scenario
	Policy   Policy

	Workers    int
	Progress   bool
	MonitorCPU bool
}

type job struct {
	seq  int
	cand Candidate
}

// Run enumerates every candidate the policy yields, evaluates them across a
// worker pool and returns results in enumeration order. Candidates are
// independent, so workers share nothing but the read-only table and two
// counters; cancellation via ctx stops the pass early with ctx.Err().
func (s *Screener) Run(ctx context.Context) (*ScreenResult, error) {
	if err := s.Table.Validate(); err != nil {
		return nil, err
	}
	if err := s.Scenario.validate(); err != nil {
		return nil, err
	}

	model := s.Scenario.Model()
	cands := s.Policy.Candidates(s.Table.Columns())

	workers := s.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	log.WithFields(log.Fields{
		"policy":     s.Policy.Name(),
		"candidates": len(cands),
		"workers":    workers,
		"spot":       s.Scenario.Spot,
		"dte":        s.Scenario.DaysToExpiry,
		"sigma":      s.Scenario.Sigma,
		"rate":       s.Scenario.RiskFreeRate,
	}).Info("screening candidates")

	var bar *mpb.Bar
	var progress *mpb.Progress
	if s.Progress {
		progress = mpb.New(mpb.WithWidth(64))
		bar = progress.AddBar(int64(len(cands)),
			mpb.PrependDecorators(
				decor.Name("Progress"),
				decor.Percentage(decor.WCSyncSpace),
			),
			mpb.AppendDecorators(
				decor.CountersNoUnit("(%d / %d)", decor.WCSyncSpace),
			),
		)
	}

	if s.MonitorCPU {
		go monitorCPUUsage(ctx)
	}

	jobs := make(chan job, jobBatchSize)
	resultCh := make(chan Result, jobBatchSize)

	var (
		wg        sync.WaitGroup
		evaluated int64
		skipped   int64

		hardErrOnce sync.Once
		hardErr     error
	)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				res, err := s.evaluate(j, model)
				switch {
				case err == nil:
					atomic.AddInt64(&evaluated, 1)
					resultCh <- res
				case errors.Is(err, chain.ErrMalformedCell):
					atomic.AddInt64(&skipped, 1)
					log.WithField("candidate", j.cand).WithError(err).Debug("skipping candidate")
				default:
					// Construction errors mean a schema mismatch between
					// caller and engine; surface them, don't skip past them.
					hardErrOnce.Do(func() { hardErr = err })
				}
				if bar != nil {
					bar.Increment()
				}
			}
		}()
	}

	feedErr := make(chan error, 1)
	go func() {
		defer close(jobs)
		for seq, cand := range cands {
			select {
			case jobs <- job{seq: seq, cand: cand}:
			case <-ctx.Done():
				feedErr <- ctx.Err()
				return
			}
		}
		feedErr <- nil
	}()

	go func() {
		wg.Wait()
		close(resultCh)
	}()

	results := make([]Result, 0, len(cands))
	for res := range resultCh {
		results = append(results, res)
	}

	ferr := <-feedErr
	if progress != nil {
		if ferr != nil {
			// The bar never completes on a cancelled pass; abort it so
			// Wait does not block.
			bar.Abort(true)
		}
		progress.Wait()
	}
	if ferr != nil {
		return nil, ferr
	}
	if hardErr != nil {
		return nil, hardErr
	}

	// Workers emit out of order; restore enumeration order before ranking.
	sort.Slice(results, func(i, j int) bool { return results[i].Seq < results[j].Seq })

	log.WithFields(log.Fields{
		"evaluated": evaluated,
		"skipped":   skipped,
	}).Info("screening complete")

	return &ScreenResult{
		Results:   results,
		Evaluated: evaluated,
		Skipped:   skipped,
	}, nil
}

// evaluate reads the four strikes plus the four leg prices (short legs at the
// ask row, long legs at the bid row), builds the strategy and scores it.
func (s *Screener) evaluate(j job, model probability.Model) (Result, error) {
	c := j.cand

	scStrike, err := s.Table.StrikeAt(c.ShortCall)
	if err != nil {
		return Result{}, err
	}
	lcStrike, err := s.Table.StrikeAt(c.LongCall)
	if err != nil {
		return Result{}, err
	}
	spStrike, err := s.Table.StrikeAt(c.ShortPut)
	if err != nil {
		return Result{}, err
	}
	lpStrike, err := s.Table.StrikeAt(c.LongPut)
	if err != nil {
		return Result{}, err
	}

	scPrice, err := s.Table.CallAskAt(c.ShortCall)
	if err != nil {
		return Result{}, err
	}
	lcPrice, err := s.Table.CallBidAt(c.LongCall)
	if err != nil {
		return Result{}, err
	}
	spPrice, err := s.Table.PutAskAt(c.ShortPut)
	if err != nil {
		return Result{}, err
	}
	lpPrice, err := s.Table.PutBidAt(c.LongPut)
	if err != nil {
		return Result{}, err
	}

	legs := make([]models.Position, 0, 4)
	for _, def := range []struct {
		kind    models.OptionKind
		action  models.Action
		strike  float64
		premium float64
	}{
		{models.Call, models.Sell, scStrike, scPrice},
		{models.Call, models.Buy, lcStrike, lcPrice},
		{models.Put, models.Sell, spStrike, spPrice},
		{models.Put, models.Buy, lpStrike, lpPrice},
	} {
		leg, err := models.NewPosition(def.kind, def.action, def.strike, def.premium)
		if err != nil {
			return Result{}, err
		}
		legs = append(legs, leg)
	}

	strat, err := models.NewStrategy(legs...)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Candidate:   c,
		Seq:         j.seq,
		Probability: probability.ProfitProbability(strat.NetPayoff, model),
		RiskReward:  probability.RiskReward(strat.NetPayoff, model),
	}, nil
}

func monitorCPUUsage(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			percentage, err := cpu.Percent(time.Second, false)
			if err == nil && len(percentage) > 0 {
				log.WithField("cpu_pct", percentage[0]).Debug("cpu usage")
			}
		}
	}
}
