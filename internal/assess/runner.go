// Package assess orchestrates the per-structure scoring pipeline: fetch raw
// fields, compute factors, compute the collapse probability, price the
// damage and combine both into the risk score. Bridges and support
// structures run the same loop with different scorers.
package assess

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// Structure is the subset of the model types the runner needs.
type Structure interface {
	HasPoint() bool
	DisplayName() string
}

// Scorer turns one structure into its assessment record. On failure the
// partial record carries every factor computed before the error, for the
// diagnostic log entry.
type Scorer[S Structure, A any] interface {
	Score(s S) (A, error)
}

// Result is the outcome of one batch run.
type Result[A any] struct {
	Assessments        []A
	Processed          int
	Failed             int
	WithoutCoordinates int
}

// Run processes the inventory in one sequential pass. A failing structure is
// logged with its partial factor context and skipped; the run always
// continues. Structures without coordinates are counted but not scored.
// Cancellation is honored between structures.
func Run[S Structure, A any](ctx context.Context, items []S, scorer Scorer[S, A]) (Result[A], error) {
	log := zap.L().With(zap.String("component", "assess"))
	progress := rate.NewLimiter(rate.Every(time.Second), 1)

	var res Result[A]
	res.Assessments = make([]A, 0, len(items))

	for i, item := range items {
		if err := ctx.Err(); err != nil {
			return res, eris.Wrap(err, "assess: run cancelled")
		}

		if !item.HasPoint() {
			res.WithoutCoordinates++
			continue
		}

		a, err := scorer.Score(item)
		if err != nil {
			res.Failed++
			log.Warn("structure assessment failed",
				zap.String("structure", item.DisplayName()),
				zap.Any("partial", a),
				zap.Error(err))
			continue
		}

		res.Assessments = append(res.Assessments, a)
		res.Processed++

		if progress.Allow() {
			log.Info("assessment progress",
				zap.Int("done", i+1),
				zap.Int("total", len(items)))
		}
	}

	log.Info("assessment complete",
		zap.Int("processed", res.Processed),
		zap.Int("failed", res.Failed),
		zap.Int("without_coordinates", res.WithoutCoordinates))
	return res, nil
}
