package tts

import (
	"context"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/text2audio/tts/audio"
)

// jobAttempt describes one synthesis attempt, for logging only.
type jobAttempt struct {
	segment   int
	attempt   int
	startedAt time.Time
}

// dispatch synthesizes all segments with at most cfg.Parallelism jobs
// in flight and returns the audio buffers in segment index order.
//
// Segments are admitted in index order; completion order is
// unconstrained because results land in index-keyed slots. Once a
// segment exhausts its retries no further segment starts, already
// running jobs drain and their results are discarded, and the failure
// is reported with the segment index and wrapped cause.
func (c *Converter) dispatch(ctx context.Context, segments []Segment) ([]*audio.Buffer, error) {
	results := make([]*audio.Buffer, len(segments))

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		firstErr *Error
	)
	sem := make(chan struct{}, c.cfg.Parallelism)

	failed := func() bool {
		mu.Lock()
		defer mu.Unlock()
		return firstErr != nil
	}

	for i := range segments {
		if failed() {
			break
		}
		if err := ctx.Err(); err != nil {
			mu.Lock()
			if firstErr == nil {
				firstErr = synthesisError(i, 0, err)
			}
			mu.Unlock()
			break
		}
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				mu.Lock()
				if firstErr == nil {
					firstErr = synthesisError(i, 0, err)
				}
				mu.Unlock()
				break
			}
		}

		sem <- struct{}{}
		// A failure may have been recorded while waiting for the slot.
		if failed() {
			<-sem
			break
		}
		wg.Add(1)
		go func(seg *Segment) {
			defer wg.Done()
			defer func() { <-sem }()

			buf, attempts, err := c.synthesizeSegment(ctx, seg)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				seg.status = StatusFailed
				if firstErr == nil {
					firstErr = synthesisError(seg.Index, attempts, err)
				}
				return
			}
			seg.status = StatusCompleted
			if firstErr == nil {
				results[seg.Index] = buf
			}
		}(&segments[i])
	}

	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	return results, nil
}

// synthesizeSegment runs one segment through the synthesizer under the
// retry policy and returns the buffer and the number of attempts made.
func (c *Converter) synthesizeSegment(ctx context.Context, seg *Segment) (*audio.Buffer, int, error) {
	params := VoiceParams{
		Voice:  c.cfg.Voice,
		Speed:  c.cfg.Speed,
		Volume: c.cfg.Volume,
	}

	var buf *audio.Buffer
	attempts, err := c.retry.run(ctx, func(attempt int) error {
		if attempt == 1 {
			seg.status = StatusInFlight
		} else {
			seg.status = StatusRetrying
		}

		ja := jobAttempt{segment: seg.Index, attempt: attempt, startedAt: time.Now()}
		log.Debug("synthesizing segment",
			"segment", ja.segment, "attempt", ja.attempt, "chars", len(seg.Text))

		out, err := c.synth.Synthesize(ctx, seg.Text, params)
		if err != nil {
			log.Debug("synthesis attempt failed",
				"segment", ja.segment, "attempt", ja.attempt,
				"elapsed", time.Since(ja.startedAt), "error", err)
			return err
		}
		buf = out
		return nil
	})
	if err != nil {
		return nil, attempts, err
	}
	return buf, attempts, nil
}
