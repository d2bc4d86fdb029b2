package speechturn

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"github.com/kbukum/speechturn/audiojob"
	"github.com/kbukum/speechturn/logger"
)

// deferSynthesis creates a pending job and starts synthesis detached from
// the request. It returns false when no job could be created, in which case
// the caller synthesizes inline.
func (s *Service) deferSynthesis(ctx context.Context, t *turn, req TurnRequest, caller Caller, text string, resp *TurnResponse) bool {
	if s.deps.Jobs == nil {
		return false
	}
	job, err := s.deps.Jobs.Create(ctx, caller.UserID)
	if err != nil {
		t.log.Warn("could not create audio job, synthesizing inline", logger.ErrorFields("create_job", err))
		return false
	}
	jobID := job.ID
	resp.AudioJobID = &jobID

	bg, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.opts.DeferredTimeout)
	err = s.deferred.Go(ctx, func() {
		defer cancel()
		s.runDeferred(bg, jobID, text, req)
	})
	if err != nil {
		cancel()
		msg := describeError(fmt.Errorf("deferred synthesis rejected: %w", err))
		if ferr := s.deps.Jobs.Fail(ctx, jobID, msg); ferr != nil {
			t.log.Error("could not record rejected audio job", logger.ErrorFields("fail_job", ferr))
		}
		s.deps.Metrics.RecordJob(ctx, string(audiojob.StatusError))
		resp.TTSError = &msg
		return true
	}

	resp.AudioPending = true
	t.log.Info("audio deferred", map[string]interface{}{logger.FieldJobID: jobID})
	return true
}

// runDeferred synthesizes and publishes the job result. Panics are recorded
// as job errors.
func (s *Service) runDeferred(ctx context.Context, jobID, text string, req TurnRequest) {
	log := s.log.WithContext(ctx).WithFields(map[string]interface{}{logger.FieldJobID: jobID})
	defer func() {
		if r := recover(); r != nil {
			log.Error("deferred synthesis panicked", map[string]interface{}{
				"panic": fmt.Sprint(r),
				"stack": string(debug.Stack()),
			})
			s.publish(ctx, log, jobID, nil, fmt.Sprintf("panic: %v", r))
		}
	}()

	audio, ttsErr := s.synthesize(ctx, text, req)
	s.publish(ctx, log, jobID, audio, ttsErr)
}

func (s *Service) publish(ctx context.Context, log *logger.Logger, jobID string, audio *SynthesizedAudio, ttsErr string) {
	var err error
	status := audiojob.StatusReady
	if audio == nil {
		status = audiojob.StatusError
		err = s.deps.Jobs.Fail(ctx, jobID, ttsErr)
	} else {
		err = s.deps.Jobs.Complete(ctx, jobID, audiojob.Audio{URL: audio.URL, Base64: audio.Base64, MIMEType: audio.MIMEType})
	}
	if err != nil {
		log.Error("could not publish audio job", logger.ErrorFields("publish_job", err))
		return
	}
	s.deps.Metrics.RecordJob(ctx, string(status))
	log.Info("audio job finished", map[string]interface{}{logger.FieldStatus: string(status)})
}

// Drain waits until no deferred synthesis is running or ctx is done.
func (s *Service) Drain(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for s.deferred.InUse() > 0 {
		select {
		case <-ctx.Done():
			return fmt.Errorf("draining deferred synthesis: %w", ctx.Err())
		case <-ticker.C:
		}
	}
	return nil
}
