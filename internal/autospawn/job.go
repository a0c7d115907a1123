package autospawn

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/osse101/PhotocardBot_Go/internal/drop"
	"github.com/osse101/PhotocardBot_Go/internal/logger"
)

// Spawner is the part of the drop manager the job drives
type Spawner interface {
	Active(channelID string) (*drop.Record, bool)
	ChannelCooldownRemaining(ctx context.Context, channelID string) (time.Duration, error)
	RequestSpawn(ctx context.Context, channelID string, trigger drop.Trigger) (*drop.Record, error)
}

// Roller draws uniform values in [0,1)
type Roller interface {
	Float64() float64
}

// Summary counts what one tick did
type Summary struct {
	Checked         int
	SkippedCooldown int
	SkippedActive   int
	SkippedRoll     int
	Spawned         int
	Failed          int
}

// Job is one auto-spawn pass over the opted-in channels. It keeps no
// per-channel state of its own; run it on a scheduler.
type Job struct {
	channels    ChannelStore
	spawner     Spawner
	roller      Roller
	probability float64
}

var ErrInvalidProbability = errors.New(ErrMsgInvalidProbability)

// NewJob creates the auto-spawn job
func NewJob(channels ChannelStore, spawner Spawner, roller Roller, probability float64) (*Job, error) {
	if probability < 0 || probability > 1 {
		return nil, fmt.Errorf("%w: %v", ErrInvalidProbability, probability)
	}
	return &Job{
		channels:    channels,
		spawner:     spawner,
		roller:      roller,
		probability: probability,
	}, nil
}

// Name implements worker.Named
func (j *Job) Name() string {
	return JobName
}

// Process implements worker.Job
func (j *Job) Process(ctx context.Context) error {
	_, err := j.Run(ctx)
	return err
}

// Run considers every opted-in channel once. A channel is skipped if its
// spawn cooldown has not elapsed or it already has a live drop; otherwise a
// single Bernoulli trial decides whether to spawn. Spawn failures are logged
// and the pass moves on to the next channel.
func (j *Job) Run(ctx context.Context) (Summary, error) {
	log := logger.FromContext(ctx)
	var sum Summary

	channels, err := j.channels.Channels(ctx)
	if err != nil {
		return sum, fmt.Errorf(ErrMsgListChannelsFailed, err)
	}
	log.Debug(LogMsgTickStarted, "channels", len(channels))

	for _, channelID := range channels {
		if ctx.Err() != nil {
			return sum, ctx.Err()
		}
		sum.Checked++

		remaining, err := j.spawner.ChannelCooldownRemaining(ctx, channelID)
		if err != nil {
			log.Warn(LogMsgCooldownCheckErr, "channelID", channelID, "error", err)
			sum.Failed++
			continue
		}
		if remaining > 0 {
			log.Debug(LogMsgSkipCooldown, "channelID", channelID, "remaining", remaining)
			sum.SkippedCooldown++
			continue
		}
		if _, active := j.spawner.Active(channelID); active {
			log.Debug(LogMsgSkipActive, "channelID", channelID)
			sum.SkippedActive++
			continue
		}
		if j.roller.Float64() >= j.probability {
			log.Debug(LogMsgSkipRoll, "channelID", channelID)
			sum.SkippedRoll++
			continue
		}

		if _, err := j.spawner.RequestSpawn(ctx, channelID, drop.TriggerAuto); err != nil {
			log.Warn(LogMsgSpawnFailed, "channelID", channelID, "error", err)
			sum.Failed++
			continue
		}
		sum.Spawned++
	}

	log.Info(LogMsgTickFinished,
		"checked", sum.Checked,
		"spawned", sum.Spawned,
		"skippedCooldown", sum.SkippedCooldown,
		"skippedActive", sum.SkippedActive,
		"skippedRoll", sum.SkippedRoll,
		"failed", sum.Failed)
	return sum, nil
}
