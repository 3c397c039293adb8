package services

import (
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/leaguekit/leaguebot/internal/models"
	"github.com/leaguekit/leaguebot/pkg/logger"
)

// AnnouncementStore is the persistence surface for recurring
// announcements.
type AnnouncementStore interface {
	Due(now time.Time) ([]models.Announcement, error)
	Reschedule(id uint, next time.Time) error
}

// AnnouncementSender delivers an announcement to a channel.
type AnnouncementSender interface {
	SendAnnouncement(channelID int64, content string) error
}

// AnnouncementService drains due recurring announcements on a fixed
// tick. Delivery failures are logged and the announcement is
// rescheduled anyway so a broken channel cannot wedge the queue.
type AnnouncementService struct {
	store     AnnouncementStore
	sender    AnnouncementSender
	scheduler gocron.Scheduler
	interval  time.Duration
	now       func() time.Time
}

func NewAnnouncementService(store AnnouncementStore, sender AnnouncementSender, drainInterval time.Duration) (*AnnouncementService, error) {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, err
	}

	return &AnnouncementService{
		store:     store,
		sender:    sender,
		scheduler: scheduler,
		interval:  drainInterval,
		now:       time.Now,
	}, nil
}

// Start schedules the drain job and begins ticking.
func (s *AnnouncementService) Start() error {
	_, err := s.scheduler.NewJob(
		gocron.DurationJob(s.interval),
		gocron.NewTask(s.drain),
	)
	if err != nil {
		return err
	}

	s.scheduler.Start()
	logger.Info("Announcement scheduler started", "drain_interval", s.interval.String())
	return nil
}

// Stop shuts the scheduler down, waiting for a running drain to finish.
func (s *AnnouncementService) Stop() {
	if err := s.scheduler.Shutdown(); err != nil {
		logger.Error("Failed to shut down announcement scheduler", "error", err)
	}
}

func (s *AnnouncementService) drain() {
	now := s.now()
	due, err := s.store.Due(now)
	if err != nil {
		logger.Error("Failed to load due announcements", "error", err)
		return
	}

	for _, a := range due {
		if err := s.sender.SendAnnouncement(a.ChannelID, a.Content); err != nil {
			logger.Error("Failed to deliver announcement",
				"announcement_id", a.ID, "channel_id", a.ChannelID, "error", err)
		}

		next := now.Add(time.Duration(a.IntervalMinutes) * time.Minute)
		if err := s.store.Reschedule(a.ID, next); err != nil {
			logger.Error("Failed to reschedule announcement",
				"announcement_id", a.ID, "error", err)
		}
	}
}
