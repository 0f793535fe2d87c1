package services

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/grandpavilion/booking-backend/internal/config"
	"github.com/grandpavilion/booking-backend/internal/database"
	"github.com/grandpavilion/booking-backend/internal/models"
	"github.com/grandpavilion/booking-backend/pkg/mailer"
)

// ReminderService emails customers the day before their booking. It runs
// on a cron schedule and marks each booking so a rerun never mails twice.
type ReminderService struct {
	bookingRepo *database.BookingRepository
	mailer      mailer.Mailer
	cfg         config.BookingConfig
	cron        *cron.Cron
	logger      *logrus.Logger
}

// NewReminderService creates a new ReminderService
func NewReminderService(
	bookingRepo *database.BookingRepository,
	m mailer.Mailer,
	cfg config.BookingConfig,
	logger *logrus.Logger,
) *ReminderService {
	return &ReminderService{
		bookingRepo: bookingRepo,
		mailer:      m,
		cfg:         cfg,
		cron:        cron.New(cron.WithSeconds(), cron.WithLocation(cfg.Timezone)),
		logger:      logger,
	}
}

// Start schedules the daily reminder job
func (s *ReminderService) Start() error {
	_, err := s.cron.AddFunc(s.cfg.ReminderCronSpec, s.runJob)
	if err != nil {
		return fmt.Errorf("failed to schedule reminder job: %w", err)
	}
	s.cron.Start()
	s.logger.WithField("spec", s.cfg.ReminderCronSpec).Info("Reminder service started")
	return nil
}

// Stop stops the scheduler and waits for a running job to finish
func (s *ReminderService) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.logger.Info("Reminder service stopped")
}

func (s *ReminderService) runJob() {
	start := time.Now()
	sent, err := s.SendDueReminders()
	if err != nil {
		s.logger.WithError(err).Error("Reminder job failed")
		return
	}
	s.logger.WithFields(logrus.Fields{
		"sent":     sent,
		"duration": time.Since(start).String(),
	}).Info("Reminder job finished")
}

// SendDueReminders mails every active booking scheduled for tomorrow that
// has not been reminded yet. Returns how many reminders went out.
func (s *ReminderService) SendDueReminders() (int, error) {
	tomorrow := time.Now().In(s.cfg.Timezone).AddDate(0, 0, 1)

	due, err := s.bookingRepo.GetRemindersDue(tomorrow)
	if err != nil {
		return 0, err
	}

	sent := 0
	for i := range due {
		booking := &due[i]
		if err := s.sendReminder(booking); err != nil {
			s.logger.WithError(err).WithField("booking_number", booking.BookingNumber).
				Error("Failed to send reminder")
			continue
		}
		if err := s.bookingRepo.MarkReminderSent(booking.ID); err != nil {
			s.logger.WithError(err).WithField("booking_number", booking.BookingNumber).
				Error("Failed to mark reminder as sent")
			continue
		}
		sent++
	}
	return sent, nil
}

func (s *ReminderService) sendReminder(booking *models.Booking) error {
	body := fmt.Sprintf(
		`<h2>Booking Reminder</h2>
		<p>Dear %s,</p>
		<p>This is a reminder of your booking <strong>%s</strong> at %s
		tomorrow, %s, from %s to %s.</p>
		<p>Confirmation code: <strong>%s</strong></p>`,
		booking.CustomerName,
		booking.BookingNumber,
		booking.FacilityName,
		booking.Date.Format("2006-01-02"),
		booking.TimeSlot.Start,
		booking.TimeSlot.End,
		booking.ConfirmationCode,
	)

	return s.mailer.Send(mailer.Message{
		To:      booking.CustomerEmail,
		Subject: fmt.Sprintf("Reminder: booking %s tomorrow", booking.BookingNumber),
		HTML:    body,
	})
}
