package logging

import (
	"errors"

	"github.com/getsentry/sentry-go"
	"github.com/sirupsen/logrus"
)

type sentryHub interface {
	CaptureException(exception error) *sentry.EventID
	CaptureMessage(message string) *sentry.EventID
}

// SentryHook forwards log entries of the given levels to sentry.
type SentryHook struct {
	hub    sentryHub
	levels []logrus.Level
}

func NewSentryHook(hub sentryHub, levels []logrus.Level) *SentryHook {
	return &SentryHook{
		hub:    hub,
		levels: levels,
	}
}

func (h *SentryHook) Levels() []logrus.Level {
	return h.levels
}

func (h *SentryHook) Fire(entry *logrus.Entry) error {
	if h.hub == nil {
		return nil
	}

	if err, ok := entry.Data[logrus.ErrorKey].(error); ok && err != nil {
		h.hub.CaptureException(errors.Join(errors.New(entry.Message), err))
		return nil
	}

	h.hub.CaptureMessage(entry.Message)
	return nil
}
