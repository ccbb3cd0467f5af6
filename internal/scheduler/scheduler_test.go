package scheduler_test

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/phoen88/TwitchBAPL-logs/internal/scheduler"
)

func TestNew_RejectsBadSpec(t *testing.T) {
	_, err := scheduler.New("not a cron spec", func() {}, logrus.New())
	require.Error(t, err)
}

func TestStartStop(t *testing.T) {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)

	s, err := scheduler.New("@hourly", func() {}, log)
	require.NoError(t, err)
	s.Start()
	s.Stop()
}
