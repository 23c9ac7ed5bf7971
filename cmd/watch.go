package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"lottocheck/config"
	"lottocheck/infrastructure"
)

const watchConsumer = "lottocheck-watch"

// Watch prints draw events from NATS until ctx is cancelled
func Watch(ctx context.Context, cfg *config.Config, w io.Writer) error {
	if cfg.NATSServers == "" {
		return errors.New("NATS_SERVERS is not set")
	}

	client := infrastructure.NewNATSClient(cfg.NATSServers)
	if err := client.Connect(ctx); err != nil {
		return err
	}
	defer client.Close()

	mapper := infrastructure.NewEventSubjectMapper()
	if err := client.EnsureStream(infrastructure.DrawEventStream, mapper.GetAllSubjects()); err != nil {
		return err
	}

	var mu sync.Mutex
	err := client.Subscribe(watchConsumer, infrastructure.SubjectAllDraws, func(subject string, data []byte) error {
		line, err := formatEvent(mapper, subject, data)
		if err != nil {
			return err
		}
		mu.Lock()
		defer mu.Unlock()
		_, err = fmt.Fprintln(w, line)
		return err
	})
	if err != nil {
		return err
	}

	<-ctx.Done()
	return nil
}

func formatEvent(mapper *infrastructure.EventSubjectMapper, subject string, data []byte) (string, error) {
	envelope, err := infrastructure.DecodeEnvelope(data)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %-22s %s %s",
		envelope.Timestamp.Format("2006-01-02T15:04:05Z07:00"),
		mapper.MapSubjectToEventType(subject),
		envelope.EventID,
		envelope.Payload,
	), nil
}
