package devserver

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"tableflip.dev/allergy/pkg/config"
	"tableflip.dev/allergy/pkg/devserver"
	"tableflip.dev/allergy/pkg/store"
)

type DevServer struct {
	Config config.DevServer
	Logger *zap.Logger
	// Persistence defaults to a diskv store at Config.Path.
	Persistence store.Persistence
}

func (d *DevServer) Do(ctx context.Context) error {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	if d.Persistence == nil {
		p, err := store.Load(d.Config)
		if err != nil {
			return fmt.Errorf("devserver: %w", err)
		}
		d.Persistence = p
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	changes, err := d.Persistence.Watch(ctx)
	if err != nil {
		log.Warn("store watch unavailable", zap.Error(err))
	} else {
		go func() {
			for ev := range changes {
				log.Info("store changed", zap.String("date", ev.Date.String()))
			}
		}()
	}

	srv := devserver.New(d.Persistence, devserver.Options{
		CSRFToken:  d.Config.CSRFToken,
		LegacyText: d.Config.LegacyText,
		Logger:     log,
	})
	return srv.Run(ctx, d.Config.Addr)
}
