package cmd

import (
	"github.com/chrisdamba/kioskorder/internal/api"
	"github.com/chrisdamba/kioskorder/internal/kiosk"
	"github.com/chrisdamba/kioskorder/internal/pricing"
	"github.com/chrisdamba/kioskorder/internal/session"
)

func newKiosk(opts ...kiosk.Option) *kiosk.Kiosk {
	client := api.NewClient(cfg.API.BaseURL, cfg.API.Timeout)
	return kiosk.New(client, session.NewFileCache(cfg.Session.Dir), pricing.NewPolicy(cfg.Pricing), opts...)
}

// restoredKiosk returns a kiosk resumed from the cached session.
func restoredKiosk(opts ...kiosk.Option) (*kiosk.Kiosk, error) {
	k := newKiosk(opts...)
	if err := k.Restore(); err != nil {
		return nil, userError(err)
	}
	return k, nil
}
