package directory

import (
	"context"

	"github.com/robfig/cron/v3"
)

// ScheduleReload reloads the directory on a cron schedule. The returned
// stop function waits for a running reload to finish.
func (d *Directory) ScheduleReload(spec string) (stop func(), err error) {
	c := cron.New()
	_, err = c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), d.loadTimeout)
		defer cancel()
		ix, err := d.Reload(ctx)
		if err != nil {
			d.logger.Error("scheduled directory reload failed", "error", err)
			return
		}
		d.logger.Info("scheduled directory reload", "source", ix.Source(), "players", ix.Len())
	})
	if err != nil {
		return nil, err
	}
	c.Start()
	return func() { <-c.Stop().Done() }, nil
}
