package app

import "context"

func (a *App) InitTransport(ctx context.Context, c ServiceContainer) {
	a.initTransport(ctx, c)
}
