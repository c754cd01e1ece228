package globals

import (
	"context"
	"leopardweb/internal/components/telemetry"
	"leopardweb/internal/console"
	"leopardweb/internal/scrapers/banner"
)

type keyType int

const key keyType = iota

type Value struct {
	Client  *banner.Client
	Console *console.Console
	Tel     telemetry.API
}

func Set(ctx context.Context, value *Value) context.Context {
	return context.WithValue(ctx, key, value)
}

func Get(ctx context.Context) *Value {
	return ctx.Value(key).(*Value)
}
