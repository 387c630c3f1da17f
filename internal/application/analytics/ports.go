package analytics

import "context"

// Cache almacena resultados calculados bajo claves versionadas.
// Una implementación nil-safe permite operar sin Redis.
type Cache interface {
	BuildKey(ctx context.Context, parts ...string) (string, error)
	FetchJSON(ctx context.Context, key string, dest interface{}, loader func(context.Context) (interface{}, error)) error
}
