package http

import "context"

// DefaultClient backs the package-level helpers.
var DefaultClient = NewClient()

func Do(ctx context.Context, target string, opts *Options) (*Response, error) {
	return DefaultClient.Do(ctx, target, opts)
}

func Get(ctx context.Context, target string, opts *Options) (*Response, error) {
	return DefaultClient.Get(ctx, target, opts)
}

func Post(ctx context.Context, target string, opts *Options) (*Response, error) {
	return DefaultClient.Post(ctx, target, opts)
}

func Put(ctx context.Context, target string, opts *Options) (*Response, error) {
	return DefaultClient.Put(ctx, target, opts)
}

func Patch(ctx context.Context, target string, opts *Options) (*Response, error) {
	return DefaultClient.Patch(ctx, target, opts)
}

func Delete(ctx context.Context, target string, opts *Options) (*Response, error) {
	return DefaultClient.Delete(ctx, target, opts)
}
