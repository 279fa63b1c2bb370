package loom

import "log/slog"

type Option func(*containerConfig)

type containerConfig struct {
	logger *slog.Logger
	hooks  hookSet
}

func WithLogger(logger *slog.Logger) Option {
	return func(cfg *containerConfig) {
		cfg.logger = logger
	}
}

func WithBeforeResolve(hook BeforeResolveHook) Option {
	return func(cfg *containerConfig) {
		cfg.hooks.beforeResolve = append(cfg.hooks.beforeResolve, hook)
	}
}

func WithAfterResolve(hook AfterResolveHook) Option {
	return func(cfg *containerConfig) {
		cfg.hooks.afterResolve = append(cfg.hooks.afterResolve, hook)
	}
}

func WithDisposeHook(hook DisposeHook) Option {
	return func(cfg *containerConfig) {
		cfg.hooks.onDispose = append(cfg.hooks.onDispose, hook)
	}
}

func WithOverrideHook(hook OverrideHook) Option {
	return func(cfg *containerConfig) {
		cfg.hooks.onOverride = append(cfg.hooks.onOverride, hook)
	}
}

func WithResolveObserver(observer ResolveObserver) Option {
	return func(cfg *containerConfig) {
		cfg.hooks.observers = append(cfg.hooks.observers, observer)
	}
}
