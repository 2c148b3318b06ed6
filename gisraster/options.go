package gisraster

import (
	"log/slog"

	"github.com/robert-malhotra/go-gisraster/internal/mif"
	"github.com/robert-malhotra/go-gisraster/internal/tile"
)

// Option configures how a dataset is opened.
type Option func(*options)

type options struct {
	logger         *slog.Logger
	definitions    map[string]string
	cache          *mif.Cache
	fileDictionary bool
	fax            tile.FaxDecoder
}

func defaultOptions() *options {
	return &options{
		logger: slog.New(slog.DiscardHandler),
	}
}

func applyOptions(opts []Option) *options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger for debug records. The default discards.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithDefinitions adds MIF type definitions, keyed by type name, for
// decoding HFA entry payloads. They override the built-in definitions and
// any read from the file's dictionary. Use LoadDefinitions to read them
// from JSON.
func WithDefinitions(defs map[string]string) Option {
	return func(o *options) {
		if o.definitions == nil {
			o.definitions = make(map[string]string, len(defs))
		}
		for name, text := range defs {
			o.definitions[name] = text
		}
	}
}

// WithCompileCache shares compiled layouts between images. A Cache is
// safe for concurrent use.
func WithCompileCache(c *mif.Cache) Option {
	return func(o *options) {
		o.cache = c
	}
}

// WithFileDictionary also decodes payloads whose types are defined only in
// the file's own dictionary.
func WithFileDictionary() Option {
	return func(o *options) {
		o.fileDictionary = true
	}
}

// WithFaxDecoder replaces the CCITT decoder used for 0xFF grid tiles.
func WithFaxDecoder(d tile.FaxDecoder) Option {
	return func(o *options) {
		o.fax = d
	}
}
