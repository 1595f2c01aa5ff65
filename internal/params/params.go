// Package params implements parameter resolution for the planning engine:
// dotted hierarchical keys with per-user overrides, legacy alias fallback
// and caller-supplied defaults.
package params

import (
	"io"

	"github.com/sirupsen/logrus"

	"github.com/niveshlabs/goalplan/internal/domain"
)

// Source is a read-only parameter store. Values come back as raw dynamic
// values because legacy stores hold wrapper objects ({value: n}) alongside
// plain numbers; the Resolver normalizes them.
type Source interface {
	Lookup(path string) (any, bool)
	LookupUser(userID, path string) (any, bool)
}

// Admin extends Source with the mutation surface used by migration and
// admin tooling. The analysis engine itself only ever reads.
type Admin interface {
	Source
	Set(path string, value float64) error
	SetUser(userID, path string, value float64) error
	All() (map[string]float64, error)
}

// Resolver resolves parameters against a Source. Resolution order: user
// override, global value, legacy alias (either direction), caller default.
// A miss is never an error; it logs at debug and returns the default.
type Resolver struct {
	src Source
	log *logrus.Logger
}

// NewResolver wraps a Source. A nil logger discards all output.
func NewResolver(src Source, log *logrus.Logger) *Resolver {
	if log == nil {
		log = logrus.New()
		log.SetOutput(io.Discard)
	}
	return &Resolver{src: src, log: log}
}

// Get resolves a numeric parameter. userID may be empty when no per-user
// override should apply.
func (r *Resolver) Get(path string, def float64, userID string) float64 {
	if r == nil || r.src == nil {
		return def
	}
	candidates := append([]string{path}, Aliases(path)...)
	if userID != "" {
		for _, key := range candidates {
			if raw, ok := r.src.LookupUser(userID, key); ok {
				if v, ok := domain.Number(raw); ok {
					return v.InexactFloat64()
				}
				r.log.WithFields(logrus.Fields{"path": key, "user": userID}).
					Debug("user parameter value is not numeric, continuing resolution")
			}
		}
	}
	for _, key := range candidates {
		if raw, ok := r.src.Lookup(key); ok {
			if v, ok := domain.Number(raw); ok {
				return v.InexactFloat64()
			}
			r.log.WithField("path", key).Debug("parameter value is not numeric, using default")
			return def
		}
	}
	r.log.WithFields(logrus.Fields{"path": path, "default": def}).Debug("parameter not found, using default")
	return def
}
