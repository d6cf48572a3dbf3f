// Package loader provides the feature registry used by the serve command.
//
// Each feature (groups, tasks, backup, integrity) implements Feature and
// registers its routes in Load. Disabled features are skipped with a log line.
package loader
