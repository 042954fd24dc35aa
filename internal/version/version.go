// Package version provides build and version information.
package version

// Version is the current application version.
const Version = "0.3.0"

// Milestones:
// 0.3.0 - Solar system mode, galactic grid, YAML config, Prometheus metrics
// 0.2.0 - Planet surface mode, eased moves with date animation, frame dumping
// 0.1.0 - Initial release: sky view, slews, space-time controller, headless modes
