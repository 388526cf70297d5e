// Package doctor provides environment diagnostics for gantry launches.
//
// Doctor answers "why would a launch fail on this machine" before a launch
// is attempted. Checks are grouped into four categories:
//
//   - [CategoryTools]: git, a container engine with a responding daemon,
//     and the optional gh/glab forge CLIs.
//
//   - [CategoryLayers]: the share directory and its protected prompt layers.
//     A missing protected layer makes every composition fail, so these are
//     fatal and fixable by scaffolding.
//
//   - [CategoryConfig]: semantic problems the config loader accepts, like a
//     default assistant that doesn't exist or image overrides for unknown
//     assistant names.
//
//   - [CategoryCredentials]: assistants that would be rejected by the
//     credential gate, with the remediation for each.
//
// # Usage
//
// Run diagnostics:
//
//	err := doctor.Run(ctx, cfg, false)  // check only
//	err := doctor.Run(ctx, cfg, true)   // check and fix
//
// Issues found are reported, not returned as errors; --fix repairs what has
// a known [Issue.FixAction] (currently scaffolding the share dir) and leaves
// the rest for the user.
package doctor
