package ports

import "backend2/domain/manifest"

// ExternalSummariser is the application-level name for the manifest
// package's consumer-defined ThemeSummariser port (spec §4.6 step 5).
// Kept as a distinct alias here, rather than referenced directly from
// application/core, so the orchestrator's dependency list reads in terms
// of ports like every other collaborator it holds.
type ExternalSummariser = manifest.ThemeSummariser
