// Package planning is the pure computation core of the migration planner:
// risk scoring, migration-mode decisioning, the bandwidth bottleneck model,
// per-VM time estimation, the capacity-constrained day scheduler, tenant
// quota and node sizing, and target-platform gap analysis.
//
// Every function here is a pure mapping from (project configuration, VM
// list, auxiliary tables) to an output value; persistence is the caller's
// concern. Re-running any stage with unchanged inputs yields identical
// output. Concurrent runs against the same project are not serialized here:
// callers own single-writer discipline per project.
package planning
