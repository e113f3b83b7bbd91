package security

import "github.com/kompilat/kompilat/internal/config"

// Level is the effective admission enforcement level.
type Level string

const (
	LevelEnforce Level = "Enforce"
	LevelAudit   Level = "Audit"
)

// ResolveLevel returns the effective enforcement level. Precedence,
// highest first: the always-enforce flag, the always-audit flag, then the
// environment default (production enforces, everything else audits).
func ResolveLevel(cfg *config.Config) Level {
	if cfg.Security.AlwaysEnforce {
		return LevelEnforce
	}
	if cfg.Security.AlwaysAudit {
		return LevelAudit
	}
	if cfg.Cluster.Environment == config.EnvironmentProduction {
		return LevelEnforce
	}
	return LevelAudit
}
