package postgres

import (
	"credprobe/internal/checkers/common"
	"credprobe/internal/core/domain"
	"credprobe/internal/core/ports"
	"credprobe/internal/platform/logx"
	"credprobe/internal/platform/registry"
)

// Auto-registro del checker al importar el package
func init() {
	if err := registry.Global().Register(
		domain.ProtocolPostgres,
		func(cfg ports.CheckerConfig, logger logx.Logger) (ports.Checker, error) {
			if err := registry.ValidateIntRange("port", cfg.Port, 1, 65535); err != nil {
				return nil, err
			}
			dialer, err := common.NewDialer(cfg.ProxyURL, cfg.Timeout)
			if err != nil {
				return nil, err
			}
			database := registry.GetStringConfig(cfg.Custom, "database", "postgres")
			return New(dialer, cfg.Timeout, database, logger), nil
		},
		ports.CheckerMetadata{
			Name:        "postgres",
			Description: "PostgreSQL authentication checker",
			Protocol:    domain.ProtocolPostgres,
			DefaultPort: 5432,
		},
	); err != nil {
		logx.New().Warn("failed to register postgres checker", "error", err.Error())
	}
}
