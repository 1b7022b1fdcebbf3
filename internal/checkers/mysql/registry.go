package mysql

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
		domain.ProtocolMySQL,
		func(cfg ports.CheckerConfig, logger logx.Logger) (ports.Checker, error) {
			if err := registry.ValidateIntRange("port", cfg.Port, 1, 65535); err != nil {
				return nil, err
			}
			dialer, err := common.NewDialer(cfg.ProxyURL, cfg.Timeout)
			if err != nil {
				return nil, err
			}
			database := registry.GetStringConfig(cfg.Custom, "database", "")
			return New(dialer, cfg.Timeout, database, logger), nil
		},
		ports.CheckerMetadata{
			Name:        "mysql",
			Description: "MySQL authentication checker",
			Protocol:    domain.ProtocolMySQL,
			DefaultPort: 3306,
		},
	); err != nil {
		logx.New().Warn("failed to register mysql checker", "error", err.Error())
	}
}
