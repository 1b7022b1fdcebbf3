package ftp

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
		domain.ProtocolFTP,
		func(cfg ports.CheckerConfig, logger logx.Logger) (ports.Checker, error) {
			if err := registry.ValidateIntRange("port", cfg.Port, 1, 65535); err != nil {
				return nil, err
			}
			dialer, err := common.NewDialer(cfg.ProxyURL, cfg.Timeout)
			if err != nil {
				return nil, err
			}
			disableEPSV := registry.GetBoolConfig(cfg.Custom, "disable_epsv", false)
			return New(dialer, cfg.Timeout, disableEPSV, logger), nil
		},
		ports.CheckerMetadata{
			Name:        "ftp",
			Description: "FTP login checker",
			Protocol:    domain.ProtocolFTP,
			DefaultPort: 21,
		},
	); err != nil {
		logx.New().Warn("failed to register ftp checker", "error", err.Error())
	}
}
