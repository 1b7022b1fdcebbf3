package ssh

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
		domain.ProtocolSSH,
		func(cfg ports.CheckerConfig, logger logx.Logger) (ports.Checker, error) {
			if err := registry.ValidateIntRange("port", cfg.Port, 1, 65535); err != nil {
				return nil, err
			}
			dialer, err := common.NewDialer(cfg.ProxyURL, cfg.Timeout)
			if err != nil {
				return nil, err
			}
			clientVersion := registry.GetStringConfig(cfg.Custom, "client_version", "")
			return New(dialer, cfg.Timeout, clientVersion, logger), nil
		},
		ports.CheckerMetadata{
			Name:        "ssh",
			Description: "SSH password authentication checker",
			Protocol:    domain.ProtocolSSH,
			DefaultPort: 22,
		},
	); err != nil {
		logx.New().Warn("failed to register ssh checker", "error", err.Error())
	}
}
