package config

// ApplyDefaults fills in zero-valued fields with ovlmountd's defaults.
func ApplyDefaults(cfg *Config) {
	if cfg.BindAddr == "" {
		cfg.BindAddr = "127.0.0.1:0"
	}
	if cfg.Policy == "" {
		cfg.Policy = "union"
	}
	if cfg.Base.Scheme == "" {
		cfg.Base.Scheme = "memory"
	}
	if cfg.Overlay.Scheme == "" {
		cfg.Overlay.Scheme = "memory"
	}
	if cfg.ControlPlane.HTTPAddr == "" {
		cfg.ControlPlane.HTTPAddr = "127.0.0.1:8080"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stderr"
	}
}

// ResolvePolicy maps a policy name from configuration to its registered
// overlay.Policy constructor name, per spec §4.3's three built-ins plus the
// supplemented naive policy.
func ResolvePolicy(name string) string {
	switch name {
	case "base-only", "union", "special-files", "naive":
		return name
	default:
		return "union"
	}
}
