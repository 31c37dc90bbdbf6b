package domain

// Settings is the application configuration map exposed by the settings
// surface. Keys are dotted setting names; values are whatever JSON type the
// server stores. Sensitive values (API keys) are never included.
type Settings map[string]any

// SettingsValidation reports, per setting group, whether the stored values
// pass the server's own checks.
type SettingsValidation map[string]bool
