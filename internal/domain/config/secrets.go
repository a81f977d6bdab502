package config

// InlineSecret is a private key found written directly in the project file
type InlineSecret struct {
	Network string
	Value   string
	EnvVar  string
}

// Redacted returns the key with everything but the first and last four hex digits hidden
func (s InlineSecret) Redacted() string {
	if len(s.Value) < 12 {
		return "****"
	}
	return s.Value[:6] + "…" + s.Value[len(s.Value)-4:]
}
