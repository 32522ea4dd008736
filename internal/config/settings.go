package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Defaults for engine tunables. Exposed so commands can tell whether a flag
// was explicitly set before applying settings.json precedence.
const (
	DefaultAgentBinary      = "claude"
	DefaultAskToolPrefix    = "mcp__ponte__ask"
	DefaultContextWindow    = 200_000
	DefaultGraceSeconds     = 5
	DefaultUpdateIntervalMS = 1500
	DefaultMinUpdateChars   = 10
)

// Settings represents the structure of ~/.ponte/settings.json
type Settings struct {
	AgentBinary        string      `json:"agent_binary,omitempty"`
	AllowedDirs        StringArray `json:"allowed_dirs,omitempty"`
	AskToolPrefix      string      `json:"ask_tool_prefix,omitempty"`
	ContextWindow      *int        `json:"context_window,omitempty"`
	Debug              *bool       `json:"debug,omitempty"`
	GraceSeconds       *int        `json:"grace_seconds,omitempty"`
	MaxLogFiles        *int        `json:"max_log_files,omitempty"`
	MinUpdateChars     *int        `json:"min_update_chars,omitempty"`
	Model              string      `json:"model,omitempty"`
	SoundEnabled       *bool       `json:"sound_enabled,omitempty"`
	SystemPromptAppend string      `json:"system_prompt_append,omitempty"`
	UpdateIntervalMS   *int        `json:"update_interval_ms,omitempty"`
}

// StringArray supports both JSON arrays and comma-separated strings
type StringArray []string

// UnmarshalJSON implements custom unmarshaling for StringArray
func (sa *StringArray) UnmarshalJSON(data []byte) error {
	// Try array format first
	var arr []string
	if err := json.Unmarshal(data, &arr); err == nil {
		*sa = arr
		return nil
	}

	// Fall back to comma-separated string
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	*sa = parseCommaSeparated(str)
	return nil
}

// parseCommaSeparated splits comma-separated string and trims whitespace
func parseCommaSeparated(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// AgentBinaryOrDefault returns the configured agent CLI binary
func (s *Settings) AgentBinaryOrDefault() string {
	if s.AgentBinary != "" {
		return ExpandPath(s.AgentBinary)
	}
	return DefaultAgentBinary
}

// AskToolPrefixOrDefault returns the tool name prefix treated as an ask request
func (s *Settings) AskToolPrefixOrDefault() string {
	if s.AskToolPrefix != "" {
		return s.AskToolPrefix
	}
	return DefaultAskToolPrefix
}

// ContextWindowOrDefault returns the assumed model context window
func (s *Settings) ContextWindowOrDefault() int {
	if s.ContextWindow != nil && *s.ContextWindow > 0 {
		return *s.ContextWindow
	}
	return DefaultContextWindow
}

// GracePeriodOrDefault returns the terminate-to-kill grace window
func (s *Settings) GracePeriodOrDefault() time.Duration {
	if s.GraceSeconds != nil && *s.GraceSeconds >= 0 {
		return time.Duration(*s.GraceSeconds) * time.Second
	}
	return DefaultGraceSeconds * time.Second
}

// UpdateIntervalOrDefault returns the minimum interval between text updates
// for one segment
func (s *Settings) UpdateIntervalOrDefault() time.Duration {
	if s.UpdateIntervalMS != nil && *s.UpdateIntervalMS > 0 {
		return time.Duration(*s.UpdateIntervalMS) * time.Millisecond
	}
	return DefaultUpdateIntervalMS * time.Millisecond
}

// MinUpdateCharsOrDefault returns the minimum segment length before the first
// text update is delivered
func (s *Settings) MinUpdateCharsOrDefault() int {
	if s.MinUpdateChars != nil && *s.MinUpdateChars >= 0 {
		return *s.MinUpdateChars
	}
	return DefaultMinUpdateChars
}

// SoundEnabledOrDefault reports whether notification sounds are on
func (s *Settings) SoundEnabledOrDefault() bool {
	return s.SoundEnabled != nil && *s.SoundEnabled
}

// LoadSettings loads settings from $PONTE_HOME/settings.json
// Returns empty Settings if file doesn't exist (not an error)
func LoadSettings() (*Settings, error) {
	path := GetSettingsPath()
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Settings{}, nil // Not an error, use defaults
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	var settings Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid settings.json: %w", err)
	}

	for i, dir := range settings.AllowedDirs {
		settings.AllowedDirs[i] = ExpandPath(dir)
	}

	return &settings, nil
}

// SaveSettings saves settings to $PONTE_HOME/settings.json
func SaveSettings(settings *Settings) error {
	path := GetSettingsPath()
	data, err := json.MarshalIndent(settings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}
