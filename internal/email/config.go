package email

import "fmt"

// Config holds the mail account configuration. It lives under the
// "email" key of the top-level config file.
type Config struct {
	// From is the sender address for outbound mail, as "Name <addr>"
	// or a bare address. Required when SMTP is configured.
	From string `yaml:"from"`

	// IMAP configures the connection used to read mail.
	IMAP IMAPConfig `yaml:"imap"`

	// SMTP configures the connection used to send mail. Optional —
	// omit to disable sending.
	SMTP SMTPConfig `yaml:"smtp"`
}

// Configured reports whether the account has usable IMAP settings.
func (c Config) Configured() bool {
	return c.IMAP.Host != "" && c.IMAP.Username != ""
}

// SMTPConfigured reports whether the account can send mail.
func (c Config) SMTPConfigured() bool {
	return c.SMTP.Host != "" && c.SMTP.Username != ""
}

// ApplyDefaults fills zero-value fields with conventional ports and
// TLS settings. Called by the parent config's applyDefaults.
func (c *Config) ApplyDefaults() {
	if c.IMAP.Port == 0 {
		c.IMAP.Port = 993
	}
	// TLS on unless the port is the plaintext convention.
	if !c.IMAP.TLS && c.IMAP.Port != 143 {
		c.IMAP.TLS = true
	}

	if c.SMTP.Host != "" {
		if c.SMTP.Port == 0 {
			c.SMTP.Port = 587
		}
		if !c.SMTP.StartTLS && c.SMTP.Port != 465 {
			c.SMTP.StartTLS = true
		}
	}
}

// Validate checks the configuration for internal consistency. A fully
// empty config is valid; email tools then report themselves as off.
func (c Config) Validate() error {
	if !c.Configured() {
		if c.IMAP.Host != "" || c.IMAP.Username != "" {
			return fmt.Errorf("email: imap.host and imap.username are both required")
		}
		return nil
	}

	if c.IMAP.Port < 1 || c.IMAP.Port > 65535 {
		return fmt.Errorf("email: imap.port %d out of range (1-65535)", c.IMAP.Port)
	}

	if c.SMTP.Host != "" {
		if c.SMTP.Username == "" {
			return fmt.Errorf("email: smtp.username is required when smtp.host is set")
		}
		if c.SMTP.Port < 1 || c.SMTP.Port > 65535 {
			return fmt.Errorf("email: smtp.port %d out of range (1-65535)", c.SMTP.Port)
		}
		if c.From == "" {
			return fmt.Errorf("email: from is required when smtp is configured")
		}
	}
	return nil
}

// IMAPConfig holds IMAP server connection parameters.
type IMAPConfig struct {
	// Host is the IMAP server hostname (e.g., "imap.gmail.com").
	Host string `yaml:"host"`

	// Port is the IMAP server port. Default 993.
	Port int `yaml:"port"`

	// Username is the IMAP login (typically the email address).
	Username string `yaml:"username"`

	// Password is the IMAP password. Supports ${ENV_VAR} expansion
	// via the config loader.
	Password string `yaml:"password"`

	// TLS controls connection encryption. Default true.
	TLS bool `yaml:"tls"`
}

// SMTPConfig holds SMTP server connection parameters.
type SMTPConfig struct {
	// Host is the SMTP server hostname.
	Host string `yaml:"host"`

	// Port is the SMTP server port. Default 587.
	Port int `yaml:"port"`

	// Username is the SMTP login.
	Username string `yaml:"username"`

	// Password is the SMTP password. Supports ${ENV_VAR} expansion.
	Password string `yaml:"password"`

	// StartTLS upgrades a plain connection with STARTTLS. Default
	// true; set false for port 465 implicit TLS.
	StartTLS bool `yaml:"starttls"`
}
