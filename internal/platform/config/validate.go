package config

import (
	"fmt"
	"net/mail"
	"net/netip"
	"strings"
	"time"
	_ "time/tzdata"

	"intake/internal/locale"
	platformmail "intake/internal/platform/mail"
)

// Validate checks business rules on the loaded configuration and resolves
// derived fields. Load calls it automatically.
func (c *Config) Validate() error {
	if err := c.Clinic.validate(); err != nil {
		return fmt.Errorf("clinic: %w", err)
	}
	if err := c.Mail.validate(); err != nil {
		return fmt.Errorf("mail: %w", err)
	}
	if c.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("server.max_body_bytes must be > 0 (got %d)", c.Server.MaxBodyBytes)
	}
	if err := c.RateLimit.validate(); err != nil {
		return fmt.Errorf("ratelimit: %w", err)
	}
	return nil
}

func (r *RateLimitConfig) validate() error {
	if !r.Disabled && r.RequestsPerMinute <= 0 {
		return fmt.Errorf("requests_per_minute must be > 0 (got %d); set disabled to turn limiting off", r.RequestsPerMinute)
	}
	if r.Burst < 0 {
		return fmt.Errorf("burst must be >= 0 (got %d)", r.Burst)
	}
	proxies, err := ParseTrustedProxies(r.TrustedProxies)
	if err != nil {
		return fmt.Errorf("trusted_proxies: %w", err)
	}
	r.Proxies = proxies
	return nil
}

// ParseTrustedProxies parses a comma-separated list of CIDRs or bare IPs.
// A bare IP becomes a single-address prefix.
func ParseTrustedProxies(list string) ([]netip.Prefix, error) {
	var prefixes []netip.Prefix
	for _, entry := range strings.Split(list, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if strings.Contains(entry, "/") {
			p, err := netip.ParsePrefix(entry)
			if err != nil {
				return nil, err
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, err
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

func (c *ClinicConfig) validate() error {
	if _, err := mail.ParseAddress(c.Recipient); err != nil {
		return fmt.Errorf("recipient %q is not a valid address: %w", c.Recipient, err)
	}
	if _, err := locale.Lookup(c.Language); err != nil {
		return fmt.Errorf("language: %w", err)
	}
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return fmt.Errorf("timezone: %w", err)
	}
	c.Location = loc
	return nil
}

func (m *MailConfig) validate() error {
	m.Driver = strings.ToLower(strings.TrimSpace(m.Driver))
	switch m.Driver {
	case platformmail.DriverSMTP:
		if m.User == "" || m.Password == "" {
			return fmt.Errorf("smtp driver requires EMAIL_USER and EMAIL_PASS")
		}
		if m.SMTPHost == "" {
			return fmt.Errorf("smtp driver requires smtp_host")
		}
	case platformmail.DriverSendGrid:
		if m.SendGridAPIKey == "" {
			return fmt.Errorf("sendgrid driver requires SENDGRID_API_KEY")
		}
	case platformmail.DriverLog:
	default:
		return fmt.Errorf("unknown driver %q", m.Driver)
	}
	if m.Sender() == "" {
		return fmt.Errorf("a sender address is required (EMAIL_USER or from_address)")
	}
	if m.SendTimeout <= 0 {
		return fmt.Errorf("send_timeout must be > 0 (got %s)", m.SendTimeout)
	}
	return nil
}
